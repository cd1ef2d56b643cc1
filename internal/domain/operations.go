package domain

import (
	"fmt"
	"strings"
)

// Brew makes one drink, taking its recipe out of the containers.
//
// Checks run in a fixed order and the first failure wins: unknown drink,
// both containers empty, water empty, coffee empty, not enough water, not
// enough coffee.
func Brew(s State, drink string) (State, error) {
	need, ok := LookupRecipe(drink)
	if !ok {
		return s, unknownDrink(drink)
	}

	label := Label(drink)

	if s.WaterML <= 0 && s.CoffeeG <= 0 {
		return s, newError(KindInsufficientResource, ErrEmptyContainer,
			"Cannot brew %s: both containers are empty. Please fill water and coffee.", label)
	}
	if s.WaterML <= 0 {
		return s, newError(KindInsufficientResource, ErrEmptyContainer,
			"Cannot brew %s: water container is empty. Please fill water.", label)
	}
	if s.CoffeeG <= 0 {
		return s, newError(KindInsufficientResource, ErrEmptyContainer,
			"Cannot brew %s: coffee container is empty. Please fill coffee.", label)
	}

	if s.WaterML < need.WaterML {
		return s, newError(KindInsufficientResource, ErrInsufficientWater,
			"Not enough water for %s. Need %d ml, have %d ml.", label, need.WaterML, s.WaterML)
	}
	if s.CoffeeG < need.CoffeeG {
		return s, newError(KindInsufficientResource, ErrInsufficientCoffee,
			"Not enough coffee for %s. Need %d g, have %d g.", label, need.CoffeeG, s.CoffeeG)
	}

	s.WaterML -= need.WaterML
	s.CoffeeG -= need.CoffeeG
	return s, nil
}

func unknownDrink(drink string) *Error {
	msg := fmt.Sprintf("Unknown drink type '%s'. Allowed: %s.", drink, strings.Join(drinkNames, ", "))
	if name, ok := suggestDrink(drink); ok {
		msg += fmt.Sprintf(" Did you mean '%s'?", name)
	}
	return &Error{Kind: KindInvalidInput, Reason: ErrUnknownDrink, Message: msg}
}

// FillWater adds amountML of water.
func FillWater(s State, amountML int) (State, error) {
	if amountML <= 0 {
		return s, newError(KindInvalidInput, ErrInvalidAmount, "Water amount must be greater than 0 ml.")
	}
	if amountML > s.WaterCapacityML-s.WaterML {
		return s, newError(KindCapacityViolation, ErrOverflow,
			"Filling %d ml would overflow the water container. Current: %d ml, capacity: %d ml.",
			amountML, s.WaterML, s.WaterCapacityML)
	}
	s.WaterML += amountML
	return s, nil
}

// FillCoffee adds amountG of coffee grounds.
func FillCoffee(s State, amountG int) (State, error) {
	if amountG <= 0 {
		return s, newError(KindInvalidInput, ErrInvalidAmount, "Coffee amount must be greater than 0 g.")
	}
	if amountG > s.CoffeeCapacityG-s.CoffeeG {
		return s, newError(KindCapacityViolation, ErrOverflow,
			"Filling %d g would overflow the coffee container. Current: %d g, capacity: %d g.",
			amountG, s.CoffeeG, s.CoffeeCapacityG)
	}
	s.CoffeeG += amountG
	return s, nil
}

// MissingWaterAmount is the error for a water fill with no amount at all.
func MissingWaterAmount() *Error {
	return newError(KindInvalidInput, ErrInvalidAmount, "Please enter a water amount (ml).")
}

// MissingCoffeeAmount is the error for a coffee fill with no amount at all.
func MissingCoffeeAmount() *Error {
	return newError(KindInvalidInput, ErrInvalidAmount, "Please enter a coffee amount (g).")
}
