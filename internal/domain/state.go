// Package domain holds the coffee machine's inventory model, its recipe
// catalog, and the pure operations that move the machine from one state to
// the next. Nothing in this package performs I/O.
package domain

import "fmt"

// Default container capacities used when a machine record is first created.
const (
	DefaultWaterCapacityML = 2000
	DefaultCoffeeCapacityG = 500
)

// State is the machine's consumable inventory together with its fixed
// container capacities. It is passed by value: operations return an updated
// copy and never touch the caller's State.
type State struct {
	WaterML         int `json:"water_ml" yaml:"water_ml"`
	CoffeeG         int `json:"coffee_g" yaml:"coffee_g"`
	WaterCapacityML int `json:"water_capacity_ml" yaml:"water_capacity_ml"`
	CoffeeCapacityG int `json:"coffee_capacity_g" yaml:"coffee_capacity_g"`
}

// NewState returns an empty machine with the default capacities.
func NewState() State {
	return NewStateWithCapacity(DefaultWaterCapacityML, DefaultCoffeeCapacityG)
}

// NewStateWithCapacity returns an empty machine with the given capacities.
func NewStateWithCapacity(waterCapacityML, coffeeCapacityG int) State {
	return State{
		WaterCapacityML: waterCapacityML,
		CoffeeCapacityG: coffeeCapacityG,
	}
}

// Validate checks the container invariants:
// 0 <= water <= water capacity and 0 <= coffee <= coffee capacity, with both
// capacities at least 1.
func (s State) Validate() error {
	v := NewValidationError("machine state")
	if s.WaterCapacityML < 1 {
		v.AddError(fmt.Sprintf("water capacity must be at least 1 ml, got %d", s.WaterCapacityML))
	}
	if s.CoffeeCapacityG < 1 {
		v.AddError(fmt.Sprintf("coffee capacity must be at least 1 g, got %d", s.CoffeeCapacityG))
	}
	if s.WaterML < 0 || s.WaterML > s.WaterCapacityML {
		v.AddError(fmt.Sprintf("water level %d ml outside [0, %d]", s.WaterML, s.WaterCapacityML))
	}
	if s.CoffeeG < 0 || s.CoffeeG > s.CoffeeCapacityG {
		v.AddError(fmt.Sprintf("coffee level %d g outside [0, %d]", s.CoffeeG, s.CoffeeCapacityG))
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// ValidationError collects every invariant a State breaks.
type ValidationError struct {
	// Entity is the name of what failed validation.
	Entity string

	// Errors holds one message per broken invariant.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError appends a message.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors reports whether any message was added.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates an empty ValidationError for entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
