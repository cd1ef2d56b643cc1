package coffee

import (
	"context"
	"fmt"
	"strings"

	"coffeemachine/internal/domain"
)

// Execute runs one bus command and describes the outcome as an event. It
// never returns an error: failures are reported inside the event.
func (s *Service) Execute(ctx context.Context, cmd Command) *MachineEvent {
	event := newEvent(cmd)

	switch cmd.Type {
	case CommandBrew:
		res, err := s.Brew(ctx, strings.TrimSpace(cmd.Drink))
		if err != nil {
			return event.fail(err)
		}
		return event.succeed(res.Message, res.State)

	case CommandFillWater:
		res, err := s.FillWater(ctx, cmd.AmountML)
		if err != nil {
			return event.fail(err)
		}
		return event.succeed(res.Message, res.State)

	case CommandFillCoffee:
		res, err := s.FillCoffee(ctx, cmd.AmountG)
		if err != nil {
			return event.fail(err)
		}
		return event.succeed(res.Message, res.State)

	case CommandStatus:
		state, err := s.Status(ctx)
		if err != nil {
			return event.fail(err)
		}
		return event.succeed("", state)

	case CommandRecipes:
		event.OK = true
		event.Recipes = s.Recipes()
		return event

	default:
		return event.fail(unknownCommand(cmd.Type))
	}
}

func unknownCommand(t CommandType) error {
	return &domain.Error{
		Kind:   domain.KindInvalidInput,
		Reason: domain.ErrUnknownCommand,
		Message: fmt.Sprintf("Unknown command type '%s'. Allowed: %s, %s, %s, %s, %s.",
			t, CommandBrew, CommandFillWater, CommandFillCoffee, CommandStatus, CommandRecipes),
	}
}

// invalidPayload describes a command that could not be decoded at all.
func invalidPayload(err error) error {
	return &domain.Error{
		Kind:    domain.KindInvalidInput,
		Reason:  domain.ErrUnknownCommand,
		Message: fmt.Sprintf("Invalid command payload: %v", err),
		Err:     err,
	}
}
