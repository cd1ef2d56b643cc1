package coffee

import (
	"github.com/google/uuid"

	"coffeemachine/internal/domain"
)

// CommandType names what a bus command asks the machine to do.
type CommandType string

const (
	CommandBrew       CommandType = "brew"
	CommandFillWater  CommandType = "fill_water"
	CommandFillCoffee CommandType = "fill_coffee"
	CommandStatus     CommandType = "status"
	CommandRecipes    CommandType = "recipes"
)

// Command is the JSON payload consumed from the command topic. Amounts are
// pointers so an omitted amount can be told apart from zero.
type Command struct {
	ID       string      `json:"id"`
	Type     CommandType `json:"type"`
	Drink    string      `json:"drink,omitempty"`
	AmountML *int        `json:"amount_ml,omitempty"`
	AmountG  *int        `json:"amount_g,omitempty"`
}

// MachineEvent is published for every command, successful or not.
type MachineEvent struct {
	ID        string                   `json:"id"`
	CommandID string                   `json:"command_id,omitempty"`
	Type      CommandType              `json:"type"`
	OK        bool                     `json:"ok"`
	Message   string                   `json:"message,omitempty"`
	State     *domain.State            `json:"state,omitempty"`
	Recipes   map[string]domain.Recipe `json:"recipes,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Kind      string                   `json:"kind,omitempty"`
	Status    int                      `json:"status,omitempty"`
}

func newEvent(cmd Command) *MachineEvent {
	return &MachineEvent{
		ID:        uuid.NewString(),
		CommandID: cmd.ID,
		Type:      cmd.Type,
	}
}

func (e *MachineEvent) succeed(message string, state domain.State) *MachineEvent {
	e.OK = true
	e.Message = message
	e.State = &state
	return e
}

func (e *MachineEvent) fail(err error) *MachineEvent {
	merr := domain.Unexpected("handling command", err)
	e.OK = false
	e.Error = merr.Error()
	e.Kind = merr.Kind.String()
	e.Status = merr.StatusCode()
	return e
}
