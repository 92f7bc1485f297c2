package plan

import (
	"errors"
	"fmt"
)

type ActionType string

const (
	ActionNavigation    ActionType = "navigation"
	ActionManipulation  ActionType = "manipulation"
	ActionPerception    ActionType = "perception"
	ActionCommunication ActionType = "communication"
	ActionIdle          ActionType = "idle"
)

var (
	ErrPreconditionFailed = errors.New("action precondition failed")
	ErrInvalidAction      = errors.New("invalid action definition")
)

type PreconditionError struct {
	ActionID string
	Unmet    Clause
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: action %s requires %s", ErrPreconditionFailed.Error(), e.ActionID, e.Unmet)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPreconditionFailed
}

// Action is an immutable description of one parameterized operation. Clause
// strings are parsed once at construction; afterwards the action is evaluated
// purely against state snapshots and never mutated.
type Action struct {
	ID                 string
	Name               string
	Type               ActionType
	Parameters         map[string]string
	Preconditions      []Clause
	Effects            []Clause
	Duration           float64
	Cost               float64
	SuccessProbability float64
}

// ActionDefinition is the wire form of an action as produced by action
// libraries. The clause grammar "fact=value" is preserved verbatim.
type ActionDefinition struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Type               string            `json:"type"`
	Parameters         map[string]string `json:"parameters,omitempty"`
	Preconditions      []string          `json:"preconditions"`
	Effects            []string          `json:"effects"`
	Duration           float64           `json:"duration"`
	Cost               float64           `json:"cost"`
	SuccessProbability float64           `json:"success_probability"`
}

// NewAction parses and validates a definition. Malformed clauses are fatal
// here, at the boundary, so the planner never sees an unparseable action.
func NewAction(def ActionDefinition) (Action, error) {
	if def.ID == "" {
		return Action{}, fmt.Errorf("%w: empty id", ErrInvalidAction)
	}
	if def.Duration < 0 {
		return Action{}, fmt.Errorf("%w: action %s has negative duration", ErrInvalidAction, def.ID)
	}
	if def.Cost < 0 {
		return Action{}, fmt.Errorf("%w: action %s has negative cost", ErrInvalidAction, def.ID)
	}
	if def.SuccessProbability < 0 || def.SuccessProbability > 1 {
		return Action{}, fmt.Errorf("%w: action %s success probability out of [0,1]", ErrInvalidAction, def.ID)
	}
	pre, err := ParseClauses(def.Preconditions)
	if err != nil {
		return Action{}, fmt.Errorf("action %s preconditions: %w", def.ID, err)
	}
	eff, err := ParseClauses(def.Effects)
	if err != nil {
		return Action{}, fmt.Errorf("action %s effects: %w", def.ID, err)
	}
	name := def.Name
	if name == "" {
		name = def.ID
	}
	actionType := ActionType(def.Type)
	if actionType == "" {
		actionType = ActionIdle
	}
	prob := def.SuccessProbability
	if prob == 0 {
		prob = 1
	}
	return Action{
		ID:                 def.ID,
		Name:               name,
		Type:               actionType,
		Parameters:         def.Parameters,
		Preconditions:      pre,
		Effects:            eff,
		Duration:           def.Duration,
		Cost:               def.Cost,
		SuccessProbability: prob,
	}, nil
}

// NewActions converts a whole definition list, failing on the first invalid
// entry.
func NewActions(defs []ActionDefinition) ([]Action, error) {
	out := make([]Action, 0, len(defs))
	for _, def := range defs {
		a, err := NewAction(def)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// CanExecute reports whether every precondition holds in the state. An empty
// precondition list is trivially executable.
func (a Action) CanExecute(state State) bool {
	return Holds(a.Preconditions, state)
}

// Execute returns a new state with the action's effects applied. The input
// state is never mutated; identical (state, action) pairs always produce
// identical results.
func (a Action) Execute(state State) (State, error) {
	if unmet, failed := firstUnmet(a.Preconditions, state); failed {
		return nil, &PreconditionError{ActionID: a.ID, Unmet: unmet}
	}
	return state.Apply(a.Effects), nil
}

// Definition round-trips the action back to its wire form.
func (a Action) Definition() ActionDefinition {
	pre := make([]string, 0, len(a.Preconditions))
	for _, c := range a.Preconditions {
		pre = append(pre, c.String())
	}
	eff := make([]string, 0, len(a.Effects))
	for _, c := range a.Effects {
		eff = append(eff, c.String())
	}
	return ActionDefinition{
		ID:                 a.ID,
		Name:               a.Name,
		Type:               string(a.Type),
		Parameters:         a.Parameters,
		Preconditions:      pre,
		Effects:            eff,
		Duration:           a.Duration,
		Cost:               a.Cost,
		SuccessProbability: a.SuccessProbability,
	}
}
