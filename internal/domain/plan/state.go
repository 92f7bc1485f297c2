package plan

import (
	"sort"
	"strings"
	"time"
)

// State is a flat fact map. All transforms are functional: callers receive a
// fresh map and the input is never touched, which the planner relies on when
// it re-expands memoized nodes.
type State map[string]FactValue

// NewState normalizes a raw fact map (JSON decoding yields bool / float64 /
// string values) into canonical form.
func NewState(raw map[string]any) State {
	s := make(State, len(raw))
	for k, v := range raw {
		s[k] = ParseFactValue(v)
	}
	return s
}

func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a new state with the partial map applied on top.
func (s State) Merge(partial State) State {
	out := s.Clone()
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// Apply returns a new state with each effect clause assigned.
func (s State) Apply(effects []Clause) State {
	out := s.Clone()
	for _, c := range effects {
		out[c.Fact] = c.Value
	}
	return out
}

// Satisfies reports whether every goal fact matches this state after
// normalization. Extra facts in the state are ignored; a goal fact missing
// from the state fails.
func (s State) Satisfies(goal State) bool {
	for fact, want := range goal {
		got, ok := s[fact]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// Fingerprint is a deterministic serialization over sorted fact names, used
// as the planner's visited-set key and as an input to request fingerprints.
func (s State) Fingerprint() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(s[k].Canonical())
	}
	return b.String()
}

// Raw converts back to a plain map for JSON responses.
func (s State) Raw() map[string]any {
	out := make(map[string]any, len(s))
	for k, v := range s {
		switch v.Kind {
		case FactBool:
			out[k] = v.Bool
		case FactNumber:
			out[k] = v.Num
		default:
			out[k] = v.Text
		}
	}
	return out
}

// EnvironmentState is one versioned snapshot of an agent's world. Snapshots
// are immutable once recorded; the state manager only ever appends new ones.
type EnvironmentState struct {
	Facts     State     `json:"facts"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// StateTransition binds an action name to the precondition/effect pair the
// state manager applies when that action is executed by name. Immutable after
// registration.
type StateTransition struct {
	ActionName    string
	Preconditions []Clause
	Effects       []Clause
}

// NewStateTransition parses raw clause strings into a transition.
func NewStateTransition(actionName string, preconditions, effects []string) (StateTransition, error) {
	pre, err := ParseClauses(preconditions)
	if err != nil {
		return StateTransition{}, err
	}
	eff, err := ParseClauses(effects)
	if err != nil {
		return StateTransition{}, err
	}
	return StateTransition{ActionName: actionName, Preconditions: pre, Effects: eff}, nil
}
