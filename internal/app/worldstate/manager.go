package worldstate

import (
	"context"
	"log"
	"time"

	"planverse/internal/app/ports"
	"planverse/internal/domain/plan"
)

const defaultHistoryLimit = 100

type Config struct {
	HistoryLimit int
	Now          func() time.Time
	Tx           ports.TxManager
}

// Manager owns one agent's live world state: the current snapshot, a bounded
// append-only history, and the registry of named transitions. It models a
// single agent executing one action at a time, so it is not safe for
// concurrent mutation; the owning task must serialize calls.
type Manager struct {
	agentID      string
	current      plan.EnvironmentState
	history      []plan.EnvironmentState
	transitions  map[string]plan.StateTransition
	historyLimit int
	events       ports.EventRepository
	tx           ports.TxManager
	now          func() time.Time
}

func NewManager(agentID string, initial plan.State, events ports.EventRepository, cfg Config) *Manager {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if initial == nil {
		initial = plan.State{}
	}
	first := plan.EnvironmentState{
		Facts:     initial.Clone(),
		Version:   1,
		Timestamp: cfg.Now(),
	}
	return &Manager{
		agentID:      agentID,
		current:      first,
		history:      []plan.EnvironmentState{first},
		transitions:  map[string]plan.StateTransition{},
		historyLimit: cfg.HistoryLimit,
		events:       events,
		tx:           cfg.Tx,
		now:          cfg.Now,
	}
}

// UpdateState merges a partial fact map into the current snapshot and pushes
// the result onto history.
func (m *Manager) UpdateState(ctx context.Context, partial plan.State) plan.EnvironmentState {
	next := m.push(m.current.Facts.Merge(partial))
	m.appendEvent(ctx, "state_updated", map[string]any{
		"version": next.Version,
		"facts":   partial.Raw(),
	})
	return next
}

// RegisterTransition registers by action name; re-registering overwrites,
// which is worth a log line but not an error.
func (m *Manager) RegisterTransition(t plan.StateTransition) {
	if _, exists := m.transitions[t.ActionName]; exists {
		log.Printf("worldstate: transition %q re-registered for agent %s, overwriting", t.ActionName, m.agentID)
	}
	m.transitions[t.ActionName] = t
}

// ApplyAction executes a registered transition by name. An unregistered name
// is an error; unmet preconditions are a normal reported branch — planning
// code probes actions speculatively, so no state changes and (false, nil)
// comes back.
func (m *Manager) ApplyAction(ctx context.Context, name string) (bool, error) {
	t, ok := m.transitions[name]
	if !ok {
		return false, ports.ErrUnknownAction
	}
	if !plan.Holds(t.Preconditions, m.current.Facts) {
		return false, nil
	}
	next := m.push(m.current.Facts.Apply(t.Effects))
	m.appendEvent(ctx, "action_applied", map[string]any{
		"action":  name,
		"version": next.Version,
	})
	return true, nil
}

func (m *Manager) CurrentState() plan.EnvironmentState {
	return m.current
}

func (m *Manager) Value(fact string) (plan.FactValue, bool) {
	v, ok := m.current.Facts[fact]
	return v, ok
}

// History returns snapshots oldest-first. Callers get the backing entries by
// value; entries are never mutated after creation.
func (m *Manager) History() []plan.EnvironmentState {
	out := make([]plan.EnvironmentState, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Manager) TransitionNames() []string {
	names := make([]string, 0, len(m.transitions))
	for name := range m.transitions {
		names = append(names, name)
	}
	return names
}

func (m *Manager) push(facts plan.State) plan.EnvironmentState {
	next := plan.EnvironmentState{
		Facts:     facts,
		Version:   m.current.Version + 1,
		Timestamp: m.now(),
	}
	m.current = next
	m.history = append(m.history, next)
	if len(m.history) > m.historyLimit {
		m.history = m.history[len(m.history)-m.historyLimit:]
	}
	return next
}

// appendEvent persists one event through the transaction manager when one is
// configured. Event loss does not invalidate the in-memory state, so failures
// are logged rather than propagated.
func (m *Manager) appendEvent(ctx context.Context, eventType string, payload map[string]any) {
	if m.events == nil {
		return
	}
	payload["agent_id"] = m.agentID
	events := []ports.StateEvent{{
		AgentID:    m.agentID,
		Type:       eventType,
		OccurredAt: m.now(),
		Payload:    payload,
	}}
	run := func(txCtx context.Context) error {
		return m.events.Append(txCtx, m.agentID, events)
	}
	var err error
	if m.tx != nil {
		err = m.tx.RunInTx(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		log.Printf("worldstate: append %s event for agent %s: %v", eventType, m.agentID, err)
	}
}
