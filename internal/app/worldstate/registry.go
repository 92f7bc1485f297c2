package worldstate

import (
	"sync"

	"planverse/internal/app/ports"
	"planverse/internal/domain/plan"
)

// Registry hands out one Manager per agent and serializes access to each.
// Managers themselves are single-owner; the per-agent lock at this boundary
// is what enforces that when requests arrive concurrently.
type Registry struct {
	mu       sync.Mutex
	managers map[string]*managerSlot
	events   ports.EventRepository
	config   Config
}

type managerSlot struct {
	mu      sync.Mutex
	manager *Manager
}

func NewRegistry(events ports.EventRepository, cfg Config) *Registry {
	return &Registry{
		managers: map[string]*managerSlot{},
		events:   events,
		config:   cfg,
	}
}

// With runs fn while holding the agent's lock, creating the manager on first
// use with an empty fact map.
func (r *Registry) With(agentID string, fn func(*Manager) error) error {
	r.mu.Lock()
	slot, ok := r.managers[agentID]
	if !ok {
		slot = &managerSlot{manager: NewManager(agentID, plan.State{}, r.events, r.config)}
		r.managers[agentID] = slot
	}
	r.mu.Unlock()

	slot.mu.Lock()
	defer slot.mu.Unlock()
	return fn(slot.manager)
}
