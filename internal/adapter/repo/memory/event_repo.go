package memory

import (
	"context"

	"planverse/internal/app/ports"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, agentID string, events []ports.StateEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[agentID] = append(r.store.events[agentID], events...)
	return nil
}

func (r EventRepo) ListByAgentID(_ context.Context, agentID string, limit int) ([]ports.StateEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	events, ok := r.store.events[agentID]
	if !ok || len(events) == 0 {
		return nil, ports.ErrNotFound
	}
	// Newest first, to match the database-backed repo.
	out := make([]ports.StateEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
