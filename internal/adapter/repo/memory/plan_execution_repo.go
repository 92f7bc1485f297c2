package memory

import (
	"context"

	"planverse/internal/app/ports"
)

type PlanExecutionRepo struct {
	store *Store
}

func NewPlanExecutionRepo(store *Store) PlanExecutionRepo {
	return PlanExecutionRepo{store: store}
}

func (r PlanExecutionRepo) GetByFingerprint(_ context.Context, fingerprint string) (*ports.PlanExecutionRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.executions[fingerprint]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := rec
	return &out, nil
}

func (r PlanExecutionRepo) Save(_ context.Context, record ports.PlanExecutionRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.executions[record.Fingerprint]; exists {
		return ports.ErrConflict
	}
	r.store.executions[record.Fingerprint] = record
	return nil
}
