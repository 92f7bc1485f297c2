package memory

import (
	"context"
	"sort"

	"planverse/internal/app/ports"
	"planverse/internal/domain/plan"
)

type ActionDefinitionRepo struct {
	store *Store
}

func NewActionDefinitionRepo(store *Store) ActionDefinitionRepo {
	return ActionDefinitionRepo{store: store}
}

func (r ActionDefinitionRepo) Upsert(_ context.Context, def plan.ActionDefinition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.definitions[def.ID] = def
	return nil
}

func (r ActionDefinitionRepo) GetByID(_ context.Context, id string) (plan.ActionDefinition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	def, ok := r.store.definitions[id]
	if !ok {
		return plan.ActionDefinition{}, ports.ErrNotFound
	}
	return def, nil
}

func (r ActionDefinitionRepo) List(_ context.Context) ([]plan.ActionDefinition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]plan.ActionDefinition, 0, len(r.store.definitions))
	for _, def := range r.store.definitions {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
