package library

import (
	"context"
	"errors"
	"fmt"

	"planverse/internal/app/ports"
	"planverse/internal/domain/plan"
)

var ErrActionNotFound = errors.New("action not found in library")

// UseCase resolves action definitions into validated plan.Action values. The
// provider (static JSON directory in the default deployment) is the source of
// truth; a repository, when configured, mirrors definitions so they survive
// restarts and can be listed without touching the provider.
type UseCase struct {
	Provider ports.LibraryProvider
	Repo     ports.ActionDefinitionRepository
	Tx       ports.TxManager
}

// Load parses every definition the provider knows. Malformed clauses fail the
// whole load: a half-usable action library is worse than none.
func (u UseCase) Load(ctx context.Context) ([]plan.Action, error) {
	defs, err := u.definitions(ctx)
	if err != nil {
		return nil, err
	}
	return plan.NewActions(defs)
}

// Resolve maps requested IDs onto loaded actions, preserving request order.
func (u UseCase) Resolve(ctx context.Context, ids []string) ([]plan.Action, error) {
	actions, err := u.Load(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]plan.Action, len(actions))
	for _, a := range actions {
		byID[a.ID] = a
	}
	out := make([]plan.Action, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrActionNotFound, id)
		}
		out = append(out, a)
	}
	return out, nil
}

// Sync pushes provider definitions into the repository as one transaction, so
// a half-synced library is never observable.
func (u UseCase) Sync(ctx context.Context) error {
	if u.Repo == nil {
		return nil
	}
	defs, err := u.definitions(ctx)
	if err != nil {
		return err
	}
	upsertAll := func(txCtx context.Context) error {
		for _, def := range defs {
			if err := u.Repo.Upsert(txCtx, def); err != nil {
				return fmt.Errorf("sync action %s: %w", def.ID, err)
			}
		}
		return nil
	}
	if u.Tx == nil {
		return upsertAll(ctx)
	}
	return u.Tx.RunInTx(ctx, upsertAll)
}

func (u UseCase) definitions(ctx context.Context) ([]plan.ActionDefinition, error) {
	if u.Provider != nil {
		return u.Provider.Definitions(ctx)
	}
	if u.Repo != nil {
		return u.Repo.List(ctx)
	}
	return nil, nil
}
