package ports

import (
	"context"

	"planverse/internal/domain/plan"
)

// LibraryProvider supplies fully-formed action definitions from wherever the
// deployment keeps them (static JSON directory, database, upstream service).
type LibraryProvider interface {
	Definitions(ctx context.Context) ([]plan.ActionDefinition, error)
}
