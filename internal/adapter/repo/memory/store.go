package memory

import (
	"sync"

	"planverse/internal/app/ports"
	"planverse/internal/domain/plan"
)

// Store is the shared backing map set for the in-memory repos. mu guards the
// maps so individual repo calls are safe under concurrent requests; txMu
// serializes whole transactions so a read-then-write pipeline inside RunInTx
// never interleaves with another one.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	executions  map[string]ports.PlanExecutionRecord
	definitions map[string]plan.ActionDefinition
	events      map[string][]ports.StateEvent
}

func NewStore() *Store {
	return &Store{
		executions:  map[string]ports.PlanExecutionRecord{},
		definitions: map[string]plan.ActionDefinition{},
		events:      map[string][]ports.StateEvent{},
	}
}
