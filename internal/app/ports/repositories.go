package ports

import (
	"context"
	"time"

	"planverse/internal/domain/plan"
	"planverse/internal/domain/search"
)

// PlanExecutionRecord is one completed planning call keyed by its request
// fingerprint. It doubles as the durable layer of the sequencer cache: two
// requests with the same fingerprint resolve to the same record.
type PlanExecutionRecord struct {
	ID            string
	Fingerprint   string
	Algorithm     search.Algorithm
	Objective     search.Objective
	ActionIDs     []string
	TotalCost     float64
	PlanningTime  time.Duration
	NodesExpanded int
	Success       bool
	Reason        search.FailureReason
	CreatedAt     time.Time
}

type PlanExecutionRepository interface {
	GetByFingerprint(ctx context.Context, fingerprint string) (*PlanExecutionRecord, error)
	Save(ctx context.Context, record PlanExecutionRecord) error
}

type ActionDefinitionRepository interface {
	Upsert(ctx context.Context, def plan.ActionDefinition) error
	GetByID(ctx context.Context, id string) (plan.ActionDefinition, error)
	List(ctx context.Context) ([]plan.ActionDefinition, error)
}

// StateEvent is a recorded world-state change for one agent.
type StateEvent struct {
	AgentID    string
	Type       string
	OccurredAt time.Time
	Payload    map[string]any
}

type EventRepository interface {
	Append(ctx context.Context, agentID string, events []StateEvent) error
	ListByAgentID(ctx context.Context, agentID string, limit int) ([]StateEvent, error)
}
