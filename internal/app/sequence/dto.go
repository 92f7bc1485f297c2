package sequence

import (
	"time"

	"planverse/internal/domain/plan"
	"planverse/internal/domain/search"
)

type Request struct {
	InitialState plan.State
	GoalState    plan.State
	Actions      []plan.Action
	Algorithm    search.Algorithm
	Heuristic    search.Heuristic
	Objective    search.Objective
	MaxDepth     int
	MaxTime      time.Duration
}

type Response struct {
	Success       bool                  `json:"success"`
	ActionIDs     []string              `json:"action_ids"`
	TotalCost     float64               `json:"total_cost"`
	TotalDuration float64               `json:"total_duration"`
	NodesExpanded int                   `json:"nodes_expanded"`
	PlanningTime  time.Duration         `json:"planning_time"`
	ExecutionTime time.Duration         `json:"execution_time"`
	Algorithm     search.Algorithm      `json:"algorithm"`
	Reason        search.FailureReason  `json:"reason,omitempty"`
	Validation    plan.ValidationReport `json:"validation"`
	CacheHit      bool                  `json:"cache_hit"`
	ErrorMessage  string                `json:"error_message,omitempty"`
}

// Statistics is a read-only snapshot of one sequencer instance's counters.
type Statistics struct {
	Requests        uint64        `json:"requests"`
	Successes       uint64        `json:"successes"`
	Failures        uint64        `json:"failures"`
	Rejected        uint64        `json:"rejected"`
	CacheHits       uint64        `json:"cache_hits"`
	CacheSize       int           `json:"cache_size"`
	AvgPlanningTime time.Duration `json:"avg_planning_time"`
	DefaultMaxDepth int           `json:"default_max_depth"`
	DefaultMaxTime  time.Duration `json:"default_max_time"`
	CacheCapacity   int           `json:"cache_capacity"`
}
