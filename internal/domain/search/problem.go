package search

import (
	"errors"
	"time"

	"planverse/internal/domain/plan"
)

type Algorithm string

const (
	AlgorithmBFS    Algorithm = "bfs"
	AlgorithmGreedy Algorithm = "greedy"
	AlgorithmAStar  Algorithm = "astar"
)

type Heuristic string

// HeuristicGoalDistance counts goal facts not yet matched by a snapshot. It
// is admissible when every action costs one unit; with weighted costs or
// durations it can overestimate, so A* optimality only holds for unit-cost
// problems.
const HeuristicGoalDistance Heuristic = "goal_distance"

// Objective selects which scalar the search accumulates as g(n). Cost and
// duration are distinct fields on an action and are never interchangeable;
// callers must pick one explicitly.
type Objective string

const (
	ObjectiveCost     Objective = "cost"
	ObjectiveDuration Objective = "duration"
)

// FailureReason distinguishes why a search returned no plan. Exhaustion means
// the reachable space holds no solution; the bound reasons mean the search was
// cut off and a retry with larger bounds may still succeed.
type FailureReason string

const (
	ReasonNone               FailureReason = ""
	ReasonNoSolution         FailureReason = "no_solution"
	ReasonDepthExceeded      FailureReason = "depth_exceeded"
	ReasonTimeBudgetExceeded FailureReason = "time_budget_exceeded"
	ReasonNoActions          FailureReason = "no_actions"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown search algorithm")
	ErrUnknownHeuristic = errors.New("unknown heuristic")
	ErrUnknownObjective = errors.New("unknown objective")
)

const (
	DefaultMaxDepth = 50
	DefaultMaxTime  = 5 * time.Second
)

// Problem is one self-contained planning call. The planner itself is
// stateless; everything it needs travels in here.
type Problem struct {
	Initial   plan.State
	Goal      plan.State
	Actions   []plan.Action
	Algorithm Algorithm
	Heuristic Heuristic
	Objective Objective
	MaxDepth  int
	MaxTime   time.Duration
}

// Result is produced once per planning call and never mutated afterwards.
type Result struct {
	Sequence      plan.ActionSequence
	TotalCost     float64
	TotalDuration float64
	PlanningTime  time.Duration
	NodesExpanded int
	Success       bool
	Algorithm     Algorithm
	Reason        FailureReason
}
