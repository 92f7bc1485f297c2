package httpadapter

import (
	"time"

	"planverse/internal/app/sequence"
	"planverse/internal/domain/plan"
	"planverse/internal/domain/search"
)

type sequenceRequest struct {
	InitialState map[string]any          `json:"initial_state"`
	GoalState    map[string]any          `json:"goal_state"`
	Actions      []plan.ActionDefinition `json:"actions,omitempty"`
	ActionIDs    []string                `json:"action_ids,omitempty"`
	Algorithm    string                  `json:"algorithm,omitempty"`
	Heuristic    string                  `json:"heuristic,omitempty"`
	Objective    string                  `json:"objective,omitempty"`
	MaxDepth     int                     `json:"max_depth,omitempty"`
	MaxTimeMs    int64                   `json:"max_time_ms,omitempty"`
}

func (r sequenceRequest) toApp(actions []plan.Action) sequence.Request {
	algorithm := search.Algorithm(r.Algorithm)
	if algorithm == "" {
		algorithm = search.AlgorithmAStar
	}
	objective := search.Objective(r.Objective)
	if objective == "" {
		objective = search.ObjectiveCost
	}
	return sequence.Request{
		InitialState: plan.NewState(r.InitialState),
		GoalState:    plan.NewState(r.GoalState),
		Actions:      actions,
		Algorithm:    algorithm,
		Heuristic:    search.Heuristic(r.Heuristic),
		Objective:    objective,
		MaxDepth:     r.MaxDepth,
		MaxTime:      time.Duration(r.MaxTimeMs) * time.Millisecond,
	}
}

type sequenceResponse struct {
	Success       bool                  `json:"success"`
	ActionIDs     []string              `json:"action_sequence"`
	TotalCost     float64               `json:"total_cost"`
	TotalDuration float64               `json:"total_duration"`
	NodesExpanded int                   `json:"nodes_expanded"`
	PlanningMs    int64                 `json:"planning_ms"`
	ExecutionMs   int64                 `json:"execution_ms"`
	Algorithm     string                `json:"algorithm"`
	Reason        string                `json:"reason,omitempty"`
	Validation    plan.ValidationReport `json:"validation"`
	CacheHit      bool                  `json:"cache_hit"`
	ErrorMessage  string                `json:"error_message,omitempty"`
}

func toSequenceResponse(resp sequence.Response) sequenceResponse {
	return sequenceResponse{
		Success:       resp.Success,
		ActionIDs:     resp.ActionIDs,
		TotalCost:     resp.TotalCost,
		TotalDuration: resp.TotalDuration,
		NodesExpanded: resp.NodesExpanded,
		PlanningMs:    resp.PlanningTime.Milliseconds(),
		ExecutionMs:   resp.ExecutionTime.Milliseconds(),
		Algorithm:     string(resp.Algorithm),
		Reason:        string(resp.Reason),
		Validation:    resp.Validation,
		CacheHit:      resp.CacheHit,
		ErrorMessage:  resp.ErrorMessage,
	}
}

type validateRequest struct {
	InitialState map[string]any          `json:"initial_state"`
	GoalState    map[string]any          `json:"goal_state"`
	Actions      []plan.ActionDefinition `json:"actions,omitempty"`
	ActionIDs    []string                `json:"action_ids,omitempty"`
	Sequence     []string                `json:"sequence"`
}

type stateUpdateRequest struct {
	AgentID string         `json:"agent_id"`
	Facts   map[string]any `json:"facts"`
}

type stateApplyRequest struct {
	AgentID string `json:"agent_id"`
	Action  string `json:"action"`
}

type stateApplyResponse struct {
	Applied bool                  `json:"applied"`
	State   plan.EnvironmentState `json:"state"`
}

type transitionRequest struct {
	AgentID       string   `json:"agent_id"`
	ActionName    string   `json:"action_name"`
	Preconditions []string `json:"preconditions"`
	Effects       []string `json:"effects"`
}

type stateResponse struct {
	AgentID string         `json:"agent_id"`
	Facts   map[string]any `json:"facts"`
	Version int64          `json:"version"`
}
