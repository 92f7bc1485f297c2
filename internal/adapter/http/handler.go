package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"planverse/internal/app/library"
	"planverse/internal/app/ports"
	"planverse/internal/app/sequence"
	"planverse/internal/app/worldstate"
	"planverse/internal/domain/plan"
)

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	SequenceUC *sequence.UseCase
	LibraryUC  library.UseCase
	States     *worldstate.Registry
	KPI        kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	planGroup := s.Group("/api/plan")
	planGroup.POST("/sequence", h.sequence)
	planGroup.POST("/validate", h.validate)
	planGroup.GET("/statistics", h.statistics)

	s.GET("/api/actions", h.actions)

	stateGroup := s.Group("/api/state")
	stateGroup.GET("", h.state)
	stateGroup.GET("/history", h.stateHistory)
	stateGroup.POST("/update", h.stateUpdate)
	stateGroup.POST("/apply", h.stateApply)
	stateGroup.POST("/transitions", h.stateTransitions)

	s.GET("/ops/kpi", h.kpi)
}

func (h Handler) sequence(c context.Context, ctx *app.RequestContext) {
	var body sequenceRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	actions, err := h.resolveActions(c, body.Actions, body.ActionIDs)
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.SequenceUC.GenerateSequence(c, body.toApp(actions))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toSequenceResponse(resp))
}

func (h Handler) validate(c context.Context, ctx *app.RequestContext) {
	var body validateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	actions, err := h.resolveActions(c, body.Actions, body.ActionIDs)
	if err != nil {
		writeError(ctx, err)
		return
	}

	report, err := h.SequenceUC.Validate(
		plan.NewState(body.InitialState),
		plan.NewState(body.GoalState),
		actions,
		body.Sequence,
	)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, report)
}

func (h Handler) statistics(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.SequenceUC.Statistics())
}

func (h Handler) actions(c context.Context, ctx *app.RequestContext) {
	actions, err := h.LibraryUC.Load(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	defs := make([]plan.ActionDefinition, 0, len(actions))
	for _, a := range actions {
		defs = append(defs, a.Definition())
	}
	ctx.JSON(consts.StatusOK, map[string]any{"actions": defs})
}

func (h Handler) state(_ context.Context, ctx *app.RequestContext) {
	agentID, err := requireAgentID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var out stateResponse
	_ = h.States.With(agentID, func(m *worldstate.Manager) error {
		current := m.CurrentState()
		out = stateResponse{AgentID: agentID, Facts: current.Facts.Raw(), Version: current.Version}
		return nil
	})
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) stateHistory(_ context.Context, ctx *app.RequestContext) {
	agentID, err := requireAgentID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit := 0
	if raw := string(ctx.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	var history []plan.EnvironmentState
	_ = h.States.With(agentID, func(m *worldstate.Manager) error {
		history = m.History()
		return nil
	})
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	ctx.JSON(consts.StatusOK, map[string]any{"agent_id": agentID, "history": history})
}

func (h Handler) stateUpdate(c context.Context, ctx *app.RequestContext) {
	var body stateUpdateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if strings.TrimSpace(body.AgentID) == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_agent_id", "agent_id is required")
		return
	}
	var out stateResponse
	_ = h.States.With(body.AgentID, func(m *worldstate.Manager) error {
		next := m.UpdateState(c, plan.NewState(body.Facts))
		out = stateResponse{AgentID: body.AgentID, Facts: next.Facts.Raw(), Version: next.Version}
		return nil
	})
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) stateApply(c context.Context, ctx *app.RequestContext) {
	var body stateApplyRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if strings.TrimSpace(body.AgentID) == "" || strings.TrimSpace(body.Action) == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "agent_id and action are required")
		return
	}
	var out stateApplyResponse
	err := h.States.With(body.AgentID, func(m *worldstate.Manager) error {
		applied, err := m.ApplyAction(c, body.Action)
		if err != nil {
			return err
		}
		out = stateApplyResponse{Applied: applied, State: m.CurrentState()}
		return nil
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) stateTransitions(_ context.Context, ctx *app.RequestContext) {
	var body transitionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if strings.TrimSpace(body.AgentID) == "" || strings.TrimSpace(body.ActionName) == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "agent_id and action_name are required")
		return
	}
	t, err := plan.NewStateTransition(body.ActionName, body.Preconditions, body.Effects)
	if err != nil {
		writeError(ctx, err)
		return
	}
	_ = h.States.With(body.AgentID, func(m *worldstate.Manager) error {
		m.RegisterTransition(t)
		return nil
	})
	ctx.JSON(consts.StatusOK, map[string]any{"registered": body.ActionName})
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "kpi_unavailable", "kpi recorder not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

// resolveActions accepts inline definitions, library IDs, or both. Inline
// definitions win on ID collisions so callers can override a library entry in
// one request.
func (h Handler) resolveActions(c context.Context, inline []plan.ActionDefinition, ids []string) ([]plan.Action, error) {
	var out []plan.Action
	if len(ids) > 0 {
		resolved, err := h.LibraryUC.Resolve(c, ids)
		if err != nil {
			return nil, err
		}
		out = resolved
	}
	if len(inline) > 0 {
		parsed, err := plan.NewActions(inline)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(parsed))
		for _, a := range parsed {
			seen[a.ID] = struct{}{}
		}
		kept := parsed
		for _, a := range out {
			if _, dup := seen[a.ID]; !dup {
				kept = append(kept, a)
			}
		}
		out = kept
	}
	return out, nil
}

var ErrMissingAgentID = errors.New("missing agent_id query parameter")

func requireAgentID(ctx *app.RequestContext) (string, error) {
	agentID := strings.TrimSpace(string(ctx.Query("agent_id")))
	if agentID == "" {
		return "", ErrMissingAgentID
	}
	return agentID, nil
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	var malformed *plan.MalformedClauseError
	switch {
	case errors.Is(err, ErrMissingAgentID):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_agent_id", err.Error())
	case errors.As(err, &malformed):
		writeErrorBody(ctx, consts.StatusBadRequest, "malformed_clause", err.Error())
	case errors.Is(err, plan.ErrInvalidAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_action", err.Error())
	case errors.Is(err, library.ErrActionNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "action_not_found", err.Error())
	case errors.Is(err, ports.ErrUnknownAction):
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_action", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, sequence.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
