package sequence

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"planverse/internal/app/ports"
	"planverse/internal/domain/plan"
	"planverse/internal/domain/search"
)

var ErrInvalidRequest = errors.New("invalid sequencing request")

type Config struct {
	MaxDepth      int
	MaxTime       time.Duration
	CacheCapacity int
}

// UseCase orchestrates one planning pipeline: validate, consult the cache,
// plan, replay-validate, record. All mutable state (cache, counters) belongs
// to the instance, so independent sequencers (one per agent fleet, in tests)
// never share anything.
type UseCase struct {
	planner  search.Planner
	execRepo ports.PlanExecutionRepository
	tx       ports.TxManager
	metrics  ports.SequenceMetrics
	cache    *resultCache
	config   Config
	now      func() time.Time

	mu              sync.Mutex
	requests        uint64
	successes       uint64
	failures        uint64
	rejected        uint64
	cacheHits       uint64
	planningTimeSum time.Duration
	planned         uint64
}

func NewUseCase(execRepo ports.PlanExecutionRepository, tx ports.TxManager, metrics ports.SequenceMetrics, cfg Config) *UseCase {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = search.DefaultMaxDepth
	}
	if cfg.MaxTime <= 0 {
		cfg.MaxTime = search.DefaultMaxTime
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = defaultCacheCapacity
	}
	return &UseCase{
		planner:  search.Planner{},
		execRepo: execRepo,
		tx:       tx,
		metrics:  metrics,
		cache:    newResultCache(cfg.CacheCapacity),
		config:   cfg,
		now:      time.Now,
	}
}

// WithNow fixes the clock, for tests.
func (u *UseCase) WithNow(now func() time.Time) *UseCase {
	u.now = now
	u.planner.Now = now
	return u
}

// GenerateSequence runs the pipeline. Caller mistakes (no actions, empty
// states) come back as Success=false with a message, not as an error: the
// transport layer treats them as well-formed replies.
func (u *UseCase) GenerateSequence(ctx context.Context, req Request) (Response, error) {
	startedAt := u.now()
	u.count(func() { u.requests++ })

	if msg := validateRequest(req); msg != "" {
		u.count(func() { u.rejected++ })
		if u.metrics != nil {
			u.metrics.RecordRejected()
		}
		return Response{Success: false, ErrorMessage: msg, ExecutionTime: u.now().Sub(startedAt)}, nil
	}

	key := fingerprint(req)
	if cached, ok := u.cache.get(key); ok {
		u.count(func() { u.cacheHits++ })
		if u.metrics != nil {
			u.metrics.RecordCacheHit()
		}
		cached.CacheHit = true
		cached.ExecutionTime = u.now().Sub(startedAt)
		return cached, nil
	}

	if resp, ok := u.lookupDurable(ctx, key, req); ok {
		u.count(func() { u.cacheHits++ })
		if u.metrics != nil {
			u.metrics.RecordCacheHit()
		}
		u.cache.put(key, resp)
		resp.CacheHit = true
		resp.ExecutionTime = u.now().Sub(startedAt)
		return resp, nil
	}

	result, err := u.planner.Plan(ctx, search.Problem{
		Initial:   req.InitialState,
		Goal:      req.GoalState,
		Actions:   req.Actions,
		Algorithm: req.Algorithm,
		Heuristic: req.Heuristic,
		Objective: req.Objective,
		MaxDepth:  u.boundDepth(req.MaxDepth),
		MaxTime:   u.boundTime(req.MaxTime),
	})
	if err != nil {
		u.count(func() { u.rejected++ })
		if u.metrics != nil {
			u.metrics.RecordRejected()
		}
		return Response{Success: false, ErrorMessage: err.Error(), ExecutionTime: u.now().Sub(startedAt)}, nil
	}

	resp := u.buildResponse(req, result)
	u.record(ctx, key, req, result)
	u.cache.put(key, resp)

	resp.ExecutionTime = u.now().Sub(startedAt)
	return resp, nil
}

// Validate replays a caller-supplied sequence without planning. The oracle is
// plan.ValidateSequence; this method just resolves action IDs.
func (u *UseCase) Validate(initial, goal plan.State, actions []plan.Action, ids []string) (plan.ValidationReport, error) {
	byID := make(map[string]plan.Action, len(actions))
	for _, a := range actions {
		byID[a.ID] = a
	}
	ordered := make([]plan.Action, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return plan.ValidationReport{}, ports.ErrNotFound
		}
		ordered = append(ordered, a)
	}
	return plan.ValidateSequence(plan.ActionSequence{
		Actions:      ordered,
		InitialState: initial,
		GoalState:    goal,
	}), nil
}

func (u *UseCase) Statistics() Statistics {
	u.mu.Lock()
	defer u.mu.Unlock()
	stats := Statistics{
		Requests:        u.requests,
		Successes:       u.successes,
		Failures:        u.failures,
		Rejected:        u.rejected,
		CacheHits:       u.cacheHits,
		CacheSize:       u.cache.size(),
		DefaultMaxDepth: u.config.MaxDepth,
		DefaultMaxTime:  u.config.MaxTime,
		CacheCapacity:   u.config.CacheCapacity,
	}
	if u.planned > 0 {
		stats.AvgPlanningTime = u.planningTimeSum / time.Duration(u.planned)
	}
	return stats
}

func validateRequest(req Request) string {
	if len(req.Actions) == 0 {
		return "available_actions must not be empty"
	}
	if len(req.InitialState) == 0 {
		return "initial_state must not be empty"
	}
	if len(req.GoalState) == 0 {
		return "goal_state must not be empty"
	}
	return ""
}

func (u *UseCase) buildResponse(req Request, result search.Result) Response {
	resp := Response{
		Success:       result.Success,
		ActionIDs:     result.Sequence.ActionIDs(),
		TotalCost:     result.TotalCost,
		TotalDuration: result.TotalDuration,
		NodesExpanded: result.NodesExpanded,
		PlanningTime:  result.PlanningTime,
		Algorithm:     result.Algorithm,
		Reason:        result.Reason,
	}

	u.count(func() {
		u.planned++
		u.planningTimeSum += result.PlanningTime
	})

	if !result.Success {
		resp.ErrorMessage = failureMessage(result.Reason)
		u.count(func() { u.failures++ })
		if u.metrics != nil {
			u.metrics.RecordFailure(result.Reason)
		}
		return resp
	}

	resp.Validation = plan.ValidateSequence(result.Sequence)
	if !resp.Validation.Valid {
		resp.Success = false
		resp.ErrorMessage = "planned sequence failed replay validation"
		u.count(func() { u.failures++ })
		if u.metrics != nil {
			u.metrics.RecordFailure(search.ReasonNone)
		}
		return resp
	}

	u.count(func() { u.successes++ })
	if u.metrics != nil {
		u.metrics.RecordSuccess(result.Algorithm, result.PlanningTime.Milliseconds())
	}
	return resp
}

func failureMessage(reason search.FailureReason) string {
	switch reason {
	case search.ReasonNoActions:
		return "no applicable actions"
	case search.ReasonDepthExceeded:
		return "search depth limit exceeded"
	case search.ReasonTimeBudgetExceeded:
		return "planning time budget exceeded"
	case search.ReasonNoSolution:
		return "no action sequence reaches the goal"
	default:
		return "planning failed"
	}
}

func (u *UseCase) lookupDurable(ctx context.Context, key string, req Request) (Response, bool) {
	if u.execRepo == nil {
		return Response{}, false
	}
	record, err := u.execRepo.GetByFingerprint(ctx, key)
	if err != nil || record == nil {
		return Response{}, false
	}

	resp := Response{
		Success:       record.Success,
		ActionIDs:     record.ActionIDs,
		TotalCost:     record.TotalCost,
		NodesExpanded: record.NodesExpanded,
		PlanningTime:  record.PlanningTime,
		Algorithm:     record.Algorithm,
		Reason:        record.Reason,
	}
	if !record.Success {
		resp.ErrorMessage = failureMessage(record.Reason)
		return resp, true
	}

	report, err := u.Validate(req.InitialState, req.GoalState, req.Actions, record.ActionIDs)
	if err != nil {
		return Response{}, false
	}
	resp.Validation = report
	if !report.Valid {
		return Response{}, false
	}
	for _, id := range record.ActionIDs {
		for _, a := range req.Actions {
			if a.ID == id {
				resp.TotalDuration += a.Duration
				break
			}
		}
	}
	return resp, true
}

func (u *UseCase) record(ctx context.Context, key string, req Request, result search.Result) {
	if u.execRepo == nil {
		return
	}
	record := ports.PlanExecutionRecord{
		ID:            uuid.New().String(),
		Fingerprint:   key,
		Algorithm:     result.Algorithm,
		Objective:     req.Objective,
		ActionIDs:     result.Sequence.ActionIDs(),
		TotalCost:     result.TotalCost,
		PlanningTime:  result.PlanningTime,
		NodesExpanded: result.NodesExpanded,
		Success:       result.Success,
		Reason:        result.Reason,
		CreatedAt:     u.now(),
	}
	// A concurrent identical request may have stored the same fingerprint
	// first; that duplicate carries the same payload, so conflicts are benign.
	err := u.runInTx(ctx, func(txCtx context.Context) error {
		return u.execRepo.Save(txCtx, record)
	})
	if err != nil && !errors.Is(err, ports.ErrConflict) {
		log.Printf("sequence: persist execution %s: %v", record.ID, err)
	}
}

func (u *UseCase) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if u.tx == nil {
		return fn(ctx)
	}
	return u.tx.RunInTx(ctx, fn)
}

func (u *UseCase) boundDepth(requested int) int {
	if requested <= 0 || requested > u.config.MaxDepth {
		return u.config.MaxDepth
	}
	return requested
}

func (u *UseCase) boundTime(requested time.Duration) time.Duration {
	if requested <= 0 || requested > u.config.MaxTime {
		return u.config.MaxTime
	}
	return requested
}

func (u *UseCase) count(fn func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fn()
}
