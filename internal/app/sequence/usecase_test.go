package sequence

import (
	"context"
	"testing"
	"time"

	"planverse/internal/domain/plan"
	"planverse/internal/domain/search"
)

func mustActions(t *testing.T, defs ...plan.ActionDefinition) []plan.Action {
	t.Helper()
	actions, err := plan.NewActions(defs)
	if err != nil {
		t.Fatalf("build actions: %v", err)
	}
	return actions
}

func moveRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		InitialState: plan.NewState(map[string]any{"at_living_room": true, "at_kitchen": false}),
		GoalState:    plan.NewState(map[string]any{"at_kitchen": true}),
		Actions: mustActions(t, plan.ActionDefinition{
			ID:            "move",
			Preconditions: []string{"at_living_room=True"},
			Effects:       []string{"at_living_room=False", "at_kitchen=True"},
			Cost:          1,
		}),
		Algorithm: search.AlgorithmAStar,
	}
}

func TestGenerateSequenceSuccess(t *testing.T) {
	execRepo := newStubExecRepo()
	metrics := &stubMetrics{}
	uc := NewUseCase(execRepo, &stubTxManager{}, metrics, Config{})

	resp, err := uc.GenerateSequence(context.Background(), moveRequest(t))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if len(resp.ActionIDs) != 1 || resp.ActionIDs[0] != "move" {
		t.Fatalf("expected [move], got %v", resp.ActionIDs)
	}
	if resp.TotalCost != 1 {
		t.Fatalf("expected total cost 1, got %v", resp.TotalCost)
	}
	if !resp.Validation.Valid || !resp.Validation.GoalSatisfied {
		t.Fatalf("expected valid replay, got %+v", resp.Validation)
	}
	if resp.CacheHit {
		t.Fatal("first call must not be a cache hit")
	}
	if execRepo.saves != 1 {
		t.Fatalf("expected one persisted execution, got %d", execRepo.saves)
	}
	if metrics.successes != 1 {
		t.Fatalf("expected one success metric, got %d", metrics.successes)
	}
}

func TestGenerateSequencePersistsInsideTransaction(t *testing.T) {
	tx := &stubTxManager{}
	execRepo := newStubExecRepo()
	uc := NewUseCase(execRepo, tx, &stubMetrics{}, Config{})

	if _, err := uc.GenerateSequence(context.Background(), moveRequest(t)); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected the execution record to be saved in a transaction, got %d RunInTx calls", tx.calls)
	}
	if execRepo.saves != 1 {
		t.Fatalf("expected one persisted execution, got %d", execRepo.saves)
	}
}

func TestGenerateSequenceCacheHit(t *testing.T) {
	uc := NewUseCase(newStubExecRepo(), &stubTxManager{}, &stubMetrics{}, Config{})

	first, err := uc.GenerateSequence(context.Background(), moveRequest(t))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := uc.GenerateSequence(context.Background(), moveRequest(t))
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if !second.CacheHit {
		t.Fatal("second identical request must be a cache hit")
	}
	if second.TotalCost != first.TotalCost {
		t.Fatalf("cache hit payload diverged: %v vs %v", second.TotalCost, first.TotalCost)
	}
	if len(second.ActionIDs) != len(first.ActionIDs) || second.ActionIDs[0] != first.ActionIDs[0] {
		t.Fatalf("cache hit sequence diverged: %v vs %v", second.ActionIDs, first.ActionIDs)
	}

	stats := uc.Statistics()
	if stats.CacheHits != 1 {
		t.Fatalf("expected one cache hit in stats, got %d", stats.CacheHits)
	}
	if stats.Requests != 2 {
		t.Fatalf("expected two requests in stats, got %d", stats.Requests)
	}
}

func TestGenerateSequenceEmptyActionsIsCallerError(t *testing.T) {
	metrics := &stubMetrics{}
	uc := NewUseCase(newStubExecRepo(), &stubTxManager{}, metrics, Config{})

	resp, err := uc.GenerateSequence(context.Background(), Request{
		InitialState: plan.State{},
		GoalState:    plan.NewState(map[string]any{"x": true}),
		Algorithm:    search.AlgorithmBFS,
	})
	if err != nil {
		t.Fatalf("caller errors must not surface as transport errors: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false")
	}
	if resp.ErrorMessage == "" {
		t.Fatal("expected a descriptive error message")
	}
	if len(resp.ActionIDs) != 0 {
		t.Fatalf("expected empty sequence, got %v", resp.ActionIDs)
	}
	if metrics.rejected != 1 {
		t.Fatalf("expected one rejected metric, got %d", metrics.rejected)
	}
}

func TestGenerateSequenceNoSolution(t *testing.T) {
	req := moveRequest(t)
	req.GoalState = plan.NewState(map[string]any{"at_bedroom": true})

	uc := NewUseCase(newStubExecRepo(), &stubTxManager{}, &stubMetrics{}, Config{})
	resp, err := uc.GenerateSequence(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Reason != search.ReasonNoSolution {
		t.Fatalf("expected no_solution, got %q", resp.Reason)
	}
	if resp.ErrorMessage == "" {
		t.Fatal("expected error message")
	}
}

func TestGenerateSequenceDurableLookup(t *testing.T) {
	execRepo := newStubExecRepo()

	// First sequencer instance plans and persists.
	first := NewUseCase(execRepo, &stubTxManager{}, &stubMetrics{}, Config{})
	if _, err := first.GenerateSequence(context.Background(), moveRequest(t)); err != nil {
		t.Fatalf("first: %v", err)
	}

	// A fresh instance has a cold in-process cache but shares the repo.
	metrics := &stubMetrics{}
	second := NewUseCase(execRepo, &stubTxManager{}, metrics, Config{})
	resp, err := second.GenerateSequence(context.Background(), moveRequest(t))
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !resp.CacheHit {
		t.Fatal("expected durable record to count as a cache hit")
	}
	if !resp.Success || resp.ActionIDs[0] != "move" {
		t.Fatalf("unexpected durable response %+v", resp)
	}
	if metrics.cacheHits != 1 {
		t.Fatalf("expected one cache-hit metric, got %d", metrics.cacheHits)
	}
	if execRepo.saves != 1 {
		t.Fatalf("planner must not have re-persisted, saves=%d", execRepo.saves)
	}
}

func TestGenerateSequenceBoundsAreClamped(t *testing.T) {
	uc := NewUseCase(newStubExecRepo(), &stubTxManager{}, &stubMetrics{}, Config{MaxDepth: 3, MaxTime: time.Second})

	req := moveRequest(t)
	req.MaxDepth = 100
	req.MaxTime = time.Hour

	if got := uc.boundDepth(req.MaxDepth); got != 3 {
		t.Fatalf("depth should clamp to 3, got %d", got)
	}
	if got := uc.boundTime(req.MaxTime); got != time.Second {
		t.Fatalf("time should clamp to 1s, got %v", got)
	}
	if got := uc.boundDepth(2); got != 2 {
		t.Fatalf("requested depth within limit should pass through, got %d", got)
	}
}

func TestValidateResolvesIDs(t *testing.T) {
	uc := NewUseCase(newStubExecRepo(), &stubTxManager{}, &stubMetrics{}, Config{})
	req := moveRequest(t)

	report, err := uc.Validate(req.InitialState, req.GoalState, req.Actions, []string{"move"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !report.Valid || !report.GoalSatisfied {
		t.Fatalf("expected valid report, got %+v", report)
	}

	if _, err := uc.Validate(req.InitialState, req.GoalState, req.Actions, []string{"teleport"}); err == nil {
		t.Fatal("unknown id must error")
	}
}

func TestStatisticsAveragePlanningTime(t *testing.T) {
	uc := NewUseCase(newStubExecRepo(), &stubTxManager{}, &stubMetrics{}, Config{})

	if _, err := uc.GenerateSequence(context.Background(), moveRequest(t)); err != nil {
		t.Fatalf("generate: %v", err)
	}
	stats := uc.Statistics()
	if stats.Successes != 1 {
		t.Fatalf("expected one success, got %d", stats.Successes)
	}
	if stats.CacheSize != 1 {
		t.Fatalf("expected cache size 1, got %d", stats.CacheSize)
	}
	if stats.DefaultMaxDepth == 0 || stats.DefaultMaxTime == 0 {
		t.Fatalf("config snapshot missing defaults: %+v", stats)
	}
}
