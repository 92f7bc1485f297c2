package sequence

import (
	"context"

	"planverse/internal/app/ports"
	"planverse/internal/domain/search"
)

type stubExecRepo struct {
	byFingerprint map[string]ports.PlanExecutionRecord
	saves         int
}

func newStubExecRepo() *stubExecRepo {
	return &stubExecRepo{byFingerprint: map[string]ports.PlanExecutionRecord{}}
}

func (r *stubExecRepo) GetByFingerprint(_ context.Context, fingerprint string) (*ports.PlanExecutionRecord, error) {
	rec, ok := r.byFingerprint[fingerprint]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := rec
	return &out, nil
}

func (r *stubExecRepo) Save(_ context.Context, record ports.PlanExecutionRecord) error {
	if _, exists := r.byFingerprint[record.Fingerprint]; exists {
		return ports.ErrConflict
	}
	r.byFingerprint[record.Fingerprint] = record
	r.saves++
	return nil
}

type stubTxManager struct {
	calls int
}

func (t *stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type stubMetrics struct {
	successes int
	failures  int
	cacheHits int
	rejected  int
}

func (m *stubMetrics) RecordSuccess(search.Algorithm, int64)   { m.successes++ }
func (m *stubMetrics) RecordFailure(search.FailureReason)      { m.failures++ }
func (m *stubMetrics) RecordCacheHit()                         { m.cacheHits++ }
func (m *stubMetrics) RecordRejected()                         { m.rejected++ }
