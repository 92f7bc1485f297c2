package inmemory

import (
	"sync"

	"planverse/internal/domain/search"
)

type Snapshot struct {
	PlanTotal       uint64            `json:"plan_total"`
	PlanSuccess     uint64            `json:"plan_success"`
	PlanFailure     uint64            `json:"plan_failure"`
	PlanRejected    uint64            `json:"plan_rejected"`
	CacheHits       uint64            `json:"cache_hits"`
	ByAlgorithm     map[string]uint64 `json:"by_algorithm"`
	ByFailureReason map[string]uint64 `json:"by_failure_reason"`
	PlanningMsTotal int64             `json:"planning_ms_total"`
}

type Recorder struct {
	mu          sync.Mutex
	success     uint64
	failure     uint64
	rejected    uint64
	cacheHits   uint64
	byAlgorithm map[string]uint64
	byReason    map[string]uint64
	planningMs  int64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAlgorithm: map[string]uint64{},
		byReason:    map[string]uint64{},
	}
}

func (r *Recorder) RecordSuccess(algorithm search.Algorithm, planningTimeMillis int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.byAlgorithm[string(algorithm)]++
	r.planningMs += planningTimeMillis
}

func (r *Recorder) RecordFailure(reason search.FailureReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
	if reason != search.ReasonNone {
		r.byReason[string(reason)]++
	}
}

func (r *Recorder) RecordCacheHit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cacheHits++
}

func (r *Recorder) RecordRejected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		PlanSuccess:     r.success,
		PlanFailure:     r.failure,
		PlanRejected:    r.rejected,
		PlanTotal:       r.success + r.failure + r.rejected,
		CacheHits:       r.cacheHits,
		ByAlgorithm:     make(map[string]uint64, len(r.byAlgorithm)),
		ByFailureReason: make(map[string]uint64, len(r.byReason)),
		PlanningMsTotal: r.planningMs,
	}
	for k, v := range r.byAlgorithm {
		out.ByAlgorithm[k] = v
	}
	for k, v := range r.byReason {
		out.ByFailureReason[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
