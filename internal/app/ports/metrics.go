package ports

import "planverse/internal/domain/search"

type SequenceMetrics interface {
	RecordSuccess(algorithm search.Algorithm, planningTimeMillis int64)
	RecordFailure(reason search.FailureReason)
	RecordCacheHit()
	RecordRejected()
}
