package shell

import "time"

// HandlerResult is the outcome of a command handler execution: the business outcome
// (idempotent or not) plus the retry metadata the observable wrapper turns into metrics.
type HandlerResult struct {
	// Idempotent means nothing had to change, e.g. borrowing a book that is already on loan.
	Idempotent bool

	// RetryAttempts is the total number of attempts made (1 for no retries).
	RetryAttempts int

	// TotalRetryDelay only counts time spent in backoff, not in execution.
	TotalRetryDelay time.Duration

	// LastErrorType is one of "none", "concurrency_conflict", "context_canceled",
	// "context_deadline_exceeded", "problem" or "other".
	LastErrorType string

	// RetriesExhausted is true when all attempts failed with a retryable error.
	RetriesExhausted bool
}

func newResult(idempotent bool, m RetryMetrics) HandlerResult {
	return HandlerResult{
		Idempotent:       idempotent,
		RetryAttempts:    m.Attempts,
		TotalRetryDelay:  m.TotalDelay,
		LastErrorType:    m.LastErrorType,
		RetriesExhausted: m.RetriesExhausted,
	}
}

// NewSuccessResult creates a HandlerResult for operations that changed state.
func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return newResult(false, retryMetrics)
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	return newResult(true, retryMetrics)
}

// NewErrorResult creates a HandlerResult for failed operations.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return newResult(false, retryMetrics)
}
