// Package retry provides backoff and retry logic for transient failures in
// network operations, particularly rate-limited Instagram API calls.
//
// Features:
//   - Linear, exponential, and constant backoff strategies
//   - Optional jitter to avoid thundering herd problems
//   - Context support for cancellation
//   - Configurable retry predicates
//   - A distinguishable exhaustion error (ErrMaxAttempts) so callers can
//     fall back instead of failing outright
//
// Basic usage:
//
//	cfg := &retry.Config{
//		MaxAttempts: 3,
//		Backoff: &retry.LinearBackoff{
//			BaseDelay: 45 * time.Second,
//			Increment: 45 * time.Second,
//		},
//		RetryIf: retry.DefaultRetryIf,
//		Context: ctx,
//	}
//	err := retry.Do(operation, cfg)
//	if errors.Is(err, retry.ErrMaxAttempts) {
//		// transient failures exhausted the budget; try a fallback
//	}
package retry
