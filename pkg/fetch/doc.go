// Package fetch runs network actions under a linear backoff policy tuned
// for Instagram's throttling behavior. Errors whose text matches a known
// rate-limit hint are retried with growing waits; everything else fails
// fast. Exhausting the attempt budget yields ErrRetriesExhausted so the
// caller can fall back to a stored snapshot.
package fetch
