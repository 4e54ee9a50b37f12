package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"igfollow/pkg/logger"
	"igfollow/pkg/retry"
	"igfollow/pkg/username"
)

// ErrRetriesExhausted is returned when every attempt of an action failed
// with a rate-limit error. Callers use it to decide whether a stale
// snapshot fallback applies.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Action fetches one relation list from the network and returns the raw
// usernames it found.
type Action func(ctx context.Context) ([]string, error)

// Options control how an Action is retried.
type Options struct {
	// Label names the relation being fetched ("followers", "following")
	// for log output.
	Label string

	// Retries is the number of attempts before giving up.
	Retries int

	// BaseWait is the wait after the first failed attempt; the wait grows
	// linearly, so attempt n is followed by BaseWait*n.
	BaseWait time.Duration

	Logger logger.Logger
}

// WithBackoff runs action up to opts.Retries times, sleeping with linearly
// increasing delays between rate-limited attempts. A non-rate-limit error
// aborts immediately. When every attempt was rate limited the returned
// error wraps ErrRetriesExhausted. On success the raw usernames are
// normalized into a Set.
func WithBackoff(ctx context.Context, action Action, opts Options) (username.Set, error) {
	if opts.Retries <= 0 {
		opts.Retries = 1
	}
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	cfg := &retry.Config{
		MaxAttempts: opts.Retries,
		Backoff: &retry.LinearBackoff{
			BaseDelay: opts.BaseWait,
			Increment: opts.BaseWait,
		},
		RetryIf: IsRateLimited,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			log.WithFields(map[string]interface{}{
				"relation": opts.Label,
				"attempt":  attempt,
				"wait":     delay.String(),
			}).Warn("rate limited, backing off")
		},
		Context: ctx,
		Logger:  log,
	}

	raw, err := retry.DoWithResult(func() ([]string, error) {
		return action(ctx)
	}, cfg)
	if err != nil {
		if errors.Is(err, retry.ErrMaxAttempts) {
			return nil, fmt.Errorf("%w fetching %s: %w", ErrRetriesExhausted, opts.Label, err)
		}
		return nil, err
	}

	set := username.NewSet(raw...)
	log.WithFields(map[string]interface{}{
		"relation": opts.Label,
		"count":    set.Len(),
	}).Info("fetched relation list")
	return set, nil
}
