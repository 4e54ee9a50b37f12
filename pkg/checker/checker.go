package checker

import (
	"context"
	"errors"
	"fmt"

	"igfollow/pkg/config"
	"igfollow/pkg/export"
	"igfollow/pkg/fetch"
	"igfollow/pkg/logger"
	"igfollow/pkg/report"
	"igfollow/pkg/snapshot"
	"igfollow/pkg/username"
)

// ErrNoUsableResult marks a run that produced no report: live fetching
// failed and no previous snapshot exists to fall back on.
var ErrNoUsableResult = errors.New("no usable result")

// RelationClient fetches an account's relation lists from the network.
// *instagram.Client satisfies it.
type RelationClient interface {
	FetchFollowers(ctx context.Context, target string) ([]string, error)
	FetchFollowees(ctx context.Context, target string) ([]string, error)
}

// Checker reconciles a target's follower and followee lists from exports,
// pasted text, or the live API, persisting each successful acquisition as
// a snapshot.
type Checker struct {
	cfg    *config.Config
	store  *snapshot.Store
	client RelationClient
	logger logger.Logger
}

// New creates a Checker. client may be nil when only offline or paste
// runs are needed.
func New(cfg *config.Config, store *snapshot.Store, client RelationClient, log logger.Logger) *Checker {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Checker{
		cfg:    cfg,
		store:  store,
		client: client,
		logger: log,
	}
}

func normalizeTarget(raw string) (string, error) {
	target, ok := username.Normalize(raw)
	if !ok {
		return "", fmt.Errorf("invalid username %q", raw)
	}
	return target, nil
}

// RunOffline builds a report from two Instagram data-export JSON files.
func (c *Checker) RunOffline(target, followersPath, followeesPath string) (report.Report, error) {
	target, err := normalizeTarget(target)
	if err != nil {
		return report.Report{}, err
	}

	followers, err := export.ReadRelationFile(followersPath)
	if err != nil {
		return report.Report{}, fmt.Errorf("followers export: %w", err)
	}
	followees, err := export.ReadRelationFile(followeesPath)
	if err != nil {
		return report.Report{}, fmt.Errorf("following export: %w", err)
	}

	c.logger.InfoWithFields("loaded data exports", map[string]interface{}{
		"target":    target,
		"followers": followers.Len(),
		"following": followees.Len(),
	})

	return c.finish(target, snapshot.SourceOffline, followers, followees)
}

// RunPaste builds a report from two blocks of pasted text, one username
// per line or separated by commas, semicolons, or whitespace.
func (c *Checker) RunPaste(target, followersText, followeesText string) (report.Report, error) {
	target, err := normalizeTarget(target)
	if err != nil {
		return report.Report{}, err
	}

	followers := export.ParseFreeform(followersText)
	followees := export.ParseFreeform(followeesText)

	c.logger.InfoWithFields("parsed pasted lists", map[string]interface{}{
		"target":    target,
		"followers": followers.Len(),
		"following": followees.Len(),
	})

	return c.finish(target, snapshot.SourcePasted, followers, followees)
}

// RunAPI fetches both relation lists live. When the attempt budget runs
// out on rate limits, it falls back to the most recent API snapshot and
// marks the report stale; with no snapshot available it returns
// ErrNoUsableResult.
func (c *Checker) RunAPI(ctx context.Context, target string) (report.Report, error) {
	if c.client == nil {
		return report.Report{}, errors.New("no API client configured")
	}

	target, err := normalizeTarget(target)
	if err != nil {
		return report.Report{}, err
	}

	opts := fetch.Options{
		Retries:  c.cfg.Fetch.Retries,
		BaseWait: c.cfg.Fetch.BaseWait,
		Logger:   c.logger,
	}

	opts.Label = "followers"
	followers, err := fetch.WithBackoff(ctx, func(ctx context.Context) ([]string, error) {
		return c.client.FetchFollowers(ctx, target)
	}, opts)
	if err != nil {
		return c.fallback(target, err)
	}

	opts.Label = "following"
	followees, err := fetch.WithBackoff(ctx, func(ctx context.Context) ([]string, error) {
		return c.client.FetchFollowees(ctx, target)
	}, opts)
	if err != nil {
		return c.fallback(target, err)
	}

	return c.finish(target, snapshot.SourceAPI, followers, followees)
}

// finish persists the acquired lists and reconciles them. A snapshot
// write failure is logged but does not discard the result.
func (c *Checker) finish(target string, source snapshot.Source, followers, followees username.Set) (report.Report, error) {
	if _, err := c.store.Save(target, source, followers, followees); err != nil {
		c.logger.ErrorWithFields("failed to persist snapshot", map[string]interface{}{
			"target": target,
			"source": string(source),
			"error":  err.Error(),
		})
	}

	r := report.Reconcile(target, followers, followees)
	r.Source = source
	return r, nil
}

func (c *Checker) fallback(target string, fetchErr error) (report.Report, error) {
	if !errors.Is(fetchErr, fetch.ErrRetriesExhausted) {
		return report.Report{}, fetchErr
	}

	snap, err := c.store.Load(target, snapshot.SourceAPI)
	if err != nil {
		return report.Report{}, err
	}
	if snap == nil {
		c.logger.ErrorWithFields("no snapshot to fall back on", map[string]interface{}{
			"target": target,
		})
		return report.Report{}, fmt.Errorf("%w: %w", ErrNoUsableResult, fetchErr)
	}

	c.logger.WarnWithFields("using stale snapshot", map[string]interface{}{
		"target":       target,
		"generated_at": snap.GeneratedAt,
	})

	return report.FromSnapshot(snap, true), nil
}
