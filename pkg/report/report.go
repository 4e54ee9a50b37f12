package report

import (
	"time"

	"igfollow/pkg/snapshot"
	"igfollow/pkg/username"
)

// Report is the outcome of comparing a target's follower and followee
// lists. Both slices are sorted and disjoint.
type Report struct {
	Target      string
	Source      snapshot.Source
	GeneratedAt time.Time

	// Stale marks a report built from a previously stored snapshot after
	// live fetching failed.
	Stale bool

	// NotFollowingBack are accounts the target follows that do not follow
	// the target.
	NotFollowingBack []string

	// FansNotFollowedBack are accounts following the target that the
	// target does not follow.
	FansNotFollowedBack []string

	FollowerCount int
	FolloweeCount int
}

// Reconcile computes the directional differences between the two relation
// sets. Membership is decided on normalized usernames, so casing and
// decoration differences never produce phantom entries.
func Reconcile(target string, followers, followees username.Set) Report {
	return Report{
		Target:              target,
		GeneratedAt:         time.Now().UTC(),
		NotFollowingBack:    followees.Diff(followers),
		FansNotFollowedBack: followers.Diff(followees),
		FollowerCount:       followers.Len(),
		FolloweeCount:       followees.Len(),
	}
}

// FromSnapshot reconciles the relation lists stored in snap and carries
// over its provenance.
func FromSnapshot(snap *snapshot.Snapshot, stale bool) Report {
	r := Reconcile(snap.Target, snap.FollowerSet(), snap.FolloweeSet())
	r.Source = snap.Source
	r.GeneratedAt = snap.GeneratedAt
	r.Stale = stale
	return r
}

// Mutual reports how many accounts appear in both lists.
func (r Report) Mutual() int {
	return r.FolloweeCount - len(r.NotFollowingBack)
}
