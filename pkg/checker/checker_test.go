package checker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igfollow/pkg/config"
	"igfollow/pkg/logger"
	"igfollow/pkg/snapshot"
	"igfollow/pkg/username"
)

type fakeClient struct {
	followers    []string
	followees    []string
	followersErr error
	followeesErr error
	calls        int
}

func (f *fakeClient) FetchFollowers(ctx context.Context, target string) ([]string, error) {
	f.calls++
	return f.followers, f.followersErr
}

func (f *fakeClient) FetchFollowees(ctx context.Context, target string) ([]string, error) {
	f.calls++
	return f.followees, f.followeesErr
}

func newTestChecker(t *testing.T, client RelationClient) (*Checker, *snapshot.Store) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Fetch.Retries = 2
	cfg.Fetch.BaseWait = time.Millisecond

	store := snapshot.NewStore(t.TempDir())
	return New(cfg, store, client, logger.NewTestLogger()), store
}

func writeExport(t *testing.T, dir, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunOffline(t *testing.T) {
	dir := t.TempDir()
	followersFile := writeExport(t, dir, "followers_1.json",
		`[{"string_list_data": [{"value": "alice"}, {"value": "bob"}]}]`)
	followingFile := writeExport(t, dir, "following.json",
		`{"relationships_following": [{"string_list_data": [{"value": "alice"}, {"value": "carol"}]}]}`)

	c, store := newTestChecker(t, nil)

	r, err := c.RunOffline("me", followersFile, followingFile)
	require.NoError(t, err)

	assert.Equal(t, snapshot.SourceOffline, r.Source)
	assert.Equal(t, []string{"carol"}, r.NotFollowingBack)
	assert.Equal(t, []string{"bob"}, r.FansNotFollowedBack)
	assert.False(t, r.Stale)

	// The acquisition must be persisted.
	snap, err := store.Load("me", snapshot.SourceOffline)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, []string{"alice", "bob"}, snap.Followers)
}

func TestRunOfflineMissingFile(t *testing.T) {
	c, _ := newTestChecker(t, nil)

	_, err := c.RunOffline("me", "/nonexistent/followers.json", "/nonexistent/following.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunPaste(t *testing.T) {
	c, store := newTestChecker(t, nil)

	r, err := c.RunPaste("me", "@Alice\nbob, dave", "alice; carol\n")
	require.NoError(t, err)

	assert.Equal(t, snapshot.SourcePasted, r.Source)
	assert.Equal(t, []string{"carol"}, r.NotFollowingBack)
	assert.Equal(t, []string{"bob", "dave"}, r.FansNotFollowedBack)

	snap, err := store.Load("me", snapshot.SourcePasted)
	require.NoError(t, err)
	require.NotNil(t, snap)
}

func TestRunAPISuccess(t *testing.T) {
	client := &fakeClient{
		followers: []string{"alice", "bob"},
		followees: []string{"alice", "carol"},
	}
	c, store := newTestChecker(t, client)

	r, err := c.RunAPI(context.Background(), "me")
	require.NoError(t, err)

	assert.Equal(t, snapshot.SourceAPI, r.Source)
	assert.False(t, r.Stale)
	assert.Equal(t, []string{"carol"}, r.NotFollowingBack)
	assert.Equal(t, []string{"bob"}, r.FansNotFollowedBack)

	snap, err := store.Load("me", snapshot.SourceAPI)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, snapshot.SourceAPI, snap.Source)
}

func TestRunAPIFallbackToSnapshot(t *testing.T) {
	client := &fakeClient{
		followersErr: errors.New("rate limit exceeded"),
	}
	c, store := newTestChecker(t, client)

	// A previous live run left a snapshot behind.
	_, err := store.Save("me", snapshot.SourceAPI,
		username.NewSet("alice", "bob"), username.NewSet("alice", "carol"))
	require.NoError(t, err)

	r, err := c.RunAPI(context.Background(), "me")
	require.NoError(t, err)

	assert.True(t, r.Stale)
	assert.Equal(t, snapshot.SourceAPI, r.Source)
	assert.Equal(t, []string{"carol"}, r.NotFollowingBack)
	assert.Equal(t, []string{"bob"}, r.FansNotFollowedBack)
	assert.Equal(t, 2, client.calls, "both retry attempts should hit the client")
}

func TestRunAPINoUsableResult(t *testing.T) {
	client := &fakeClient{
		followersErr: errors.New("please wait a few minutes"),
	}
	c, _ := newTestChecker(t, client)

	_, err := c.RunAPI(context.Background(), "me")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoUsableResult)
}

func TestRunAPIFatalErrorNoFallback(t *testing.T) {
	client := &fakeClient{
		followersErr: errors.New("user not found"),
	}
	c, store := newTestChecker(t, client)

	_, err := store.Save("me", snapshot.SourceAPI,
		username.NewSet("alice"), username.NewSet("alice"))
	require.NoError(t, err)

	_, err = c.RunAPI(context.Background(), "me")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoUsableResult)
	assert.Equal(t, 1, client.calls)
}

func TestRunAPISecondDirectionExhausted(t *testing.T) {
	client := &fakeClient{
		followers:    []string{"alice"},
		followeesErr: errors.New("feedback_required"),
	}
	c, store := newTestChecker(t, client)

	_, err := store.Save("me", snapshot.SourceAPI,
		username.NewSet("old_follower"), username.NewSet("old_followee"))
	require.NoError(t, err)

	r, err := c.RunAPI(context.Background(), "me")
	require.NoError(t, err)
	assert.True(t, r.Stale)
	assert.Equal(t, []string{"old_followee"}, r.NotFollowingBack)
}
