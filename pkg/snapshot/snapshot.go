package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"igfollow/pkg/logger"
	"igfollow/pkg/username"
)

// Source tags how a snapshot's relation sets were acquired.
type Source string

const (
	SourceOffline Source = "offline"
	SourcePasted  Source = "pasted"
	SourceAPI     Source = "api"
	// SourceUnknown is the sentinel for documents written before the source
	// tag existed.
	SourceUnknown Source = "unknown"
)

// Snapshot is the persisted copy of both relation sets for one target. It is
// written wholesale on every successful acquisition and never merged with
// its predecessor, so a stored document always reflects exactly one run.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Source      Source    `json:"source"`
	Target      string    `json:"target"`
	Followers   []string  `json:"followers"`
	Followees   []string  `json:"followees"`
}

// FollowerSet rebuilds the followers relation set from the stored list.
func (s *Snapshot) FollowerSet() username.Set {
	return username.NewSet(s.Followers...)
}

// FolloweeSet rebuilds the followees relation set from the stored list.
func (s *Snapshot) FolloweeSet() username.Set {
	return username.NewSet(s.Followees...)
}

// Store persists snapshots as one JSON document per (target, source) pair.
// It has no locking; callers running acquisitions concurrently must
// serialize per key themselves.
type Store struct {
	dir    string
	logger logger.Logger
}

// NewStore creates a snapshot store rooted at dir. The directory is created
// lazily on the first save, so a store over a missing directory is still
// valid for loads (they report "no snapshot").
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		logger: logger.GetLogger(),
	}
}

// PathFor derives the snapshot location for a (target, source) pair. Path
// separator characters in either component are replaced so a hostile target
// label cannot escape the snapshot directory.
func (s *Store) PathFor(target string, source Source) string {
	safeTarget := sanitizeComponent(target)
	safeSource := sanitizeComponent(string(source))
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s-snapshot.json", safeTarget, safeSource))
}

func sanitizeComponent(c string) string {
	c = strings.ReplaceAll(c, "/", "_")
	c = strings.ReplaceAll(c, "\\", "_")
	return c
}

// Save writes a new snapshot for the pair, replacing any previous one. The
// document is written to a temporary file, synced, and renamed into place so
// a reader never observes a half-written snapshot.
func (s *Store) Save(target string, source Source, followers, followees username.Set) (*Snapshot, error) {
	snap := &Snapshot{
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Target:      target,
		Followers:   followers.Sorted(),
		Followees:   followees.Sorted(),
	}

	path := s.PathFor(target, source)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary snapshot file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		file.Close()
		os.Remove(tempPath)
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return nil, fmt.Errorf("failed to sync snapshot file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("failed to close snapshot file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	s.logger.InfoWithFields("snapshot saved", map[string]interface{}{
		"target":    target,
		"source":    string(source),
		"path":      path,
		"followers": len(snap.Followers),
		"followees": len(snap.Followees),
	})

	return snap, nil
}

// Load reads the snapshot for the pair. A missing file returns (nil, nil):
// no prior snapshot is a valid state. A document that exists but cannot be
// parsed is a hard error; masking corruption as "no snapshot" would make the
// api fallback silently lose data.
func (s *Store) Load(target string, source Source) (*Snapshot, error) {
	path := s.PathFor(target, source)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	var snap Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("corrupt snapshot at %s: %w", path, err)
	}

	// Older documents predate the source tag.
	if snap.Source == "" {
		snap.Source = SourceUnknown
	}

	s.logger.DebugWithFields("snapshot loaded", map[string]interface{}{
		"target":       snap.Target,
		"source":       string(snap.Source),
		"generated_at": snap.GeneratedAt,
	})

	return &snap, nil
}

// Exists reports whether a snapshot is stored for the pair.
func (s *Store) Exists(target string, source Source) bool {
	_, err := os.Stat(s.PathFor(target, source))
	return err == nil
}
