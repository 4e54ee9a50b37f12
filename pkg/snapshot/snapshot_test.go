package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"igfollow/pkg/username"
)

func TestPathFor(t *testing.T) {
	store := NewStore("/snaps")

	tests := []struct {
		name     string
		target   string
		source   Source
		expected string
	}{
		{
			name:     "plain target",
			target:   "jane.doe",
			source:   SourceAPI,
			expected: "/snaps/jane.doe-api-snapshot.json",
		},
		{
			name:     "forward slash in target",
			target:   "../evil",
			source:   SourceOffline,
			expected: "/snaps/.._evil-offline-snapshot.json",
		},
		{
			name:     "backslash in target",
			target:   `a\b`,
			source:   SourcePasted,
			expected: "/snaps/a_b-pasted-snapshot.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.PathFor(tt.target, tt.source)
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "dir"))

	followers := username.NewSet("bob", "@Alice", "alice")
	followees := username.NewSet("carol", "alice")

	saved, err := store.Save("jane.doe", SourceOffline, followers, followees)
	if err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	if got := saved.Followers; len(got) != 2 || got[0] != "alice" || got[1] != "bob" {
		t.Errorf("Expected sorted deduplicated followers [alice bob], got %v", got)
	}
	if saved.GeneratedAt.Location() != time.UTC {
		t.Errorf("Expected UTC timestamp, got %v", saved.GeneratedAt.Location())
	}

	loaded, err := store.Load("jane.doe", SourceOffline)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected snapshot, got nil")
	}

	if loaded.Target != "jane.doe" {
		t.Errorf("Expected target jane.doe, got %s", loaded.Target)
	}
	if loaded.Source != SourceOffline {
		t.Errorf("Expected source offline, got %s", loaded.Source)
	}
	if !loaded.GeneratedAt.Equal(saved.GeneratedAt) {
		t.Errorf("Expected generated_at %v, got %v", saved.GeneratedAt, loaded.GeneratedAt)
	}

	if got := loaded.Followers; len(got) != 2 || got[0] != "alice" || got[1] != "bob" {
		t.Errorf("Expected followers [alice bob], got %v", got)
	}
	if got := loaded.Followees; len(got) != 2 || got[0] != "alice" || got[1] != "carol" {
		t.Errorf("Expected followees [alice carol], got %v", got)
	}

	if !loaded.FollowerSet().Contains("alice") {
		t.Error("Expected rebuilt follower set to contain alice")
	}
}

func TestSaveOverwritesWholesale(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Save("target", SourceAPI, username.NewSet("old1", "old2"), username.NewSet("old3")); err != nil {
		t.Fatalf("Failed to save first snapshot: %v", err)
	}
	if _, err := store.Save("target", SourceAPI, username.NewSet("new1"), username.NewSet()); err != nil {
		t.Fatalf("Failed to save second snapshot: %v", err)
	}

	loaded, err := store.Load("target", SourceAPI)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if len(loaded.Followers) != 1 || loaded.Followers[0] != "new1" {
		t.Errorf("Expected the second save to fully replace the first, got followers %v", loaded.Followers)
	}
}

func TestLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	snap, err := store.Load("nobody", SourceAPI)
	if err != nil {
		t.Fatalf("Expected no error for missing snapshot, got %v", err)
	}
	if snap != nil {
		t.Errorf("Expected nil snapshot for missing file, got %+v", snap)
	}
	if store.Exists("nobody", SourceAPI) {
		t.Error("Expected Exists to be false for missing snapshot")
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	path := store.PathFor("target", SourceAPI)
	if err := os.WriteFile(path, []byte("{truncated"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	_, err := store.Load("target", SourceAPI)
	if err == nil {
		t.Fatal("Expected error for corrupt snapshot, got nil")
	}
	if !strings.Contains(err.Error(), "corrupt snapshot") {
		t.Errorf("Expected corrupt snapshot error, got %v", err)
	}
}

func TestLoadDefaultsMissingSource(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	// A document written before the source tag existed.
	legacy := `{
	  "generated_at": "2024-01-01T00:00:00Z",
	  "target": "target",
	  "followers": ["alice"],
	  "followees": []
	}`
	path := store.PathFor("target", SourceAPI)
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatalf("Failed to write legacy file: %v", err)
	}

	loaded, err := store.Load("target", SourceAPI)
	if err != nil {
		t.Fatalf("Failed to load legacy snapshot: %v", err)
	}
	if loaded.Source != SourceUnknown {
		t.Errorf("Expected missing source to default to unknown, got %s", loaded.Source)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if _, err := store.Save("target", SourcePasted, username.NewSet("a"), username.NewSet("b")); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read snapshot directory: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("Temporary file left behind: %s", entry.Name())
		}
	}
}
