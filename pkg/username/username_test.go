package username

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "simple username",
			raw:      "testuser",
			expected: "testuser",
			ok:       true,
		},
		{
			name:     "uppercase is lowered",
			raw:      "TestUser",
			expected: "testuser",
			ok:       true,
		},
		{
			name:     "surrounding whitespace",
			raw:      "  jane.doe\t",
			expected: "jane.doe",
			ok:       true,
		},
		{
			name:     "single at prefix",
			raw:      "@bob",
			expected: "bob",
			ok:       true,
		},
		{
			name:     "repeated at prefix with trailing space",
			raw:      "@@bob ",
			expected: "bob",
			ok:       true,
		},
		{
			name:     "full profile URL with trailing slash",
			raw:      "https://instagram.com/Jane.Doe/",
			expected: "jane.doe",
			ok:       true,
		},
		{
			name:     "profile URL without scheme",
			raw:      "instagram.com/some_user",
			expected: "some_user",
			ok:       true,
		},
		{
			name: "invalid characters",
			raw:  "not a user!!",
			ok:   false,
		},
		{
			name: "empty string",
			raw:  "",
			ok:   false,
		},
		{
			name: "only prefixes",
			raw:  "@@/",
			ok:   false,
		},
		{
			name: "URL with invalid tail",
			raw:  "https://example.com/bad user",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"testuser", "@Jane.Doe", "https://instagram.com/Some_User/", "  carol  "}
	for _, raw := range inputs {
		first, ok := Normalize(raw)
		if !ok {
			t.Fatalf("expected %q to normalize", raw)
		}
		second, ok := Normalize(first)
		assert.True(t, ok)
		assert.Equal(t, first, second)

		// Re-prefixing with @ must not change the canonical form.
		prefixed, ok := Normalize("@" + first)
		assert.True(t, ok)
		assert.Equal(t, first, prefixed)
	}
}

func TestSet(t *testing.T) {
	s := NewSet("alice", "@Alice", "https://instagram.com/alice/", "bob", "not valid!!")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("alice"))
	assert.True(t, s.Contains("@ALICE"))
	assert.False(t, s.Contains("carol"))
	assert.False(t, s.Contains("!!"))
	assert.Equal(t, []string{"alice", "bob"}, s.Sorted())
}

func TestSetDiff(t *testing.T) {
	followers := NewSet("alice", "bob")
	followees := NewSet("alice", "carol")

	assert.Equal(t, []string{"carol"}, followees.Diff(followers))
	assert.Equal(t, []string{"bob"}, followers.Diff(followees))

	// Mutual follows never show up in either direction.
	for _, name := range followees.Diff(followers) {
		assert.NotEqual(t, "alice", name)
	}
	for _, name := range followers.Diff(followees) {
		assert.NotEqual(t, "alice", name)
	}
}
