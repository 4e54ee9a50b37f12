package username

import (
	"regexp"
	"sort"
	"strings"
)

// valid matches a canonical Instagram handle. Uniqueness is case-insensitive,
// so canonical handles are always lowercase.
var valid = regexp.MustCompile(`^[a-z0-9._]+$`)

// profileURL extracts the handle from a profile link such as
// "https://instagram.com/jane.doe". The greedy prefix pins the capture to the
// last path segment.
var profileURL = regexp.MustCompile(`^.*/([A-Za-z0-9._]+)$`)

// Normalize canonicalizes any textual representation of a handle: a bare
// username, one prefixed with "@" signs, or a full profile URL. It returns
// the lowercase handle and true, or "" and false when no valid handle
// remains. It never fails on malformed input; bad tokens are simply absent.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "@")
	s = strings.TrimSuffix(s, "/")
	if m := profileURL.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = strings.ToLower(s)
	if !valid.MatchString(s) {
		return "", false
	}
	return s, true
}

// Set is a deduplicated collection of canonical usernames. All entries go
// through Normalize, so membership is insensitive to case, "@" prefixes, and
// profile-URL forms.
type Set map[string]struct{}

// NewSet builds a Set from raw tokens, dropping anything Normalize rejects.
func NewSet(raws ...string) Set {
	s := make(Set, len(raws))
	for _, raw := range raws {
		s.Add(raw)
	}
	return s
}

// Add normalizes raw and inserts it. Invalid tokens are ignored.
func (s Set) Add(raw string) {
	if name, ok := Normalize(raw); ok {
		s[name] = struct{}{}
	}
}

// Contains reports whether raw, after normalization, is in the set.
func (s Set) Contains(raw string) bool {
	name, ok := Normalize(raw)
	if !ok {
		return false
	}
	_, found := s[name]
	return found
}

// Len returns the number of usernames in the set.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the usernames in ascending lexicographic order.
func (s Set) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Diff returns the members of s that are not in other, sorted ascending.
func (s Set) Diff(other Set) []string {
	var names []string
	for name := range s {
		if _, found := other[name]; !found {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
