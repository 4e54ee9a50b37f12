// Package export reads relation sets out of Instagram data exports and
// manually pasted lists. Export schemas change between versions, so the
// extractor does not contract a document shape: it walks the whole JSON tree
// and collects the "value" and "href" string fields it finds.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"igfollow/pkg/username"
)

// Extract walks an arbitrarily nested JSON value (maps and slices of any
// depth) and returns every username found in a "value" or "href" string
// field. Tokens that fail normalization are dropped. The traversal uses an
// explicit worklist, so export documents of any depth are safe.
func Extract(node any) username.Set {
	usernames := username.NewSet()

	work := []any{node}
	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		switch v := item.(type) {
		case map[string]any:
			if s, ok := v["value"].(string); ok {
				usernames.Add(s)
			}
			if s, ok := v["href"].(string); ok {
				usernames.Add(s)
			}
			for _, child := range v {
				work = append(work, child)
			}
		case []any:
			for _, child := range v {
				work = append(work, child)
			}
		}
	}

	return usernames
}

// ParseFreeform extracts usernames from a pasted list. Tokens are separated
// by any run of newlines, commas, semicolons, tabs, or spaces, and each may
// carry "@" prefixes or be a full profile URL.
func ParseFreeform(text string) username.Set {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '\n', '\r', ',', ';', '\t', ' ':
			return true
		}
		return false
	})
	return username.NewSet(tokens...)
}

// ReadRelationFile loads one export document and extracts its relation set.
// A missing file surfaces as an error wrapping os.ErrNotExist so callers can
// report it as a user problem rather than a crash.
func ReadRelationFile(path string) (username.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file %s: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing export file %s: %w", path, err)
	}

	return Extract(doc), nil
}
