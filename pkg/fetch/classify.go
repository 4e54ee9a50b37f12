package fetch

import "strings"

// rateLimitHints are the phrases Instagram and its client libraries put in
// error text when a request was throttled rather than rejected outright.
// This textual matching is an informal contract with the upstream; keep the
// list here so it can change without touching the retry control flow.
var rateLimitHints = []string{
	"please wait a few minutes",
	"401 unauthorized",
	"feedback_required",
	"rate limit",
}

// IsRateLimited classifies an upstream error as a transient rate limit by
// matching its message against the known hint phrases, case-insensitively.
// Anything else is treated as fatal.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range rateLimitHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
