// Package checker orchestrates a full follow reconciliation run: acquire
// the target's follower and followee lists from one of the supported
// sources, persist them as a snapshot, and compute the directional
// differences. The API path degrades gracefully to the last stored
// snapshot when Instagram keeps rate limiting.
package checker
