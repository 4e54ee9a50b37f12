// Package snapshot persists the last known relation sets for a target so a
// later run can fall back to them when Instagram rate-limits the live API.
//
// One JSON document is stored per (target, source) pair:
//
//	{
//	  "generated_at": "2026-08-30T12:00:00Z",
//	  "source": "api",
//	  "target": "jane.doe",
//	  "followers": ["alice", "bob"],
//	  "followees": ["alice", "carol"]
//	}
//
// Writes replace the whole document atomically (temp file then rename);
// there is no merging with earlier snapshots and no deletion path. A missing
// document is the normal "no prior snapshot" state, while a corrupt one is a
// hard error.
package snapshot
