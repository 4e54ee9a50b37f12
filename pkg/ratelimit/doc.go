// Package ratelimit paces requests against the Instagram API.
//
// The token bucket has a fixed capacity that refills after a period; the
// client takes one token per page of followers or followees, so pagination
// through large accounts stays under Instagram's per-minute budget instead
// of triggering the rate limiter the Backoff Fetcher then has to ride out.
package ratelimit
