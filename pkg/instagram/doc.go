// Package instagram implements a client for Instagram's private web API.
//
// The client resolves a username to its numeric ID through the web profile
// endpoint, then walks the paginated friendships listings to collect the
// account's followers and followees. Requests carry the session cookies of
// a logged-in account and are paced by a rate limiter so a full listing
// does not trip Instagram's throttling.
//
// Errors are reported as typed *errors.Error values. The messages attached
// to 401 and 429 responses keep Instagram's own wording so the text-based
// rate-limit classification upstream recognizes them.
package instagram
