// Package quota implements the client-held usage counter attached to an
// access token.
//
// A Tracker owns one counter, keyed by the literal token string (or the
// "no-token" sentinel), and moves it through three states:
//
//	Fresh ──Restore──▶ Active ──Complete×Max──▶ Exhausted
//
// The first completion after Restore (the greeting) never counts, and
// completions arriving within the debounce window of the last counted one
// are dropped. Exhausted is terminal for a key; only a new token yields a new
// counter.
//
// Concurrency:
//
// A single Tracker serializes its own callers. Two Trackers, tabs or processes
// sharing one key through the same Store are NOT coordinated: each does its
// own read-modify-write and a decrement can be lost. This is accepted; the
// Store is assumed to be client-local storage without cross-writer locking.
package quota
