// Package ratelimit provides a per-provider sliding-window rate limiter.
//
// Each provider keeps a bounded window of its most recent call timestamps,
// sized to the provider's permitted calls per second. Wait blocks until
// issuing another call would keep the window within its budget; Record
// registers a call. Bursts of up to the window size are allowed back to
// back, after which callers are delayed until the oldest timestamp ages out
// of the one-second window.
package ratelimit
