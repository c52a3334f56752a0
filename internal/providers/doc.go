// Package providers defines the closed set of external rating sources.
//
// Every provider implements the same capability interface: movie, show, and
// episode lookups that yield a single (rating, votes) sample. Transport and
// parse failures surface as errors the runner absorbs per item; a missing
// rating is the distinguished ErrNoData so callers can tell "provider has
// nothing" from "provider is broken".
package providers
