// Package trakt fetches ratings from the Trakt REST API.
//
// Movies and shows use the summary endpoints with extended=full, which
// include rating and vote fields; episodes use the dedicated ratings
// endpoint keyed by show id plus season and episode numbers.
package trakt
