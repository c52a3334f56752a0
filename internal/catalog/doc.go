// Package catalog selects library items eligible for a rating refresh and
// writes updated ratings back.
//
// Selection bounds the refresh to recently released movies and recently
// aired episodes, and requires the external ids the enabled providers need.
// Items that fail a filter are excluded, never errored; catalog query
// failures degrade to an empty selection so a cycle always completes.
package catalog
