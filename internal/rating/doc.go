// Package rating defines the provider rating sample type and the
// vote-weighted aggregation that merges samples from multiple providers
// into a single library rating.
package rating
