// Package kodi implements the JSON-RPC client for the Kodi video library.
//
// Only the VideoLibrary surface this project needs is covered: listing
// movies, shows, and episodes with their external ids and stored ratings,
// and writing a rating back to a movie or episode.
package kodi
