// Package config loads, normalizes, and validates ratewatch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the daemon and CLI need: the Kodi JSON-RPC endpoint, provider toggles and
// rate limits, catalog selection windows, and the refresh schedule.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
