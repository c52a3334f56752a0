// Package logging constructs the slog loggers used across ratewatch.
//
// It offers a human-oriented console handler for interactive runs, a JSON
// handler for the daemon, file tee output under the configured log
// directory, and context helpers that carry per-item identity through a
// refresh cycle.
package logging
