package testsupport

import (
	"path/filepath"
	"testing"

	"ratewatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithKodiURL points the test config at the given JSON-RPC endpoint.
func WithKodiURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Kodi.URL = url
	}
}
