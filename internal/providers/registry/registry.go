package registry

import (
	"log/slog"
	"time"

	"ratewatch/internal/config"
	"ratewatch/internal/logging"
	"ratewatch/internal/providers"
	"ratewatch/internal/providers/imdb"
	"ratewatch/internal/providers/trakt"
	"ratewatch/internal/ratelimit"
)

// Build returns the provider clients enabled by configuration.
//
// When every provider is disabled the refresher would silently do nothing,
// so IMDb is force-enabled and a warning logged instead of failing the run.
func Build(cfg *config.Config, logger *slog.Logger) []providers.Client {
	if logger == nil {
		logger = logging.NewNop()
	}

	useIMDB := cfg.Providers.UseIMDB
	useTrakt := cfg.Providers.UseTrakt
	if !useIMDB && !useTrakt {
		logger.Warn("no rating provider enabled, defaulting to IMDb")
		useIMDB = true
	}

	limiter := ratelimit.New(map[string]int{
		imdb.Name:  cfg.Providers.IMDBRateLimit,
		trakt.Name: cfg.Providers.TraktRateLimit,
	})

	timeout := time.Duration(cfg.Providers.TimeoutSeconds) * time.Second
	cacheTTL := time.Duration(cfg.Providers.CacheTTLMinutes) * time.Minute

	var clients []providers.Client
	if useIMDB {
		clients = append(clients, imdb.NewClient(limiter, logger, imdb.Options{
			Timeout:       timeout,
			CacheTTL:      cacheTTL,
			RetryAttempts: cfg.Providers.RetryAttempts,
		}))
	}
	if useTrakt {
		clients = append(clients, trakt.NewClient(limiter, logger, trakt.Options{
			Timeout:       timeout,
			CacheTTL:      cacheTTL,
			RetryAttempts: cfg.Providers.RetryAttempts,
		}))
	}
	return clients
}
