package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateKodi(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateSchedule(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateKodi() error {
	if strings.TrimSpace(c.Kodi.URL) == "" {
		return errors.New("kodi.url must be set")
	}
	parsed, err := url.Parse(c.Kodi.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("kodi.url %q is not a valid URL", c.Kodi.URL)
	}
	if c.Kodi.TimeoutSeconds <= 0 {
		return errors.New("kodi.timeout_seconds must be positive")
	}
	return nil
}

// validateProviders checks request budgets only. Both providers disabled is
// not an error here: the provider registry force-enables IMDb at runtime and
// logs a warning, so a bad toggle never blocks a refresh.
func (c *Config) validateProviders() error {
	return ensurePositiveMap(map[string]int{
		"providers.imdb_rate_limit":   c.Providers.IMDBRateLimit,
		"providers.trakt_rate_limit":  c.Providers.TraktRateLimit,
		"providers.timeout_seconds":   c.Providers.TimeoutSeconds,
		"providers.cache_ttl_minutes": c.Providers.CacheTTLMinutes,
		"providers.retry_attempts":    c.Providers.RetryAttempts,
	})
}

func (c *Config) validateSelection() error {
	return ensurePositiveMap(map[string]int{
		"selection.movie_years_back":   c.Selection.MovieYearsBack,
		"selection.tvshow_months_back": c.Selection.TVShowMonthsBack,
	})
}

func (c *Config) validateSchedule() error {
	return ensurePositiveMap(map[string]int{
		"schedule.update_interval_days":   c.Schedule.UpdateIntervalDays,
		"schedule.check_interval_minutes": c.Schedule.CheckIntervalMinutes,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
