package config

const (
	defaultStateDir             = "~/.local/share/ratewatch"
	defaultLogDir               = "~/.local/share/ratewatch/logs"
	defaultKodiURL              = "http://127.0.0.1:8080/jsonrpc"
	defaultKodiTimeoutSeconds   = 30
	defaultIMDBRateLimit        = 2
	defaultTraktRateLimit       = 2
	defaultProviderTimeout      = 15
	defaultProviderCacheTTL     = 360
	defaultProviderRetries      = 3
	defaultMovieYearsBack       = 2
	defaultTVShowMonthsBack     = 6
	defaultUpdateIntervalDays   = 7
	defaultCheckIntervalMinutes = 60
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Kodi: Kodi{
			URL:            defaultKodiURL,
			TimeoutSeconds: defaultKodiTimeoutSeconds,
		},
		Providers: Providers{
			UseIMDB:         true,
			UseTrakt:        true,
			IMDBRateLimit:   defaultIMDBRateLimit,
			TraktRateLimit:  defaultTraktRateLimit,
			TimeoutSeconds:  defaultProviderTimeout,
			CacheTTLMinutes: defaultProviderCacheTTL,
			RetryAttempts:   defaultProviderRetries,
		},
		Selection: Selection{
			UpdateMovies:     true,
			UpdateTVShows:    true,
			MovieYearsBack:   defaultMovieYearsBack,
			TVShowMonthsBack: defaultTVShowMonthsBack,
		},
		Schedule: Schedule{
			UpdateIntervalDays:   defaultUpdateIntervalDays,
			CheckIntervalMinutes: defaultCheckIntervalMinutes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
	}
}
