package catalog

import (
	"context"
	"log/slog"
	"time"

	"ratewatch/internal/config"
	"ratewatch/internal/kodi"
	"ratewatch/internal/logging"
	"ratewatch/internal/rating"
)

const airDateLayout = "2006-01-02"

// Library is the read side of the Kodi client used by selection.
type Library interface {
	Movies(ctx context.Context) ([]kodi.Movie, error)
	TVShows(ctx context.Context) ([]kodi.Show, error)
	Episodes(ctx context.Context) ([]kodi.Episode, error)
}

// Selector queries the library and applies the recency and id filters.
type Selector struct {
	library Library
	cfg     config.Selection
	logger  *slog.Logger
	now     func() time.Time
}

// NewSelector constructs a selector.
func NewSelector(library Library, cfg config.Selection, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Selector{
		library: library,
		cfg:     cfg,
		logger:  logger.With(slog.String(logging.FieldComponent, "selector")),
		now:     time.Now,
	}
}

// SetNow overrides the clock. Intended for tests.
func (s *Selector) SetNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SelectMovies returns movies released within the configured years-back
// window that carry an IMDb id. Query failures log and yield no items.
func (s *Selector) SelectMovies(ctx context.Context) []Item {
	movies, err := s.library.Movies(ctx)
	if err != nil {
		s.logger.Error("list movies", logging.Error(err))
		return nil
	}

	cutoffYear := s.now().Year() - s.cfg.MovieYearsBack
	items := make([]Item, 0, len(movies))
	for _, movie := range movies {
		if movie.Year < cutoffYear {
			continue
		}
		imdbID := movie.UniqueID.IMDB()
		if imdbID == "" {
			continue
		}
		items = append(items, Item{
			ID:           movie.MovieID,
			Kind:         KindMovie,
			Title:        movie.Title,
			Year:         movie.Year,
			StoredRating: rating.Round1(movie.Rating),
			IMDBID:       imdbID,
		})
	}
	s.logger.Debug("movies selected",
		slog.Int("total", len(movies)),
		slog.Int("eligible", len(items)),
		slog.Int("cutoff_year", cutoffYear),
	)
	return items
}

// SelectEpisodes returns episodes that aired within the configured
// months-back window and carry both the episode's IMDb id and the owning
// show's IMDb id. Malformed air dates are logged and treated as not recent.
func (s *Selector) SelectEpisodes(ctx context.Context) []Item {
	shows, err := s.library.TVShows(ctx)
	if err != nil {
		s.logger.Error("list tv shows", logging.Error(err))
		return nil
	}
	showIMDB := make(map[int64]string, len(shows))
	for _, show := range shows {
		if id := show.UniqueID.IMDB(); id != "" {
			showIMDB[show.TVShowID] = id
		}
	}

	episodes, err := s.library.Episodes(ctx)
	if err != nil {
		s.logger.Error("list episodes", logging.Error(err))
		return nil
	}

	cutoff := s.now().Add(-time.Duration(s.cfg.TVShowMonthsBack) * 30 * 24 * time.Hour)
	items := make([]Item, 0, len(episodes))
	for _, episode := range episodes {
		if !s.airedSince(episode, cutoff) {
			continue
		}
		showID := showIMDB[episode.TVShowID]
		if showID == "" {
			continue
		}
		episodeID := episode.UniqueID.IMDB()
		if episodeID == "" {
			continue
		}
		items = append(items, Item{
			ID:           episode.EpisodeID,
			Kind:         KindEpisode,
			Title:        episode.ShowTitle,
			Season:       episode.Season,
			Episode:      episode.Episode,
			StoredRating: rating.Round1(episode.Rating),
			IMDBID:       episodeID,
			ShowIMDBID:   showID,
		})
	}
	s.logger.Debug("episodes selected",
		slog.Int("total", len(episodes)),
		slog.Int("eligible", len(items)),
	)
	return items
}

func (s *Selector) airedSince(episode kodi.Episode, cutoff time.Time) bool {
	if episode.FirstAired == "" {
		return false
	}
	aired, err := time.Parse(airDateLayout, episode.FirstAired)
	if err != nil {
		s.logger.Warn("invalid air date",
			slog.String("firstaired", episode.FirstAired),
			slog.String(logging.FieldTitle, episode.ShowTitle),
		)
		return false
	}
	return !aired.Before(cutoff)
}
