package providers

import (
	"context"
	"errors"
	"net/http"

	"ratewatch/internal/rating"
)

// HTTPDoer abstracts the HTTP client for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrNoData indicates the provider has no rating for the requested title.
// It covers missing titles, absent aggregate blocks, and unparseable rating
// payloads alike; the caller treats all of them as an absent sample.
var ErrNoData = errors.New("no rating data")

// EpisodeRef carries both cross-reference ids an episode lookup may need.
// IMDb resolves the episode's own title page; Trakt resolves the show id
// plus season and episode numbers.
type EpisodeRef struct {
	EpisodeIMDBID string
	ShowIMDBID    string
	Season        int
	Episode       int
}

// Client is one rating source.
type Client interface {
	Name() string
	MovieRating(ctx context.Context, imdbID string) (rating.Sample, error)
	ShowRating(ctx context.Context, imdbID string) (rating.Sample, error)
	EpisodeRating(ctx context.Context, ref EpisodeRef) (rating.Sample, error)
}

// Limiter is the throttle shared by all provider clients.
type Limiter interface {
	Wait(ctx context.Context, provider string) error
	Record(provider string)
}
