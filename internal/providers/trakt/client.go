package trakt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	gocache "github.com/patrickmn/go-cache"

	"ratewatch/internal/logging"
	"ratewatch/internal/providers"
	"ratewatch/internal/rating"
)

const (
	// Name is the provider identifier used for limiter buckets and samples.
	Name = "trakt"

	defaultBaseURL = "https://api.trakt.tv"
	apiVersion     = "2"

	// Public client id of the Kodi TV show scraper, which this lookup
	// mirrors. Read-only rating endpoints require no user auth.
	apiKey = "90901c6be3b2de5a4fa0edf9ab5c75e9a5a0fef2b4ee7373d8b63dcf61f95697"

	userAgent = "ratewatch (Kodi library rating refresher)"
)

// Options tunes the client. Zero values fall back to sane defaults.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	CacheTTL      time.Duration
	RetryAttempts int
}

// Client calls the Trakt REST API.
type Client struct {
	baseURL  string
	http     providers.HTTPDoer
	limiter  providers.Limiter
	cache    *gocache.Cache
	attempts uint
	logger   *slog.Logger
}

// NewClient constructs a Trakt client.
func NewClient(limiter providers.Limiter, logger *slog.Logger, opts Options) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	attempts := opts.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		limiter:  limiter,
		cache:    gocache.New(ttl, 10*time.Minute),
		attempts: uint(attempts),
		logger:   logger.With(slog.String(logging.FieldProvider, Name)),
	}
}

// SetHTTPClient overrides the underlying HTTP client. Intended for tests.
func (c *Client) SetHTTPClient(doer providers.HTTPDoer) {
	if doer != nil {
		c.http = doer
	}
}

// Name implements providers.Client.
func (c *Client) Name() string { return Name }

// ratingBody is the slice of Trakt responses the refresher reads. Both the
// extended summary endpoints and the episode ratings endpoint carry these
// fields at the top level.
type ratingBody struct {
	Rating float64 `json:"rating"`
	Votes  int     `json:"votes"`
}

// MovieRating fetches the rating for a movie by IMDb id.
func (c *Client) MovieRating(ctx context.Context, imdbID string) (rating.Sample, error) {
	if imdbID == "" {
		return rating.Sample{}, fmt.Errorf("%w: empty imdb id", providers.ErrNoData)
	}
	return c.fetch(ctx, fmt.Sprintf("/movies/%s?extended=full", imdbID))
}

// ShowRating fetches the rating for a show by IMDb id.
func (c *Client) ShowRating(ctx context.Context, imdbID string) (rating.Sample, error) {
	if imdbID == "" {
		return rating.Sample{}, fmt.Errorf("%w: empty imdb id", providers.ErrNoData)
	}
	return c.fetch(ctx, fmt.Sprintf("/shows/%s?extended=full", imdbID))
}

// EpisodeRating fetches the rating for an episode. Trakt keys episodes by
// the owning show's id plus season and episode numbers.
func (c *Client) EpisodeRating(ctx context.Context, ref providers.EpisodeRef) (rating.Sample, error) {
	if ref.ShowIMDBID == "" {
		return rating.Sample{}, fmt.Errorf("%w: episode's show has no imdb id", providers.ErrNoData)
	}
	path := fmt.Sprintf("/shows/%s/seasons/%d/episodes/%d/ratings", ref.ShowIMDBID, ref.Season, ref.Episode)
	return c.fetch(ctx, path)
}

func (c *Client) fetch(ctx context.Context, path string) (rating.Sample, error) {
	if cached, ok := c.cache.Get(path); ok {
		return cached.(rating.Sample), nil
	}

	if err := c.limiter.Wait(ctx, Name); err != nil {
		return rating.Sample{}, err
	}
	c.limiter.Record(Name)

	body, err := retry.DoWithData(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, retry.Unrecoverable(fmt.Errorf("build trakt request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("trakt-api-key", apiKey)
		req.Header.Set("trakt-api-version", apiVersion)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("trakt request failed: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, retry.Unrecoverable(fmt.Errorf("%w: %s", providers.ErrNoData, path))
		case resp.StatusCode >= http.StatusInternalServerError,
			resp.StatusCode == http.StatusTooManyRequests:
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("trakt returned %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, retry.Unrecoverable(fmt.Errorf("trakt returned %d", resp.StatusCode))
		}

		return io.ReadAll(resp.Body)
	},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(250*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return rating.Sample{}, err
	}

	var parsed ratingBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return rating.Sample{}, fmt.Errorf("%w: malformed trakt body for %s", providers.ErrNoData, path)
	}
	if parsed.Rating <= 0 || parsed.Votes <= 0 {
		return rating.Sample{}, fmt.Errorf("%w: no votes for %s", providers.ErrNoData, path)
	}

	sample := rating.Sample{Provider: Name, Value: parsed.Rating, Votes: parsed.Votes}
	c.cache.Set(path, sample, gocache.DefaultExpiration)
	c.logger.Debug("rating fetched",
		slog.String("path", path),
		slog.Float64("value", sample.Value),
		slog.Int("votes", sample.Votes),
	)
	return sample, nil
}
