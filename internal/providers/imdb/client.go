package imdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go/v4"
	gocache "github.com/patrickmn/go-cache"

	"ratewatch/internal/logging"
	"ratewatch/internal/providers"
	"ratewatch/internal/rating"
)

const (
	// Name is the provider identifier used for limiter buckets and samples.
	Name = "imdb"

	defaultBaseURL = "https://www.imdb.com"

	// IMDb serves a consent interstitial to clients without a browser-like
	// user agent, so the scraper presents one.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Options tunes the client. Zero values fall back to sane defaults.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	CacheTTL      time.Duration
	RetryAttempts int
}

// Client scrapes IMDb title pages for aggregate ratings.
type Client struct {
	baseURL  string
	http     providers.HTTPDoer
	limiter  providers.Limiter
	cache    *gocache.Cache
	attempts uint
	logger   *slog.Logger
}

// NewClient constructs an IMDb client.
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

// MovieRating fetches the aggregate rating for a movie id.
func (c *Client) MovieRating(ctx context.Context, imdbID string) (rating.Sample, error) {
	return c.titleRating(ctx, imdbID)
}

// ShowRating fetches the aggregate rating for a show id.
func (c *Client) ShowRating(ctx context.Context, imdbID string) (rating.Sample, error) {
	return c.titleRating(ctx, imdbID)
}

// EpisodeRating fetches the aggregate rating for an episode. IMDb keys
// episodes by their own title id; season and episode numbers are unused.
func (c *Client) EpisodeRating(ctx context.Context, ref providers.EpisodeRef) (rating.Sample, error) {
	if ref.EpisodeIMDBID == "" {
		return rating.Sample{}, fmt.Errorf("%w: episode has no imdb id", providers.ErrNoData)
	}
	return c.titleRating(ctx, ref.EpisodeIMDBID)
}

// ldTitle mirrors the slice of the structured-data block the scraper reads.
type ldTitle struct {
	AggregateRating struct {
		RatingValue float64 `json:"ratingValue"`
		RatingCount int     `json:"ratingCount"`
	} `json:"aggregateRating"`
}

func (c *Client) titleRating(ctx context.Context, imdbID string) (rating.Sample, error) {
	if imdbID == "" {
		return rating.Sample{}, fmt.Errorf("%w: empty imdb id", providers.ErrNoData)
	}
	if cached, ok := c.cache.Get(imdbID); ok {
		return cached.(rating.Sample), nil
	}

	body, err := c.fetchPage(ctx, imdbID)
	if err != nil {
		return rating.Sample{}, err
	}

	sample, err := parseTitlePage(body, imdbID)
	if err != nil {
		return rating.Sample{}, err
	}
	c.cache.Set(imdbID, sample, gocache.DefaultExpiration)
	c.logger.Debug("rating fetched",
		slog.String("imdb_id", imdbID),
		slog.Float64("value", sample.Value),
		slog.Int("votes", sample.Votes),
	)
	return sample, nil
}

func (c *Client) fetchPage(ctx context.Context, imdbID string) ([]byte, error) {
	pageURL := fmt.Sprintf("%s/title/%s/", c.baseURL, imdbID)

	if err := c.limiter.Wait(ctx, Name); err != nil {
		return nil, err
	}
	c.limiter.Record(Name)

	return retry.DoWithData(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, retry.Unrecoverable(fmt.Errorf("build imdb request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "text/html,application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("imdb request failed: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, retry.Unrecoverable(fmt.Errorf("%w: title %s not found", providers.ErrNoData, imdbID))
		case resp.StatusCode >= http.StatusInternalServerError:
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("imdb returned %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, retry.Unrecoverable(fmt.Errorf("imdb returned %d", resp.StatusCode))
		}

		return io.ReadAll(resp.Body)
	},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(250*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}

func parseTitlePage(body []byte, imdbID string) (rating.Sample, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return rating.Sample{}, fmt.Errorf("parse imdb page: %w", err)
	}

	block := doc.Find(`script[type="application/ld+json"]`).First().Text()
	if strings.TrimSpace(block) == "" {
		return rating.Sample{}, fmt.Errorf("%w: no structured data for %s", providers.ErrNoData, imdbID)
	}

	var title ldTitle
	if err := json.Unmarshal([]byte(block), &title); err != nil {
		return rating.Sample{}, fmt.Errorf("%w: malformed structured data for %s", providers.ErrNoData, imdbID)
	}

	agg := title.AggregateRating
	if agg.RatingValue <= 0 || agg.RatingCount <= 0 {
		return rating.Sample{}, fmt.Errorf("%w: no aggregate rating for %s", providers.ErrNoData, imdbID)
	}
	return rating.Sample{Provider: Name, Value: agg.RatingValue, Votes: agg.RatingCount}, nil
}
