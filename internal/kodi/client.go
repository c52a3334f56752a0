package kodi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ratewatch/internal/config"
)

// ErrEmptyResponse indicates the library returned no usable JSON-RPC body.
var ErrEmptyResponse = errors.New("empty json-rpc response")

// HTTPDoer abstracts the HTTP client for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks JSON-RPC 2.0 to a Kodi instance.
type Client struct {
	endpoint string
	username string
	password string
	http     HTTPDoer
}

// NewClient constructs a client from configuration.
func NewClient(cfg config.Kodi) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: cfg.URL,
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient overrides the underlying HTTP client. Intended for tests.
func (c *Client) SetHTTPClient(doer HTTPDoer) {
	if doer != nil {
		c.http = doer
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	payload, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s returned %d: %s", method, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%s: %w", method, ErrEmptyResponse)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	if result == nil {
		return nil
	}
	if len(envelope.Result) == 0 {
		return fmt.Errorf("%s: %w", method, ErrEmptyResponse)
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

type listParams struct {
	Properties []string `json:"properties"`
}

// Movies fetches every library movie with the properties selection needs.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	var result struct {
		Movies []Movie `json:"movies"`
	}
	params := listParams{Properties: []string{"uniqueid", "rating", "year", "title"}}
	if err := c.call(ctx, "VideoLibrary.GetMovies", params, &result); err != nil {
		return nil, err
	}
	return result.Movies, nil
}

// TVShows fetches every library show with its external ids.
func (c *Client) TVShows(ctx context.Context) ([]Show, error) {
	var result struct {
		TVShows []Show `json:"tvshows"`
	}
	params := listParams{Properties: []string{"uniqueid"}}
	if err := c.call(ctx, "VideoLibrary.GetTVShows", params, &result); err != nil {
		return nil, err
	}
	return result.TVShows, nil
}

// Episodes fetches every library episode with the properties selection needs.
func (c *Client) Episodes(ctx context.Context) ([]Episode, error) {
	var result struct {
		Episodes []Episode `json:"episodes"`
	}
	params := listParams{Properties: []string{
		"season", "episode", "firstaired", "rating", "showtitle", "tvshowid", "uniqueid",
	}}
	if err := c.call(ctx, "VideoLibrary.GetEpisodes", params, &result); err != nil {
		return nil, err
	}
	return result.Episodes, nil
}

// SetMovieRating writes a new rating for the movie.
func (c *Client) SetMovieRating(ctx context.Context, movieID int64, rating float64) error {
	params := map[string]any{"movieid": movieID, "rating": rating}
	return c.call(ctx, "VideoLibrary.SetMovieDetails", params, nil)
}

// SetEpisodeRating writes a new rating for the episode.
func (c *Client) SetEpisodeRating(ctx context.Context, episodeID int64, rating float64) error {
	params := map[string]any{"episodeid": episodeID, "rating": rating}
	return c.call(ctx, "VideoLibrary.SetEpisodeDetails", params, nil)
}
