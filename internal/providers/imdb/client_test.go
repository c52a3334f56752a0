package imdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"ratewatch/internal/logging"
	"ratewatch/internal/providers"
)

const titlePage = `<!DOCTYPE html><html><head>
<script type="application/ld+json">{"@type":"Movie","name":"Heat",
"aggregateRating":{"@type":"AggregateRating","ratingCount":742000,"ratingValue":8.3}}</script>
</head><body></body></html>`

type nopLimiter struct {
	waits   int32
	records int32
}

func (l *nopLimiter) Wait(ctx context.Context, provider string) error {
	atomic.AddInt32(&l.waits, 1)
	return nil
}

func (l *nopLimiter) Record(provider string) {
	atomic.AddInt32(&l.records, 1)
}

func newClient(t *testing.T, handler http.HandlerFunc) (*Client, *nopLimiter) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	limiter := &nopLimiter{}
	client := NewClient(limiter, logging.NewNop(), Options{BaseURL: server.URL, RetryAttempts: 1})
	return client, limiter
}

func TestMovieRatingParsesStructuredData(t *testing.T) {
	client, limiter := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/title/tt0113277/" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, titlePage)
	})

	sample, err := client.MovieRating(context.Background(), "tt0113277")
	if err != nil {
		t.Fatalf("MovieRating: %v", err)
	}
	if sample.Value != 8.3 || sample.Votes != 742000 || sample.Provider != Name {
		t.Fatalf("unexpected sample %+v", sample)
	}
	if limiter.waits != 1 || limiter.records != 1 {
		t.Fatalf("limiter waits=%d records=%d, want 1/1", limiter.waits, limiter.records)
	}
}

func TestSecondLookupServedFromCache(t *testing.T) {
	var hits int32
	client, limiter := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, titlePage)
	})

	ctx := context.Background()
	if _, err := client.MovieRating(ctx, "tt0113277"); err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if _, err := client.MovieRating(ctx, "tt0113277"); err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if hits != 1 {
		t.Fatalf("server hits = %d, want 1", hits)
	}
	if limiter.waits != 1 {
		t.Fatalf("cache hit must not consume a limiter slot, waits = %d", limiter.waits)
	}
}

func TestMissingAggregateRatingIsNoData(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><script type="application/ld+json">{"@type":"Movie"}</script></head></html>`)
	})

	_, err := client.MovieRating(context.Background(), "tt0000001")
	if !errors.Is(err, providers.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestMissingStructuredDataIsNoData(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing here</body></html>`)
	})

	_, err := client.MovieRating(context.Background(), "tt0000001")
	if !errors.Is(err, providers.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestNotFoundIsNoData(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.MovieRating(context.Background(), "tt9999999")
	if !errors.Is(err, providers.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestServerErrorRetriesThenFails(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(&nopLimiter{}, logging.NewNop(), Options{BaseURL: server.URL, RetryAttempts: 3})
	_, err := client.MovieRating(context.Background(), "tt0000001")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, providers.ErrNoData) {
		t.Fatalf("server errors are transport failures, not no-data: %v", err)
	}
	if hits != 3 {
		t.Fatalf("server hits = %d, want 3 retries", hits)
	}
}

func TestEpisodeRatingUsesEpisodeID(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/title/tt1000001/" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, titlePage)
	})

	ref := providers.EpisodeRef{EpisodeIMDBID: "tt1000001", ShowIMDBID: "tt0903747", Season: 2, Episode: 3}
	if _, err := client.EpisodeRating(context.Background(), ref); err != nil {
		t.Fatalf("EpisodeRating: %v", err)
	}
}

func TestEpisodeRatingWithoutIDIsNoData(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.EpisodeRating(context.Background(), providers.EpisodeRef{ShowIMDBID: "tt0903747"})
	if !errors.Is(err, providers.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}
