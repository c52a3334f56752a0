package kodi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ratewatch/internal/config"
	"ratewatch/internal/kodi"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *kodi.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return kodi.NewClient(config.Kodi{URL: server.URL, TimeoutSeconds: 5})
}

func decodeRequest(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	return payload
}

func TestMoviesRequestsExpectedProperties(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload := decodeRequest(t, r)
		if payload["method"] != "VideoLibrary.GetMovies" {
			t.Fatalf("method = %v", payload["method"])
		}
		params := payload["params"].(map[string]any)
		props := params["properties"].([]any)
		if len(props) != 4 {
			t.Fatalf("expected 4 properties, got %v", props)
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"movies":[
			{"movieid":5,"title":"Heat","year":1995,"rating":7.9,"uniqueid":{"imdb":"tt0113277","tmdb":"949"}}
		]}}`))
	})

	movies, err := client.Movies(context.Background())
	if err != nil {
		t.Fatalf("Movies: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("got %d movies, want 1", len(movies))
	}
	movie := movies[0]
	if movie.MovieID != 5 || movie.Title != "Heat" || movie.UniqueID.IMDB() != "tt0113277" {
		t.Fatalf("unexpected movie %+v", movie)
	}
}

func TestEpisodesDecodesRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"episodes":[
			{"episodeid":42,"season":2,"episode":3,"firstaired":"2024-02-10","rating":8.1,
			 "showtitle":"Slow Horses","tvshowid":7,"uniqueid":{"imdb":"tt21056886"}}
		]}}`))
	})

	episodes, err := client.Episodes(context.Background())
	if err != nil {
		t.Fatalf("Episodes: %v", err)
	}
	if len(episodes) != 1 {
		t.Fatalf("got %d episodes, want 1", len(episodes))
	}
	ep := episodes[0]
	if ep.Season != 2 || ep.Episode != 3 || ep.FirstAired != "2024-02-10" || ep.TVShowID != 7 {
		t.Fatalf("unexpected episode %+v", ep)
	}
}

func TestSetMovieRatingSendsParams(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = decodeRequest(t, r)
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"OK"}`))
	})

	if err := client.SetMovieRating(context.Background(), 5, 8.5); err != nil {
		t.Fatalf("SetMovieRating: %v", err)
	}
	params := got["params"].(map[string]any)
	if params["movieid"].(float64) != 5 || params["rating"].(float64) != 8.5 {
		t.Fatalf("unexpected params %v", params)
	}
}

func TestCallSurfacesRPCError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`))
	})
	if _, err := client.Movies(context.Background()); err == nil {
		t.Fatal("expected rpc error")
	}
}

func TestCallRejectsEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := client.Movies(context.Background()); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestCallRejectsHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	if _, err := client.Movies(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestBasicAuthHeaderSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "kodi" || pass != "secret" {
			t.Fatalf("missing basic auth, got %q/%q", user, pass)
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"movies":[]}}`))
	}))
	defer server.Close()

	client := kodi.NewClient(config.Kodi{URL: server.URL, Username: "kodi", Password: "secret", TimeoutSeconds: 5})
	if _, err := client.Movies(context.Background()); err != nil {
		t.Fatalf("Movies: %v", err)
	}
}
