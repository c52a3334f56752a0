package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ratewatch/internal/catalog"
	"ratewatch/internal/config"
	"ratewatch/internal/kodi"
	"ratewatch/internal/logging"
)

type fakeLibrary struct {
	movies   []kodi.Movie
	shows    []kodi.Show
	episodes []kodi.Episode
	err      error
}

func (f *fakeLibrary) Movies(ctx context.Context) ([]kodi.Movie, error) {
	return f.movies, f.err
}

func (f *fakeLibrary) TVShows(ctx context.Context) ([]kodi.Show, error) {
	return f.shows, f.err
}

func (f *fakeLibrary) Episodes(ctx context.Context) ([]kodi.Episode, error) {
	return f.episodes, f.err
}

func newSelector(t *testing.T, lib *fakeLibrary, cfg config.Selection, now time.Time) *catalog.Selector {
	t.Helper()
	sel := catalog.NewSelector(lib, cfg, logging.NewNop())
	sel.SetNow(func() time.Time { return now })
	return sel
}

func TestSelectMoviesFiltersByYearAndID(t *testing.T) {
	lib := &fakeLibrary{movies: []kodi.Movie{
		{MovieID: 1, Title: "Recent", Year: 2023, Rating: 7.87, UniqueID: kodi.UniqueIDs{"imdb": "tt0000001"}},
		{MovieID: 2, Title: "Too Old", Year: 2015, UniqueID: kodi.UniqueIDs{"imdb": "tt0000002"}},
		{MovieID: 3, Title: "No ID", Year: 2024, UniqueID: kodi.UniqueIDs{"tmdb": "42"}},
		{MovieID: 4, Title: "Nil IDs", Year: 2024},
	}}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sel := newSelector(t, lib, config.Selection{MovieYearsBack: 2}, now)

	items := sel.SelectMovies(context.Background())
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(items), items)
	}
	item := items[0]
	if item.ID != 1 || item.Kind != catalog.KindMovie || item.IMDBID != "tt0000001" {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.StoredRating != 7.9 {
		t.Fatalf("stored rating = %v, want rounded 7.9", item.StoredRating)
	}
}

func TestSelectMoviesQueryFailureYieldsEmpty(t *testing.T) {
	lib := &fakeLibrary{err: errors.New("rpc down")}
	sel := newSelector(t, lib, config.Selection{MovieYearsBack: 2}, time.Now())
	if items := sel.SelectMovies(context.Background()); len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
}

func TestSelectEpisodesRecencyWindow(t *testing.T) {
	lib := &fakeLibrary{
		shows: []kodi.Show{
			{TVShowID: 7, UniqueID: kodi.UniqueIDs{"imdb": "tt0903747"}},
		},
		episodes: []kodi.Episode{
			{EpisodeID: 10, TVShowID: 7, Season: 1, Episode: 1, FirstAired: "2020-01-01",
				ShowTitle: "Show", UniqueID: kodi.UniqueIDs{"imdb": "tt1000001"}},
		},
	}
	cfg := config.Selection{TVShowMonthsBack: 24}

	// Outside the 24-month window.
	sel := newSelector(t, lib, cfg, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if items := sel.SelectEpisodes(context.Background()); len(items) != 0 {
		t.Fatalf("expected exclusion at 2024-01-01, got %+v", items)
	}

	// Inside the window.
	sel = newSelector(t, lib, cfg, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))
	items := sel.SelectEpisodes(context.Background())
	if len(items) != 1 {
		t.Fatalf("expected inclusion at 2021-06-01, got %+v", items)
	}
	item := items[0]
	if item.IMDBID != "tt1000001" || item.ShowIMDBID != "tt0903747" {
		t.Fatalf("unexpected ids %+v", item)
	}
	if item.Kind != catalog.KindEpisode || item.Season != 1 || item.Episode != 1 {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestSelectEpisodesRequiresBothIDs(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	lib := &fakeLibrary{
		shows: []kodi.Show{
			{TVShowID: 1, UniqueID: kodi.UniqueIDs{"imdb": "tt0000010"}},
			{TVShowID: 2}, // show without imdb id
		},
		episodes: []kodi.Episode{
			{EpisodeID: 1, TVShowID: 1, FirstAired: "2024-05-01", UniqueID: kodi.UniqueIDs{"imdb": "tt0000011"}},
			{EpisodeID: 2, TVShowID: 1, FirstAired: "2024-05-01"},                                              // no episode id
			{EpisodeID: 3, TVShowID: 2, FirstAired: "2024-05-01", UniqueID: kodi.UniqueIDs{"imdb": "tt0000013"}}, // show lacks id
			{EpisodeID: 4, TVShowID: 9, FirstAired: "2024-05-01", UniqueID: kodi.UniqueIDs{"imdb": "tt0000014"}}, // unknown show
		},
	}
	sel := newSelector(t, lib, config.Selection{TVShowMonthsBack: 6}, now)

	items := sel.SelectEpisodes(context.Background())
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("expected only episode 1, got %+v", items)
	}
}

func TestSelectEpisodesMalformedDateExcluded(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	lib := &fakeLibrary{
		shows: []kodi.Show{{TVShowID: 1, UniqueID: kodi.UniqueIDs{"imdb": "tt0000010"}}},
		episodes: []kodi.Episode{
			{EpisodeID: 1, TVShowID: 1, FirstAired: "05/01/2024", UniqueID: kodi.UniqueIDs{"imdb": "tt0000011"}},
			{EpisodeID: 2, TVShowID: 1, FirstAired: "", UniqueID: kodi.UniqueIDs{"imdb": "tt0000012"}},
		},
	}
	sel := newSelector(t, lib, config.Selection{TVShowMonthsBack: 6}, now)

	if items := sel.SelectEpisodes(context.Background()); len(items) != 0 {
		t.Fatalf("expected malformed/empty dates excluded, got %+v", items)
	}
}
