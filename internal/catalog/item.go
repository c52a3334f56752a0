package catalog

import "fmt"

// Kind distinguishes the two refreshable item types.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindEpisode Kind = "episode"
)

// Item is one catalog entry eligible for a rating refresh.
//
// Movies carry their own IMDb id. Episodes carry two cross-reference ids
// because the providers key differently: IMDb looks up the episode's own
// title page, Trakt looks up the show plus season/episode numbers.
type Item struct {
	ID           int64
	Kind         Kind
	Title        string
	Year         int
	Season       int
	Episode      int
	StoredRating float64
	IMDBID       string
	ShowIMDBID   string
}

// Label renders a human identity for logs: "Heat (1995)" or
// "Slow Horses S02E03".
func (i Item) Label() string {
	if i.Kind == KindEpisode {
		return fmt.Sprintf("%s S%02dE%02d", i.Title, i.Season, i.Episode)
	}
	if i.Year > 0 {
		return fmt.Sprintf("%s (%d)", i.Title, i.Year)
	}
	return i.Title
}
