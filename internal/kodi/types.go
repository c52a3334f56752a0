package kodi

// UniqueIDs maps provider scheme names (imdb, tmdb, tvdb) to external ids.
type UniqueIDs map[string]string

// IMDB returns the IMDb id, or "" when the item carries none.
func (u UniqueIDs) IMDB() string {
	return u["imdb"]
}

// Movie is one VideoLibrary.GetMovies row.
type Movie struct {
	MovieID  int64     `json:"movieid"`
	Title    string    `json:"title"`
	Year     int       `json:"year"`
	Rating   float64   `json:"rating"`
	UniqueID UniqueIDs `json:"uniqueid"`
}

// Show is one VideoLibrary.GetTVShows row.
type Show struct {
	TVShowID int64     `json:"tvshowid"`
	UniqueID UniqueIDs `json:"uniqueid"`
}

// Episode is one VideoLibrary.GetEpisodes row.
type Episode struct {
	EpisodeID  int64     `json:"episodeid"`
	Season     int       `json:"season"`
	Episode    int       `json:"episode"`
	FirstAired string    `json:"firstaired"`
	Rating     float64   `json:"rating"`
	ShowTitle  string    `json:"showtitle"`
	TVShowID   int64     `json:"tvshowid"`
	UniqueID   UniqueIDs `json:"uniqueid"`
}
