// Package imdb fetches ratings by scraping IMDb title pages.
//
// Each title page embeds an application/ld+json structured-data block whose
// aggregateRating object carries the mean rating and vote count. Movies,
// shows, and episodes all resolve through the same page shape, keyed by the
// item's own IMDb id.
package imdb
