package updater

import "fmt"

// Report tallies the outcome of one refresh cycle.
type Report struct {
	MoviesExamined   int
	EpisodesExamined int
	Updated          int
	Skipped          int
	NoData           int
	Failed           int
}

// Examined returns the total number of items considered.
func (r Report) Examined() int {
	return r.MoviesExamined + r.EpisodesExamined
}

// Summary renders the tallies as a single human-readable line.
func (r Report) Summary() string {
	return fmt.Sprintf("examined %d (movies %d, episodes %d): updated %d, unchanged %d, no data %d, failed %d",
		r.Examined(), r.MoviesExamined, r.EpisodesExamined,
		r.Updated, r.Skipped, r.NoData, r.Failed)
}
