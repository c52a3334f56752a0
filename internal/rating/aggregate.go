package rating

import "math"

// Sample is one (rating, vote count) observation from a single provider.
type Sample struct {
	Provider string
	Value    float64
	Votes    int
}

// Valid reports whether the sample may contribute to aggregation. Providers
// return zero-valued samples when a title carries no rating data; those must
// never skew the weighted mean.
func (s Sample) Valid() bool {
	return s.Value > 0 && s.Votes > 0
}

// Result is the combined rating across all contributing samples.
type Result struct {
	Weighted   float64
	TotalVotes int
}

// Aggregate computes the vote-weighted mean of the valid samples, rounded to
// one decimal place. The second return value is false when no sample is
// valid, in which case no library update should be issued.
func Aggregate(samples []Sample) (Result, bool) {
	var sum float64
	var votes int
	for _, s := range samples {
		if !s.Valid() {
			continue
		}
		sum += s.Value * float64(s.Votes)
		votes += s.Votes
	}
	if votes == 0 {
		return Result{}, false
	}
	return Result{
		Weighted:   Round1(sum / float64(votes)),
		TotalVotes: votes,
	}, true
}

// Round1 rounds a rating to one decimal place, the precision Kodi stores.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
