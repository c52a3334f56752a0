package rating_test

import (
	"testing"

	"ratewatch/internal/rating"
)

func TestAggregateWeightsByVotes(t *testing.T) {
	samples := []rating.Sample{
		{Provider: "imdb", Value: 8.0, Votes: 100},
		{Provider: "trakt", Value: 6.0, Votes: 50},
	}
	result, ok := rating.Aggregate(samples)
	if !ok {
		t.Fatal("expected a result")
	}
	if result.Weighted != 7.3 {
		t.Fatalf("weighted = %v, want 7.3", result.Weighted)
	}
	if result.TotalVotes != 150 {
		t.Fatalf("total votes = %d, want 150", result.TotalVotes)
	}
}

func TestAggregateSingleSampleReturnsRounded(t *testing.T) {
	result, ok := rating.Aggregate([]rating.Sample{{Provider: "imdb", Value: 8.456, Votes: 1000}})
	if !ok {
		t.Fatal("expected a result")
	}
	if result.Weighted != 8.5 {
		t.Fatalf("weighted = %v, want 8.5", result.Weighted)
	}
}

func TestAggregateIgnoresInvalidSamples(t *testing.T) {
	samples := []rating.Sample{
		{Provider: "imdb", Value: 0, Votes: 500},
		{Provider: "trakt", Value: 7.5, Votes: 0},
		{Provider: "trakt", Value: -1, Votes: -1},
	}
	if _, ok := rating.Aggregate(samples); ok {
		t.Fatal("expected no result when every sample is invalid")
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	if _, ok := rating.Aggregate(nil); ok {
		t.Fatal("expected no result for empty input")
	}
}

func TestAggregateMixedValidity(t *testing.T) {
	samples := []rating.Sample{
		{Provider: "imdb", Value: 9.0, Votes: 10},
		{Provider: "trakt", Value: 0, Votes: 0},
	}
	result, ok := rating.Aggregate(samples)
	if !ok {
		t.Fatal("expected a result")
	}
	if result.Weighted != 9.0 {
		t.Fatalf("weighted = %v, want 9.0", result.Weighted)
	}
	if result.TotalVotes != 10 {
		t.Fatalf("total votes = %d, want 10", result.TotalVotes)
	}
}
