package updater

import (
	"context"
	"errors"
	"log/slog"

	"ratewatch/internal/catalog"
	"ratewatch/internal/config"
	"ratewatch/internal/logging"
	"ratewatch/internal/providers"
	"ratewatch/internal/rating"
)

// ItemSource yields the items eligible for a refresh.
type ItemSource interface {
	SelectMovies(ctx context.Context) []catalog.Item
	SelectEpisodes(ctx context.Context) []catalog.Item
}

// RatingWriter pushes a new rating for one item.
type RatingWriter interface {
	WriteRating(ctx context.Context, item catalog.Item, value float64) error
}

// Runner executes refresh cycles.
type Runner struct {
	source    ItemSource
	providers []providers.Client
	writer    RatingWriter
	selection config.Selection
	logger    *slog.Logger
}

// NewRunner constructs a runner over the given source, providers, and writer.
func NewRunner(source ItemSource, clients []providers.Client, writer RatingWriter, selection config.Selection, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		source:    source,
		providers: clients,
		writer:    writer,
		selection: selection,
		logger:    logger.With(slog.String(logging.FieldComponent, "updater")),
	}
}

// Run performs one full refresh cycle. It returns early only on context
// cancellation; everything else is absorbed into the report.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var report Report

	if r.selection.UpdateMovies {
		movies := r.source.SelectMovies(ctx)
		report.MoviesExamined = len(movies)
		if err := r.processItems(ctx, movies, &report); err != nil {
			return report, err
		}
	}

	if r.selection.UpdateTVShows {
		episodes := r.source.SelectEpisodes(ctx)
		report.EpisodesExamined = len(episodes)
		if err := r.processItems(ctx, episodes, &report); err != nil {
			return report, err
		}
	}

	r.logger.Info("cycle complete",
		slog.Int("examined", report.Examined()),
		slog.Int("updated", report.Updated),
		slog.Int("unchanged", report.Skipped),
		slog.Int("no_data", report.NoData),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

func (r *Runner) processItems(ctx context.Context, items []catalog.Item, report *Report) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.processItem(ctx, item, report)
	}
	return nil
}

func (r *Runner) processItem(ctx context.Context, item catalog.Item, report *Report) {
	samples := r.collectSamples(ctx, item)

	result, ok := rating.Aggregate(samples)
	if !ok {
		report.NoData++
		r.logger.Debug("no rating data",
			slog.String(logging.FieldTitle, item.Label()),
			slog.String(logging.FieldItemKind, string(item.Kind)),
		)
		return
	}

	if result.Weighted == item.StoredRating {
		report.Skipped++
		return
	}

	if err := r.writer.WriteRating(ctx, item, result.Weighted); err != nil {
		report.Failed++
		return
	}

	report.Updated++
	r.logger.Info("rating updated",
		slog.String(logging.FieldTitle, item.Label()),
		slog.String(logging.FieldItemKind, string(item.Kind)),
		slog.Float64("old", item.StoredRating),
		slog.Float64("new", result.Weighted),
		slog.Int("votes", result.TotalVotes),
	)
}

func (r *Runner) collectSamples(ctx context.Context, item catalog.Item) []rating.Sample {
	samples := make([]rating.Sample, 0, len(r.providers))
	for _, client := range r.providers {
		sample, err := r.fetch(ctx, client, item)
		if err != nil {
			if errors.Is(err, providers.ErrNoData) {
				r.logger.Debug("provider has no data",
					slog.String(logging.FieldProvider, client.Name()),
					slog.String(logging.FieldTitle, item.Label()),
				)
			} else {
				r.logger.Warn("provider lookup failed",
					slog.String(logging.FieldProvider, client.Name()),
					slog.String(logging.FieldTitle, item.Label()),
					logging.Error(err),
				)
			}
			continue
		}
		samples = append(samples, sample)
	}
	return samples
}

func (r *Runner) fetch(ctx context.Context, client providers.Client, item catalog.Item) (rating.Sample, error) {
	switch item.Kind {
	case catalog.KindMovie:
		return client.MovieRating(ctx, item.IMDBID)
	case catalog.KindEpisode:
		return client.EpisodeRating(ctx, providers.EpisodeRef{
			EpisodeIMDBID: item.IMDBID,
			ShowIMDBID:    item.ShowIMDBID,
			Season:        item.Season,
			Episode:       item.Episode,
		})
	default:
		return rating.Sample{}, providers.ErrNoData
	}
}
