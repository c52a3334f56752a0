package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"ratewatch/internal/logging"
)

// RatingSetter is the write side of the Kodi client.
type RatingSetter interface {
	SetMovieRating(ctx context.Context, movieID int64, rating float64) error
	SetEpisodeRating(ctx context.Context, episodeID int64, rating float64) error
}

// Writer pushes updated ratings back into the library.
type Writer struct {
	setter RatingSetter
	logger *slog.Logger
}

// NewWriter constructs a writer.
func NewWriter(setter RatingSetter, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Writer{
		setter: setter,
		logger: logger.With(slog.String(logging.FieldComponent, "writer")),
	}
}

// WriteRating issues the update command for the item's kind. Failures are
// logged here with item identity and returned so the runner can count them;
// they never abort the batch.
func (w *Writer) WriteRating(ctx context.Context, item Item, value float64) error {
	var err error
	switch item.Kind {
	case KindMovie:
		err = w.setter.SetMovieRating(ctx, item.ID, value)
	case KindEpisode:
		err = w.setter.SetEpisodeRating(ctx, item.ID, value)
	default:
		err = fmt.Errorf("unknown item kind %q", item.Kind)
	}
	if err != nil {
		w.logger.Error("write rating",
			slog.String(logging.FieldTitle, item.Label()),
			slog.String(logging.FieldItemKind, string(item.Kind)),
			logging.Error(err),
		)
		return err
	}
	return nil
}
