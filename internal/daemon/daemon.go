package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"ratewatch/internal/config"
	"ratewatch/internal/logging"
	"ratewatch/internal/schedule"
	"ratewatch/internal/updater"
)

// CycleRunner executes one refresh cycle.
type CycleRunner interface {
	Run(ctx context.Context) (updater.Report, error)
}

// Daemon coordinates the periodic refresh loop and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *schedule.Store
	runner CycleRunner

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	now     func() time.Time
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *schedule.Store, runner CycleRunner, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || runner == nil {
		return nil, errors.New("daemon requires config, store, and runner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := LockFilePath(cfg)
	return &Daemon{
		cfg:      cfg,
		logger:   logger.With(slog.String(logging.FieldComponent, "daemon")),
		store:    store,
		runner:   runner,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		now:      time.Now,
	}, nil
}

// LockPath returns the lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// LockFilePath returns the lock file used to enforce single-instance execution.
func LockFilePath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.StateDir, "ratewatchd.lock")
}

// SetNow overrides the clock. Intended for tests.
func (d *Daemon) SetNow(now func() time.Time) {
	if now != nil {
		d.now = now
	}
}

// Start acquires the daemon lock and launches the refresh loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another ratewatch daemon instance is already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)

	d.logger.Info("daemon started",
		slog.String("lock", d.lockPath),
		slog.Int("check_interval_minutes", d.cfg.Schedule.CheckIntervalMinutes),
	)

	// First gate check happens before the loop goroutine so a cycle that is
	// already due runs to completion even if the daemon is stopped right away.
	d.runIfDue(loopCtx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.loop(loopCtx)
	}()
	return nil
}

// Stop halts the refresh loop and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and closes its store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether the refresh loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

func (d *Daemon) loop(ctx context.Context) {
	interval := time.Duration(d.cfg.Schedule.CheckIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runIfDue(ctx)
		}
	}
}

func (d *Daemon) runIfDue(ctx context.Context) {
	last, err := d.store.LastCompletion(ctx)
	if err != nil {
		// Fail open: a broken state read must not wedge the refresher.
		d.logger.Warn("read last completion", logging.Error(err))
		last = ""
	}
	if !schedule.Due(last, d.cfg.Schedule.UpdateIntervalDays, d.now()) {
		d.logger.Debug("cycle not due", slog.String("last_completion", last))
		return
	}

	if _, err := ExecuteCycle(ctx, d.store, d.runner, schedule.CycleScheduled, d.logger, d.now); err != nil {
		d.logger.Error("refresh cycle", logging.Error(err))
	}
}

// ExecuteCycle runs one refresh cycle and records its history. The completion
// timestamp is written only when the runner finishes its pass, so a cancelled
// cycle stays due.
func ExecuteCycle(ctx context.Context, store *schedule.Store, runner CycleRunner, kind schedule.CycleKind, logger *slog.Logger, now func() time.Time) (updater.Report, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if now == nil {
		now = time.Now
	}

	started := now()
	cycleID, err := store.StartCycle(ctx, kind, started)
	if err != nil {
		return updater.Report{}, fmt.Errorf("start cycle: %w", err)
	}
	logger.Info("cycle started",
		slog.String(logging.FieldCycleID, cycleID),
		slog.String("kind", string(kind)),
	)

	report, runErr := runner.Run(ctx)

	finished := now()
	if err := store.FinishCycle(ctx, schedule.Cycle{
		ID:               cycleID,
		FinishedAt:       finished,
		MoviesExamined:   report.MoviesExamined,
		EpisodesExamined: report.EpisodesExamined,
		Updated:          report.Updated,
		Skipped:          report.Skipped,
		NoData:           report.NoData,
		Failed:           report.Failed,
	}); err != nil {
		logger.Warn("record cycle outcome", logging.Error(err))
	}

	if runErr != nil {
		return report, fmt.Errorf("run cycle: %w", runErr)
	}

	if err := store.RecordCompletion(ctx, finished); err != nil {
		return report, fmt.Errorf("record completion: %w", err)
	}
	return report, nil
}
