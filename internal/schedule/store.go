package schedule

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ratewatch/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the state database after a mismatch.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// CycleKind records what triggered a cycle.
type CycleKind string

const (
	CycleScheduled CycleKind = "scheduled"
	CycleManual    CycleKind = "manual"
)

// Cycle is one refresh pass over the catalog.
type Cycle struct {
	ID               string
	Kind             CycleKind
	StartedAt        time.Time
	FinishedAt       time.Time
	MoviesExamined   int
	EpisodesExamined int
	Updated          int
	Skipped          int
	NoData           int
	Failed           int
}

// Store manages schedule persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the state database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "ratewatch.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// LastCompletion returns the stored completion timestamp as recorded. The
// empty string means no cycle has ever completed.
func (s *Store) LastCompletion(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT last_completion FROM schedule_state WHERE id = 1").Scan(&value)
	if err != nil {
		return "", fmt.Errorf("read last completion: %w", err)
	}
	return value, nil
}

// RecordCompletion stores the completion timestamp of a finished cycle.
func (s *Store) RecordCompletion(ctx context.Context, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE schedule_state SET last_completion = ? WHERE id = 1",
		now.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	return nil
}

// StartCycle inserts a new in-progress cycle row and returns its id.
func (s *Store) StartCycle(ctx context.Context, kind CycleKind, now time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO cycles (id, kind, started_at) VALUES (?, ?, ?)",
		id, string(kind), now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert cycle: %w", err)
	}
	return id, nil
}

// FinishCycle stores the outcome tallies for a completed cycle.
func (s *Store) FinishCycle(ctx context.Context, cycle Cycle) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cycles SET finished_at = ?, movies_examined = ?, episodes_examined = ?,
            updated = ?, skipped = ?, no_data = ?, failed = ?
         WHERE id = ?`,
		cycle.FinishedAt.UTC().Format(time.RFC3339Nano),
		cycle.MoviesExamined,
		cycle.EpisodesExamined,
		cycle.Updated,
		cycle.Skipped,
		cycle.NoData,
		cycle.Failed,
		cycle.ID,
	)
	if err != nil {
		return fmt.Errorf("finish cycle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish cycle rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish cycle: unknown cycle id %s", cycle.ID)
	}
	return nil
}

// RecentCycles returns the most recent cycles, newest first.
func (s *Store) RecentCycles(ctx context.Context, limit int) ([]Cycle, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, started_at, finished_at, movies_examined, episodes_examined,
            updated, skipped, no_data, failed
         FROM cycles ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		var cycle Cycle
		var kind, started string
		var finished sql.NullString
		if err := rows.Scan(&cycle.ID, &kind, &started, &finished,
			&cycle.MoviesExamined, &cycle.EpisodesExamined,
			&cycle.Updated, &cycle.Skipped, &cycle.NoData, &cycle.Failed); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		cycle.Kind = CycleKind(kind)
		if ts, err := time.Parse(time.RFC3339Nano, started); err == nil {
			cycle.StartedAt = ts
		}
		if finished.Valid {
			if ts, err := time.Parse(time.RFC3339Nano, finished.String); err == nil {
				cycle.FinishedAt = ts
			}
		}
		cycles = append(cycles, cycle)
	}
	return cycles, rows.Err()
}
