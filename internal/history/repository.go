// Package history persists completed analysis runs. The pipeline core
// never writes here itself; callers (API handlers, scheduled jobs) save
// results when a database is configured.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtrask/sift/internal/pipeline"
)

// ErrNotFound is returned when no run matches the requested ID.
var ErrNotFound = errors.New("run not found")

// Repository handles run history persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new history repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the run history table when it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id        TEXT PRIMARY KEY,
			intent        TEXT NOT NULL,
			risk          TEXT NOT NULL,
			universe      TEXT[] NOT NULL,
			plan          JSONB NOT NULL,
			settings_hash TEXT NOT NULL,
			duration_ms   BIGINT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// RunRecord is one persisted analysis run.
type RunRecord struct {
	RunID        string                  `json:"run_id"`
	Intent       string                  `json:"intent"`
	Risk         string                  `json:"risk"`
	Universe     []string                `json:"universe"`
	Plan         *pipeline.ShortlistPlan `json:"plan"`
	SettingsHash string                  `json:"settings_hash"`
	DurationMS   int64                   `json:"duration_ms"`
	CreatedAt    time.Time               `json:"created_at"`
}

// SaveRun persists one completed analysis run.
func (r *Repository) SaveRun(ctx context.Context, result *pipeline.RunResult) error {
	planJSON, err := json.Marshal(result.Plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	query := `
		INSERT INTO analysis_runs (
			run_id, intent, risk, universe, plan, settings_hash, duration_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err = r.pool.Exec(ctx, query,
		result.RunID,
		string(result.Plan.Intent),
		string(result.Plan.Risk),
		result.Universe,
		planJSON,
		result.SettingsHash,
		result.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetRun retrieves one run by ID.
func (r *Repository) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	query := `
		SELECT run_id, intent, risk, universe, plan, settings_hash, duration_ms, created_at
		FROM analysis_runs
		WHERE run_id = $1
	`

	record, err := scanRun(r.pool.QueryRow(ctx, query, runID))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return record, nil
}

// ListRuns retrieves the most recent runs, newest first.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, intent, risk, universe, plan, settings_hash, duration_ms, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0, limit)
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return records, nil
}

// PruneBefore deletes runs older than the cutoff and reports how many
// rows were removed.
func (r *Repository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM analysis_runs WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var record RunRecord
	var planJSON []byte

	err := row.Scan(
		&record.RunID,
		&record.Intent,
		&record.Risk,
		&record.Universe,
		&planJSON,
		&record.SettingsHash,
		&record.DurationMS,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(planJSON, &record.Plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return &record, nil
}
