package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-node/internal/infrastructure/database"
)

// Run is one recorded lifecycle command.
type Run struct {
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	Result     string    `json:"result"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

// RunRecorder stores lifecycle command history.
type RunRecorder struct {
	db *database.DB
}

// NewRunRecorder returns a recorder over a migrated node database.
func NewRunRecorder(db *database.DB) *RunRecorder {
	return &RunRecorder{db: db}
}

// Record inserts a run and returns its generated ID.
func (r *RunRecorder) Record(ctx context.Context, command, result string, started time.Time, took time.Duration) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO lifecycle_runs (id, command, result, started_at, duration_ms) VALUES (?, ?, ?, ?, ?)",
		id, command, result, started.UTC().Format(time.RFC3339Nano), took.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return id, nil
}

// Recent returns up to limit runs, newest first.
func (r *RunRecorder) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, command, result, started_at, duration_ms FROM lifecycle_runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			started string
		)
		if err := rows.Scan(&run.ID, &run.Command, &run.Result, &started, &run.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started) //nolint:errcheck // Written by Record
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
