package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Patasheva/congrats-analyzer/internal/models"
)

var ErrRunNotFound = errors.New("run not found")

type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Insert(ctx context.Context, run *models.Run) error {
	query := r.db.rebind(`
		INSERT INTO runs (id, filename, content_type, size, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.conn.ExecContext(ctx, query,
		run.ID, run.Filename, run.ContentType, run.Size, string(run.Status), run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Finish records the final state of a run and stamps finished_at.
func (r *RunRepository) Finish(ctx context.Context, run *models.Run) error {
	if run.FinishedAt == nil {
		now := time.Now().UTC()
		run.FinishedAt = &now
	}

	query := r.db.rebind(`
		UPDATE runs
		SET status = ?, had_audio = ?, transcript_language = ?, error = ?, finished_at = ?
		WHERE id = ?`)

	res, err := r.db.conn.ExecContext(ctx, query,
		string(run.Status), run.HadAudio, run.TranscriptLanguage, run.Error, *run.FinishedAt, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	query := r.db.rebind(`
		SELECT id, filename, content_type, size, status, had_audio, transcript_language, error, started_at, finished_at
		FROM runs WHERE id = ?`)

	run, err := scanRun(r.db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRecent returns the newest runs first.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := r.db.rebind(`
		SELECT id, filename, content_type, size, status, had_audio, transcript_language, error, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?`)

	rows, err := r.db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var (
		run        models.Run
		status     string
		finishedAt sql.NullTime
	)
	err := row.Scan(&run.ID, &run.Filename, &run.ContentType, &run.Size, &status,
		&run.HadAudio, &run.TranscriptLanguage, &run.Error, &run.StartedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	run.Status = models.State(status)
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
