package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusforge/timetable-scheduler/internal/models"
)

// TimetableRunRepository persists solve invocations for later retrieval,
// export, and result-cache invalidation auditing.
type TimetableRunRepository struct {
	db *sqlx.DB
}

// NewTimetableRunRepository constructs the repository.
func NewTimetableRunRepository(db *sqlx.DB) *TimetableRunRepository {
	return &TimetableRunRepository{db: db}
}

// Create inserts a new run row, assigning an id if none is set.
func (r *TimetableRunRepository) Create(ctx context.Context, run *models.TimetableRun) error {
	if run == nil {
		return fmt.Errorf("run payload is nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = models.RunStatusQueued
	}

	const query = `
INSERT INTO timetable_runs (id, input_digest, status, best_fitness, error_message, output, created_at, finished_at)
VALUES (:id, :input_digest, :status, :best_fitness, :error_message, :output, :created_at, :finished_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, run); err != nil {
		return fmt.Errorf("insert timetable run: %w", err)
	}
	return nil
}

// UpdateResult transitions a run to a terminal status with its output.
func (r *TimetableRunRepository) UpdateResult(ctx context.Context, run *models.TimetableRun) error {
	now := time.Now().UTC()
	run.FinishedAt = &now

	const query = `
UPDATE timetable_runs
SET status = $1, best_fitness = $2, error_message = $3, output = $4, finished_at = $5
WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query, run.Status, run.BestFitness, run.ErrorMessage, run.Output, run.FinishedAt, run.ID)
	if err != nil {
		return fmt.Errorf("update timetable run result: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable run rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID loads one persisted run by id.
func (r *TimetableRunRepository) FindByID(ctx context.Context, id string) (*models.TimetableRun, error) {
	const query = `SELECT id, input_digest, status, best_fitness, error_message, output, created_at, finished_at FROM timetable_runs WHERE id = $1`
	var run models.TimetableRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindByInputDigest locates the most recent completed run for a digest, the
// persistence-side counterpart to the Redis result cache (pkg/cache).
func (r *TimetableRunRepository) FindByInputDigest(ctx context.Context, digest string) (*models.TimetableRun, error) {
	const query = `
SELECT id, input_digest, status, best_fitness, error_message, output, created_at, finished_at
FROM timetable_runs
WHERE input_digest = $1 AND status = $2
ORDER BY created_at DESC
LIMIT 1`
	var run models.TimetableRun
	if err := r.db.GetContext(ctx, &run, query, digest, models.RunStatusCompleted); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns a page of run summaries ordered newest-first.
func (r *TimetableRunRepository) List(ctx context.Context, status string, limit, offset int) ([]models.TimetableRunSummary, int, error) {
	args := []interface{}{}
	where := ""
	if status != "" {
		where = "WHERE status = $1"
		args = append(args, status)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM timetable_runs %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count timetable runs: %w", err)
	}

	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(
		"SELECT id, status, best_fitness, created_at FROM timetable_runs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args),
	)
	var runs []models.TimetableRunSummary
	if err := r.db.SelectContext(ctx, &runs, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list timetable runs: %w", err)
	}
	return runs, total, nil
}

// Delete removes a stored run.
func (r *TimetableRunRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM timetable_runs WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete timetable run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable run rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
