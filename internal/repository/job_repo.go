package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coach-video-admin/internal/database"
	"github.com/coach-video-admin/internal/models"
	"github.com/lib/pq"
)

const jobColumns = `id, type, resource, status, total_records, successful_count,
	skipped_count, failed_count, duration_ms, created_at, started_at, completed_at`

// jobRepo is the postgres activity ledger
type jobRepo struct {
	db *database.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *database.DB) JobRepository {
	return &jobRepo{db: db}
}

// Create inserts a new job
func (r *jobRepo) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, type, resource, status, total_records, successful_count,
			skipped_count, failed_count, created_at, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Type, job.Resource, job.Status, job.TotalRecords,
		job.SuccessfulCount, job.SkippedCount, job.FailedCount,
		job.CreatedAt, job.StartedAt,
	)
	return err
}

// Update updates job status and counters
func (r *jobRepo) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs SET
			status = $1, total_records = $2, successful_count = $3, skipped_count = $4,
			failed_count = $5, duration_ms = $6, completed_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		job.Status, job.TotalRecords, job.SuccessfulCount, job.SkippedCount,
		job.FailedCount, job.DurationMs, job.CompletedAt, job.ID,
	)
	return err
}

// GetByID retrieves a job by ID
func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// ListRecent returns the newest jobs first
func (r *jobRepo) ListRecent(ctx context.Context, limit int) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	var startedAt, completedAt sql.NullTime

	err := row.Scan(
		&job.ID, &job.Type, &job.Resource, &job.Status, &job.TotalRecords,
		&job.SuccessfulCount, &job.SkippedCount, &job.FailedCount, &job.DurationMs,
		&job.CreatedAt, &startedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	return &job, nil
}

// AddErrors stores item errors using the COPY protocol
func (r *jobRepo) AddErrors(ctx context.Context, jobID string, errors []models.ValidationError) error {
	if len(errors) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("job_errors",
		"job_id", "line_number", "field", "message", "value",
	))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range errors {
		if _, err := stmt.ExecContext(ctx, jobID, e.Line, e.Field, e.Message, nullString(valueString(e.Value))); err != nil {
			return err
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		return err
	}

	return tx.Commit()
}

// GetErrors retrieves the item errors of a job
func (r *jobRepo) GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error) {
	query := `SELECT line_number, field, message, value FROM job_errors WHERE job_id = $1 ORDER BY line_number, id`
	args := []interface{}{jobID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errors []models.ValidationError
	for rows.Next() {
		var e models.ValidationError
		var value sql.NullString
		if err := rows.Scan(&e.Line, &e.Field, &e.Message, &value); err != nil {
			return nil, fmt.Errorf("failed to scan job error: %w", err)
		}
		if value.Valid {
			e.Value = value.String
		}
		errors = append(errors, e)
	}

	return errors, rows.Err()
}

func valueString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
