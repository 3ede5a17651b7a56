package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sadeem-labs/staffing-api/internal/models"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
)

// ReportRepository persists export job state.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a pending job.
func (r *ReportRepository) Create(ctx context.Context, job *models.ReportJob) error {
	const query = `INSERT INTO report_jobs (id, branch_id, academic_year_id, kind, format, status, requested_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	if _, err := r.db.ExecContext(ctx, query,
		job.ID, job.BranchID, job.AcademicYearID, job.Kind, job.Format, job.Status, job.RequestedBy, job.CreatedAt,
	); err != nil {
		return fmt.Errorf("create report job: %w", err)
	}
	return nil
}

// FindByID fetches a job.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.ReportJob, error) {
	const query = `SELECT id, branch_id, academic_year_id, kind, format, status, file_path, download_url, expires_at, error_message, requested_by, created_at, updated_at
		FROM report_jobs WHERE id = $1`
	var job models.ReportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find report job: %w", err)
	}
	return &job, nil
}

// MarkRunning flips a job to RUNNING.
func (r *ReportRepository) MarkRunning(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, models.ReportJobRunning, "")
}

// MarkFailed records a failure message.
func (r *ReportRepository) MarkFailed(ctx context.Context, id, message string) error {
	return r.setStatus(ctx, id, models.ReportJobFailed, message)
}

// MarkCompleted stores the produced file and its signed download link.
func (r *ReportRepository) MarkCompleted(ctx context.Context, id, filePath, downloadURL string, expiresAt time.Time) error {
	const query = `UPDATE report_jobs
		SET status = $2, file_path = $3, download_url = $4, expires_at = $5, error_message = '', updated_at = NOW()
		WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.ReportJobCompleted, filePath, downloadURL, expiresAt); err != nil {
		return fmt.Errorf("complete report job: %w", err)
	}
	return nil
}

func (r *ReportRepository) setStatus(ctx context.Context, id string, status models.ReportJobStatus, message string) error {
	const query = `UPDATE report_jobs SET status = $2, error_message = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, message); err != nil {
		return fmt.Errorf("update report job status: %w", err)
	}
	return nil
}
