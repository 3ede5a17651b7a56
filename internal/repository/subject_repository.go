package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sadeem-labs/staffing-api/internal/models"
)

// SubjectRepository reads curriculum records.
type SubjectRepository struct {
	db *sqlx.DB
}

func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// ListByScope returns every subject for one branch and academic year.
func (r *SubjectRepository) ListByScope(ctx context.Context, branchID, academicYearID int64) ([]models.Subject, error) {
	const query = `SELECT id, branch_id, academic_year_id, code, name, grade, weekly_hours, created_at, updated_at
		FROM subjects WHERE branch_id = $1 AND academic_year_id = $2 ORDER BY grade, name`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, branchID, academicYearID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}
