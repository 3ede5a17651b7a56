package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sadeem-labs/staffing-api/internal/models"
)

// TeacherRepository reads the teacher roster and its subject links.
type TeacherRepository struct {
	db *sqlx.DB
}

func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListByBranch returns every teacher employed at the branch.
func (r *TeacherRepository) ListByBranch(ctx context.Context, branchID int64) ([]models.Teacher, error) {
	const query = `SELECT id, branch_id, first_name, middle_name, last_name, subject_code, level, max_hours, extra_hours_allowed, created_at, updated_at
		FROM teachers WHERE branch_id = $1 ORDER BY last_name, first_name, id`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, branchID); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ListAllocations returns the teacher-subject links for the branch.
func (r *TeacherRepository) ListAllocations(ctx context.Context, branchID int64) ([]models.TeacherSubjectAllocation, error) {
	const query = `SELECT a.id, a.teacher_id, a.subject_code
		FROM teacher_subject_allocations a
		JOIN teachers t ON t.id = a.teacher_id
		WHERE t.branch_id = $1 ORDER BY a.teacher_id, a.subject_code`
	var links []models.TeacherSubjectAllocation
	if err := r.db.SelectContext(ctx, &links, query, branchID); err != nil {
		return nil, fmt.Errorf("list teacher subject allocations: %w", err)
	}
	return links, nil
}
