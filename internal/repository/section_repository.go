package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sadeem-labs/staffing-api/internal/models"
)

// SectionRepository reads planned class sections.
type SectionRepository struct {
	db *sqlx.DB
}

func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// ListByScope returns every planning section for one branch and year.
func (r *SectionRepository) ListByScope(ctx context.Context, branchID, academicYearID int64) ([]models.PlanningSection, error) {
	const query = `SELECT id, branch_id, academic_year_id, grade_level, section_name, class_status, homeroom_teacher_id, created_at, updated_at
		FROM planning_sections WHERE branch_id = $1 AND academic_year_id = $2 ORDER BY grade_level, section_name`
	var sections []models.PlanningSection
	if err := r.db.SelectContext(ctx, &sections, query, branchID, academicYearID); err != nil {
		return nil, fmt.Errorf("list planning sections: %w", err)
	}
	return sections, nil
}
