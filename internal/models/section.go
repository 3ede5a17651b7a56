package models

import (
	"database/sql"
	"time"
)

// PlanningSection is a planned class section for the target year.
// ClassStatus distinguishes sections that already run from sections
// opening next year.
type PlanningSection struct {
	ID                int64         `db:"id" json:"id"`
	BranchID          int64         `db:"branch_id" json:"branch_id"`
	AcademicYearID    int64         `db:"academic_year_id" json:"academic_year_id"`
	GradeLevel        string        `db:"grade_level" json:"grade_level"`
	SectionName       string        `db:"section_name" json:"section_name"`
	ClassStatus       string        `db:"class_status" json:"class_status"`
	HomeroomTeacherID sql.NullInt64 `db:"homeroom_teacher_id" json:"homeroom_teacher_id,omitempty"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}
