package models

import "time"

// Subject is one curriculum record: a subject taught at a grade with a
// weekly hour load, scoped to a branch and academic year.
type Subject struct {
	ID             int64     `db:"id" json:"id"`
	BranchID       int64     `db:"branch_id" json:"branch_id"`
	AcademicYearID int64     `db:"academic_year_id" json:"academic_year_id"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	Grade          int       `db:"grade" json:"grade"`
	WeeklyHours    int       `db:"weekly_hours" json:"weekly_hours"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
