package models

import "time"

// Teacher is a roster record. SubjectCode is the legacy single-subject
// field kept for teachers without allocation links.
type Teacher struct {
	ID                int64     `db:"id" json:"id"`
	BranchID          int64     `db:"branch_id" json:"branch_id"`
	FirstName         string    `db:"first_name" json:"first_name"`
	MiddleName        string    `db:"middle_name" json:"middle_name,omitempty"`
	LastName          string    `db:"last_name" json:"last_name"`
	SubjectCode       string    `db:"subject_code" json:"subject_code,omitempty"`
	Level             string    `db:"level" json:"level,omitempty"`
	MaxHours          int       `db:"max_hours" json:"max_hours"`
	ExtraHoursAllowed bool      `db:"extra_hours_allowed" json:"extra_hours_allowed"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherSubjectAllocation links a teacher to a subject they teach.
type TeacherSubjectAllocation struct {
	ID          int64  `db:"id" json:"id"`
	TeacherID   int64  `db:"teacher_id" json:"teacher_id"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
}
