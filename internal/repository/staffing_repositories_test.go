package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadeem-labs/staffing-api/internal/models"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSubjectRepositoryListByScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "branch_id", "academic_year_id", "code", "name", "grade", "weekly_hours", "created_at", "updated_at"}).
		AddRow(1, 10, 2026, "MATH5", "Math", 5, 5, now, now).
		AddRow(2, 10, 2026, "SCI5", "Science", 5, 4, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects WHERE branch_id = $1 AND academic_year_id = $2 ORDER BY grade, name")).
		WithArgs(int64(10), int64(2026)).
		WillReturnRows(rows)

	subjects, err := repo.ListByScope(context.Background(), 10, 2026)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "Math", subjects[0].Name)
	assert.Equal(t, 4, subjects[1].WeeklyHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryListByScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "branch_id", "academic_year_id", "grade_level", "section_name", "class_status", "homeroom_teacher_id", "created_at", "updated_at"}).
		AddRow(1, 10, 2026, "5", "A", "Current", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM planning_sections WHERE branch_id = $1 AND academic_year_id = $2")).
		WithArgs(int64(10), int64(2026)).
		WillReturnRows(rows)

	sections, err := repo.ListByScope(context.Background(), 10, 2026)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "A", sections[0].SectionName)
	assert.False(t, sections[0].HomeroomTeacherID.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListByBranch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "branch_id", "first_name", "middle_name", "last_name", "subject_code", "level", "max_hours", "extra_hours_allowed", "created_at", "updated_at"}).
		AddRow(1, 10, "Amal", "", "Hassan", "MATH5", "senior", 24, false, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE branch_id = $1 ORDER BY last_name, first_name, id")).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	teachers, err := repo.ListByBranch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Amal", teachers[0].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListAllocations(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "subject_code"}).
		AddRow(1, 1, "MATH5").
		AddRow(2, 1, "SCI5")
	mock.ExpectQuery(regexp.QuoteMeta("FROM teacher_subject_allocations a")).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	links, err := repo.ListAllocations(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "SCI5", links[1].SubjectCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE LOWER(email) = LOWER($1)")).
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryLifecycle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Now()
	job := &models.ReportJob{
		ID:             "job-1",
		BranchID:       10,
		AcademicYearID: 2026,
		Kind:           models.ReportKindStaffing,
		Format:         models.ExportFormatCSV,
		Status:         models.ReportJobPending,
		RequestedBy:    "user-1",
		CreatedAt:      now,
	}

	mock.ExpectExec("INSERT INTO report_jobs").
		WithArgs("job-1", int64(10), int64(2026), models.ReportKindStaffing, models.ExportFormatCSV, models.ReportJobPending, "user-1", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Create(context.Background(), job))

	mock.ExpectExec("UPDATE report_jobs SET status").
		WithArgs("job-1", models.ReportJobRunning, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.MarkRunning(context.Background(), "job-1"))

	expires := now.Add(24 * time.Hour)
	mock.ExpectExec("UPDATE report_jobs").
		WithArgs("job-1", models.ReportJobCompleted, "staffing/job-1.csv", "/export/token", expires).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.MarkCompleted(context.Background(), "job-1", "staffing/job-1.csv", "/export/token", expires))

	assert.NoError(t, mock.ExpectationsWereMet())
}
