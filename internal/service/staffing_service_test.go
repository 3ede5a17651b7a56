package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadeem-labs/staffing-api/internal/models"
	"github.com/sadeem-labs/staffing-api/internal/planner"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
)

type fakeSubjectReader struct {
	subjects []models.Subject
	err      error
	calls    int
}

func (f *fakeSubjectReader) ListByScope(ctx context.Context, branchID, academicYearID int64) ([]models.Subject, error) {
	f.calls++
	return f.subjects, f.err
}

type fakeSectionReader struct {
	sections []models.PlanningSection
	err      error
}

func (f *fakeSectionReader) ListByScope(ctx context.Context, branchID, academicYearID int64) ([]models.PlanningSection, error) {
	return f.sections, f.err
}

type fakeTeacherReader struct {
	teachers []models.Teacher
	links    []models.TeacherSubjectAllocation
}

func (f *fakeTeacherReader) ListByBranch(ctx context.Context, branchID int64) ([]models.Teacher, error) {
	return f.teachers, nil
}

func (f *fakeTeacherReader) ListAllocations(ctx context.Context, branchID int64) ([]models.TeacherSubjectAllocation, error) {
	return f.links, nil
}

type fakeCacheRepo struct {
	entries  map[string][]byte
	patterns []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string][]byte{}}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	prefix := strings.SplitN(pattern, "*", 2)[0]
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

func newTestStaffingService(subjects *fakeSubjectReader, cacheRepo CacheRepository) *StaffingService {
	sections := &fakeSectionReader{sections: []models.PlanningSection{
		{GradeLevel: "5", SectionName: "A", ClassStatus: "Current"},
		{GradeLevel: "5", SectionName: "B", ClassStatus: "New"},
	}}
	teachers := &fakeTeacherReader{
		teachers: []models.Teacher{{ID: 1, FirstName: "Amal", LastName: "Hassan"}},
		links:    []models.TeacherSubjectAllocation{{ID: 1, TeacherID: 1, SubjectCode: "MATH5"}},
	}
	metrics := NewMetricsService()
	cache := NewCacheService(cacheRepo, metrics, time.Minute, nil, cacheRepo != nil)
	return NewStaffingService(subjects, sections, teachers, planner.NewEngine(planner.DefaultConfig()), cache, metrics, nil, time.Minute)
}

func TestStaffingServiceReportComputesFromSnapshot(t *testing.T) {
	subjects := &fakeSubjectReader{subjects: []models.Subject{
		{Code: "MATH5", Name: "Math", Grade: 5, WeeklyHours: 5},
	}}
	svc := newTestStaffingService(subjects, nil)

	result, hit, err := svc.Report(context.Background(), 10, 2026)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, result.Subjects, 1)
	assert.Equal(t, 10, result.Subjects[0].RequiredHours)
	assert.Equal(t, 10, result.Subjects[0].AllocatedHours)
	assert.Equal(t, 1, subjects.calls)
}

func TestStaffingServiceReportServedFromCache(t *testing.T) {
	subjects := &fakeSubjectReader{subjects: []models.Subject{
		{Code: "MATH5", Name: "Math", Grade: 5, WeeklyHours: 5},
	}}
	svc := newTestStaffingService(subjects, newFakeCacheRepo())

	first, hit, err := svc.Report(context.Background(), 10, 2026)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := svc.Report(context.Background(), 10, 2026)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, 1, subjects.calls, "cache hit must not re-query the snapshot")
}

func TestStaffingServiceInvalidateScopeDropsCachedReports(t *testing.T) {
	subjects := &fakeSubjectReader{subjects: []models.Subject{
		{Code: "MATH5", Name: "Math", Grade: 5, WeeklyHours: 5},
	}}
	repo := newFakeCacheRepo()
	svc := newTestStaffingService(subjects, repo)

	_, _, err := svc.Report(context.Background(), 10, 2026)
	require.NoError(t, err)
	require.NotEmpty(t, repo.entries)

	require.NoError(t, svc.InvalidateScope(context.Background(), 10, 2026))
	assert.Equal(t, []string{"staffing:*:10:2026"}, repo.patterns)

	_, hit, err := svc.Report(context.Background(), 10, 2026)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, subjects.calls)
}

func TestStaffingServiceReportWrapsSnapshotErrors(t *testing.T) {
	subjects := &fakeSubjectReader{err: errors.New("db down")}
	svc := newTestStaffingService(subjects, nil)

	_, _, err := svc.Report(context.Background(), 10, 2026)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestStaffingServiceClassMapping(t *testing.T) {
	subjects := &fakeSubjectReader{subjects: []models.Subject{
		{Code: "MATH5", Name: "Math", Grade: 5, WeeklyHours: 5},
	}}
	svc := newTestStaffingService(subjects, nil)

	result, hit, err := svc.ClassMapping(context.Background(), 10, 2026)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"5-A", "5-B"}, result.Classes)
	require.Len(t, result.Matrix, 1)
	assert.Equal(t, 10, result.Matrix[0].TotalHours)
}
