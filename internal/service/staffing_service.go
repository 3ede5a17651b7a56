package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sadeem-labs/staffing-api/internal/models"
	"github.com/sadeem-labs/staffing-api/internal/planner"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
)

// SubjectReader supplies curriculum records for one scope.
type SubjectReader interface {
	ListByScope(ctx context.Context, branchID, academicYearID int64) ([]models.Subject, error)
}

// SectionReader supplies planned class sections for one scope.
type SectionReader interface {
	ListByScope(ctx context.Context, branchID, academicYearID int64) ([]models.PlanningSection, error)
}

// TeacherReader supplies the roster and its subject links.
type TeacherReader interface {
	ListByBranch(ctx context.Context, branchID int64) ([]models.Teacher, error)
	ListAllocations(ctx context.Context, branchID int64) ([]models.TeacherSubjectAllocation, error)
}

// StaffingService materializes a scoped snapshot, runs the planner and
// caches the results per (branch, year).
type StaffingService struct {
	subjects SubjectReader
	sections SectionReader
	teachers TeacherReader
	engine   *planner.Engine
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

func NewStaffingService(
	subjects SubjectReader,
	sections SectionReader,
	teachers TeacherReader,
	engine *planner.Engine,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *StaffingService {
	return &StaffingService{
		subjects: subjects,
		sections: sections,
		teachers: teachers,
		engine:   engine,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

func reportCacheKey(branchID, academicYearID int64) string {
	return fmt.Sprintf("staffing:report:%d:%d", branchID, academicYearID)
}

func classMapCacheKey(branchID, academicYearID int64) string {
	return fmt.Sprintf("staffing:classmap:%d:%d", branchID, academicYearID)
}

// Report computes (or serves from cache) the staffing report. The
// returned bool reports a cache hit.
func (s *StaffingService) Report(ctx context.Context, branchID, academicYearID int64) (*planner.Result, bool, error) {
	key := reportCacheKey(branchID, academicYearID)

	var cached planner.Result
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	snap, err := s.snapshot(ctx, branchID, academicYearID)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	result := s.engine.Run(snap)
	s.metrics.ObservePlannerRun(time.Since(start), len(result.Subjects), len(result.Teachers))

	if s.logger != nil {
		s.logger.Info("staffing report computed",
			zap.Int64("branch_id", branchID),
			zap.Int64("academic_year_id", academicYearID),
			zap.Int("subjects", len(result.Subjects)),
			zap.Int("teachers", len(result.Teachers)),
			zap.Int("additional_teachers", result.Summary.AdditionalTeachersNeeded),
		)
	}

	_ = s.cache.Set(ctx, key, result, s.cacheTTL)
	return result, false, nil
}

// ClassMapping computes (or serves from cache) the class-level
// projection of the allocation.
func (s *StaffingService) ClassMapping(ctx context.Context, branchID, academicYearID int64) (*planner.ClassMappingResult, bool, error) {
	key := classMapCacheKey(branchID, academicYearID)

	var cached planner.ClassMappingResult
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	snap, err := s.snapshot(ctx, branchID, academicYearID)
	if err != nil {
		return nil, false, err
	}

	result := s.engine.ClassMapping(snap)

	_ = s.cache.Set(ctx, key, result, s.cacheTTL)
	return result, false, nil
}

// InvalidateScope drops cached reports after the underlying records
// change.
func (s *StaffingService) InvalidateScope(ctx context.Context, branchID, academicYearID int64) error {
	pattern := fmt.Sprintf("staffing:*:%d:%d", branchID, academicYearID)
	return s.cache.Invalidate(ctx, pattern)
}

func (s *StaffingService) snapshot(ctx context.Context, branchID, academicYearID int64) (planner.Snapshot, error) {
	subjects, err := s.subjects.ListByScope(ctx, branchID, academicYearID)
	if err != nil {
		return planner.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load subjects")
	}
	sections, err := s.sections.ListByScope(ctx, branchID, academicYearID)
	if err != nil {
		return planner.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load planning sections")
	}
	teachers, err := s.teachers.ListByBranch(ctx, branchID)
	if err != nil {
		return planner.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load teachers")
	}
	links, err := s.teachers.ListAllocations(ctx, branchID)
	if err != nil {
		return planner.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load teacher subject allocations")
	}

	snap := planner.Snapshot{
		Subjects: make([]planner.Subject, 0, len(subjects)),
		Sections: make([]planner.ClassSection, 0, len(sections)),
		Teachers: make([]planner.Teacher, 0, len(teachers)),
		Links:    make([]planner.SubjectLink, 0, len(links)),
	}
	for _, sub := range subjects {
		snap.Subjects = append(snap.Subjects, planner.Subject{
			Code:        sub.Code,
			Name:        sub.Name,
			Grade:       sub.Grade,
			WeeklyHours: sub.WeeklyHours,
		})
	}
	for _, sec := range sections {
		snap.Sections = append(snap.Sections, planner.ClassSection{
			GradeLevel:  sec.GradeLevel,
			SectionName: sec.SectionName,
			ClassStatus: sec.ClassStatus,
		})
	}
	for _, t := range teachers {
		snap.Teachers = append(snap.Teachers, planner.Teacher{
			ID:                t.ID,
			FirstName:         t.FirstName,
			MiddleName:        t.MiddleName,
			LastName:          t.LastName,
			SubjectCode:       t.SubjectCode,
			MaxHours:          t.MaxHours,
			ExtraHoursAllowed: t.ExtraHoursAllowed,
		})
	}
	for _, l := range links {
		snap.Links = append(snap.Links, planner.SubjectLink{
			TeacherID:   l.TeacherID,
			SubjectCode: l.SubjectCode,
		})
	}

	return snap, nil
}
