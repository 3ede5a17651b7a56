package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sadeem-labs/staffing-api/internal/dto"
	"github.com/sadeem-labs/staffing-api/internal/models"
	"github.com/sadeem-labs/staffing-api/pkg/export"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
	"github.com/sadeem-labs/staffing-api/pkg/jobs"
	"github.com/sadeem-labs/staffing-api/pkg/storage"
)

// ReportJobStore persists export job state.
type ReportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	FindByID(ctx context.Context, id string) (*models.ReportJob, error)
	MarkRunning(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, message string) error
	MarkCompleted(ctx context.Context, id, filePath, downloadURL string, expiresAt time.Time) error
}

// FileStore persists and serves rendered export files.
type FileStore interface {
	Save(relPath string, data []byte) (string, error)
	Open(relPath string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ReportService owns the asynchronous export pipeline: it queues jobs,
// renders documents in the background, stores the files and hands out
// signed download links.
type ReportService struct {
	repo     ReportJobStore
	staffing *StaffingService
	exports  *ExportService
	store    FileStore
	signer   *storage.SignedURLSigner
	metrics  *MetricsService
	logger   *zap.Logger

	queue   *jobs.Queue
	enabled bool

	cleanupInterval time.Duration
	cleanupStop     chan struct{}
}

// ReportServiceConfig collects the wiring for NewReportService.
type ReportServiceConfig struct {
	Enabled           bool
	WorkerConcurrency int
	WorkerRetries     int
	CleanupInterval   time.Duration
}

func NewReportService(
	repo ReportJobStore,
	staffing *StaffingService,
	exports *ExportService,
	store FileStore,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg ReportServiceConfig,
) *ReportService {
	s := &ReportService{
		repo:            repo,
		staffing:        staffing,
		exports:         exports,
		store:           store,
		signer:          signer,
		metrics:         metrics,
		logger:          logger,
		enabled:         cfg.Enabled,
		cleanupInterval: cfg.CleanupInterval,
		cleanupStop:     make(chan struct{}),
	}
	s.queue = jobs.NewQueue("report-exports", s.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool and the cleanup loop.
func (s *ReportService) Start(ctx context.Context) {
	if !s.enabled {
		return
	}
	s.queue.Start(ctx)
	if s.cleanupInterval > 0 {
		go s.cleanupLoop(ctx)
	}
}

// Stop drains the worker pool.
func (s *ReportService) Stop() {
	if !s.enabled {
		return
	}
	close(s.cleanupStop)
	s.queue.Stop()
}

// CreateExport validates and queues an export job.
func (s *ReportService) CreateExport(ctx context.Context, req dto.CreateExportRequest, requestedBy string) (*models.ReportJob, error) {
	if !s.enabled {
		return nil, appErrors.ErrExportsDisabled
	}

	job := &models.ReportJob{
		ID:             uuid.NewString(),
		BranchID:       req.BranchID,
		AcademicYearID: req.AcademicYearID,
		Kind:           req.Kind,
		Format:         req.Format,
		Status:         models.ReportJobPending,
		RequestedBy:    requestedBy,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: job.Kind}); err != nil {
		_ = s.repo.MarkFailed(ctx, job.ID, "queue unavailable")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "enqueue export")
	}

	return job, nil
}

// GetJob returns the current state of an export job.
func (s *ReportService) GetJob(ctx context.Context, id string) (*models.ReportJob, error) {
	return s.repo.FindByID(ctx, id)
}

// Download validates a signed token and opens the stored file.
func (s *ReportService) Download(ctx context.Context, token string) (*os.File, *models.ReportJob, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}

	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != models.ReportJobCompleted || job.FilePath != relPath {
		return nil, nil, appErrors.ErrNotFound
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, job, nil
}

// process renders one queued export.
func (s *ReportService) process(ctx context.Context, job jobs.Job) error {
	record, err := s.repo.FindByID(ctx, job.ID)
	if err != nil {
		return err
	}
	if err := s.repo.MarkRunning(ctx, record.ID); err != nil {
		return err
	}

	doc, err := s.buildDocument(ctx, record)
	if err != nil {
		return s.fail(ctx, record, err)
	}

	data, err := s.exports.Render(record.Format, doc)
	if err != nil {
		return s.fail(ctx, record, err)
	}

	relPath := s.exports.Filename(record.Kind, record.Format, record.ID)
	if _, err := s.store.Save(relPath, data); err != nil {
		return s.fail(ctx, record, err)
	}

	token, expiresAt, err := s.signer.Generate(record.ID, relPath)
	if err != nil {
		return s.fail(ctx, record, err)
	}

	downloadURL := "/export/" + token
	if err := s.repo.MarkCompleted(ctx, record.ID, relPath, downloadURL, expiresAt); err != nil {
		return err
	}

	s.metrics.RecordExport(record.Format, "success")
	if s.logger != nil {
		s.logger.Info("export completed",
			zap.String("job_id", record.ID),
			zap.String("kind", record.Kind),
			zap.String("format", record.Format),
		)
	}
	return nil
}

func (s *ReportService) buildDocument(ctx context.Context, job *models.ReportJob) (export.Document, error) {
	switch job.Kind {
	case models.ReportKindStaffing:
		result, _, err := s.staffing.Report(ctx, job.BranchID, job.AcademicYearID)
		if err != nil {
			return export.Document{}, err
		}
		return s.exports.StaffingDocument(result, job.BranchID, job.AcademicYearID), nil
	case models.ReportKindClassMapping:
		result, _, err := s.staffing.ClassMapping(ctx, job.BranchID, job.AcademicYearID)
		if err != nil {
			return export.Document{}, err
		}
		return s.exports.ClassMappingDocument(result, job.BranchID, job.AcademicYearID), nil
	default:
		return export.Document{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report kind %q", job.Kind))
	}
}

func (s *ReportService) fail(ctx context.Context, job *models.ReportJob, cause error) error {
	s.metrics.RecordExport(job.Format, "failure")
	if err := s.repo.MarkFailed(ctx, job.ID, cause.Error()); err != nil && s.logger != nil {
		s.logger.Error("failed to record export failure", zap.String("job_id", job.ID), zap.Error(err))
	}
	return cause
}

func (s *ReportService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.cleanupStop:
			return
		case <-ticker.C:
			deleted, err := s.store.CleanupOlderThan(s.signerTTLGrace())
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
				}
				continue
			}
			if len(deleted) > 0 && s.logger != nil {
				s.logger.Info("cleaned up expired exports", zap.Int("files", len(deleted)))
			}
		}
	}
}

// signerTTLGrace keeps files around a little past link expiry so an
// in-flight download does not lose its file.
func (s *ReportService) signerTTLGrace() time.Duration {
	return s.cleanupInterval + 24*time.Hour
}
