package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadeem-labs/staffing-api/internal/dto"
	"github.com/sadeem-labs/staffing-api/internal/models"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
	"github.com/sadeem-labs/staffing-api/pkg/export"
	"github.com/sadeem-labs/staffing-api/pkg/jobs"
	"github.com/sadeem-labs/staffing-api/pkg/storage"
)

type fakeJobStore struct {
	mu   sync.Mutex
	jobs map[string]*models.ReportJob
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: map[string]*models.ReportJob{}}
}

func (f *fakeJobStore) Create(ctx context.Context, job *models.ReportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *fakeJobStore) FindByID(ctx context.Context, id string) (*models.ReportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobStore) MarkRunning(ctx context.Context, id string) error {
	return f.update(id, func(j *models.ReportJob) { j.Status = models.ReportJobRunning })
}

func (f *fakeJobStore) MarkFailed(ctx context.Context, id, message string) error {
	return f.update(id, func(j *models.ReportJob) {
		j.Status = models.ReportJobFailed
		j.ErrorMessage = message
	})
}

func (f *fakeJobStore) MarkCompleted(ctx context.Context, id, filePath, downloadURL string, expiresAt time.Time) error {
	return f.update(id, func(j *models.ReportJob) {
		j.Status = models.ReportJobCompleted
		j.FilePath = filePath
		j.DownloadURL = downloadURL
		j.ExpiresAt = &expiresAt
	})
}

func (f *fakeJobStore) update(id string, fn func(*models.ReportJob)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return appErrors.ErrNotFound
	}
	fn(job)
	return nil
}

func newTestReportService(t *testing.T, enabled bool) (*ReportService, *fakeJobStore) {
	t.Helper()

	subjects := &fakeSubjectReader{subjects: []models.Subject{
		{Code: "MATH5", Name: "Math", Grade: 5, WeeklyHours: 5},
	}}
	staffing := newTestStaffingService(subjects, nil)
	exports := NewExportService(export.NewCSVExporter(), export.NewPDFExporter())

	store, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "exports"))
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	repo := newFakeJobStore()

	svc := NewReportService(repo, staffing, exports, store, signer, NewMetricsService(), nil, ReportServiceConfig{
		Enabled:           enabled,
		WorkerConcurrency: 1,
		WorkerRetries:     1,
	})
	return svc, repo
}

func TestCreateExportDisabled(t *testing.T) {
	svc, _ := newTestReportService(t, false)

	_, err := svc.CreateExport(context.Background(), dto.CreateExportRequest{
		BranchID:       10,
		AcademicYearID: 2026,
		Kind:           models.ReportKindStaffing,
		Format:         models.ExportFormatCSV,
	}, "user-1")

	assert.ErrorIs(t, err, appErrors.ErrExportsDisabled)
}

func TestExportPipelineCompletesJob(t *testing.T) {
	svc, repo := newTestReportService(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	job, err := svc.CreateExport(ctx, dto.CreateExportRequest{
		BranchID:       10,
		AcademicYearID: 2026,
		Kind:           models.ReportKindStaffing,
		Format:         models.ExportFormatCSV,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportJobPending, job.Status)

	require.Eventually(t, func() bool {
		current, err := repo.FindByID(ctx, job.ID)
		return err == nil && current.Status == models.ReportJobCompleted
	}, 5*time.Second, 10*time.Millisecond)

	completed, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Contains(t, completed.DownloadURL, "/export/")
	require.NotNil(t, completed.ExpiresAt)

	token := completed.DownloadURL[len("/export/"):]
	file, downloaded, err := svc.Download(ctx, token)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, models.ReportKindStaffing, downloaded.Kind)
	info, err := file.Stat()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportPipelineMarksFailureForUnknownKind(t *testing.T) {
	svc, repo := newTestReportService(t, true)

	job := &models.ReportJob{
		ID:             "job-bad",
		BranchID:       10,
		AcademicYearID: 2026,
		Kind:           "unknown",
		Format:         models.ExportFormatCSV,
		Status:         models.ReportJobPending,
	}
	require.NoError(t, repo.Create(context.Background(), job))

	err := svc.process(context.Background(), jobs.Job{ID: job.ID, Type: job.Kind})
	require.Error(t, err)

	failed, err := repo.FindByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportJobFailed, failed.Status)
	assert.NotEmpty(t, failed.ErrorMessage)
}

func TestDownloadRejectsTamperedToken(t *testing.T) {
	svc, _ := newTestReportService(t, true)

	_, _, err := svc.Download(context.Background(), "not-a-token")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestDownloadMissingFile(t *testing.T) {
	svc, repo := newTestReportService(t, true)

	token, _, err := svc.signer.Generate("job-x", "staffing/job-x.csv")
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), &models.ReportJob{
		ID:       "job-x",
		Kind:     models.ReportKindStaffing,
		Format:   models.ExportFormatCSV,
		Status:   models.ReportJobCompleted,
		FilePath: "staffing/job-x.csv",
	}))

	_, _, err = svc.Download(context.Background(), token)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
