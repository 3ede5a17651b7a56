package models

import "time"

// ReportJobStatus tracks the lifecycle of an asynchronous export.
type ReportJobStatus string

const (
	ReportJobPending   ReportJobStatus = "PENDING"
	ReportJobRunning   ReportJobStatus = "RUNNING"
	ReportJobCompleted ReportJobStatus = "COMPLETED"
	ReportJobFailed    ReportJobStatus = "FAILED"
)

// Export formats supported for staffing reports.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// Report kinds a job can render.
const (
	ReportKindStaffing     = "staffing"
	ReportKindClassMapping = "class_mapping"
)

// ReportJob is one queued export of a staffing report.
type ReportJob struct {
	ID             string          `db:"id" json:"id"`
	BranchID       int64           `db:"branch_id" json:"branch_id"`
	AcademicYearID int64           `db:"academic_year_id" json:"academic_year_id"`
	Kind           string          `db:"kind" json:"kind"`
	Format         string          `db:"format" json:"format"`
	Status         ReportJobStatus `db:"status" json:"status"`
	FilePath       string          `db:"file_path" json:"-"`
	DownloadURL    string          `db:"download_url" json:"download_url,omitempty"`
	ExpiresAt      *time.Time      `db:"expires_at" json:"expires_at,omitempty"`
	ErrorMessage   string          `db:"error_message" json:"error_message,omitempty"`
	RequestedBy    string          `db:"requested_by" json:"requested_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}
