package dto

// CreateExportRequest queues an asynchronous report export.
type CreateExportRequest struct {
	BranchID       int64  `json:"branch_id" validate:"required,gt=0"`
	AcademicYearID int64  `json:"academic_year_id" validate:"required,gt=0"`
	Kind           string `json:"kind" validate:"required,oneof=staffing class_mapping"`
	Format         string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse is returned when a job is queued or polled.
type ExportJobResponse struct {
	JobID       string `json:"job_id"`
	Status      string `json:"status"`
	DownloadURL string `json:"download_url,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}
