package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/sadeem-labs/staffing-api/internal/dto"
	"github.com/sadeem-labs/staffing-api/internal/middleware"
	"github.com/sadeem-labs/staffing-api/internal/models"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
	"github.com/sadeem-labs/staffing-api/pkg/response"
)

type reportService interface {
	CreateExport(ctx context.Context, req dto.CreateExportRequest, requestedBy string) (*models.ReportJob, error)
	GetJob(ctx context.Context, id string) (*models.ReportJob, error)
	Download(ctx context.Context, token string) (*os.File, *models.ReportJob, error)
}

// ReportHandler exposes the asynchronous export pipeline.
type ReportHandler struct {
	service  reportService
	validate *validator.Validate
}

func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service, validate: validator.New()}
}

// CreateExport godoc
// @Summary Queue a staffing report export
// @Tags Exports
// @Accept json
// @Produce json
// @Param request body dto.CreateExportRequest true "Export request"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /staffing/exports [post]
func (h *ReportHandler) CreateExport(c *gin.Context) {
	var req dto.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "validation failed"))
		return
	}

	requestedBy := ""
	if claims := middleware.CurrentUser(c); claims != nil {
		requestedBy = claims.UserID
	}

	job, err := h.service.CreateExport(c.Request.Context(), req, requestedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, jobResponse(job))
}

// GetExport godoc
// @Summary Poll an export job
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /staffing/exports/{id} [get]
func (h *ReportHandler) GetExport(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "job id is required"))
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, jobResponse(job), nil)
}

// Download godoc
// @Summary Download a completed export via signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /export/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	file, job, err := h.service.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	filename := job.Kind + "." + job.Format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", contentTypeFor(job.Format))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}

func contentTypeFor(format string) string {
	switch format {
	case models.ExportFormatPDF:
		return "application/pdf"
	case models.ExportFormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

func jobResponse(job *models.ReportJob) dto.ExportJobResponse {
	resp := dto.ExportJobResponse{
		JobID:       job.ID,
		Status:      string(job.Status),
		DownloadURL: job.DownloadURL,
	}
	if job.ExpiresAt != nil {
		resp.ExpiresAt = job.ExpiresAt.Format(time.RFC3339)
	}
	return resp
}
