package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sadeem-labs/staffing-api/internal/middleware"
	"github.com/sadeem-labs/staffing-api/internal/planner"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
	"github.com/sadeem-labs/staffing-api/pkg/response"
)

type staffingService interface {
	Report(ctx context.Context, branchID, academicYearID int64) (*planner.Result, bool, error)
	ClassMapping(ctx context.Context, branchID, academicYearID int64) (*planner.ClassMappingResult, bool, error)
}

// StaffingHandler wires the planner to HTTP endpoints.
type StaffingHandler struct {
	service staffingService
}

func NewStaffingHandler(service staffingService) *StaffingHandler {
	return &StaffingHandler{service: service}
}

func scopeFromQuery(c *gin.Context) (branchID, academicYearID int64, err error) {
	branchID, err = strconv.ParseInt(c.Query("branch_id"), 10, 64)
	if err != nil || branchID <= 0 {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "branch_id is required")
	}
	academicYearID, err = strconv.ParseInt(c.Query("academic_year_id"), 10, 64)
	if err != nil || academicYearID <= 0 {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "academic_year_id is required")
	}
	return branchID, academicYearID, nil
}

// Report godoc
// @Summary Staffing report for a branch and academic year
// @Tags Staffing
// @Produce json
// @Param branch_id query int true "Branch ID"
// @Param academic_year_id query int true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /staffing/report [get]
func (h *StaffingHandler) Report(c *gin.Context) {
	branchID, academicYearID, err := scopeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, cacheHit, err := h.service.Report(c.Request.Context(), branchID, academicYearID)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}

// ClassMapping godoc
// @Summary Teacher-to-class mapping for a branch and academic year
// @Tags Staffing
// @Produce json
// @Param branch_id query int true "Branch ID"
// @Param academic_year_id query int true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /staffing/class-mapping [get]
func (h *StaffingHandler) ClassMapping(c *gin.Context) {
	branchID, academicYearID, err := scopeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, cacheHit, err := h.service.ClassMapping(c.Request.Context(), branchID, academicYearID)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}
