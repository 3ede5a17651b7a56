package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadeem-labs/staffing-api/internal/planner"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
)

type fakeStaffingSrv struct {
	result    *planner.Result
	mapping   *planner.ClassMappingResult
	err       error
	hit       bool
	lastScope [2]int64
}

func (f *fakeStaffingSrv) Report(_ context.Context, branchID, academicYearID int64) (*planner.Result, bool, error) {
	f.lastScope = [2]int64{branchID, academicYearID}
	return f.result, f.hit, f.err
}

func (f *fakeStaffingSrv) ClassMapping(_ context.Context, branchID, academicYearID int64) (*planner.ClassMappingResult, bool, error) {
	f.lastScope = [2]int64{branchID, academicYearID}
	return f.mapping, f.hit, f.err
}

func TestStaffingHandlerReportRequiresScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStaffingHandler(&fakeStaffingSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/staffing/report?branch_id=10", nil)

	h.Report(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaffingHandlerReportSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeStaffingSrv{
		result: &planner.Result{Summary: planner.Summary{RequiredHours: 10, AllocatedHours: 10}},
		hit:    true,
	}
	h := NewStaffingHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/staffing/report?branch_id=10&academic_year_id=2026", nil)

	h.Report(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]int64{10, 2026}, srv.lastScope)

	var body struct {
		Data struct {
			Summary planner.Summary `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 10, body.Data.Summary.RequiredHours)
}

func TestStaffingHandlerReportPropagatesServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStaffingHandler(&fakeStaffingSrv{err: appErrors.ErrInternal})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/staffing/report?branch_id=10&academic_year_id=2026", nil)

	h.Report(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStaffingHandlerClassMappingSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeStaffingSrv{
		mapping: &planner.ClassMappingResult{Classes: []string{"5-A"}},
	}
	h := NewStaffingHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/staffing/class-mapping?branch_id=10&academic_year_id=2026", nil)

	h.ClassMapping(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data planner.ClassMappingResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"5-A"}, body.Data.Classes)
}
