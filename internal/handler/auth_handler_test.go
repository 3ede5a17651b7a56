package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sadeem-labs/staffing-api/internal/models"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
)

type fakeAuthSrv struct {
	loginResp *models.LoginResponse
	loginErr  error
}

func (f *fakeAuthSrv) Login(context.Context, models.LoginRequest) (*models.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuthSrv) Refresh(context.Context, models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	return &models.RefreshTokenResponse{AccessToken: "new"}, nil
}

func postJSON(path, body string) (*httptest.ResponseRecorder, *gin.Context) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return rec, c
}

func TestAuthHandlerLoginValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeAuthSrv{})

	rec, c := postJSON("/auth/login", `{"email":"not-an-email","password":""}`)
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeAuthSrv{
		loginResp: &models.LoginResponse{AccessToken: "token"},
	})

	rec, c := postJSON("/auth/login", `{"email":"planner@example.com","password":"secret"}`)
	h.Login(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"token"`)
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeAuthSrv{loginErr: appErrors.ErrInvalidCredentials})

	rec, c := postJSON("/auth/login", `{"email":"planner@example.com","password":"wrong"}`)
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandlerRefresh(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeAuthSrv{})

	rec, c := postJSON("/auth/refresh", `{"refresh_token":"abc"}`)
	h.Refresh(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"new"`)
}
