package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sadeem-labs/staffing-api/internal/models"
	"github.com/sadeem-labs/staffing-api/pkg/config"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
)

type fakeUserReader struct {
	user      *models.User
	lastLogin time.Time
}

func (f *fakeUserReader) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, appErrors.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUserReader) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, appErrors.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUserReader) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	f.lastLogin = at
	return nil
}

func newTestAuthService(user *models.User) (*AuthService, *fakeUserReader) {
	users := &fakeUserReader{user: user}
	cfg := config.JWTConfig{
		Secret:            "test-secret",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
	}
	return NewAuthService(users, cfg, nil), users
}

func plannerUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		Email:        "planner@example.com",
		PasswordHash: string(hash),
		FullName:     "Planner One",
		Role:         models.RolePlanner,
		BranchID:     10,
		Active:       true,
	}
}

func TestAuthServiceLoginIssuesValidTokens(t *testing.T) {
	svc, users := newTestAuthService(plannerUser(t, "secret"))

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "planner@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RolePlanner, resp.User.Role)
	assert.False(t, users.lastLogin.IsZero())

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, int64(10), claims.BranchID)
}

func TestAuthServiceLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(plannerUser(t, "secret"))

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "planner@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginUnknownUserLooksLikeBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "secret",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginRejectsInactiveAccount(t *testing.T) {
	user := plannerUser(t, "secret")
	user.Active = false
	svc, _ := newTestAuthService(user)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "planner@example.com",
		Password: "secret",
	})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestAuthServiceRefreshRotatesTokens(t *testing.T) {
	svc, _ := newTestAuthService(plannerUser(t, "secret"))

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "planner@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.ValidateToken(refreshed.AccessToken)
	assert.NoError(t, err)
}

func TestAuthServiceRejectsRefreshTokenAsAccess(t *testing.T) {
	svc, _ := newTestAuthService(plannerUser(t, "secret"))

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "planner@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(login.RefreshToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
