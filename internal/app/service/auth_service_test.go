package service

import (
	"testing"
	"time"

	"github.com/jyhwang/matzip-backend/config"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/internal/db"
	"github.com/jyhwang/matzip-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*gorm.DB, AuthService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	jwtCfg := config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	return testDB, NewAuthService(userRepo, jwtCfg)
}

func TestAuthService_Register(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	user, err := svc.Register("user@example.com", "password123", "사용자")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.Register("user@example.com", "password123", "사용자")
	require.NoError(t, err)

	_, err = svc.Register("user@example.com", "different456", "다른 사용자")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	registered, err := svc.Register("user@example.com", "password123", "사용자")
	require.NoError(t, err)

	user, tokens, err := svc.Login("user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.Register("user@example.com", "password123", "사용자")
	require.NoError(t, err)

	_, _, err = svc.Login("user@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
