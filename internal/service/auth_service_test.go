package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/auth"
	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"github.com/digitaltreasurer/treasurer-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createAuthService(t *testing.T, db *gorm.DB) (*service.AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour, "treasurer-test")
	return service.NewAuthService(repository.NewUserRepository(db), tokens, zap.NewNop()), tokens
}

func TestAuthService_Register(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := createAuthService(t, db)
	ctx := context.Background()

	t.Run("stores a hashed password", func(t *testing.T) {
		user, err := svc.Register(ctx, &domain.RegisterRequest{Username: "mary", Password: "s3cret"})
		require.NoError(t, err)
		assert.Equal(t, "mary", user.Username)

		stored, err := repository.NewUserRepository(db).GetByUsername(ctx, "mary")
		require.NoError(t, err)
		assert.Equal(t, auth.HashPassword("s3cret"), stored.Password)
		assert.NotEqual(t, "s3cret", stored.Password)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, &domain.RegisterRequest{Username: "mary", Password: "other"})
		assert.ErrorIs(t, err, service.ErrUserExists)
	})

	t.Run("blank username", func(t *testing.T) {
		_, err := svc.Register(ctx, &domain.RegisterRequest{Username: "  ", Password: "x"})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestAuthService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, tokens := createAuthService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{Username: "peter", Password: "pass"})
	require.NoError(t, err)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		resp, err := svc.Login(ctx, &domain.LoginRequest{Username: "peter", Password: "pass"})
		require.NoError(t, err)
		assert.Equal(t, "peter", resp.Username)
		assert.NotEmpty(t, resp.ExpiresAt)

		userCtx, err := tokens.Validate(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "peter", userCtx.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Username: "peter", Password: "nope"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Username: "ghost", Password: "pass"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("username is trimmed like on register", func(t *testing.T) {
		_, err := svc.Register(ctx, &domain.RegisterRequest{Username: " admin ", Password: "pass"})
		require.NoError(t, err)

		for _, username := range []string{" admin ", "admin"} {
			resp, err := svc.Login(ctx, &domain.LoginRequest{Username: username, Password: "pass"})
			require.NoError(t, err, username)
			assert.Equal(t, "admin", resp.Username)
		}
	})

	t.Run("username is case sensitive", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Username: "Peter", Password: "pass"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}
