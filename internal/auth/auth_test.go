package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHashPassword_KnownDigest(t *testing.T) {
	// sha256("password")
	assert.Equal(t,
		"5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		auth.HashPassword("password"),
	)
	assert.Len(t, auth.HashPassword(""), 64)
}

func TestCheckPassword(t *testing.T) {
	hashed := auth.HashPassword("s3cret")
	assert.True(t, auth.CheckPassword("s3cret", hashed))
	assert.False(t, auth.CheckPassword("S3cret", hashed))
	assert.False(t, auth.CheckPassword("s3cret", ""))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour, "digital-treasurer")

	token, expiresAt, err := tm.Generate("admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	user, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, auth.AuthTypeSession, user.AuthType)
}

func TestTokenManager_NoExpiry(t *testing.T) {
	tm := auth.NewTokenManager("secret", 0, "")

	token, expiresAt, err := tm.Generate("admin")
	require.NoError(t, err)
	assert.True(t, expiresAt.IsZero())

	_, err = tm.Validate(token)
	assert.NoError(t, err)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, _, err := auth.NewTokenManager("one", time.Hour, "").Generate("admin")
	require.NoError(t, err)

	_, err = auth.NewTokenManager("two", time.Hour, "").Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	claims := &auth.Claims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret", time.Hour, "").Validate(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := &auth.Claims{Username: "admin"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret", time.Hour, "").Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func newTestMiddleware(apiKey string) (*auth.Middleware, *auth.TokenManager) {
	tm := auth.NewTokenManager("secret", time.Hour, "digital-treasurer")
	return auth.NewMiddleware(tm, apiKey, zap.NewNop()), tm
}

func captureUser(called *bool, user **auth.UserContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		*user, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_Authenticate_WithBearerToken(t *testing.T) {
	m, tm := newTestMiddleware("")
	token, _, err := tm.Generate("treasurer")
	require.NoError(t, err)

	var called bool
	var user *auth.UserContext
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	m.Authenticate(captureUser(&called, &user)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	require.NotNil(t, user)
	assert.Equal(t, "treasurer", user.Username)
}

func TestMiddleware_Authenticate_WithAPIKey(t *testing.T) {
	m, _ := newTestMiddleware("key-123")

	var called bool
	var user *auth.UserContext
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups", nil)
	req.Header.Set("x-api-key", "key-123")
	w := httptest.NewRecorder()

	m.Authenticate(captureUser(&called, &user)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, user)
	assert.Equal(t, auth.AuthTypeAPIKey, user.AuthType)
}

func TestMiddleware_Authenticate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		header map[string]string
	}{
		{name: "no credentials"},
		{name: "wrong api key", apiKey: "key-123", header: map[string]string{"x-api-key": "nope"}},
		{name: "api key disabled", header: map[string]string{"x-api-key": "anything"}},
		{name: "malformed header", header: map[string]string{"Authorization": "Token abc"}},
		{name: "garbage token", header: map[string]string{"Authorization": "Bearer abc.def.ghi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMiddleware(tt.apiKey)
			var called bool
			var user *auth.UserContext

			req := httptest.NewRequest(http.MethodGet, "/api/v1/groups", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			m.Authenticate(captureUser(&called, &user)).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, called)
		})
	}
}

func TestMiddleware_OptionalAuthenticate(t *testing.T) {
	m, tm := newTestMiddleware("")
	token, _, err := tm.Generate("treasurer")
	require.NoError(t, err)

	t.Run("anonymous passes through", func(t *testing.T) {
		var called bool
		var user *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/view", nil)
		w := httptest.NewRecorder()

		m.OptionalAuthenticate(captureUser(&called, &user)).ServeHTTP(w, req)

		assert.True(t, called)
		assert.Nil(t, user)
	})

	t.Run("invalid token passes through anonymously", func(t *testing.T) {
		var called bool
		var user *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/view", nil)
		req.Header.Set("Authorization", "Bearer broken")
		w := httptest.NewRecorder()

		m.OptionalAuthenticate(captureUser(&called, &user)).ServeHTTP(w, req)

		assert.True(t, called)
		assert.Nil(t, user)
	})

	t.Run("valid token attaches admin", func(t *testing.T) {
		var called bool
		var user *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/view", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		m.OptionalAuthenticate(captureUser(&called, &user)).ServeHTTP(w, req)

		require.NotNil(t, user)
		assert.Equal(t, "treasurer", user.Username)
	})
}

func TestGroupContext(t *testing.T) {
	ctx := context.Background()
	_, ok := auth.GroupFromContext(ctx)
	assert.False(t, ok)

	ctx = auth.WithGroup(ctx, "Chama")
	group, ok := auth.GroupFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "Chama", group)
	assert.False(t, auth.IsLoggedIn(ctx))
}
