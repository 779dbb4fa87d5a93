package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	h := setupHandlers(t)

	t.Run("register", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Register(rr, jsonRequest(t, http.MethodPost, "/auth/register", domain.RegisterRequest{
			Username: "treasurer",
			Password: "s3cret",
		}))

		require.Equal(t, http.StatusCreated, rr.Code)
		var user domain.UserDTO
		decodeBody(t, rr, &user)
		assert.Equal(t, "treasurer", user.Username)
	})

	t.Run("register duplicate", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Register(rr, jsonRequest(t, http.MethodPost, "/auth/register", domain.RegisterRequest{
			Username: "treasurer",
			Password: "other",
		}))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "Username already exists", errorDetail(t, rr))
	})

	t.Run("register missing password", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Register(rr, jsonRequest(t, http.MethodPost, "/auth/register", map[string]string{"username": "x"}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var apiErr domain.APIError
		decodeBody(t, rr, &apiErr)
		assert.Contains(t, apiErr.Errors, "password")
	})

	t.Run("login", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Login(rr, jsonRequest(t, http.MethodPost, "/auth/login", domain.LoginRequest{
			Username: "treasurer",
			Password: "s3cret",
		}))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp domain.LoginResponse
		decodeBody(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "treasurer", resp.Username)
	})

	t.Run("login wrong password", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Login(rr, jsonRequest(t, http.MethodPost, "/auth/login", domain.LoginRequest{
			Username: "treasurer",
			Password: "wrong",
		}))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid Credentials", errorDetail(t, rr))
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		rr := httptest.NewRecorder()
		h.auth.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	h := setupHandlers(t)

	t.Run("logged in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil).WithContext(adminContext())
		rr := httptest.NewRecorder()
		h.auth.Me(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var user domain.UserDTO
		decodeBody(t, rr, &user)
		assert.Equal(t, "treasurer", user.Username)
	})

	t.Run("anonymous", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.auth.Me(rr, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
