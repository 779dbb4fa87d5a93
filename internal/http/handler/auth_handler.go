package handler

import (
	"net/http"

	"github.com/digitaltreasurer/treasurer-api/internal/auth"
	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Create an admin account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Account"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Username taken"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create account")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in as an admin
// @Description Returns a bearer token for the admin endpoints
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 401 {object} domain.APIError "Invalid Credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "log in")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Current admin
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	respondJSON(w, http.StatusOK, domain.UserDTO{Username: userCtx.Username})
}
