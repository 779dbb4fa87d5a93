package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/auth"
	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService registers admins and logs them in
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates an admin account with a hashed password
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user := &domain.User{Username: username, Password: auth.HashPassword(req.Password)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("admin account created", zap.String("admin", username))
	return &domain.UserDTO{Username: username}, nil
}

// Login checks the password and issues a session token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !auth.CheckPassword(req.Password, user.Password) {
		s.logger.Warn("failed login attempt", zap.String("admin", username))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	resp := &domain.LoginResponse{Token: token, Username: user.Username}
	if !expiresAt.IsZero() {
		resp.ExpiresAt = expiresAt.UTC().Format(time.RFC3339)
	}
	return resp, nil
}
