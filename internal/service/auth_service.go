package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

// TokenPair bundles the credentials issued at login.
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthService coordinates login and token refresh flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	limiter    *auth.LoginLimiter
	bcryptCost int
}

// NewAuthService builds the service. redisClient may be nil, which disables
// login throttling.
func NewAuthService(cfg config.Config, users repository.UserRepository, redisClient *redis.Client) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, cfg.Auth.RefreshTokenTTLMinutes),
		limiter:    auth.NewLoginLimiter(redisClient, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindowSeconds),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// IssueTokenPair verifies credentials and mints an access/refresh pair bound
// to the principal. Missing fields fail before the store is touched.
func (s *AuthService) IssueTokenPair(ctx context.Context, username, password string) (*TokenPair, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewMissingFields("Username and password required")
	}

	if err := s.limiter.Allow(ctx, username); err != nil {
		return nil, apperrors.NewAuthentication("Too many login attempts")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.limiter.RecordFailure(ctx, username)
			return nil, apperrors.NewAuthentication("Invalid credentials")
		}
		return nil, apperrors.NewDatabase(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.limiter.RecordFailure(ctx, username)
		return nil, apperrors.NewAuthentication("Invalid credentials")
	}
	s.limiter.Reset(ctx, username)

	access, _, err := s.tokenMgr.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, apperrors.NewServer(err)
	}
	refresh, _, err := s.tokenMgr.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, apperrors.NewServer(err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshAccessToken exchanges a valid refresh token for a fresh access
// token. The refresh token is not rotated.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.NewMissingFields("Refresh token required")
	}

	claims, err := s.tokenMgr.ParseToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", apperrors.NewTokenError("Invalid refresh token")
	}

	access, _, err := s.tokenMgr.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		return "", apperrors.NewServer(err)
	}
	return access, nil
}

// EnsureSeedUser creates the bootstrap principal when configured and absent.
func (s *AuthService) EnsureSeedUser(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.Create(ctx, &domain.User{Username: username, PasswordHash: hash})
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
