package service

import (
	"time"

	"github.com/spec-kit/support-router/internal/auth"
	"github.com/spec-kit/support-router/internal/config"
	"github.com/spec-kit/support-router/pkg/util"
)

// AuthService issues operator tokens for the REST surface. There is a
// single configured operator; no account store exists.
type AuthService struct {
	tokens       *auth.TokenManager
	passwordHash string
}

// NewAuthService constructs the service. When only a plaintext
// ADMIN_PASSWORD is configured it is hashed at startup.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" && cfg.AdminPassword != "" {
		hashed, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		hash = hashed
	}

	return &AuthService{
		tokens:       auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		passwordHash: hash,
	}, nil
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// LoginOperator verifies the operator password and issues a bearer token.
func (s *AuthService) LoginOperator(password string) (string, time.Time, error) {
	if s.passwordHash == "" {
		return "", time.Time{}, util.NewUnauthorized("operator login not configured")
	}
	if err := auth.ComparePassword(s.passwordHash, password); err != nil {
		return "", time.Time{}, util.NewUnauthorized("invalid credentials")
	}
	return s.tokens.GenerateToken()
}
