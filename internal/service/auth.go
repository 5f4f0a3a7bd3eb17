package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAuthDisabled       = errors.New("staff authentication is not configured")
)

type authService struct {
	username     string
	passwordHash []byte
	tokens       security.TokenManager
}

// NewAuthService checks logins against a single staff account whose password
// is stored as a bcrypt hash. A nil token manager disables login.
func NewAuthService(username, passwordHash string, tokens security.TokenManager) AuthService {
	return &authService{
		username:     username,
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if s.tokens == nil || len(s.passwordHash) == 0 {
		return "", time.Time{}, ErrAuthDisabled
	}

	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil || !userMatch {
		logger.Warn("Staff login rejected", "username", username)
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(s.username, []string{security.RoleStaff})
	if err != nil {
		return "", time.Time{}, err
	}
	logger.Info("Staff login succeeded", "username", username)
	return token, expiresAt, nil
}
