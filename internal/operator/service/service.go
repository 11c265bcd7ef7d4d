package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	setmodels "basecamp/internal/settings/models"
	dErrors "basecamp/pkg/domain-errors"
	"basecamp/pkg/secrets"
)

// SettingsSource supplies the operator credentials to verify against.
type SettingsSource interface {
	Load(ctx context.Context) (setmodels.AdminSettings, error)
}

// Claims are the JWT claims carried by an operator session token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service authenticates the single operator account and issues session
// tokens. Credentials live in settings; there is no user table.
type Service struct {
	settings   SettingsSource
	logger     *slog.Logger
	signingKey []byte
	tokenTTL   time.Duration
}

// NewService creates an operator auth service.
func NewService(settings SettingsSource, logger *slog.Logger, signingKey string, tokenTTL time.Duration) *Service {
	return &Service{
		settings:   settings,
		logger:     logger,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

// Login verifies the operator credentials and returns a signed session token.
// Wrong username and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load settings")
	}
	if settings.AdminPasswordHash == "" {
		s.logger.WarnContext(ctx, "login rejected, no operator password configured")
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(settings.AdminUsername)) == 1
	if err := secrets.Verify(password, settings.AdminPasswordHash); err != nil || !usernameOK {
		s.logger.InfoContext(ctx, "login rejected", "username", username)
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	now := time.Now()
	claims := Claims{
		Username: settings.AdminUsername,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   settings.AdminUsername,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign session token")
	}
	return token, nil
}

// ValidateToken checks a session token and returns the operator username. It
// satisfies the middleware's token validator contract.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "session expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	return claims.Username, nil
}
