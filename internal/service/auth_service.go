package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type authRepository interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
}

// AuthConfig controls how upstream access tokens are read.
type AuthConfig struct {
	// Secret enables HS256 signature checks. Empty reads claims without verifying.
	Secret string
	// SessionMaxAge caps the session when the token carries no expiry.
	SessionMaxAge time.Duration
}

// TokenClaims are the upstream access token claims the console relies on.
type TokenClaims struct {
	UserType string `json:"user_type,omitempty"`
	Role     string `json:"role,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AuthService logs users in against the school API and builds the session user.
type AuthService struct {
	repo      authRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo authRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.SessionMaxAge <= 0 {
		config.SessionMaxAge = 12 * time.Hour
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login exchanges credentials for a session user.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.SessionUser, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := s.validator.Struct(creds); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email and password are required")
	}

	result, err := s.repo.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnauthorized) || errors.Is(err, appErrors.ErrValidation) || errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, err
	}
	token := result.BearerToken()
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "login response carried no token")
	}

	claims, err := s.ParseToken(token)
	if err != nil {
		s.logger.Warn("rejected upstream access token", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid access token")
	}

	user := &models.SessionUser{
		ID:         result.User.ID,
		Name:       result.User.Name,
		Email:      result.User.Email,
		UserType:   result.User.UserType,
		Department: result.User.Department,
		Token:      token,
		ExpiresAt:  s.now().Add(s.config.SessionMaxAge).UTC(),
	}
	if user.ID == "" {
		user.ID = claims.Subject
	}
	if user.Name == "" {
		user.Name = claims.Name
	}
	if user.Email == "" {
		user.Email = firstNonEmpty(claims.Email, creds.Email)
	}
	if !user.UserType.Valid() {
		user.UserType = normalizeUserType(firstNonEmpty(claims.UserType, claims.Role))
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(user.ExpiresAt) {
		user.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	if !user.UserType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account has no console role")
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("user_type", string(user.UserType)))
	return user, nil
}

// ParseToken reads the token claims, verifying the signature when a secret is set.
// An exp claim, when present, is always enforced.
func (s *AuthService) ParseToken(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.config.Secret == "" {
		if _, _, err := jwt.NewParser(opts...).ParseUnverified(token, claims); err != nil {
			return nil, err
		}
		if claims.ExpiresAt != nil && !s.now().Before(claims.ExpiresAt.Time) {
			return nil, jwt.ErrTokenExpired
		}
		return claims, nil
	}

	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func normalizeUserType(raw string) models.UserType {
	for _, t := range models.UserTypes {
		if strings.EqualFold(raw, string(t)) {
			return t
		}
	}
	return models.UserType(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
