package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type mockAuthRepo struct {
	result *models.LoginResult
	err    error
	creds  models.Credentials
}

func (m *mockAuthRepo) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	m.creds = creds
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

var authNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func signToken(t *testing.T, secret string, claims TokenClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthService(repo authRepository, cfg AuthConfig) *AuthService {
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), cfg)
	svc.now = func() time.Time { return authNow }
	return svc
}

func TestAuthServiceLoginBuildsSessionUser(t *testing.T) {
	token := signToken(t, "other-secret", TokenClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acc1",
			ExpiresAt: jwt.NewNumericDate(authNow.Add(time.Hour)),
		},
	})
	repo := &mockAuthRepo{result: &models.LoginResult{AccessToken: token, User: models.Account{Name: "Ana"}}}
	svc := newAuthService(repo, AuthConfig{SessionMaxAge: 12 * time.Hour})

	user, err := svc.Login(context.Background(), models.Credentials{Email: " ana@school.test ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "ana@school.test", repo.creds.Email)
	assert.Equal(t, "acc1", user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@school.test", user.Email)
	assert.Equal(t, models.UserTypeAdmin, user.UserType)
	assert.Equal(t, token, user.Token)
	assert.True(t, authNow.Add(time.Hour).Equal(user.ExpiresAt))
}

func TestAuthServiceLoginPrefersUserType(t *testing.T) {
	token := signToken(t, "s", TokenClaims{Role: "Admin"})
	repo := &mockAuthRepo{result: &models.LoginResult{Token: token, User: models.Account{ID: "t1", UserType: models.UserTypeTeacher}}}
	svc := newAuthService(repo, AuthConfig{SessionMaxAge: time.Hour})

	user, err := svc.Login(context.Background(), models.Credentials{Email: "t@school.test", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeTeacher, user.UserType)
	assert.True(t, authNow.Add(time.Hour).Equal(user.ExpiresAt))
}

func TestAuthServiceLoginMapsRejection(t *testing.T) {
	repo := &mockAuthRepo{err: appErrors.Clone(appErrors.ErrUnauthorized, "bad password")}
	svc := newAuthService(repo, AuthConfig{})

	_, err := svc.Login(context.Background(), models.Credentials{Email: "a@school.test", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceLoginValidatesInput(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo, AuthConfig{})

	_, err := svc.Login(context.Background(), models.Credentials{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.creds.Email)
}

func TestAuthServiceLoginRejectsExpiredToken(t *testing.T) {
	token := signToken(t, "s", TokenClaims{
		UserType:         "Admin",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(authNow.Add(-time.Minute))},
	})
	svc := newAuthService(&mockAuthRepo{result: &models.LoginResult{Token: token}}, AuthConfig{})

	_, err := svc.Login(context.Background(), models.Credentials{Email: "a@school.test", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceLoginRejectsUnknownRole(t *testing.T) {
	token := signToken(t, "s", TokenClaims{Role: "Parent"})
	svc := newAuthService(&mockAuthRepo{result: &models.LoginResult{Token: token}}, AuthConfig{})

	_, err := svc.Login(context.Background(), models.Credentials{Email: "a@school.test", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestAuthServiceParseTokenVerifiesSignatureWhenSecretSet(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{}, AuthConfig{Secret: "right"})

	claims, err := svc.ParseToken(signToken(t, "right", TokenClaims{UserType: "Teacher"}))
	require.NoError(t, err)
	assert.Equal(t, "Teacher", claims.UserType)

	_, err = svc.ParseToken(signToken(t, "wrong", TokenClaims{UserType: "Teacher"}))
	require.Error(t, err)
}

func TestAuthServiceParseTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{}, AuthConfig{})

	_, err := svc.ParseToken("not-a-jwt")
	require.Error(t, err)
}
