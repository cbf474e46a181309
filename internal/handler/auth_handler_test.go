package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type fakeAuthenticator struct {
	user  *models.SessionUser
	err   error
	creds models.Credentials
}

func (f *fakeAuthenticator) Login(_ context.Context, creds models.Credentials) (*models.SessionUser, error) {
	f.creds = creds
	return f.user, f.err
}

func TestLoginFailureKeepsEmail(t *testing.T) {
	auth := &fakeAuthenticator{err: appErrors.ErrInvalidCredentials}
	h := NewAuthHandler(auth)
	r := newTestEngine(nil)
	r.POST("/login", h.Login)

	rec := postForm(r, "/login", url.Values{"email": {"ana@school.test"}, "password": {"wrong"}, "next": {"/grades"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, appErrors.ErrInvalidCredentials.Message)
	assert.Contains(t, body, `value="ana@school.test"`)
	assert.Contains(t, body, `value="/grades"`)
	assert.Equal(t, "ana@school.test", auth.creds.Email)
}

func TestLoginSuccessRedirectsToNext(t *testing.T) {
	auth := &fakeAuthenticator{user: &models.SessionUser{ID: "u1", Name: "Ana", UserType: models.UserTypeAdmin, Token: "tok"}}
	h := NewAuthHandler(auth)
	r := newTestEngine(nil)
	r.POST("/login", h.Login)

	rec := postForm(r, "/login", url.Values{"email": {"ana@school.test"}, "password": {"secret"}, "next": {"/grades?student_id=s1"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/grades?student_id=s1", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies())
}

func TestLoginFormRedirectsWhenLoggedIn(t *testing.T) {
	h := NewAuthHandler(&fakeAuthenticator{})
	r := newTestEngine(adminUser)
	r.GET("/login", h.LoginForm)

	rec := get(r, "/login")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogoutRedirectsToLogin(t *testing.T) {
	h := NewAuthHandler(&fakeAuthenticator{})
	r := newTestEngine(adminUser)
	r.POST("/logout", h.Logout)

	rec := postForm(r, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, loginPath, rec.Header().Get("Location"))
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                    "/",
		"/grades":             "/grades",
		"//evil.example.com":  "/",
		"https://evil.test/x": "/",
		"/login?next=/":       "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeNext(in), in)
	}
}
