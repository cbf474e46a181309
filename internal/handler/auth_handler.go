package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.SessionUser, error)
}

// AuthHandler serves the login form and session lifecycle.
type AuthHandler struct {
	service authenticator
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authenticator) *AuthHandler {
	return &AuthHandler{service: svc}
}

// LoginForm renders the login page. Logged-in users go straight to the dashboard.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	renderPage(c, http.StatusOK, "login", gin.H{"Title": "Sign in", "Next": safeNext(c.Query("next"))})
}

// Login authenticates against the school API and stores the user in the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	next := safeNext(c.PostForm("next"))
	err := bindForm(c, &creds)
	var user *models.SessionUser
	if err == nil {
		user, err = h.service.Login(c.Request.Context(), creds)
	}
	if err != nil {
		// Rendered directly: renderForm would treat the 401 as an expired session.
		appErr := appErrors.FromError(err)
		renderPage(c, appErr.Status, "login", gin.H{"Title": "Sign in", "Next": next, "Email": creds.Email, "Error": appErr.Message})
		return
	}
	welcome := &middleware.Flash{Kind: middleware.FlashSuccess, Message: "Welcome, " + user.Name + "."}
	if err := middleware.SaveUserWithFlash(c, user, welcome); err != nil {
		renderError(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start session"))
		return
	}
	c.Redirect(http.StatusSeeOther, next)
}

// Logout ends the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	_ = middleware.ClearUserWithFlash(c, &middleware.Flash{Kind: middleware.FlashSuccess, Message: "You have been logged out."})
	c.Redirect(http.StatusSeeOther, loginPath)
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, loginPath) {
		return "/"
	}
	return next
}
