package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
	"github.com/noah-isme/sma-admin-console/pkg/response"
)

// RequireRoles rejects JSON API callers lacking every listed role. The school API
// enforces permissions itself; this only hides what the user cannot use.
func RequireRoles(roles ...models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !user.HasRole(roles...) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePageRoles is RequireRoles for HTML pages: it flashes an error and redirects
// to fallback.
func RequirePageRoles(fallback string, roles ...models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if ok && user.HasRole(roles...) {
			c.Next()
			return
		}
		AddFlash(c, FlashError, "You do not have access to that page.")
		c.Redirect(http.StatusSeeOther, fallback)
		c.Abort()
	}
}
