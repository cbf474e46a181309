package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

const loginPath = "/login"

// renderPage renders a page with the data every layout needs.
func renderPage(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	user, _ := middleware.CurrentUser(c)
	data["User"] = user
	data["Flashes"] = middleware.Flashes(c)
	data["Query"] = c.Request.URL.Query()
	c.HTML(status, name, data)
}

// renderError shows err on the error page. An upstream 401 means the token is no
// longer accepted, so the session ends.
func renderError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status == http.StatusUnauthorized {
		expireSession(c)
		return
	}
	renderPage(c, appErr.Status, "error", gin.H{"Title": "Error", "Error": appErr})
}

// renderForm re-renders a form with the error message, keeping the submitted values.
func renderForm(c *gin.Context, name string, err error, data gin.H) {
	appErr := appErrors.FromError(err)
	if appErr.Status == http.StatusUnauthorized {
		expireSession(c)
		return
	}
	data["Error"] = appErr.Message
	status := appErr.Status
	if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
		status = http.StatusUnprocessableEntity
	}
	renderPage(c, status, name, data)
}

func redirectWithError(c *gin.Context, target string, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status == http.StatusUnauthorized {
		expireSession(c)
		return
	}
	middleware.AddFlash(c, middleware.FlashError, appErr.Message)
	c.Redirect(http.StatusSeeOther, target)
}

func redirectWithSuccess(c *gin.Context, target, message string) {
	middleware.AddFlash(c, middleware.FlashSuccess, message)
	c.Redirect(http.StatusSeeOther, target)
}

func expireSession(c *gin.Context) {
	_ = middleware.ClearUserWithFlash(c, &middleware.Flash{Kind: middleware.FlashWarning, Message: "Your session has expired. Please log in again."})
	c.Redirect(http.StatusSeeOther, loginPath)
}

func currentUser(c *gin.Context) *models.SessionUser {
	user, _ := middleware.CurrentUser(c)
	return user
}

// listOptions reads the search, sort and paging controls shared by list pages.
func listOptions(c *gin.Context) models.ListOptions {
	return models.ListOptions{
		Search:    strings.TrimSpace(c.Query("search")),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func bindForm(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBind(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid form values")
	}
	return nil
}
