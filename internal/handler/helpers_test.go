package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/web"
	"github.com/noah-isme/sma-admin-console/pkg/config"
	"github.com/noah-isme/sma-admin-console/pkg/response"
)

var (
	adminUser   = &models.SessionUser{ID: "admin-1", Name: "Ana Admin", UserType: models.UserTypeAdmin, Token: "tok-admin"}
	teacherUser = &models.SessionUser{ID: "teacher-1", Name: "Tia Teacher", UserType: models.UserTypeTeacher, Token: "tok-teacher"}
)

// newTestEngine builds an engine with sessions, the real templates and user as the
// logged-in user (nil for anonymous).
func newTestEngine(user *models.SessionUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HTMLRender = web.MustRenderer()
	r.Use(middleware.Sessions(config.SessionConfig{Name: "console_test", Secret: "test-secret", MaxAge: time.Hour}, nil))
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.ContextUserKey, user)
		}
		c.Next()
	})
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(r http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func postJSON(r http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// envelope decodes a JSON reply, leaving Data as raw JSON for the caller.
func envelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) response.Envelope {
	t.Helper()
	var env struct {
		response.Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Envelope
}
