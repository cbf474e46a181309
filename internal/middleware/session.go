package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
	"github.com/noah-isme/sma-admin-console/pkg/config"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
	"github.com/noah-isme/sma-admin-console/pkg/response"
)

// ContextUserKey is the gin context key storing the logged-in *models.SessionUser.
const ContextUserKey = "currentUser"

const (
	sessionUserKey   = "user"
	sessionLoggerKey = "sessionLogger"
)

// Sessions installs the cookie session store. Failed saves are logged to logger.
func Sessions(cfg config.SessionConfig, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge / time.Second),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	handler := sessions.Sessions(cfg.Name, store)
	return func(c *gin.Context) {
		c.Set(sessionLoggerKey, logger)
		handler(c)
	}
}

// saveSession writes the session cookie. A failure, such as a cookie over the 4 KB
// browser limit, is logged and returned.
func saveSession(c *gin.Context, session sessions.Session) error {
	err := session.Save()
	if err != nil {
		value, _ := c.Get(sessionLoggerKey)
		logger, ok := value.(*zap.Logger)
		if !ok {
			logger = zap.NewNop()
		}
		logger.Warn("failed to save session", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	return err
}

// LoadUser restores the session user and attaches the access token to the request
// context so repository calls forward it. An expired session is cleared.
func LoadUser(now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw, ok := session.Get(sessionUserKey).(string)
		if !ok || raw == "" {
			c.Next()
			return
		}
		var user models.SessionUser
		if err := json.Unmarshal([]byte(raw), &user); err != nil || user.Expired(now()) {
			session.Delete(sessionUserKey)
			if err == nil {
				session.AddFlash(encodeFlash(FlashWarning, "Your session has expired. Please log in again."))
			}
			_ = saveSession(c, session)
			c.Next()
			return
		}
		c.Set(ContextUserKey, &user)
		c.Request = c.Request.WithContext(apiclient.WithToken(c.Request.Context(), user.Token))
		c.Next()
	}
}

// SaveUser stores user in the session.
func SaveUser(c *gin.Context, user *models.SessionUser) error {
	return SaveUserWithFlash(c, user, nil)
}

// SaveUserWithFlash stores user and queues flash in a single session write.
func SaveUserWithFlash(c *gin.Context, user *models.SessionUser, flash *Flash) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set(sessionUserKey, string(raw))
	if flash != nil {
		session.AddFlash(encodeFlash(flash.Kind, flash.Message))
	}
	c.Set(ContextUserKey, user)
	return saveSession(c, session)
}

// ClearUser ends the session.
func ClearUser(c *gin.Context) error {
	return ClearUserWithFlash(c, nil)
}

// ClearUserWithFlash ends the session and queues flash in a single session write.
func ClearUserWithFlash(c *gin.Context, flash *Flash) error {
	session := sessions.Default(c)
	session.Clear()
	if flash != nil {
		session.AddFlash(encodeFlash(flash.Kind, flash.Message))
	}
	c.Set(ContextUserKey, (*models.SessionUser)(nil))
	return saveSession(c, session)
}

// CurrentUser returns the logged-in user, if any.
func CurrentUser(c *gin.Context) (*models.SessionUser, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.SessionUser)
	return user, ok && user != nil
}

// RequireLogin redirects anonymous visitors to loginPath, remembering where they were
// going.
func RequireLogin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}
		target := loginPath
		if c.Request.Method == http.MethodGet {
			target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		}
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
	}
}

// RequireAPIUser rejects anonymous JSON API calls.
func RequireAPIUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
