package middleware

import (
	"encoding/json"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Flash kinds map to banner styles.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
)

// Flash is a one-shot banner shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// AddFlash queues a banner for the next page.
func AddFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(encodeFlash(kind, message))
	_ = saveSession(c, session)
}

// Flashes pops the queued banners.
func Flashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = saveSession(c, session)
	out := make([]Flash, 0, len(raw))
	for _, item := range raw {
		text, ok := item.(string)
		if !ok {
			continue
		}
		var flash Flash
		if err := json.Unmarshal([]byte(text), &flash); err != nil {
			flash = Flash{Kind: FlashSuccess, Message: text}
		}
		out = append(out, flash)
	}
	return out
}

func encodeFlash(kind, message string) string {
	raw, _ := json.Marshal(Flash{Kind: kind, Message: message})
	return string(raw)
}
