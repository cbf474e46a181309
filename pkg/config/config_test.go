package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "http://localhost:8080/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "/auth/login", cfg.Upstream.LoginPath)
	assert.Equal(t, 12*time.Hour, cfg.Session.MaxAge)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.SubjectTTL)
	assert.True(t, cfg.Reports.Enabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestOverridesTrimBaseURLAndOrigins(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("API_BASE_URL", "https://school.example.com/api/")
	v.Set("ALLOWED_ORIGINS", " https://a.example.com , ,https://b.example.com")
	v.Set("API_TIMEOUT", "not-a-duration")

	cfg := fromViper(v)
	assert.Equal(t, "https://school.example.com/api", cfg.Upstream.BaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
}
