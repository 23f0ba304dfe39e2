package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:4000", cfg.UpstreamBaseURL)
	assert.Equal(t, "/login", cfg.UpstreamLoginPath)
	assert.Equal(t, "/refresh", cfg.UpstreamRefreshPath)
	assert.Equal(t, "/validate", cfg.UpstreamValidatePath)
	assert.Equal(t, "/alerts", cfg.UpstreamAlertsPath)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.False(t, cfg.EnableBackendRefresh)
	assert.False(t, cfg.EnableTokenValidation)
	assert.False(t, cfg.ForceSecureCookies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("UPSTREAM_BASE_URL", "https://alerts.example.com")
	t.Setenv("ENABLE_BACKEND_REFRESH", "true")
	t.Setenv("ENABLE_TOKEN_VALIDATION", "1")
	t.Setenv("FORCE_SECURE_COOKIES", "true")
	t.Setenv("UPSTREAM_TIMEOUT", "30s")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "https://alerts.example.com", cfg.UpstreamBaseURL)
	assert.True(t, cfg.EnableBackendRefresh)
	assert.True(t, cfg.EnableTokenValidation)
	assert.True(t, cfg.ForceSecureCookies)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("ENABLE_BACKEND_REFRESH", "definitely")
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	cfg := Load()

	assert.False(t, cfg.EnableBackendRefresh)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
}
