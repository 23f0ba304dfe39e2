// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every environment-driven setting recognized by the server.
type Config struct {
	ListenAddr string

	UpstreamBaseURL      string
	UpstreamLoginPath    string
	UpstreamRefreshPath  string
	UpstreamValidatePath string
	UpstreamAlertsPath   string
	UpstreamTimeout      time.Duration

	// EnableBackendRefresh controls whether POST /api/refresh actually calls
	// the upstream refresh endpoint. Off by default: the expected steady
	// state is a no-op refresh.
	EnableBackendRefresh bool

	// EnableTokenValidation switches the session check from presence-only to
	// upstream validation.
	EnableTokenValidation bool

	// ForceSecureCookies marks auth cookies Secure regardless of how the
	// request arrived. For deployments behind TLS-terminating proxies that
	// do not set forwarding headers.
	ForceSecureCookies bool

	AuditDBPath string
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() Config {
	return Config{
		ListenAddr: getString("LISTEN_ADDR", ":8080"),

		UpstreamBaseURL:      getString("UPSTREAM_BASE_URL", "http://localhost:4000"),
		UpstreamLoginPath:    getString("UPSTREAM_LOGIN_PATH", "/login"),
		UpstreamRefreshPath:  getString("UPSTREAM_REFRESH_PATH", "/refresh"),
		UpstreamValidatePath: getString("UPSTREAM_VALIDATE_PATH", "/validate"),
		UpstreamAlertsPath:   getString("UPSTREAM_ALERTS_PATH", "/alerts"),
		UpstreamTimeout:      getDuration("UPSTREAM_TIMEOUT", 15*time.Second),

		EnableBackendRefresh:  getBool("ENABLE_BACKEND_REFRESH", false),
		EnableTokenValidation: getBool("ENABLE_TOKEN_VALIDATION", false),
		ForceSecureCookies:    getBool("FORCE_SECURE_COOKIES", false),

		AuditDBPath: getString("AUDIT_DB_PATH", ""),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
