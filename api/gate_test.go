package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibeddi/securitycenter/api"
)

func gateRequest(t *testing.T, target string, withCookie bool) *httptest.ResponseRecorder {
	t.Helper()
	passed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot) // marker: request passed the gate
	})
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: "t1"})
	}
	rec := httptest.NewRecorder()
	api.RouteGate(passed).ServeHTTP(rec, req)
	return rec
}

func TestGateRedirectsProtectedPathWithoutCookie(t *testing.T) {
	for _, path := range []string{"/", "/reports", "/api/alerts", "/api/decisions/42"} {
		rec := gateRequest(t, path, false)
		require.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login?next="+urlEncode(path), rec.Header().Get("Location"), path)
	}
}

func TestGatePassesProtectedPathWithCookie(t *testing.T) {
	for _, path := range []string{"/", "/reports", "/api/alerts"} {
		rec := gateRequest(t, path, true)
		assert.Equal(t, http.StatusTeapot, rec.Code, path)
	}
}

func TestGatePassesPublicPaths(t *testing.T) {
	for _, path := range []string{
		"/login",
		"/static/styles.css",
		"/healthz",
		"/metrics",
		"/api/login",
		"/api/session",
		"/api/refresh",
		"/api/logout",
		"/api/docs",
	} {
		rec := gateRequest(t, path, false)
		assert.Equal(t, http.StatusTeapot, rec.Code, path)
	}
}

func TestGateBouncesAuthenticatedOffLoginScreen(t *testing.T) {
	rec := gateRequest(t, "/login", true)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = gateRequest(t, "/login?next=%2Freports", true)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/reports", rec.Header().Get("Location"))
}

func TestGateStripsQueryFromNextTarget(t *testing.T) {
	rec := gateRequest(t, "/login?next=%2Freports%3Ftab%3Dopen", true)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/reports", rec.Header().Get("Location"))
}

func TestGateRejectsUnsafeNextTargets(t *testing.T) {
	for _, next := range []string{
		"https%3A%2F%2Fevil.example.com",
		"%2F%2Fevil.example.com",
		"evil",
	} {
		rec := gateRequest(t, "/login?next="+next, true)
		require.Equal(t, http.StatusFound, rec.Code, next)
		assert.Equal(t, "/", rec.Header().Get("Location"), next)
	}
}

func urlEncode(path string) string {
	r := ""
	for _, c := range path {
		switch c {
		case '/':
			r += "%2F"
		default:
			r += string(c)
		}
	}
	return r
}
