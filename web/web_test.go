package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibeddi/securitycenter/web"
)

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	resp := rec.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestLoginPageRenders(t *testing.T) {
	h, err := web.Handler()
	require.NoError(t, err)

	resp, body := get(t, h, "/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `id="login-form"`)
	assert.NotContains(t, body, `id="reason-message"`, "no notice without a reason")
}

func TestLoginPageShowsReasonMessage(t *testing.T) {
	h, err := web.Handler()
	require.NoError(t, err)

	_, body := get(t, h, "/login?reason=session_expired&next=%2Freports")
	assert.Contains(t, body, "Your session has expired")
	assert.Contains(t, body, `data-next="/reports"`)

	_, body = get(t, h, "/login?reason=token_expired")
	assert.Contains(t, body, "no longer valid")

	// Unknown reasons render no notice rather than leaking the raw code.
	_, body = get(t, h, "/login?reason=whatever")
	assert.NotContains(t, body, "whatever")
}

func TestDashboardRenders(t *testing.T) {
	h, err := web.Handler()
	require.NoError(t, err)

	resp, body := get(t, h, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="alerts-table"`)
	assert.Contains(t, body, `id="logout-button"`)
}

func TestStaticAssetsServed(t *testing.T) {
	h, err := web.Handler()
	require.NoError(t, err)

	for _, asset := range []string{"/static/styles.css", "/static/login.js", "/static/dashboard.js"} {
		resp, body := get(t, h, asset)
		require.Equal(t, http.StatusOK, resp.StatusCode, asset)
		assert.NotEmpty(t, body, asset)
	}
}
