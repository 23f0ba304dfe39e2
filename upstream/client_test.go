package upstream_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibeddi/securitycenter/upstream"
)

func TestLoginReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var creds upstream.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ops@example.com", creds.Email)
		assert.Equal(t, "123456", creds.TwoFactorCode)

		json.NewEncoder(w).Encode(map[string]string{"accessToken": "t1"})
	}))
	defer srv.Close()

	c := upstream.New(srv.URL)
	token, err := c.Login(t.Context(), upstream.Credentials{
		Email:         "ops@example.com",
		Password:      "hunter2",
		TwoFactorCode: "123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
}

func TestLoginRejectionKeepsUpstreamBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad credentials"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := upstream.New(srv.URL)
	_, err := c.Login(t.Context(), upstream.Credentials{Email: "a@b.c", Password: "x"})
	require.Error(t, err)

	se, ok := upstream.AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, se.Status)
	assert.Contains(t, se.Body, "bad credentials")
}

func TestLoginMissingTokenIsContractViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"unexpected": "shape"})
	}))
	defer srv.Close()

	c := upstream.New(srv.URL)
	_, err := c.Login(t.Context(), upstream.Credentials{Email: "a@b.c", Password: "x"})
	require.ErrorIs(t, err, upstream.ErrNoToken)
}

func TestRefreshSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer old-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "new-token"})
	}))
	defer srv.Close()

	c := upstream.New(srv.URL)
	token, err := c.Refresh(t.Context(), "old-token")
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
}

func TestValidateDistinguishesRejectionFromUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	c := upstream.New(srv.URL)

	err := c.Validate(t.Context(), "t1")
	se, ok := upstream.AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, se.Status)

	// A closed server is a transport failure, not a StatusError.
	srv.Close()
	err = c.Validate(t.Context(), "t1")
	require.Error(t, err)
	_, ok = upstream.AsStatusError(err)
	assert.False(t, ok)
}

func TestDeleteDecisionPathAndPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/decisions/42", r.URL.Path)
		http.Error(w, "decision is immutable", http.StatusConflict)
	}))
	defer srv.Close()

	c := upstream.New(srv.URL)
	err := c.DeleteDecision(t.Context(), "t1", "42")
	se, ok := upstream.AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, se.Status)
	assert.Equal(t, "decision is immutable", se.Body)
}

func TestListAlertsReturnsRawBody(t *testing.T) {
	payload := `[{"id":1,"scenario":"ssh-bf"},{"id":2,"scenario":"http-probing"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/alerts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := upstream.New(srv.URL)
	body, err := c.ListAlerts(t.Context(), "t1")
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(body))
}

func TestEndpointOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/auth/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "t1"})
	}))
	defer srv.Close()

	c := upstream.New(srv.URL, upstream.WithEndpoints(upstream.Endpoints{Login: "/v2/auth/login"}))
	_, err := c.Login(t.Context(), upstream.Credentials{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
}
