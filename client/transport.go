package client

import (
	"context"
	"net/http"
	"time"
)

// AuthTransport is an http.RoundTripper that watches every response for a
// 401. It is the last-resort catch-all for a token expiring mid-session,
// distinct from the server-side route gate: the first 401 wins the latch,
// triggers a best-effort logout, and forces navigation back to the login
// screen. All other requests and responses pass through untouched.
type AuthTransport struct {
	// Base performs the actual round trip. Defaults to
	// http.DefaultTransport.
	Base http.RoundTripper

	// Latch is the process-wide single-flight guard. Required.
	Latch *Latch

	// Logout is invoked best-effort when the latch fires; errors are
	// swallowed. Optional.
	Logout func(ctx context.Context)

	// OnUnauthorized performs the forced navigation. It receives the login
	// redirect URL (reason token_expired, next set to the failing request's
	// path). Required for the redirect to happen.
	OnUnauthorized func(redirectURL string)
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.Latch != nil && t.Latch.TryAcquire() {
		if t.Logout != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			t.Logout(ctx)
			cancel()
		}
		if t.OnUnauthorized != nil {
			t.OnUnauthorized(LoginRedirectURL(ReasonTokenExpired, req.URL.Path))
		}
	}
	return resp, nil
}
