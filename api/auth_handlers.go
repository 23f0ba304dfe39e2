package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alibeddi/securitycenter/upstream"
)

// Login handles POST /api/login. It exchanges credentials with the upstream
// for a bearer token and stores it in the auth cookie. The token never
// appears in the response body.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	clientIP := extractClientIP(r)
	if blocked, retryAfter := a.limiter.check(clientIP); blocked {
		a.audit.logFailure(AuditLoginRateLimited, r, "ip rate limited",
			slog.String("client_ip", clientIP))
		a.metrics.recordAuthFailure("rate_limited")
		writeRateLimited(w, retryAfter)
		return
	}

	req, ok := decodeJSON[LoginRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	// Reject malformed input before any network call.
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	token, err := a.upstream.Login(r.Context(), upstream.Credentials{
		Email:                 req.Email,
		Password:              req.Password,
		TwoFactorCode:         req.TwoFactorCode,
		TwoFactorRecoveryCode: req.TwoFactorRecoveryCode,
	})
	if err != nil {
		if se, ok := upstream.AsStatusError(err); ok {
			// Credentials rejected. The outward status is fixed at 401 no
			// matter what the upstream answered; its exact status and error
			// text are preserved in the payload.
			a.limiter.recordFailure(clientIP)
			a.audit.logFailure(AuditLoginFailure, r, "upstream rejected credentials",
				slog.Int("upstream_status", se.Status))
			a.metrics.recordAuthFailure("rejected")
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:          upstreamErrorText(se),
				UpstreamStatus: se.Status,
			})
			return
		}
		if errors.Is(err, upstream.ErrNoToken) {
			a.audit.logFailure(AuditLoginFailure, r, "upstream response missing token")
			a.metrics.recordAuthFailure("bad_gateway")
			writeError(w, http.StatusBadGateway, "upstream did not return a token")
			return
		}
		// Network-level failure. Login has no fail-open equivalent.
		a.audit.logFailure(AuditLoginFailure, r, "upstream unreachable")
		a.metrics.recordAuthFailure("upstream_unavailable")
		writeInternalError(w, "login service unavailable", err)
		return
	}

	a.limiter.recordSuccess(clientIP)
	a.writeTokenCookie(w, r, token)
	a.audit.logEvent(AuditLoginSuccess, r, req.Email)
	writeJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// Session handles GET /api/session. By default it reports authenticated from
// cookie presence alone; with token validation enabled it consults the
// upstream, deleting the cookie on rejection.
func (a *API) Session(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, SessionResponse{Authenticated: false})
		return
	}

	if !a.enableValidation {
		writeJSON(w, http.StatusOK, SessionResponse{Authenticated: true})
		return
	}

	if err := a.upstream.Validate(r.Context(), token); err != nil {
		if _, rejected := upstream.AsStatusError(err); rejected {
			a.clearTokenCookie(w, r)
			a.audit.logFailure(AuditSessionRejected, r, "upstream rejected token")
			a.metrics.recordAuthFailure("session_rejected")
			writeJSON(w, http.StatusUnauthorized, SessionResponse{Authenticated: false})
			return
		}
		// Upstream unreachable: fail open. Availability is favored over
		// strictness on transient network errors.
		slog.Warn("session validation unreachable, failing open",
			slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, SessionResponse{Authenticated: true})
}

// Refresh handles POST /api/refresh. A failed refresh is never fatal and
// never clears an existing cookie: the caller always gets success:true, with
// refreshed reporting whether a new token was actually written.
func (a *API) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	// The expected steady state: backend refresh disabled, no upstream call,
	// no cookie mutation.
	if !a.enableRefresh {
		writeJSON(w, http.StatusOK, RefreshResponse{Success: true, Refreshed: false})
		return
	}

	newToken, err := a.upstream.Refresh(r.Context(), token)
	if err != nil {
		slog.Info("token refresh failed, keeping existing cookie",
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, RefreshResponse{Success: true, Refreshed: false})
		return
	}

	a.writeTokenCookie(w, r, newToken)
	a.audit.log(AuditRefreshSuccess, r)
	writeJSON(w, http.StatusOK, RefreshResponse{Success: true, Refreshed: true})
}

// Logout handles POST /api/logout. Local cookie clearing takes priority over
// any remote session termination; no upstream call is made. Idempotent.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	a.clearTokenCookie(w, r)
	a.audit.log(AuditLogout, r)
	writeJSON(w, http.StatusOK, LogoutResponse{Success: true})
}

func upstreamErrorText(se *upstream.StatusError) string {
	if se.Body != "" {
		return se.Body
	}
	return "invalid credentials"
}
