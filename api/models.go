package api

// LoginRequest is the JSON body for POST /api/login. The two-factor fields
// are forwarded to the upstream verbatim; this service never interprets them.
type LoginRequest struct {
	Email                 string `json:"email"`
	Password              string `json:"password"`
	TwoFactorCode         string `json:"twoFactorCode,omitempty"`
	TwoFactorRecoveryCode string `json:"twoFactorRecoveryCode,omitempty"`
}

// LoginResponse is returned from POST /api/login. The token itself is never
// exposed in a readable body; it travels only in the HttpOnly cookie.
type LoginResponse struct {
	Success bool `json:"success"`
}

// SessionResponse is returned from GET /api/session.
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// RefreshResponse is returned from POST /api/refresh. Success is always true
// on a 200; a failed upstream refresh is reported through Refreshed, never as
// an error.
type RefreshResponse struct {
	Success   bool `json:"success"`
	Refreshed bool `json:"refreshed"`
}

// LogoutResponse is returned from POST /api/logout.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// DeleteDecisionResponse is returned from DELETE /api/decisions/{id}.
type DeleteDecisionResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the JSON error shape for every BFF route. UpstreamStatus
// is set when the outward status was normalized away from the upstream's own
// code (login rejections are always reported as 401).
type ErrorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// ListAuditEventsResponse is returned from GET /api/audit.
type ListAuditEventsResponse struct {
	Events []AuditRecord `json:"events"`
}
