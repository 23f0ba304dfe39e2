package api

import (
	"log/slog"
	"net/http"
	"time"
)

// AuditEvent identifies the type of security-relevant action being logged.
type AuditEvent string

const (
	AuditLoginSuccess     AuditEvent = "login_success"
	AuditLoginFailure     AuditEvent = "login_failure"
	AuditLoginRateLimited AuditEvent = "login_rate_limited"
	AuditLogout           AuditEvent = "logout"
	AuditSessionRejected  AuditEvent = "session_rejected"
	AuditRefreshSuccess   AuditEvent = "refresh_success"
	AuditDecisionDeleted  AuditEvent = "decision_deleted"
)

// auditLogger wraps slog.Logger for structured security audit logging, with
// an optional persistent store for the audit trail.
type auditLogger struct {
	logger *slog.Logger
	store  AuditStore
}

func newAuditLogger(logger *slog.Logger, store AuditStore) *auditLogger {
	return &auditLogger{
		logger: logger.With("component", "audit"),
		store:  store,
	}
}

// log writes a structured audit log entry and, when a store is configured,
// appends it to the persistent trail.
func (al *auditLogger) log(event AuditEvent, r *http.Request, attrs ...slog.Attr) {
	baseAttrs := []slog.Attr{
		slog.String("event", string(event)),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	baseAttrs = append(baseAttrs, attrs...)
	al.logger.LogAttrs(r.Context(), slog.LevelInfo, "audit", baseAttrs...)

	if al.store != nil {
		al.store.Append(AuditRecord{
			Event:      string(event),
			RemoteAddr: r.RemoteAddr,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
			Detail:     attrsDetail(attrs),
		})
	}
}

// logEvent is a convenience for events with a subject (an email for logins,
// a decision ID for deletions).
func (al *auditLogger) logEvent(event AuditEvent, r *http.Request, subject string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("subject", subject),
	}
	attrs = append(attrs, extra...)
	al.log(event, r, attrs...)
}

// logFailure logs a failed authentication attempt.
func (al *auditLogger) logFailure(event AuditEvent, r *http.Request, reason string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("reason", reason),
	}
	attrs = append(attrs, extra...)
	al.log(event, r, attrs...)
}

func attrsDetail(attrs []slog.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	detail := make(map[string]string, len(attrs))
	for _, a := range attrs {
		detail[a.Key] = a.Value.String()
	}
	return detail
}
