package api

// AuditStore persists the audit trail so security events survive restarts.
// Implementations must be safe for concurrent use by request handlers.
type AuditStore interface {
	// Append adds a record to the trail. Errors are logged, not surfaced to
	// the request that triggered the event.
	Append(record AuditRecord) error
	// List returns up to limit records, newest first.
	List(limit int) ([]AuditRecord, error)
}

// AuditRecord is one persisted security event.
type AuditRecord struct {
	ID         string            `json:"id"`
	Event      string            `json:"event"`
	RemoteAddr string            `json:"remote_addr"`
	CreatedAt  string            `json:"created_at"`
	Detail     map[string]string `json:"detail,omitempty"`
}
