package port

import "context"

// AuditEntry represents a single auditable analysis or query event.
type AuditEntry struct {
	RunID      string
	Operation  string // "analyze", "inspect", or "query"
	Source     string
	Column     string
	SQL        string
	Rows       int
	DurationMS int64
	Err        error
}

// RunAuditor records analysis audit events.
type RunAuditor interface {
	Record(ctx context.Context, entry AuditEntry)
	Close() error
}
