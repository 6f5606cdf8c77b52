package ports

import (
	"context"

	"github.com/sirpyerre/members-only/internal/core/domain"
)

// AuditRepository persists authentication audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditSink accepts audit events without blocking the caller on persistence.
type AuditSink interface {
	Record(event domain.AuthEvent)
}
