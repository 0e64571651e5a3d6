package ports

import (
	"context"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
)

// AuditSink accepts audit events for asynchronous persistence. Record must
// never block request handling; implementations drop events on overflow.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// NopAuditSink discards all events. Used in tests and as a default.
type NopAuditSink struct{}

func (NopAuditSink) Record(domain.AuditEvent) {}
