// Package adapters implements application adapter interfaces backed by
// external services.
package adapters

import (
	"context"
	"log/slog"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/valueobject"
)

// AuditLogger is a slog-backed audit trail. It observes reconciliation
// and merge state transitions and emits structured log events; it never
// fails the originating operation.
type AuditLogger struct {
	logger    *slog.Logger
	formatter valueobject.MoneyFormatter
}

// NewAuditLogger creates an audit logger writing to the given slog logger.
func NewAuditLogger(logger *slog.Logger, formatter valueobject.MoneyFormatter) *AuditLogger {
	return &AuditLogger{
		logger:    logger,
		formatter: formatter,
	}
}

// Record implements adapter.AuditTrail.
func (a *AuditLogger) Record(ctx context.Context, event adapter.AuditEvent) {
	attrs := []any{
		slog.String("action", event.Action),
	}
	if event.SessionID != nil {
		attrs = append(attrs, slog.String("session_id", event.SessionID.String()))
	}
	if event.AccountID != nil {
		attrs = append(attrs, slog.String("account_id", event.AccountID.String()))
	}
	if event.TransactionID != nil {
		attrs = append(attrs, slog.String("transaction_id", event.TransactionID.String()))
	}
	if event.TargetID != nil {
		attrs = append(attrs, slog.String("target_id", event.TargetID.String()))
	}
	if event.Amount != nil {
		attrs = append(attrs, slog.String("amount", a.formatter.Format(*event.Amount)))
	}
	if event.Detail != "" {
		attrs = append(attrs, slog.String("detail", event.Detail))
	}

	a.logger.InfoContext(ctx, "audit", attrs...)
}
