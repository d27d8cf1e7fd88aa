// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditEvent is a state-transition notification emitted by the
// reconciliation and merge engines. Audit logging is an observer of
// these events, never logic inside the engines.
type AuditEvent struct {
	Action        string // e.g. "session.started", "merge.applied"
	SessionID     *uuid.UUID
	AccountID     *uuid.UUID
	TransactionID *uuid.UUID
	TargetID      *uuid.UUID
	Amount        *decimal.Decimal
	Detail        string
}

// AuditTrail receives state-transition events. Implementations must not
// fail the originating operation; delivery is best-effort.
type AuditTrail interface {
	Record(ctx context.Context, event AuditEvent)
}
