// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
)

// AbortSessionInput represents the input for aborting a session.
type AbortSessionInput struct {
	SessionID uuid.UUID
	Reason    string
}

// AbortSessionOutput represents the result of aborting a session.
type AbortSessionOutput struct {
	SessionID uuid.UUID
	Status    entity.SessionStatus
}

// AbortSessionUseCase aborts an open session. Aborting discards the
// session's unmatched state and never touches ledger transactions;
// matches are session-scoped, so no ledger cleanup exists to do.
type AbortSessionUseCase struct {
	sessionRepo adapter.SessionRepository
	auditTrail  adapter.AuditTrail
}

// NewAbortSessionUseCase creates a new AbortSessionUseCase instance.
func NewAbortSessionUseCase(sessionRepo adapter.SessionRepository, auditTrail adapter.AuditTrail) *AbortSessionUseCase {
	return &AbortSessionUseCase{
		sessionRepo: sessionRepo,
		auditTrail:  auditTrail,
	}
}

// Execute aborts the session as a single atomic, status-guarded write.
func (uc *AbortSessionUseCase) Execute(ctx context.Context, input AbortSessionInput) (*AbortSessionOutput, error) {
	session, err := getOpenSession(ctx, uc.sessionRepo, input.SessionID)
	if err != nil {
		return nil, err
	}

	if err := uc.sessionRepo.Abort(ctx, session.ID, input.Reason); err != nil {
		return nil, err
	}

	uc.auditTrail.Record(ctx, adapter.AuditEvent{
		Action:    "session.aborted",
		SessionID: &session.ID,
		AccountID: &session.AccountID,
		Detail:    input.Reason,
	})

	return &AbortSessionOutput{
		SessionID: session.ID,
		Status:    entity.SessionStatusAborted,
	}, nil
}
