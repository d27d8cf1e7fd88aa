// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
)

// UnmatchTransactionInput represents the input for removing a match.
type UnmatchTransactionInput struct {
	SessionID              uuid.UUID
	StatementTransactionID uuid.UUID
}

// UnmatchTransactionOutput represents the result of removing a match.
type UnmatchTransactionOutput struct {
	StatementTransactionID uuid.UUID
}

// UnmatchTransactionUseCase removes a match record. Removing a match that
// does not exist is reported as MatchNotFound rather than ignored, so
// callers can detect stale UI state.
type UnmatchTransactionUseCase struct {
	sessionRepo adapter.SessionRepository
	auditTrail  adapter.AuditTrail
}

// NewUnmatchTransactionUseCase creates a new UnmatchTransactionUseCase instance.
func NewUnmatchTransactionUseCase(sessionRepo adapter.SessionRepository, auditTrail adapter.AuditTrail) *UnmatchTransactionUseCase {
	return &UnmatchTransactionUseCase{
		sessionRepo: sessionRepo,
		auditTrail:  auditTrail,
	}
}

// Execute removes the match without side effects on the ledger transaction.
func (uc *UnmatchTransactionUseCase) Execute(ctx context.Context, input UnmatchTransactionInput) (*UnmatchTransactionOutput, error) {
	session, err := getOpenSession(ctx, uc.sessionRepo, input.SessionID)
	if err != nil {
		return nil, err
	}

	if err := uc.sessionRepo.DeleteMatch(ctx, session.ID, input.StatementTransactionID); err != nil {
		return nil, err
	}

	uc.auditTrail.Record(ctx, adapter.AuditEvent{
		Action:    "session.unmatched",
		SessionID: &session.ID,
		AccountID: &session.AccountID,
		Detail:    "statement transaction " + input.StatementTransactionID.String(),
	})

	return &UnmatchTransactionOutput{StatementTransactionID: input.StatementTransactionID}, nil
}
