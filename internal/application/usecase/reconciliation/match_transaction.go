// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
)

// MatchTransactionInput represents the input for recording a match.
type MatchTransactionInput struct {
	SessionID              uuid.UUID
	StatementTransactionID uuid.UUID
	TransactionID          uuid.UUID
	IsManual               bool
	Notes                  string
}

// MatchTransactionOutput represents the result of recording a match.
type MatchTransactionOutput struct {
	MatchID                uuid.UUID
	StatementTransactionID uuid.UUID
	TransactionID          uuid.UUID
}

// MatchTransactionUseCase records a session-scoped association between a
// statement transaction and a ledger transaction. Matching never mutates
// the ledger transaction itself.
type MatchTransactionUseCase struct {
	sessionRepo adapter.SessionRepository
	ledgerStore adapter.LedgerStore
	auditTrail  adapter.AuditTrail
}

// NewMatchTransactionUseCase creates a new MatchTransactionUseCase instance.
func NewMatchTransactionUseCase(
	sessionRepo adapter.SessionRepository,
	ledgerStore adapter.LedgerStore,
	auditTrail adapter.AuditTrail,
) *MatchTransactionUseCase {
	return &MatchTransactionUseCase{
		sessionRepo: sessionRepo,
		ledgerStore: ledgerStore,
		auditTrail:  auditTrail,
	}
}

// Execute records the match.
func (uc *MatchTransactionUseCase) Execute(ctx context.Context, input MatchTransactionInput) (*MatchTransactionOutput, error) {
	session, err := getOpenSession(ctx, uc.sessionRepo, input.SessionID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.sessionRepo.GetStatementTransaction(ctx, session.ID, input.StatementTransactionID); err != nil {
		return nil, err
	}

	txn, err := uc.ledgerStore.GetByID(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}
	if txn.AccountID != session.AccountID {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeAccountMismatch,
			"transaction does not belong to the session account",
			domainerror.ErrAccountMismatch,
		)
	}

	match := entity.NewReconciliationMatch(
		session.ID,
		input.StatementTransactionID,
		input.TransactionID,
		input.IsManual,
		input.Notes,
	)

	// Uniqueness of both sides is enforced atomically by the store;
	// concurrent double-matching fails with AlreadyMatched rather than
	// racily succeeding.
	if err := uc.sessionRepo.CreateMatch(ctx, match); err != nil {
		return nil, err
	}

	if err := markInProgress(ctx, uc.sessionRepo, session); err != nil {
		return nil, err
	}

	uc.auditTrail.Record(ctx, adapter.AuditEvent{
		Action:        "session.matched",
		SessionID:     &session.ID,
		AccountID:     &session.AccountID,
		TransactionID: &input.TransactionID,
		Amount:        &txn.Amount,
		Detail:        "statement transaction " + input.StatementTransactionID.String(),
	})

	return &MatchTransactionOutput{
		MatchID:                match.ID,
		StatementTransactionID: match.StatementTransactionID,
		TransactionID:          match.TransactionID,
	}, nil
}
