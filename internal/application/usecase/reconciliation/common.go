// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
)

// getOpenSession loads a session and verifies it still accepts mutations.
func getOpenSession(ctx context.Context, repo adapter.SessionRepository, sessionID uuid.UUID) (*entity.ReconciliationSession, error) {
	session, err := repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.IsOpen() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidSessionState,
			"session is "+string(session.Status),
			domainerror.ErrInvalidSessionState,
		)
	}
	return session, nil
}

// markInProgress moves a started session to in progress. Losing the
// guarded transition only means another operation got there first, so
// that outcome is not an error.
func markInProgress(ctx context.Context, repo adapter.SessionRepository, session *entity.ReconciliationSession) error {
	if session.Status != entity.SessionStatusStarted {
		return nil
	}
	err := repo.TransitionStatus(ctx, session.ID, []entity.SessionStatus{entity.SessionStatusStarted}, entity.SessionStatusInProgress)
	if err != nil && !errors.Is(err, domainerror.ErrInvalidSessionState) {
		return err
	}
	session.Status = entity.SessionStatusInProgress
	return nil
}

// matchedSets splits the session's matches into the statement-side and
// ledger-side id sets.
func matchedSets(matches []*entity.ReconciliationMatch) (statementIDs, transactionIDs map[uuid.UUID]bool) {
	statementIDs = make(map[uuid.UUID]bool, len(matches))
	transactionIDs = make(map[uuid.UUID]bool, len(matches))
	for _, m := range matches {
		statementIDs[m.StatementTransactionID] = true
		transactionIDs[m.TransactionID] = true
	}
	return statementIDs, transactionIDs
}
