// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/domain/entity"
)

// SessionRepository defines persistence for reconciliation sessions and
// their session-scoped rows (statement transactions, matches,
// adjustments). All state transitions are status-guarded: the writer
// verifies the session is still in the expected state as part of the same
// atomic update and fails with domainerror.ErrInvalidSessionState when a
// concurrent transition already occurred.
type SessionRepository interface {
	// Create persists a new session. Fails with
	// domainerror.ErrConflictingSession when the account already has an
	// open session.
	Create(ctx context.Context, session *entity.ReconciliationSession) error

	// GetByID retrieves a session by its ID.
	// Returns domainerror.ErrSessionNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ReconciliationSession, error)

	// ReplaceUnmatchedStatement deletes the session's unmatched statement
	// transactions and inserts the given lines. Matched statement
	// transactions are preserved, so a re-upload never drops existing
	// matches.
	ReplaceUnmatchedStatement(ctx context.Context, sessionID uuid.UUID, lines []*entity.StatementTransaction) error

	// ListStatementTransactions returns all statement transactions of the
	// session in upload order.
	ListStatementTransactions(ctx context.Context, sessionID uuid.UUID) ([]*entity.StatementTransaction, error)

	// GetStatementTransaction retrieves one statement transaction scoped
	// to the session. Returns
	// domainerror.ErrStatementTransactionNotFound when absent.
	GetStatementTransaction(ctx context.Context, sessionID, statementTransactionID uuid.UUID) (*entity.StatementTransaction, error)

	// CreateMatch inserts a match row. Uniqueness of both the statement
	// transaction and the ledger transaction within the session is
	// enforced by the store; a violation fails with
	// domainerror.ErrAlreadyMatched.
	CreateMatch(ctx context.Context, match *entity.ReconciliationMatch) error

	// DeleteMatch removes the match for a statement transaction. Fails
	// with domainerror.ErrMatchNotFound when no match exists, so callers
	// can detect stale UI state.
	DeleteMatch(ctx context.Context, sessionID, statementTransactionID uuid.UUID) error

	// ListMatches returns all matches recorded in the session.
	ListMatches(ctx context.Context, sessionID uuid.UUID) ([]*entity.ReconciliationMatch, error)

	// ListAdjustments returns the adjustments persisted at completion.
	ListAdjustments(ctx context.Context, sessionID uuid.UUID) ([]*entity.Adjustment, error)

	// TransitionStatus moves the session from any of the expected states
	// to the target state.
	TransitionStatus(ctx context.Context, sessionID uuid.UUID, from []entity.SessionStatus, to entity.SessionStatus) error

	// Complete atomically persists the completed session (status, notes,
	// variance, completion time) and its adjustments, guarded by the
	// session still being open.
	Complete(ctx context.Context, session *entity.ReconciliationSession, adjustments []*entity.Adjustment) error

	// Abort atomically marks an open session aborted, recording the
	// reason. Ledger state is never touched.
	Abort(ctx context.Context, sessionID uuid.UUID, reason string) error
}
