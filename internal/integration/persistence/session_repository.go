// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
	"github.com/finance-tracker/reconciliation/internal/integration/persistence/model"
)

// openStatuses is the set of statuses in which a session accepts mutations.
var openStatuses = []string{
	string(entity.SessionStatusStarted),
	string(entity.SessionStatusInProgress),
}

// sessionRepository implements the adapter.SessionRepository interface.
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository instance.
func NewSessionRepository(db *gorm.DB) adapter.SessionRepository {
	return &sessionRepository{
		db: db,
	}
}

// Create persists a new session, enforcing at most one open session per
// account atomically with the insert.
func (r *sessionRepository) Create(ctx context.Context, session *entity.ReconciliationSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.ReconciliationSessionModel{}).
			Where("account_id = ? AND status IN ?", session.AccountID, openStatuses).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domainerror.NewReconciliationError(
				domainerror.ErrCodeConflictingSession,
				"account already has an open reconciliation session",
				domainerror.ErrConflictingSession,
			)
		}
		return tx.Create(model.SessionFromEntity(session)).Error
	})
}

// GetByID retrieves a session by its ID.
func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReconciliationSession, error) {
	var sm model.ReconciliationSessionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&sm)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeSessionNotFound,
				"reconciliation session not found",
				domainerror.ErrSessionNotFound,
			)
		}
		return nil, result.Error
	}
	return sm.ToEntity(), nil
}

// ReplaceUnmatchedStatement swaps out the session's unmatched statement
// transactions for the uploaded set. Matched rows survive the re-upload.
func (r *sessionRepository) ReplaceUnmatchedStatement(ctx context.Context, sessionID uuid.UUID, lines []*entity.StatementTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matched := tx.Model(&model.ReconciliationMatchModel{}).
			Select("statement_transaction_id").
			Where("session_id = ?", sessionID)

		err := tx.
			Where("session_id = ? AND id NOT IN (?)", sessionID, matched).
			Delete(&model.StatementTransactionModel{}).Error
		if err != nil {
			return err
		}

		for _, line := range lines {
			if err := tx.Create(model.StatementTransactionFromEntity(line)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListStatementTransactions returns the session's statement set in upload order.
func (r *sessionRepository) ListStatementTransactions(ctx context.Context, sessionID uuid.UUID) ([]*entity.StatementTransaction, error) {
	var models []model.StatementTransactionModel
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	lines := make([]*entity.StatementTransaction, len(models))
	for i, sm := range models {
		lines[i] = sm.ToEntity()
	}
	return lines, nil
}

// GetStatementTransaction retrieves one session-scoped statement transaction.
func (r *sessionRepository) GetStatementTransaction(ctx context.Context, sessionID, statementTransactionID uuid.UUID) (*entity.StatementTransaction, error) {
	var sm model.StatementTransactionModel
	result := r.db.WithContext(ctx).
		Where("session_id = ? AND id = ?", sessionID, statementTransactionID).
		First(&sm)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeStatementTxnNotFound,
				"statement transaction not found in session",
				domainerror.ErrStatementTransactionNotFound,
			)
		}
		return nil, result.Error
	}
	return sm.ToEntity(), nil
}

// CreateMatch inserts a match, verifying both sides are free within the
// same database transaction. The unique indexes on
// (session_id, statement_transaction_id) and (session_id, transaction_id)
// back the check, so a concurrent double-match loses on insert.
func (r *sessionRepository) CreateMatch(ctx context.Context, match *entity.ReconciliationMatch) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.ReconciliationMatchModel{}).
			Where("session_id = ? AND (statement_transaction_id = ? OR transaction_id = ?)",
				match.SessionID, match.StatementTransactionID, match.TransactionID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return alreadyMatchedError()
		}
		return tx.Create(model.MatchFromEntity(match)).Error
	})
	if err != nil && isUniqueViolation(err) {
		return alreadyMatchedError()
	}
	return err
}

// DeleteMatch removes the match for a statement transaction. Absence is
// an error so callers can detect stale UI state.
func (r *sessionRepository) DeleteMatch(ctx context.Context, sessionID, statementTransactionID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("session_id = ? AND statement_transaction_id = ?", sessionID, statementTransactionID).
		Delete(&model.ReconciliationMatchModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeMatchNotFound,
			"no match found for statement transaction",
			domainerror.ErrMatchNotFound,
		)
	}
	return nil
}

// ListMatches returns all matches recorded in the session.
func (r *sessionRepository) ListMatches(ctx context.Context, sessionID uuid.UUID) ([]*entity.ReconciliationMatch, error) {
	var models []model.ReconciliationMatchModel
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	matches := make([]*entity.ReconciliationMatch, len(models))
	for i, mm := range models {
		matches[i] = mm.ToEntity()
	}
	return matches, nil
}

// ListAdjustments returns the session's persisted adjustments.
func (r *sessionRepository) ListAdjustments(ctx context.Context, sessionID uuid.UUID) ([]*entity.Adjustment, error) {
	var models []model.ReconciliationAdjustmentModel
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	adjustments := make([]*entity.Adjustment, len(models))
	for i, am := range models {
		adjustments[i] = am.ToEntity()
	}
	return adjustments, nil
}

// TransitionStatus performs a status-guarded state transition. Zero
// affected rows means a concurrent transition already occurred.
func (r *sessionRepository) TransitionStatus(ctx context.Context, sessionID uuid.UUID, from []entity.SessionStatus, to entity.SessionStatus) error {
	fromStrings := make([]string, len(from))
	for i, s := range from {
		fromStrings[i] = string(s)
	}

	result := r.db.WithContext(ctx).
		Model(&model.ReconciliationSessionModel{}).
		Where("id = ? AND status IN ?", sessionID, fromStrings).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return invalidSessionStateError()
	}
	return nil
}

// Complete persists the completed session and its adjustments in one
// transaction, guarded by the session still being open.
func (r *sessionRepository) Complete(ctx context.Context, session *entity.ReconciliationSession, adjustments []*entity.Adjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&model.ReconciliationSessionModel{}).
			Where("id = ? AND status IN ?", session.ID, openStatuses).
			Updates(map[string]interface{}{
				"status":       string(entity.SessionStatusCompleted),
				"notes":        session.Notes,
				"variance":     session.Variance,
				"completed_at": session.CompletedAt,
				"updated_at":   session.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return invalidSessionStateError()
		}

		for _, adjustment := range adjustments {
			if err := tx.Create(model.AdjustmentFromEntity(adjustment)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Abort marks an open session aborted, appending the reason to its notes.
func (r *sessionRepository) Abort(ctx context.Context, sessionID uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sm model.ReconciliationSessionModel
		if err := tx.Where("id = ?", sessionID).First(&sm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.NewReconciliationError(
					domainerror.ErrCodeSessionNotFound,
					"reconciliation session not found",
					domainerror.ErrSessionNotFound,
				)
			}
			return err
		}

		notes := sm.Notes
		if reason != "" {
			if notes != "" {
				notes += "\n"
			}
			notes += "Aborted: " + reason
		}

		result := tx.
			Model(&model.ReconciliationSessionModel{}).
			Where("id = ? AND status IN ?", sessionID, openStatuses).
			Updates(map[string]interface{}{
				"status":     string(entity.SessionStatusAborted),
				"notes":      notes,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return invalidSessionStateError()
		}
		return nil
	})
}

func alreadyMatchedError() error {
	return domainerror.NewReconciliationError(
		domainerror.ErrCodeAlreadyMatched,
		"transaction already matched in this session",
		domainerror.ErrAlreadyMatched,
	)
}

func invalidSessionStateError() error {
	return domainerror.NewReconciliationError(
		domainerror.ErrCodeInvalidSessionState,
		"session state changed concurrently",
		domainerror.ErrInvalidSessionState,
	)
}

// isUniqueViolation detects unique-index violations across the Postgres
// and sqlite backends without driver-specific error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
