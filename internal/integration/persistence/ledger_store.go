// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
	"github.com/finance-tracker/reconciliation/internal/integration/persistence/model"
)

// ledgerStore implements the adapter.LedgerStore interface.
type ledgerStore struct {
	db *gorm.DB
}

// NewLedgerStore creates a new ledger store instance.
func NewLedgerStore(db *gorm.DB) adapter.LedgerStore {
	return &ledgerStore{
		db: db,
	}
}

// FindByAccountAndDateRange retrieves non-merged transactions for an account
// within [start, end], ordered by creation for deterministic matching.
func (s *ledgerStore) FindByAccountAndDateRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*entity.Transaction, error) {
	var models []model.TransactionModel
	result := s.db.WithContext(ctx).
		Where("account_id = ? AND is_merged = ? AND date >= ? AND date <= ?", accountID, false, start, end).
		Order("created_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(models))
	for i, tm := range models {
		transactions[i] = tm.ToEntity()
	}
	return transactions, nil
}

// FindByAccount retrieves all non-merged transactions for an account.
func (s *ledgerStore) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Transaction, error) {
	var models []model.TransactionModel
	result := s.db.WithContext(ctx).
		Where("account_id = ? AND is_merged = ?", accountID, false).
		Order("date ASC, created_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(models))
	for i, tm := range models {
		transactions[i] = tm.ToEntity()
	}
	return transactions, nil
}

// GetByID retrieves a transaction by its ID, merged or not.
func (s *ledgerStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var tm model.TransactionModel
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&tm)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.NewMergeError(
				domainerror.ErrCodeMergeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, result.Error
	}
	return tm.ToEntity(), nil
}

// UpdateMergeFields writes the merge-state columns with a state guard:
// setting merge state requires the row to be unmerged and vice versa, so
// the losing side of a concurrent merge gets a domain error instead of a
// silent overwrite.
func (s *ledgerStore) UpdateMergeFields(ctx context.Context, id uuid.UUID, fields entity.MergeFields) error {
	updates := map[string]interface{}{
		"is_merged":      fields.IsMerged,
		"merged_into_id": fields.MergedIntoID,
		"merged_at":      fields.MergedAt,
		"updated_at":     time.Now().UTC(),
	}

	result := s.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ? AND is_merged = ?", id, !fields.IsMerged).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Zero rows: either the row is gone or a concurrent writer got there
	// first. Distinguish for the caller.
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.TransactionModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerror.NewMergeError(
			domainerror.ErrCodeMergeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}
	if fields.IsMerged {
		return domainerror.NewMergeError(
			domainerror.ErrCodeAlreadyMerged,
			"transaction is already merged",
			domainerror.ErrAlreadyMerged,
		)
	}
	return domainerror.NewMergeError(
		domainerror.ErrCodeNotMerged,
		"transaction is not merged",
		domainerror.ErrNotMerged,
	)
}

// AddDuplicateExclusion appends each transaction to the other's exclusion
// set in one database transaction, keeping the relation symmetric.
func (s *ledgerStore) AddDuplicateExclusion(ctx context.Context, a, b uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := appendExclusion(tx, a, b); err != nil {
			return err
		}
		return appendExclusion(tx, b, a)
	})
}

func appendExclusion(tx *gorm.DB, id, excluded uuid.UUID) error {
	var tm model.TransactionModel
	if err := tx.Where("id = ?", id).First(&tm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerror.NewMergeError(
				domainerror.ErrCodeMergeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return err
	}

	excludedStr := excluded.String()
	for _, existing := range tm.DuplicateExclusions {
		if existing == excludedStr {
			return nil
		}
	}
	tm.DuplicateExclusions = append(tm.DuplicateExclusions, excludedStr)

	return tx.Model(&model.TransactionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"duplicate_exclusions": tm.DuplicateExclusions,
			"updated_at":           time.Now().UTC(),
		}).Error
}
