// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
	"github.com/finance-tracker/reconciliation/internal/integration/persistence/model"
)

// accountStore implements the adapter.AccountStore interface.
type accountStore struct {
	db *gorm.DB
}

// NewAccountStore creates a new account store instance.
func NewAccountStore(db *gorm.DB) adapter.AccountStore {
	return &accountStore{
		db: db,
	}
}

// GetByID retrieves an account by its ID.
func (s *accountStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var am model.AccountModel
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&am)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeRecAccountNotFound,
				"account not found",
				domainerror.ErrAccountNotFound,
			)
		}
		return nil, result.Error
	}
	return am.ToEntity(), nil
}

// GetOpeningBalance computes the balance at the start of asOf. The sum is
// taken in Go with decimals rather than in SQL, so the arithmetic stays
// exact on every supported backend.
func (s *accountStore) GetOpeningBalance(ctx context.Context, accountID uuid.UUID, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	var models []model.TransactionModel
	result := s.db.WithContext(ctx).
		Select("amount").
		Where("account_id = ? AND is_merged = ? AND date < ?", accountID, false, asOf).
		Find(&models)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}

	balance := account.OpeningBalance
	for _, tm := range models {
		balance = balance.Add(tm.Amount)
	}
	return balance, nil
}
