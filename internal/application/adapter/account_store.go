// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/domain/entity"
)

// AccountStore is the reconciliation service's read-only view of accounts.
type AccountStore interface {
	// GetByID retrieves an account by its ID.
	// Returns domainerror.ErrAccountNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// GetOpeningBalance computes the account balance as of the start of
	// asOf: the account's recorded opening balance plus all non-merged
	// ledger transactions dated strictly before asOf.
	GetOpeningBalance(ctx context.Context, accountID uuid.UUID, asOf time.Time) (decimal.Decimal, error)
}
