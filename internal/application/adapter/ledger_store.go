// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/domain/entity"
)

// LedgerStore is the reconciliation service's view of the ledger
// transaction store. The store owns transaction creation and base
// mutation; this service only reads transactions and writes the
// merge-state fields.
type LedgerStore interface {
	// FindByAccountAndDateRange retrieves non-merged transactions for an
	// account whose date falls within [start, end], ordered by creation.
	FindByAccountAndDateRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*entity.Transaction, error)

	// FindByAccount retrieves all non-merged transactions for an account,
	// ordered by date then creation.
	FindByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Transaction, error)

	// GetByID retrieves a transaction by its ID, merged or not.
	// Returns domainerror.ErrTransactionNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// UpdateMergeFields writes the merge-state columns atomically.
	// Setting IsMerged is guarded by "is merged currently false" and fails
	// with domainerror.ErrAlreadyMerged when a concurrent merge won;
	// clearing it is guarded the opposite way and fails with
	// domainerror.ErrNotMerged.
	UpdateMergeFields(ctx context.Context, id uuid.UUID, fields entity.MergeFields) error

	// AddDuplicateExclusion records that a and b are not duplicates of
	// each other. The exclusion is stored symmetrically on both rows.
	AddDuplicateExclusion(ctx context.Context, a, b uuid.UUID) error
}
