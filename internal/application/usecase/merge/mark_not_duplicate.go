// Package merge contains ledger transaction deduplication use cases.
package merge

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
)

// MarkNotDuplicateInput represents the input for recording a duplicate exclusion.
type MarkNotDuplicateInput struct {
	TransactionAID uuid.UUID
	TransactionBID uuid.UUID
}

// MarkNotDuplicateOutput represents the result of recording an exclusion.
type MarkNotDuplicateOutput struct {
	TransactionAID uuid.UUID
	TransactionBID uuid.UUID
}

// MarkNotDuplicateUseCase records that two transactions are not
// duplicates of each other, suppressing future duplicate suggestions in
// both directions. Purely advisory; merge state is never touched.
type MarkNotDuplicateUseCase struct {
	ledgerStore adapter.LedgerStore
	auditTrail  adapter.AuditTrail
}

// NewMarkNotDuplicateUseCase creates a new MarkNotDuplicateUseCase instance.
func NewMarkNotDuplicateUseCase(ledgerStore adapter.LedgerStore, auditTrail adapter.AuditTrail) *MarkNotDuplicateUseCase {
	return &MarkNotDuplicateUseCase{
		ledgerStore: ledgerStore,
		auditTrail:  auditTrail,
	}
}

// Execute records the symmetric exclusion.
func (uc *MarkNotDuplicateUseCase) Execute(ctx context.Context, input MarkNotDuplicateInput) (*MarkNotDuplicateOutput, error) {
	if input.TransactionAID == input.TransactionBID {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeSelfExclusion,
			"cannot exclude a transaction from itself",
			domainerror.ErrSelfExclusion,
		)
	}

	a, err := uc.ledgerStore.GetByID(ctx, input.TransactionAID)
	if err != nil {
		return nil, err
	}
	b, err := uc.ledgerStore.GetByID(ctx, input.TransactionBID)
	if err != nil {
		return nil, err
	}

	if err := uc.ledgerStore.AddDuplicateExclusion(ctx, a.ID, b.ID); err != nil {
		return nil, err
	}

	uc.auditTrail.Record(ctx, adapter.AuditEvent{
		Action:        "merge.exclusion_added",
		AccountID:     &a.AccountID,
		TransactionID: &a.ID,
		TargetID:      &b.ID,
	})

	return &MarkNotDuplicateOutput{
		TransactionAID: a.ID,
		TransactionBID: b.ID,
	}, nil
}
