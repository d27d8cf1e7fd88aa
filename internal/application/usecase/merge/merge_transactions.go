// Package merge contains ledger transaction deduplication use cases.
package merge

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
)

// MergeTransactionsInput represents the input for merging a duplicate.
type MergeTransactionsInput struct {
	SourceID uuid.UUID
	TargetID uuid.UUID
}

// MergeTransactionsOutput represents the result of a merge.
type MergeTransactionsOutput struct {
	SourceID uuid.UUID
	TargetID uuid.UUID
	MergedAt time.Time
}

// MergeTransactionsUseCase folds a duplicate ledger transaction into a
// surviving one. The source row is retained for audit and excluded from
// listings and balance computations; merge chains never form.
type MergeTransactionsUseCase struct {
	ledgerStore adapter.LedgerStore
	auditTrail  adapter.AuditTrail
}

// NewMergeTransactionsUseCase creates a new MergeTransactionsUseCase instance.
func NewMergeTransactionsUseCase(ledgerStore adapter.LedgerStore, auditTrail adapter.AuditTrail) *MergeTransactionsUseCase {
	return &MergeTransactionsUseCase{
		ledgerStore: ledgerStore,
		auditTrail:  auditTrail,
	}
}

// Execute performs the merge.
func (uc *MergeTransactionsUseCase) Execute(ctx context.Context, input MergeTransactionsInput) (*MergeTransactionsOutput, error) {
	if input.SourceID == input.TargetID {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeSelfMerge,
			"cannot merge a transaction into itself",
			domainerror.ErrSelfMerge,
		)
	}

	source, err := uc.ledgerStore.GetByID(ctx, input.SourceID)
	if err != nil {
		return nil, err
	}
	target, err := uc.ledgerStore.GetByID(ctx, input.TargetID)
	if err != nil {
		return nil, err
	}

	// No chains: merging into an already-merged target would require a
	// second hop to reach the canonical record.
	if source.IsMerged || target.IsMerged {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeAlreadyMerged,
			"merge requires both transactions to be unmerged",
			domainerror.ErrAlreadyMerged,
		)
	}
	if source.AccountID != target.AccountID {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeCrossAccountMerge,
			"cannot merge transactions across accounts",
			domainerror.ErrCrossAccountMerge,
		)
	}

	now := time.Now().UTC()
	targetID := input.TargetID

	// The store applies this with a set-if-unmerged guard; the losing
	// concurrent caller gets AlreadyMerged.
	err = uc.ledgerStore.UpdateMergeFields(ctx, source.ID, entity.MergeFields{
		IsMerged:     true,
		MergedIntoID: &targetID,
		MergedAt:     &now,
	})
	if err != nil {
		return nil, err
	}

	uc.auditTrail.Record(ctx, adapter.AuditEvent{
		Action:        "merge.applied",
		AccountID:     &source.AccountID,
		TransactionID: &source.ID,
		TargetID:      &targetID,
		Amount:        &source.Amount,
	})

	return &MergeTransactionsOutput{
		SourceID: source.ID,
		TargetID: targetID,
		MergedAt: now,
	}, nil
}
