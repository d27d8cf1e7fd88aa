// Package merge contains ledger transaction deduplication use cases.
package merge

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
)

// UnmergeTransactionInput represents the input for reversing a merge.
type UnmergeTransactionInput struct {
	SourceID uuid.UUID
}

// UnmergeTransactionOutput represents the result of reversing a merge.
type UnmergeTransactionOutput struct {
	SourceID uuid.UUID
}

// UnmergeTransactionUseCase reverses a merge by clearing the merge
// fields. Downstream effects that assumed the merge, such as a completed
// reconciliation that matched against the target, are not retroactively
// altered.
type UnmergeTransactionUseCase struct {
	ledgerStore adapter.LedgerStore
	auditTrail  adapter.AuditTrail
}

// NewUnmergeTransactionUseCase creates a new UnmergeTransactionUseCase instance.
func NewUnmergeTransactionUseCase(ledgerStore adapter.LedgerStore, auditTrail adapter.AuditTrail) *UnmergeTransactionUseCase {
	return &UnmergeTransactionUseCase{
		ledgerStore: ledgerStore,
		auditTrail:  auditTrail,
	}
}

// Execute reverses the merge.
func (uc *UnmergeTransactionUseCase) Execute(ctx context.Context, input UnmergeTransactionInput) (*UnmergeTransactionOutput, error) {
	source, err := uc.ledgerStore.GetByID(ctx, input.SourceID)
	if err != nil {
		return nil, err
	}
	if !source.IsMerged {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeNotMerged,
			"transaction is not merged",
			domainerror.ErrNotMerged,
		)
	}

	err = uc.ledgerStore.UpdateMergeFields(ctx, source.ID, entity.MergeFields{
		IsMerged:     false,
		MergedIntoID: nil,
		MergedAt:     nil,
	})
	if err != nil {
		return nil, err
	}

	uc.auditTrail.Record(ctx, adapter.AuditEvent{
		Action:        "merge.reversed",
		AccountID:     &source.AccountID,
		TransactionID: &source.ID,
		TargetID:      source.MergedIntoID,
	})

	return &UnmergeTransactionOutput{SourceID: source.ID}, nil
}
