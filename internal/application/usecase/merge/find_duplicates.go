// Package merge contains ledger transaction deduplication use cases.
package merge

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	"github.com/finance-tracker/reconciliation/internal/domain/valueobject"
)

// FindDuplicatesInput represents the input for a duplicate scan. When
// TransactionID is set, only candidates for that transaction are
// returned; otherwise the whole account is scanned pairwise.
type FindDuplicatesInput struct {
	AccountID     uuid.UUID
	TransactionID *uuid.UUID
}

// DuplicatePairOutput is one proposed duplicate pair. Detection is
// symmetric: when A surfaces B, a scan from B surfaces A.
type DuplicatePairOutput struct {
	TransactionAID uuid.UUID
	TransactionBID uuid.UUID
	Amount         decimal.Decimal
	Similarity     float64
	DateGapDays    int
}

// FindDuplicatesOutput represents the result of a duplicate scan.
type FindDuplicatesOutput struct {
	Pairs []DuplicatePairOutput
}

// FindDuplicatesUseCase proposes duplicate ledger transactions for an
// account: non-merged pairs with equal amounts inside a short date
// window whose descriptions clear the similarity threshold, minus pairs
// the user already marked as not duplicates.
type FindDuplicatesUseCase struct {
	ledgerStore adapter.LedgerStore
	config      valueobject.DedupConfig
}

// NewFindDuplicatesUseCase creates a new FindDuplicatesUseCase instance.
func NewFindDuplicatesUseCase(ledgerStore adapter.LedgerStore, config valueobject.DedupConfig) *FindDuplicatesUseCase {
	return &FindDuplicatesUseCase{
		ledgerStore: ledgerStore,
		config:      config,
	}
}

// Execute runs the duplicate scan.
func (uc *FindDuplicatesUseCase) Execute(ctx context.Context, input FindDuplicatesInput) (*FindDuplicatesOutput, error) {
	pool, err := uc.ledgerStore.FindByAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	output := &FindDuplicatesOutput{}

	if input.TransactionID != nil {
		target, err := uc.ledgerStore.GetByID(ctx, *input.TransactionID)
		if err != nil {
			return nil, err
		}
		for _, c := range valueobject.FindDuplicateCandidates(uc.config, target, pool) {
			output.Pairs = append(output.Pairs, DuplicatePairOutput{
				TransactionAID: target.ID,
				TransactionBID: c.Transaction.ID,
				Amount:         target.Amount,
				Similarity:     c.Similarity,
				DateGapDays:    c.DateGapDays,
			})
		}
		return output, nil
	}

	output.Pairs = scanPairs(uc.config, pool)
	return output, nil
}

// scanPairs walks the pool pairwise in creation order, so repeated scans
// of the same data produce the same pairs in the same order.
func scanPairs(cfg valueobject.DedupConfig, pool []*entity.Transaction) []DuplicatePairOutput {
	var pairs []DuplicatePairOutput
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			a, b := pool[i], pool[j]
			sim, ok := valueobject.IsDuplicatePair(cfg, a, b)
			if !ok {
				continue
			}
			pairs = append(pairs, DuplicatePairOutput{
				TransactionAID: a.ID,
				TransactionBID: b.ID,
				Amount:         a.Amount,
				Similarity:     sim,
				DateGapDays:    valueobject.DateGapDays(a.Date, b.Date),
			})
		}
	}
	return pairs
}
