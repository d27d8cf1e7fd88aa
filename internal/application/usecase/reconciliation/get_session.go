// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	"github.com/finance-tracker/reconciliation/internal/domain/valueobject"
)

// GetSessionInput represents the input for reading a session.
type GetSessionInput struct {
	SessionID uuid.UUID
}

// StatementLineOutput is one statement transaction with its match state.
type StatementLineOutput struct {
	ID                   uuid.UUID
	Amount               decimal.Decimal
	Date                 time.Time
	Description          string
	ReferenceNumber      string
	MatchedTransactionID *uuid.UUID
	IsManualMatch        bool
}

// AdjustmentOutput is one persisted completion adjustment.
type AdjustmentOutput struct {
	Type   string
	Amount decimal.Decimal
	Reason string
}

// GetSessionOutput represents a session with its statement set, matches,
// adjustments, and a live balance preview.
type GetSessionOutput struct {
	Session     *entity.ReconciliationSession
	Lines       []StatementLineOutput
	Adjustments []AdjustmentOutput
	Balance     valueobject.BalanceReport
}

// GetSessionUseCase reads a session with a computed variance preview, so
// the presentation layer can show the running discrepancy before
// completion.
type GetSessionUseCase struct {
	sessionRepo  adapter.SessionRepository
	ledgerStore  adapter.LedgerStore
	accountStore adapter.AccountStore
}

// NewGetSessionUseCase creates a new GetSessionUseCase instance.
func NewGetSessionUseCase(
	sessionRepo adapter.SessionRepository,
	ledgerStore adapter.LedgerStore,
	accountStore adapter.AccountStore,
) *GetSessionUseCase {
	return &GetSessionUseCase{
		sessionRepo:  sessionRepo,
		ledgerStore:  ledgerStore,
		accountStore: accountStore,
	}
}

// Execute reads the session in any state.
func (uc *GetSessionUseCase) Execute(ctx context.Context, input GetSessionInput) (*GetSessionOutput, error) {
	session, err := uc.sessionRepo.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	lines, err := uc.sessionRepo.ListStatementTransactions(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	matches, err := uc.sessionRepo.ListMatches(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	adjustments, err := uc.sessionRepo.ListAdjustments(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	matchByLine := make(map[uuid.UUID]*entity.ReconciliationMatch, len(matches))
	for _, m := range matches {
		matchByLine[m.StatementTransactionID] = m
	}

	matchedSum := decimal.Zero
	for _, m := range matches {
		txn, err := uc.ledgerStore.GetByID(ctx, m.TransactionID)
		if err != nil {
			return nil, err
		}
		matchedSum = matchedSum.Add(txn.Amount)
	}

	adjustmentSum := decimal.Zero
	adjustmentOutputs := make([]AdjustmentOutput, len(adjustments))
	for i, a := range adjustments {
		adjustmentSum = adjustmentSum.Add(a.Amount)
		adjustmentOutputs[i] = AdjustmentOutput{Type: a.Type, Amount: a.Amount, Reason: a.Reason}
	}

	opening, err := uc.accountStore.GetOpeningBalance(ctx, session.AccountID, session.StartDate)
	if err != nil {
		return nil, err
	}

	lineOutputs := make([]StatementLineOutput, len(lines))
	for i, line := range lines {
		out := StatementLineOutput{
			ID:              line.ID,
			Amount:          line.Amount,
			Date:            line.Date,
			Description:     line.Description,
			ReferenceNumber: line.ReferenceNumber,
		}
		if m, ok := matchByLine[line.ID]; ok {
			txnID := m.TransactionID
			out.MatchedTransactionID = &txnID
			out.IsManualMatch = m.IsManual
		}
		lineOutputs[i] = out
	}

	return &GetSessionOutput{
		Session:     session,
		Lines:       lineOutputs,
		Adjustments: adjustmentOutputs,
		Balance:     valueobject.ComputeBalanceReport(opening, matchedSum, adjustmentSum, session.StatementBalance),
	}, nil
}
