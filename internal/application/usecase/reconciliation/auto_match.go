// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	"github.com/finance-tracker/reconciliation/internal/domain/valueobject"
)

// AutoMatchInput represents the input for the automatic matching pass.
type AutoMatchInput struct {
	SessionID uuid.UUID
}

// AutoMatchedPairOutput is one automatically recorded match.
type AutoMatchedPairOutput struct {
	StatementTransactionID uuid.UUID
	TransactionID          uuid.UUID
	Score                  float64
	DateGapDays            int
	ReferenceMatch         bool
}

// AutoMatchOutput represents the result of the automatic matching pass.
type AutoMatchOutput struct {
	Matched []AutoMatchedPairOutput
	// PendingStatementIDs stay for manual resolution; they are not errors.
	PendingStatementIDs []uuid.UUID
}

// AutoMatchUseCase runs the automatic pairing of statement transactions
// against ledger transactions for a session.
type AutoMatchUseCase struct {
	sessionRepo adapter.SessionRepository
	ledgerStore adapter.LedgerStore
	auditTrail  adapter.AuditTrail
	config      valueobject.MatchingConfig
}

// NewAutoMatchUseCase creates a new AutoMatchUseCase instance.
func NewAutoMatchUseCase(
	sessionRepo adapter.SessionRepository,
	ledgerStore adapter.LedgerStore,
	auditTrail adapter.AuditTrail,
	config valueobject.MatchingConfig,
) *AutoMatchUseCase {
	return &AutoMatchUseCase{
		sessionRepo: sessionRepo,
		ledgerStore: ledgerStore,
		auditTrail:  auditTrail,
		config:      config,
	}
}

// Execute proposes and records automatic matches. Already-matched
// statement lines and ledger transactions are skipped; the session moves
// from started to in progress.
func (uc *AutoMatchUseCase) Execute(ctx context.Context, input AutoMatchInput) (*AutoMatchOutput, error) {
	session, err := getOpenSession(ctx, uc.sessionRepo, input.SessionID)
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
	matchedLines, matchedTxns := matchedSets(matches)

	// Candidate pool: account transactions inside the session window
	// widened by the slack on both sides.
	start := session.StartDate.AddDate(0, 0, -uc.config.DateSlackDays)
	end := session.EndDate.AddDate(0, 0, uc.config.DateSlackDays)
	pool, err := uc.ledgerStore.FindByAccountAndDateRange(ctx, session.AccountID, start, end)
	if err != nil {
		return nil, err
	}

	unmatchedLines := make([]*entity.StatementTransaction, 0, len(lines))
	for _, line := range lines {
		if !matchedLines[line.ID] {
			unmatchedLines = append(unmatchedLines, line)
		}
	}
	candidates := make([]*entity.Transaction, 0, len(pool))
	for _, txn := range pool {
		if !matchedTxns[txn.ID] {
			candidates = append(candidates, txn)
		}
	}

	run := valueobject.ProposeMatches(uc.config, unmatchedLines, candidates)

	output := &AutoMatchOutput{PendingStatementIDs: run.PendingStatementIDs}
	for _, proposal := range run.Proposals {
		match := entity.NewReconciliationMatch(
			session.ID,
			proposal.StatementTransactionID,
			proposal.TransactionID,
			false,
			"",
		)
		if err := uc.sessionRepo.CreateMatch(ctx, match); err != nil {
			return nil, err
		}
		output.Matched = append(output.Matched, AutoMatchedPairOutput{
			StatementTransactionID: proposal.StatementTransactionID,
			TransactionID:          proposal.TransactionID,
			Score:                  proposal.Score,
			DateGapDays:            proposal.DateGapDays,
			ReferenceMatch:         proposal.ReferenceMatch,
		})
	}

	if err := markInProgress(ctx, uc.sessionRepo, session); err != nil {
		return nil, err
	}

	uc.auditTrail.Record(ctx, adapter.AuditEvent{
		Action:    "session.auto_matched",
		SessionID: &session.ID,
		AccountID: &session.AccountID,
		Detail:    fmt.Sprintf("%d matched, %d pending", len(output.Matched), len(output.PendingStatementIDs)),
	})

	return output, nil
}
