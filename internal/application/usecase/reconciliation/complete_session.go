// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
	"github.com/finance-tracker/reconciliation/internal/domain/valueobject"
)

// AdjustmentInput is one balance discrepancy the caller accepts instead
// of matching.
type AdjustmentInput struct {
	Type   string
	Amount decimal.Decimal
	Reason string
}

// CompleteSessionInput represents the input for completing a session.
type CompleteSessionInput struct {
	SessionID   uuid.UUID
	Notes       string
	Adjustments []AdjustmentInput
	// Force completes despite unresolved statement transactions; the
	// unresolved lines are appended to the session notes for audit.
	Force bool
}

// CompleteSessionOutput represents the result of completing a session.
type CompleteSessionOutput struct {
	SessionID   uuid.UUID
	Status      entity.SessionStatus
	Balance     valueobject.BalanceReport
	CompletedAt time.Time
	Forced      bool
}

// CompleteSessionUseCase finalizes a session: it computes the balance
// report, persists adjustments, and closes the session. A non-zero
// variance is a valid terminal outcome, reported but never a failure.
type CompleteSessionUseCase struct {
	sessionRepo  adapter.SessionRepository
	ledgerStore  adapter.LedgerStore
	accountStore adapter.AccountStore
	auditTrail   adapter.AuditTrail
}

// NewCompleteSessionUseCase creates a new CompleteSessionUseCase instance.
func NewCompleteSessionUseCase(
	sessionRepo adapter.SessionRepository,
	ledgerStore adapter.LedgerStore,
	accountStore adapter.AccountStore,
	auditTrail adapter.AuditTrail,
) *CompleteSessionUseCase {
	return &CompleteSessionUseCase{
		sessionRepo:  sessionRepo,
		ledgerStore:  ledgerStore,
		accountStore: accountStore,
		auditTrail:   auditTrail,
	}
}

// Execute completes the session.
func (uc *CompleteSessionUseCase) Execute(ctx context.Context, input CompleteSessionInput) (*CompleteSessionOutput, error) {
	for i, adj := range input.Adjustments {
		if adj.Type == "" {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeInvalidAdjustment,
				fmt.Sprintf("adjustment %d is missing a type", i+1),
				domainerror.ErrInvalidAdjustment,
			)
		}
		if adj.Amount.IsZero() {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeInvalidAdjustment,
				fmt.Sprintf("adjustment %d has a zero amount", i+1),
				domainerror.ErrInvalidAdjustment,
			)
		}
	}

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
	matchedLines, _ := matchedSets(matches)

	unresolved := make([]*entity.StatementTransaction, 0)
	unresolvedSum := decimal.Zero
	for _, line := range lines {
		if !matchedLines[line.ID] {
			unresolved = append(unresolved, line)
			unresolvedSum = unresolvedSum.Add(line.Amount)
		}
	}

	adjustmentSum := decimal.Zero
	for _, adj := range input.Adjustments {
		adjustmentSum = adjustmentSum.Add(adj.Amount)
	}

	// Unmatched lines are covered only when at least one adjustment was
	// supplied and the adjustments account for their exact sum; anything
	// else needs an explicit force. Lines that merely offset each other to
	// zero are still unresolved.
	forced := false
	covered := len(input.Adjustments) > 0 && unresolvedSum.Equal(adjustmentSum)
	if len(unresolved) > 0 && !covered {
		if !input.Force {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeUnresolvedTransactions,
				fmt.Sprintf("%d statement transactions are neither matched nor covered by an adjustment", len(unresolved)),
				domainerror.ErrUnresolvedTransactions,
			)
		}
		forced = true
	}

	matchedSum := decimal.Zero
	for _, m := range matches {
		txn, err := uc.ledgerStore.GetByID(ctx, m.TransactionID)
		if err != nil {
			return nil, err
		}
		matchedSum = matchedSum.Add(txn.Amount)
	}

	opening, err := uc.accountStore.GetOpeningBalance(ctx, session.AccountID, session.StartDate)
	if err != nil {
		return nil, err
	}

	report := valueobject.ComputeBalanceReport(opening, matchedSum, adjustmentSum, session.StatementBalance)

	now := time.Now().UTC()
	if input.Notes != "" {
		session.Notes = input.Notes
	}
	if forced {
		session.Notes = appendUnresolvedAudit(session.Notes, unresolved)
	}
	session.Status = entity.SessionStatusCompleted
	session.CompletedAt = &now
	session.UpdatedAt = now
	variance := report.Variance
	session.Variance = &variance

	adjustments := make([]*entity.Adjustment, len(input.Adjustments))
	for i, adj := range input.Adjustments {
		adjustments[i] = entity.NewAdjustment(session.ID, adj.Type, adj.Amount, adj.Reason)
	}

	// Status-guarded write: a concurrent completion or abort wins and this
	// call fails with InvalidSessionState.
	if err := uc.sessionRepo.Complete(ctx, session, adjustments); err != nil {
		return nil, err
	}

	uc.auditTrail.Record(ctx, adapter.AuditEvent{
		Action:    "session.completed",
		SessionID: &session.ID,
		AccountID: &session.AccountID,
		Amount:    &variance,
		Detail:    fmt.Sprintf("%d matches, %d adjustments, forced=%t", len(matches), len(adjustments), forced),
	})

	return &CompleteSessionOutput{
		SessionID:   session.ID,
		Status:      session.Status,
		Balance:     report,
		CompletedAt: now,
		Forced:      forced,
	}, nil
}

// appendUnresolvedAudit records forcibly skipped statement lines in the
// session notes.
func appendUnresolvedAudit(notes string, unresolved []*entity.StatementTransaction) string {
	var b strings.Builder
	if notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	}
	b.WriteString("Completed with unresolved statement transactions:")
	for _, line := range unresolved {
		b.WriteString(fmt.Sprintf("\n- %s %s %s", line.Date.Format("2006-01-02"), line.Amount.StringFixed(2), line.Description))
	}
	return b.String()
}
