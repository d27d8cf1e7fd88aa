// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
)

// StatementLineInput is one parsed statement transaction from the upload.
type StatementLineInput struct {
	Amount          decimal.Decimal
	Date            time.Time
	Description     string
	ReferenceNumber string
}

// UploadStatementInput represents the input for uploading statement transactions.
type UploadStatementInput struct {
	SessionID uuid.UUID
	Lines     []StatementLineInput
}

// UploadStatementOutput represents the result of a statement upload.
type UploadStatementOutput struct {
	Uploaded         int
	MatchedPreserved int
}

// UploadStatementUseCase attaches parsed statement transactions to an open session.
type UploadStatementUseCase struct {
	sessionRepo adapter.SessionRepository
	auditTrail  adapter.AuditTrail
}

// NewUploadStatementUseCase creates a new UploadStatementUseCase instance.
func NewUploadStatementUseCase(sessionRepo adapter.SessionRepository, auditTrail adapter.AuditTrail) *UploadStatementUseCase {
	return &UploadStatementUseCase{
		sessionRepo: sessionRepo,
		auditTrail:  auditTrail,
	}
}

// Execute uploads statement transactions into the session. Re-uploading
// replaces only the unmatched portion of the set; statement transactions
// that already have a match are preserved so an upload can never silently
// drop matches.
func (uc *UploadStatementUseCase) Execute(ctx context.Context, input UploadStatementInput) (*UploadStatementOutput, error) {
	for i, line := range input.Lines {
		if line.Date.IsZero() {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeInvalidStatementLine,
				fmt.Sprintf("statement line %d is missing a date", i+1),
				domainerror.ErrInvalidStatementLine,
			)
		}
		if line.Description == "" {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeInvalidStatementLine,
				fmt.Sprintf("statement line %d is missing a description", i+1),
				domainerror.ErrInvalidStatementLine,
			)
		}
	}

	session, err := getOpenSession(ctx, uc.sessionRepo, input.SessionID)
	if err != nil {
		return nil, err
	}

	lines := make([]*entity.StatementTransaction, len(input.Lines))
	for i, line := range input.Lines {
		lines[i] = entity.NewStatementTransaction(
			session.ID,
			line.Amount,
			line.Date,
			line.Description,
			line.ReferenceNumber,
		)
	}

	if err := uc.sessionRepo.ReplaceUnmatchedStatement(ctx, session.ID, lines); err != nil {
		return nil, err
	}

	matches, err := uc.sessionRepo.ListMatches(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	uc.auditTrail.Record(ctx, adapter.AuditEvent{
		Action:    "session.statement_uploaded",
		SessionID: &session.ID,
		AccountID: &session.AccountID,
		Detail:    fmt.Sprintf("%d lines uploaded, %d matched lines preserved", len(lines), len(matches)),
	})

	return &UploadStatementOutput{
		Uploaded:         len(lines),
		MatchedPreserved: len(matches),
	}, nil
}
