// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
)

// StartSessionInput represents the input for starting a reconciliation session.
type StartSessionInput struct {
	AccountID        uuid.UUID
	StartDate        time.Time
	EndDate          time.Time
	StatementBalance decimal.Decimal
	Notes            string
}

// StartSessionOutput represents the result of starting a session.
type StartSessionOutput struct {
	SessionID uuid.UUID
	Status    entity.SessionStatus
	CreatedAt time.Time
}

// StartSessionUseCase handles starting a reconciliation session.
type StartSessionUseCase struct {
	sessionRepo  adapter.SessionRepository
	accountStore adapter.AccountStore
	auditTrail   adapter.AuditTrail
}

// NewStartSessionUseCase creates a new StartSessionUseCase instance.
func NewStartSessionUseCase(
	sessionRepo adapter.SessionRepository,
	accountStore adapter.AccountStore,
	auditTrail adapter.AuditTrail,
) *StartSessionUseCase {
	return &StartSessionUseCase{
		sessionRepo:  sessionRepo,
		accountStore: accountStore,
		auditTrail:   auditTrail,
	}
}

// Execute starts a new reconciliation session for an account.
func (uc *StartSessionUseCase) Execute(ctx context.Context, input StartSessionInput) (*StartSessionOutput, error) {
	if input.StartDate.IsZero() || input.EndDate.IsZero() || input.StartDate.After(input.EndDate) {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidDateRange,
			"start date must not be after end date",
			domainerror.ErrInvalidDateRange,
		)
	}

	account, err := uc.accountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	session := entity.NewReconciliationSession(
		account.ID,
		input.StartDate,
		input.EndDate,
		input.StatementBalance,
		input.Notes,
	)

	// The repository enforces the one-open-session-per-account invariant
	// atomically with the insert.
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	uc.auditTrail.Record(ctx, adapter.AuditEvent{
		Action:    "session.started",
		SessionID: &session.ID,
		AccountID: &session.AccountID,
		Amount:    &session.StatementBalance,
	})

	return &StartSessionOutput{
		SessionID: session.ID,
		Status:    session.Status,
		CreatedAt: session.CreatedAt,
	}, nil
}
