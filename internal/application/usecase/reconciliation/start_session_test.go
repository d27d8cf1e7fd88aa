// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
)

func TestStartSessionUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("starts a session for an existing account", func(t *testing.T) {
		repo := newFakeSessionRepo()
		accounts := newFakeAccountStore()
		audit := &fakeAuditTrail{}
		account := testAccount()
		accounts.add(account, account.OpeningBalance)

		uc := NewStartSessionUseCase(repo, accounts, audit)
		out, err := uc.Execute(ctx, StartSessionInput{
			AccountID:        account.ID,
			StartDate:        testDate(1),
			EndDate:          testDate(31),
			StatementBalance: decimal.RequireFromString("150.00"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.Status != entity.SessionStatusStarted {
			t.Errorf("expected status started, got %s", out.Status)
		}
		if _, ok := repo.sessions[out.SessionID]; !ok {
			t.Error("expected session to be persisted")
		}
		if len(audit.events) != 1 || audit.events[0].Action != "session.started" {
			t.Errorf("expected a session.started audit event, got %v", audit.actions())
		}
	})

	t.Run("rejects a start date after the end date", func(t *testing.T) {
		repo := newFakeSessionRepo()
		accounts := newFakeAccountStore()
		account := testAccount()
		accounts.add(account, account.OpeningBalance)

		uc := NewStartSessionUseCase(repo, accounts, &fakeAuditTrail{})
		_, err := uc.Execute(ctx, StartSessionInput{
			AccountID: account.ID,
			StartDate: testDate(31),
			EndDate:   testDate(1),
		})
		if !errors.Is(err, domainerror.ErrInvalidDateRange) {
			t.Errorf("expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("rejects an unknown account", func(t *testing.T) {
		uc := NewStartSessionUseCase(newFakeSessionRepo(), newFakeAccountStore(), &fakeAuditTrail{})
		_, err := uc.Execute(ctx, StartSessionInput{
			AccountID: uuid.New(),
			StartDate: testDate(1),
			EndDate:   testDate(31),
		})
		if !errors.Is(err, domainerror.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("rejects a second open session for the account", func(t *testing.T) {
		repo := newFakeSessionRepo()
		accounts := newFakeAccountStore()
		account := testAccount()
		accounts.add(account, account.OpeningBalance)
		openSession(repo, account.ID, "150.00")

		uc := NewStartSessionUseCase(repo, accounts, &fakeAuditTrail{})
		_, err := uc.Execute(ctx, StartSessionInput{
			AccountID: account.ID,
			StartDate: testDate(1),
			EndDate:   testDate(31),
		})
		if !errors.Is(err, domainerror.ErrConflictingSession) {
			t.Errorf("expected ErrConflictingSession, got %v", err)
		}
	})

	t.Run("allows a new session after the previous one closed", func(t *testing.T) {
		repo := newFakeSessionRepo()
		accounts := newFakeAccountStore()
		account := testAccount()
		accounts.add(account, account.OpeningBalance)
		closed := openSession(repo, account.ID, "150.00")
		closed.Status = entity.SessionStatusCompleted

		uc := NewStartSessionUseCase(repo, accounts, &fakeAuditTrail{})
		if _, err := uc.Execute(ctx, StartSessionInput{
			AccountID: account.ID,
			StartDate: testDate(1),
			EndDate:   testDate(31),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
