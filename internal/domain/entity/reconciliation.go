// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus represents the lifecycle state of a reconciliation session.
type SessionStatus string

const (
	SessionStatusStarted    SessionStatus = "started"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusAborted    SessionStatus = "aborted"
)

// IsOpen reports whether the session still accepts statement uploads,
// matches, and completion.
func (s SessionStatus) IsOpen() bool {
	return s == SessionStatusStarted || s == SessionStatusInProgress
}

// ReconciliationSession represents one reconciliation run of an account
// against an externally issued statement.
type ReconciliationSession struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	StartDate        time.Time
	EndDate          time.Time
	StatementBalance decimal.Decimal // caller-claimed ending balance
	Status           SessionStatus
	Notes            string
	Variance         *decimal.Decimal // set at completion
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

// NewReconciliationSession creates a new session in the started state.
func NewReconciliationSession(
	accountID uuid.UUID,
	startDate, endDate time.Time,
	statementBalance decimal.Decimal,
	notes string,
) *ReconciliationSession {
	now := time.Now().UTC()

	return &ReconciliationSession{
		ID:               uuid.New(),
		AccountID:        accountID,
		StartDate:        startDate,
		EndDate:          endDate,
		StatementBalance: statementBalance,
		Status:           SessionStatusStarted,
		Notes:            notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// StatementTransaction is one parsed line item from an uploaded bank
// statement. It exists only within a session.
type StatementTransaction struct {
	ID              uuid.UUID
	SessionID       uuid.UUID
	Amount          decimal.Decimal
	Date            time.Time
	Description     string
	ReferenceNumber string // strong-match key when present
	CreatedAt       time.Time
}

// NewStatementTransaction creates a statement transaction scoped to a session.
func NewStatementTransaction(
	sessionID uuid.UUID,
	amount decimal.Decimal,
	date time.Time,
	description string,
	referenceNumber string,
) *StatementTransaction {
	return &StatementTransaction{
		ID:              uuid.New(),
		SessionID:       sessionID,
		Amount:          amount,
		Date:            date,
		Description:     description,
		ReferenceNumber: referenceNumber,
		CreatedAt:       time.Now().UTC(),
	}
}

// ReconciliationMatch is a session-scoped 1:1 association between a
// statement transaction and a ledger transaction.
type ReconciliationMatch struct {
	ID                     uuid.UUID
	SessionID              uuid.UUID
	StatementTransactionID uuid.UUID
	TransactionID          uuid.UUID
	IsManual               bool
	Notes                  string
	CreatedAt              time.Time
}

// NewReconciliationMatch creates a match record.
func NewReconciliationMatch(
	sessionID, statementTransactionID, transactionID uuid.UUID,
	isManual bool,
	notes string,
) *ReconciliationMatch {
	return &ReconciliationMatch{
		ID:                     uuid.New(),
		SessionID:              sessionID,
		StatementTransactionID: statementTransactionID,
		TransactionID:          transactionID,
		IsManual:               isManual,
		Notes:                  notes,
		CreatedAt:              time.Now().UTC(),
	}
}

// Adjustment is a caller-accepted, unmatched balance difference recorded
// at session completion.
type Adjustment struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Type      string // free-form classification, e.g. "bank-fee", "rounding"
	Amount    decimal.Decimal
	Reason    string
	CreatedAt time.Time
}

// NewAdjustment creates an adjustment scoped to a session.
func NewAdjustment(sessionID uuid.UUID, adjustmentType string, amount decimal.Decimal, reason string) *Adjustment {
	return &Adjustment{
		ID:        uuid.New(),
		SessionID: sessionID,
		Type:      adjustmentType,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}
