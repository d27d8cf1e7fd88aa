// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents a ledger transaction recorded by the system.
// The reconciliation service reads the base fields and owns the
// merge-related fields exclusively; the full lifecycle belongs to the
// ledger's own CRUD surface.
type Transaction struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	Date            time.Time
	Description     string
	Amount          decimal.Decimal // Negative for outflows, positive for inflows
	ReferenceNumber string          // bank-assigned reference, strong-match key when present
	Notes           string
	IsVerified      bool // false while an import is still a suspected duplicate

	// Merge state. A merged transaction is folded into a surviving one and
	// excluded from listings and balance computations, but never deleted.
	IsMerged            bool
	MergedIntoID        *uuid.UUID
	MergedAt            *time.Time
	DuplicateExclusions []uuid.UUID // ids this transaction must never be proposed against

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	accountID uuid.UUID,
	date time.Time,
	description string,
	amount decimal.Decimal,
	notes string,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Notes:       notes,
		IsVerified:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ExcludesDuplicate reports whether other is in this transaction's
// duplicate-exclusion set. Exclusions are stored symmetrically, so one
// side is sufficient for a decision.
func (t *Transaction) ExcludesDuplicate(other uuid.UUID) bool {
	for _, id := range t.DuplicateExclusions {
		if id == other {
			return true
		}
	}
	return false
}

// MergeFields is the set of merge-state columns written by the merge engine.
type MergeFields struct {
	IsMerged     bool
	MergedIntoID *uuid.UUID
	MergedAt     *time.Time
}
