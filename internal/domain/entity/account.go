// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a financial account whose ledger is reconciled
// against bank statements. Account CRUD lives outside this service; only
// the fields the reconciliation engine reads are modeled here.
type Account struct {
	ID                 uuid.UUID
	Name               string
	Currency           string
	OpeningBalance     decimal.Decimal
	OpeningBalanceDate time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
