// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
// Only the columns the reconciliation service reads, plus the four
// merge-state columns it owns, are mapped here.
type TransactionModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date            time.Time       `gorm:"type:date;not null;index"`
	Description     string          `gorm:"type:varchar(255);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ReferenceNumber string          `gorm:"type:varchar(64);index"`
	Notes           string          `gorm:"type:text"`
	IsVerified      bool            `gorm:"default:true"`

	// Merge state, written only by the merge engine.
	IsMerged            bool           `gorm:"default:false;index"`
	MergedIntoID        *uuid.UUID     `gorm:"type:uuid"`
	MergedAt            *time.Time     `gorm:"type:timestamp"`
	DuplicateExclusions pq.StringArray `gorm:"type:uuid[]"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Account    *AccountModel     `gorm:"foreignKey:AccountID;references:ID"`
	MergedInto *TransactionModel `gorm:"foreignKey:MergedIntoID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	exclusions := make([]uuid.UUID, 0, len(m.DuplicateExclusions))
	for _, raw := range m.DuplicateExclusions {
		if id, err := uuid.Parse(raw); err == nil {
			exclusions = append(exclusions, id)
		}
	}

	return &entity.Transaction{
		ID:                  m.ID,
		AccountID:           m.AccountID,
		Date:                m.Date,
		Description:         m.Description,
		Amount:              m.Amount,
		ReferenceNumber:     m.ReferenceNumber,
		Notes:               m.Notes,
		IsVerified:          m.IsVerified,
		IsMerged:            m.IsMerged,
		MergedIntoID:        m.MergedIntoID,
		MergedAt:            m.MergedAt,
		DuplicateExclusions: exclusions,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	exclusions := make(pq.StringArray, len(transaction.DuplicateExclusions))
	for i, id := range transaction.DuplicateExclusions {
		exclusions[i] = id.String()
	}

	return &TransactionModel{
		ID:                  transaction.ID,
		AccountID:           transaction.AccountID,
		Date:                transaction.Date,
		Description:         transaction.Description,
		Amount:              transaction.Amount,
		ReferenceNumber:     transaction.ReferenceNumber,
		Notes:               transaction.Notes,
		IsVerified:          transaction.IsVerified,
		IsMerged:            transaction.IsMerged,
		MergedIntoID:        transaction.MergedIntoID,
		MergedAt:            transaction.MergedAt,
		DuplicateExclusions: exclusions,
		CreatedAt:           transaction.CreatedAt,
		UpdatedAt:           transaction.UpdatedAt,
	}
}
