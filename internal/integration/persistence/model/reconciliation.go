// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/domain/entity"
)

// ReconciliationSessionModel represents the reconciliation_sessions table.
type ReconciliationSessionModel struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey"`
	AccountID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	StartDate        time.Time        `gorm:"type:date;not null"`
	EndDate          time.Time        `gorm:"type:date;not null"`
	StatementBalance decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	Status           string           `gorm:"type:varchar(20);not null;index"`
	Notes            string           `gorm:"type:text"`
	Variance         *decimal.Decimal `gorm:"type:decimal(15,2)"`
	CreatedAt        time.Time        `gorm:"not null"`
	UpdatedAt        time.Time        `gorm:"not null"`
	CompletedAt      *time.Time       `gorm:"type:timestamp"`

	Account *AccountModel `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName returns the table name for the ReconciliationSessionModel.
func (ReconciliationSessionModel) TableName() string {
	return "reconciliation_sessions"
}

// ToEntity converts a ReconciliationSessionModel to a domain entity.
func (m *ReconciliationSessionModel) ToEntity() *entity.ReconciliationSession {
	return &entity.ReconciliationSession{
		ID:               m.ID,
		AccountID:        m.AccountID,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		StatementBalance: m.StatementBalance,
		Status:           entity.SessionStatus(m.Status),
		Notes:            m.Notes,
		Variance:         m.Variance,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		CompletedAt:      m.CompletedAt,
	}
}

// SessionFromEntity creates a ReconciliationSessionModel from a domain entity.
func SessionFromEntity(session *entity.ReconciliationSession) *ReconciliationSessionModel {
	return &ReconciliationSessionModel{
		ID:               session.ID,
		AccountID:        session.AccountID,
		StartDate:        session.StartDate,
		EndDate:          session.EndDate,
		StatementBalance: session.StatementBalance,
		Status:           string(session.Status),
		Notes:            session.Notes,
		Variance:         session.Variance,
		CreatedAt:        session.CreatedAt,
		UpdatedAt:        session.UpdatedAt,
		CompletedAt:      session.CompletedAt,
	}
}

// StatementTransactionModel represents the statement_transactions table.
// Rows are session-scoped and removed with their session.
type StatementTransactionModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SessionID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Date            time.Time       `gorm:"type:date;not null"`
	Description     string          `gorm:"type:varchar(255);not null"`
	ReferenceNumber string          `gorm:"type:varchar(64)"`
	CreatedAt       time.Time       `gorm:"not null"`

	Session *ReconciliationSessionModel `gorm:"foreignKey:SessionID;references:ID"`
}

// TableName returns the table name for the StatementTransactionModel.
func (StatementTransactionModel) TableName() string {
	return "statement_transactions"
}

// ToEntity converts a StatementTransactionModel to a domain entity.
func (m *StatementTransactionModel) ToEntity() *entity.StatementTransaction {
	return &entity.StatementTransaction{
		ID:              m.ID,
		SessionID:       m.SessionID,
		Amount:          m.Amount,
		Date:            m.Date,
		Description:     m.Description,
		ReferenceNumber: m.ReferenceNumber,
		CreatedAt:       m.CreatedAt,
	}
}

// StatementTransactionFromEntity creates a StatementTransactionModel from a domain entity.
func StatementTransactionFromEntity(line *entity.StatementTransaction) *StatementTransactionModel {
	return &StatementTransactionModel{
		ID:              line.ID,
		SessionID:       line.SessionID,
		Amount:          line.Amount,
		Date:            line.Date,
		Description:     line.Description,
		ReferenceNumber: line.ReferenceNumber,
		CreatedAt:       line.CreatedAt,
	}
}

// ReconciliationMatchModel represents the reconciliation_matches table.
// The two unique indexes enforce 1:1 pairing within a session, so a
// concurrent double-match fails deterministically on insert.
type ReconciliationMatchModel struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_statement;uniqueIndex:idx_match_ledger"`
	StatementTransactionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_statement"`
	TransactionID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_ledger"`
	IsManual               bool      `gorm:"default:false"`
	Notes                  string    `gorm:"type:text"`
	CreatedAt              time.Time `gorm:"not null"`

	Session              *ReconciliationSessionModel `gorm:"foreignKey:SessionID;references:ID"`
	StatementTransaction *StatementTransactionModel  `gorm:"foreignKey:StatementTransactionID;references:ID"`
	Transaction          *TransactionModel           `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName returns the table name for the ReconciliationMatchModel.
func (ReconciliationMatchModel) TableName() string {
	return "reconciliation_matches"
}

// ToEntity converts a ReconciliationMatchModel to a domain entity.
func (m *ReconciliationMatchModel) ToEntity() *entity.ReconciliationMatch {
	return &entity.ReconciliationMatch{
		ID:                     m.ID,
		SessionID:              m.SessionID,
		StatementTransactionID: m.StatementTransactionID,
		TransactionID:          m.TransactionID,
		IsManual:               m.IsManual,
		Notes:                  m.Notes,
		CreatedAt:              m.CreatedAt,
	}
}

// MatchFromEntity creates a ReconciliationMatchModel from a domain entity.
func MatchFromEntity(match *entity.ReconciliationMatch) *ReconciliationMatchModel {
	return &ReconciliationMatchModel{
		ID:                     match.ID,
		SessionID:              match.SessionID,
		StatementTransactionID: match.StatementTransactionID,
		TransactionID:          match.TransactionID,
		IsManual:               match.IsManual,
		Notes:                  match.Notes,
		CreatedAt:              match.CreatedAt,
	}
}

// ReconciliationAdjustmentModel represents the reconciliation_adjustments table.
type ReconciliationAdjustmentModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      string          `gorm:"type:varchar(50);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Reason    string          `gorm:"type:text"`
	CreatedAt time.Time       `gorm:"not null"`

	Session *ReconciliationSessionModel `gorm:"foreignKey:SessionID;references:ID"`
}

// TableName returns the table name for the ReconciliationAdjustmentModel.
func (ReconciliationAdjustmentModel) TableName() string {
	return "reconciliation_adjustments"
}

// ToEntity converts a ReconciliationAdjustmentModel to a domain entity.
func (m *ReconciliationAdjustmentModel) ToEntity() *entity.Adjustment {
	return &entity.Adjustment{
		ID:        m.ID,
		SessionID: m.SessionID,
		Type:      m.Type,
		Amount:    m.Amount,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
	}
}

// AdjustmentFromEntity creates a ReconciliationAdjustmentModel from a domain entity.
func AdjustmentFromEntity(adjustment *entity.Adjustment) *ReconciliationAdjustmentModel {
	return &ReconciliationAdjustmentModel{
		ID:        adjustment.ID,
		SessionID: adjustment.SessionID,
		Type:      adjustment.Type,
		Amount:    adjustment.Amount,
		Reason:    adjustment.Reason,
		CreatedAt: adjustment.CreatedAt,
	}
}
