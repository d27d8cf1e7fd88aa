// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/domain/entity"
)

// AccountModel represents the accounts table in the database.
type AccountModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name               string          `gorm:"type:varchar(100);not null"`
	Currency           string          `gorm:"type:varchar(3);not null"`
	OpeningBalance     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	OpeningBalanceDate time.Time       `gorm:"type:date;not null"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for the AccountModel.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts an AccountModel to a domain Account entity.
func (m *AccountModel) ToEntity() *entity.Account {
	return &entity.Account{
		ID:                 m.ID,
		Name:               m.Name,
		Currency:           m.Currency,
		OpeningBalance:     m.OpeningBalance,
		OpeningBalanceDate: m.OpeningBalanceDate,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// AccountFromEntity creates an AccountModel from a domain Account entity.
func AccountFromEntity(account *entity.Account) *AccountModel {
	return &AccountModel{
		ID:                 account.ID,
		Name:               account.Name,
		Currency:           account.Currency,
		OpeningBalance:     account.OpeningBalance,
		OpeningBalanceDate: account.OpeningBalanceDate,
		CreatedAt:          account.CreatedAt,
		UpdatedAt:          account.UpdatedAt,
	}
}
