package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProjectID *uint    `gorm:"index" json:"projectId"`
	Project   *Project `json:"project,omitempty"`

	Name     string          `gorm:"size:255;not null" json:"name"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category string          `gorm:"size:100" json:"category"`

	// Spent is derived: the sum of item amounts, recomputed after every
	// item create/update/delete.
	Spent decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"spent"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `gorm:"size:20;not null;default:ACTIVE" json:"status"`

	Items []BudgetItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type BudgetItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	BudgetID uint `gorm:"index;not null" json:"budgetId"`

	Name   string          `gorm:"size:255;not null" json:"name"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date   time.Time       `json:"date"`
}
