package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillingCycle string

const (
	CycleMonthly   BillingCycle = "MONTHLY"
	CycleQuarterly BillingCycle = "QUARTERLY"
	CycleAnnual    BillingCycle = "ANNUAL"
)

// ValidBillingCycle reports whether c is one of the known cycles. Unknown
// cycles are rejected at the API boundary so stored rows always carry a
// known value.
func ValidBillingCycle(c BillingCycle) bool {
	switch c {
	case CycleMonthly, CycleQuarterly, CycleAnnual:
		return true
	}
	return false
}

type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ClientID uint    `gorm:"index;not null" json:"clientId"`
	Client   *Client `json:"client,omitempty"`

	ProductName string          `gorm:"size:255;not null" json:"productName"`
	Plan        string          `gorm:"size:100" json:"plan"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	BillingCycle BillingCycle   `gorm:"type:varchar(20);not null" json:"billingCycle"`
	StartDate   time.Time       `json:"startDate"`

	// NextInvoiceDate only moves forward, by one billing-cycle unit, each
	// time an invoice is generated from this subscription.
	NextInvoiceDate time.Time `gorm:"index" json:"nextInvoiceDate"`
	IsActive        bool      `gorm:"not null;default:true" json:"isActive"`

	Invoices []Invoice `json:"invoices,omitempty"`
}
