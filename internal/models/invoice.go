package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "DRAFT"
	InvoiceSent    InvoiceStatus = "SENT"
	InvoicePaid    InvoiceStatus = "PAID"
	InvoiceOverdue InvoiceStatus = "OVERDUE"
)

// ValidInvoiceStatus reports whether s is one of the known statuses.
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ClientID uint    `gorm:"index;not null" json:"clientId"`
	Client   *Client `json:"client,omitempty"`

	SubscriptionID *uint         `gorm:"index" json:"subscriptionId"`
	Subscription   *Subscription `json:"subscription,omitempty"`

	CreatedByID uint  `gorm:"index" json:"createdById"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`

	InvoiceNumber string        `gorm:"uniqueIndex;size:32;not null" json:"invoiceNumber"`
	IssueDate     time.Time     `json:"issueDate"`
	DueDate       time.Time     `gorm:"index" json:"dueDate"`
	Status        InvoiceStatus `gorm:"type:varchar(20);not null;default:DRAFT" json:"status"`

	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Notes    string          `gorm:"type:text" json:"notes"`

	Items []InvoiceItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type InvoiceItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	InvoiceID uint `gorm:"index;not null" json:"invoiceId"`

	Description string          `gorm:"size:255" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	Rate        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}

// InvoiceSequence backs year-scoped invoice numbering. The row for the
// current year is bumped with a single UPDATE inside the invoice-creating
// transaction, so concurrent writers never see the same value.
type InvoiceSequence struct {
	ID        uint `gorm:"primaryKey"`
	Year      int  `gorm:"uniqueIndex;not null"`
	LastValue int  `gorm:"not null;default:0"`
}
