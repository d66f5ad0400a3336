package models

import "time"

type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`
	Industry string `gorm:"size:100" json:"industry"`
	Address  string `gorm:"size:255" json:"address"`
	City     string `gorm:"size:100" json:"city"`
	Country  string `gorm:"size:100" json:"country"`
	Notes    string `gorm:"type:text" json:"notes"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`

	Projects      []Project      `gorm:"constraint:OnDelete:CASCADE" json:"projects,omitempty"`
	Subscriptions []Subscription `gorm:"constraint:OnDelete:CASCADE" json:"subscriptions,omitempty"`
	Invoices      []Invoice      `gorm:"constraint:OnDelete:CASCADE" json:"invoices,omitempty"`
	Appointments  []Appointment  `gorm:"constraint:OnDelete:CASCADE" json:"appointments,omitempty"`
}
