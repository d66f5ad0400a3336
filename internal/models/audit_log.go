package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID uint `gorm:"index" json:"userId"`
	User   User `json:"user,omitempty"`

	Entity   string `gorm:"size:50;not null" json:"entity"` // "client", "invoice", "project"...
	EntityID uint   `json:"entityId"`
	Action   string `gorm:"size:50;not null" json:"action"` // "create", "mark_paid" etc.
	Details  string `gorm:"type:text" json:"details"`
}
