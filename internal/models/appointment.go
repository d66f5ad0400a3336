package models

import "time"

type Appointment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ClientID *uint   `gorm:"index" json:"clientId"`
	Client   *Client `json:"client,omitempty"`

	ProjectID *uint    `gorm:"index" json:"projectId"`
	Project   *Project `json:"project,omitempty"`

	OwnerID uint  `gorm:"index;not null" json:"ownerId"`
	Owner   *User `json:"owner,omitempty"`

	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"index" json:"date"`
	Location    string    `gorm:"size:255" json:"location"`
}
