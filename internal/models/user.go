package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleMember UserRole = "MEMBER"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email        string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FirstName    string   `gorm:"size:100" json:"firstName"`
	LastName     string   `gorm:"size:100" json:"lastName"`
	Phone        string   `gorm:"size:50" json:"phone"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
}

// APIToken is an opaque bearer token issued at login.
type APIToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID uint   `gorm:"index;not null" json:"userId"`
	User   User   `json:"-"`
	Token  string `gorm:"uniqueIndex;size:64;not null" json:"token"`
}
