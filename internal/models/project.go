package models

import "time"

type ProjectStatus string

const (
	StatusGreen     ProjectStatus = "GREEN"
	StatusAmber     ProjectStatus = "AMBER"
	StatusRed       ProjectStatus = "RED"
	StatusOnHold    ProjectStatus = "ON_HOLD"
	StatusCompleted ProjectStatus = "COMPLETED"
)

// ValidProjectStatus reports whether s is one of the known statuses.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case StatusGreen, StatusAmber, StatusRed, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ClientID uint    `gorm:"index;not null" json:"clientId"`
	Client   *Client `json:"client,omitempty"`

	OwnerID uint  `gorm:"index;not null" json:"ownerId"`
	Owner   *User `json:"owner,omitempty"`

	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   time.Time  `json:"startDate"`
	TargetEndDate *time.Time `json:"targetEndDate"`
	ActualEndDate *time.Time `json:"actualEndDate"`

	// PercentComplete and Status are derived from milestone completion and
	// stored; they change only through the progress-update path or a manual
	// edit (ON_HOLD is manual-only).
	PercentComplete int           `gorm:"not null;default:0" json:"percentComplete"`
	Status          ProjectStatus `gorm:"type:varchar(20);not null;default:GREEN" json:"status"`
	LatestUpdate    string        `gorm:"type:text" json:"latestUpdate"`

	Milestones   []Milestone   `gorm:"constraint:OnDelete:CASCADE" json:"milestones,omitempty"`
	Appointments []Appointment `json:"appointments,omitempty"`
}

type Milestone struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProjectID uint     `gorm:"index;not null" json:"projectId"`
	Project   *Project `json:"project,omitempty"`

	Name        string     `gorm:"size:255;not null" json:"name"`
	DueDate     time.Time  `json:"dueDate"`
	IsCompleted bool       `gorm:"not null;default:false" json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
}
