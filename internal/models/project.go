package models

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses
const (
	ProjectPlanning   = "planning"
	ProjectPending    = "pending"
	ProjectApproved   = "approved"
	ProjectRejected   = "rejected"
	ProjectInProgress = "in-progress"
	ProjectCompleted  = "completed"
	ProjectCancelled  = "cancelled"
)

// Project visibility
const (
	VisibilityPublic     = "public"
	VisibilityPrivate    = "private"
	VisibilityUniversity = "university"
)

// Project is a student-created project listing. CreatorID references a
// Student row, not a User row. SupervisorID is set when a supervision
// request is accepted.
type Project struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	CreatorID    uint           `gorm:"index;not null" json:"creator_id"`
	Creator      *Student       `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	SupervisorID *uint          `gorm:"index" json:"supervisor_id"`
	Supervisor   *Supervisor    `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Status       string         `gorm:"size:20;default:planning" json:"status"`
	Visibility   string         `gorm:"size:20;default:public" json:"visibility"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }

// ValidProjectStatus reports whether s is a recognized project status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectPlanning, ProjectPending, ProjectApproved, ProjectRejected,
		ProjectInProgress, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// ValidVisibility reports whether v is a recognized project visibility.
func ValidVisibility(v string) bool {
	return v == VisibilityPublic || v == VisibilityPrivate || v == VisibilityUniversity
}
