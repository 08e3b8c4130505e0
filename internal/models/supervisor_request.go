package models

import (
	"time"

	"gorm.io/gorm"
)

// SupervisorRequest is a project creator's request for a specific supervisor
// to take on the project. Same pending-uniqueness rule as JoinRequest, keyed
// on (project, supervisor).
type SupervisorRequest struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ProjectID    uint           `gorm:"uniqueIndex:idx_pending_supervision,where:status = 'pending';not null" json:"project_id"`
	Project      *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	SupervisorID uint           `gorm:"uniqueIndex:idx_pending_supervision,where:status = 'pending';not null" json:"supervisor_id"`
	Supervisor   *Supervisor    `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Message      string         `gorm:"size:500" json:"message"`
	Status       string         `gorm:"size:20;default:pending;index" json:"status"`
	RespondedAt  *time.Time     `json:"responded_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SupervisorRequest) TableName() string { return "supervisor_requests" }
