package models

import (
	"time"

	"gorm.io/gorm"
)

// Request statuses shared by join and supervisor requests
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// JoinRequest is a student's request to join a project. The partial unique
// index enforces at most one pending request per (project, requester); the
// application-level pre-check exists only to produce a friendlier message.
type JoinRequest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProjectID   uint           `gorm:"uniqueIndex:idx_pending_join,where:status = 'pending';not null" json:"project_id"`
	Project     *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	RequesterID uint           `gorm:"uniqueIndex:idx_pending_join,where:status = 'pending';not null" json:"requester_id"`
	Requester   *Student       `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	DesiredRole string         `gorm:"size:100" json:"desired_role"` // free text, normalized on acceptance
	Message     string         `gorm:"size:500" json:"message"`
	Status      string         `gorm:"size:20;default:pending;index" json:"status"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (JoinRequest) TableName() string { return "join_requests" }

// ValidRequestStatus reports whether s is a recognized request status.
func ValidRequestStatus(s string) bool {
	return s == RequestPending || s == RequestAccepted || s == RequestRejected
}
