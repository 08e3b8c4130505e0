package models

import "time"

// Notification types
const (
	NotificationWelcome           = "welcome"
	NotificationJoinDecided       = "join_request_decided"
	NotificationSupervisionAsked  = "supervision_requested"
	NotificationSupervisionResult = "supervision_decided"
)

// Notification is a best-effort in-app notice; writes never fail a request.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Type      string     `gorm:"size:50;index" json:"type"`
	Title     string     `gorm:"size:200" json:"title"`
	Body      string     `gorm:"size:1000" json:"body"`
	RefType   string     `gorm:"size:50" json:"ref_type,omitempty"` // project, join_request, supervisor_request
	RefID     uint       `json:"ref_id,omitempty"`
	IsRead    bool       `gorm:"default:false" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
