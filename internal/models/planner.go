package models

import "time"

// PlannerEntry is a per-user key-value bucket. Value holds an opaque JSON
// payload owned by the client; one row per (user, bucket).
type PlannerEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_bucket;not null" json:"user_id"`
	Bucket    string    `gorm:"uniqueIndex:idx_user_bucket;size:100;not null" json:"bucket"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PlannerEntry) TableName() string { return "planner_entries" }
