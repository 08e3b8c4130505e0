package models

import (
	"time"

	"gorm.io/gorm"
)

// Supervisor is the 1:1 academic profile of a user with the supervisor role.
type Supervisor struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	User           *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EmployeeID     string         `gorm:"uniqueIndex;size:50;not null" json:"employee_id"`
	Department     string         `gorm:"size:200" json:"department"`
	Specialization string         `gorm:"size:200" json:"specialization"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Supervisor) TableName() string { return "supervisors" }
