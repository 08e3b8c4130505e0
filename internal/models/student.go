package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is the 1:1 academic profile of a user with the student role.
type Student struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StudentID string         `gorm:"uniqueIndex;size:50;not null" json:"student_id"`
	Major     string         `gorm:"size:200" json:"major"`
	YearLevel int            `json:"year_level"`
	GPA       float64        `json:"gpa"` // 0.0 - 4.0
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Student) TableName() string { return "students" }
