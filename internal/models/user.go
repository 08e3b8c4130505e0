package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent    = "student"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// User represents a platform account. Email is stored lower-cased and is
// unique. Verification and reset tokens are never serialized.
type User struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Name                string         `gorm:"size:100;not null" json:"name"`
	Email               string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password            string         `gorm:"size:255" json:"-"` // bcrypt hash
	Role                string         `gorm:"size:20;default:student" json:"role"` // student, supervisor, admin
	University          string         `gorm:"size:200" json:"university"`
	IsVerified          bool           `gorm:"default:false" json:"is_verified"`
	IsBanned            bool           `gorm:"default:false" json:"is_banned"`
	BanReason           string         `gorm:"size:500" json:"ban_reason,omitempty"`
	VerificationToken   string         `gorm:"index;size:64" json:"-"`
	VerificationExpires *time.Time     `json:"-"`
	ResetToken          string         `gorm:"index;size:64" json:"-"`
	ResetExpires        *time.Time     `json:"-"`
	LastLogin           *time.Time     `json:"last_login"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// ValidRole reports whether role is one of the recognized user roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleSupervisor || role == RoleAdmin
}
