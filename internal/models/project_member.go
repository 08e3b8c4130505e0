package models

import (
	"time"

	"gorm.io/gorm"
)

// Project member roles
const (
	MemberRoleMember = "member"
	MemberRoleLeader = "leader"
)

// ProjectMember records a student's membership and role within a project.
// The (project_id, student_id) pair is unique at the database level.
type ProjectMember struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProjectID uint           `gorm:"uniqueIndex:idx_project_student;not null" json:"project_id"`
	Project   *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	StudentID uint           `gorm:"uniqueIndex:idx_project_student;not null" json:"student_id"`
	Student   *Student       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Role      string         `gorm:"size:20;default:member" json:"role"` // member, leader
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProjectMember) TableName() string { return "project_members" }
