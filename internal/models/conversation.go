package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation types
const (
	ConversationDirect = "direct"
	ConversationGroup  = "group"
)

// Conversation groups messages between two or more users.
type Conversation struct {
	ID        uint                      `gorm:"primaryKey" json:"id"`
	UUID      string                    `gorm:"uniqueIndex;size:36;not null" json:"uuid"`
	Type      string                    `gorm:"size:20;default:direct" json:"type"` // direct, group
	Title     string                    `gorm:"size:200" json:"title"`              // empty for direct conversations
	CreatedBy uint                      `gorm:"index" json:"created_by"`
	Members   []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"members,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
	DeletedAt gorm.DeletedAt            `gorm:"index" json:"-"`
}

func (Conversation) TableName() string { return "conversations" }

// ConversationParticipant links a user into a conversation.
type ConversationParticipant struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"uniqueIndex:idx_conversation_user;not null" json:"conversation_id"`
	UserID         uint      `gorm:"uniqueIndex:idx_conversation_user;not null" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (ConversationParticipant) TableName() string { return "conversation_participants" }

// Message is a single message within a conversation.
type Message struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ConversationID uint           `gorm:"index;not null" json:"conversation_id"`
	SenderID       uint           `gorm:"index;not null" json:"sender_id"`
	Sender         *User          `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Body           string         `gorm:"type:text;not null" json:"body"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Message) TableName() string { return "messages" }
