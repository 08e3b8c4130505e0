package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

// MessageService covers conversations and messages. Direct conversations
// are deduplicated per user pair; group conversations carry a title.
type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

type CreateConversationRequest struct {
	Type           string `json:"type" binding:"omitempty,oneof=direct group"`
	Title          string `json:"title" binding:"omitempty,max=200"`
	ParticipantIDs []uint `json:"participant_ids" binding:"required,min=1"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required,max=5000"`
}

// CreateConversation opens a conversation from the acting user to the given
// participants. An existing direct conversation between the same two users
// is returned instead of creating a duplicate.
func (s *MessageService) CreateConversation(userID uint, req *CreateConversationRequest) (*models.Conversation, error) {
	convType := req.Type
	if convType == "" {
		convType = models.ConversationDirect
	}

	participants := dedupeIDs(append([]uint{userID}, req.ParticipantIDs...))
	if convType == models.ConversationDirect && len(participants) != 2 {
		return nil, response.NewBadRequest("a direct conversation needs exactly one other participant")
	}
	if convType == models.ConversationGroup && req.Title == "" {
		return nil, response.NewBadRequest("a group conversation needs a title")
	}

	var count int64
	s.db.Model(&models.User{}).Where("id IN ?", participants).Count(&count)
	if count != int64(len(participants)) {
		return nil, response.NewBadRequest("one or more participants do not exist")
	}

	if convType == models.ConversationDirect {
		if existing := s.findDirect(participants[0], participants[1]); existing != nil {
			return existing, nil
		}
	}

	conversation := models.Conversation{
		UUID:      uuid.NewString(),
		Type:      convType,
		Title:     req.Title,
		CreatedBy: userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conversation).Error; err != nil {
			return err
		}
		for _, pid := range participants {
			participant := models.ConversationParticipant{
				ConversationID: conversation.ID,
				UserID:         pid,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getWithMembers(conversation.ID)
}

func (s *MessageService) findDirect(a, b uint) *models.Conversation {
	var conversationID uint
	err := s.db.Model(&models.ConversationParticipant{}).
		Select("conversation_id").
		Joins("JOIN conversations ON conversations.id = conversation_participants.conversation_id AND conversations.type = ? AND conversations.deleted_at IS NULL", models.ConversationDirect).
		Where("conversation_participants.user_id IN ?", []uint{a, b}).
		Group("conversation_id").
		Having("COUNT(DISTINCT conversation_participants.user_id) = 2").
		Limit(1).
		Scan(&conversationID).Error
	if err != nil || conversationID == 0 {
		return nil
	}
	conversation, err := s.getWithMembers(conversationID)
	if err != nil {
		return nil
	}
	return conversation
}

func (s *MessageService) getWithMembers(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := s.db.Preload("Members").Preload("Members.User").First(&conversation, id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (s *MessageService) participantConversation(userID, conversationID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.First(&conversation, conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("conversation not found")
	}
	if err != nil {
		return nil, err
	}

	var count int64
	s.db.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count)
	if count == 0 {
		return nil, response.NewForbidden("you are not a participant in this conversation")
	}
	return &conversation, nil
}

// ListConversations returns the acting user's conversations, most recently
// updated first.
func (s *MessageService) ListConversations(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := s.db.
		Joins("JOIN conversation_participants ON conversation_participants.conversation_id = conversations.id").
		Where("conversation_participants.user_id = ?", userID).
		Preload("Members").
		Preload("Members.User").
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// Send appends a message to a conversation the acting user belongs to.
func (s *MessageService) Send(userID, conversationID uint, req *SendMessageRequest) (*models.Message, error) {
	conversation, err := s.participantConversation(userID, conversationID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       userID,
		Body:           req.Body,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		// Bump updated_at so the conversation sorts to the top.
		return tx.Model(conversation).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Messages returns a page of a conversation's messages, oldest first.
func (s *MessageService) Messages(userID, conversationID uint, page, pageSize int) ([]models.Message, int64, error) {
	if _, err := s.participantConversation(userID, conversationID); err != nil {
		return nil, 0, err
	}

	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 50
	}

	var total int64
	s.db.Model(&models.Message{}).Where("conversation_id = ?", conversationID).Count(&total)

	var messages []models.Message
	offset := (page - 1) * pageSize
	if err := s.db.Where("conversation_id = ?", conversationID).
		Preload("Sender").
		Offset(offset).Limit(pageSize).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkRead marks all messages from other senders as read.
func (s *MessageService) MarkRead(userID, conversationID uint) (int64, error) {
	if _, err := s.participantConversation(userID, conversationID); err != nil {
		return 0, err
	}

	now := time.Now()
	result := s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, userID).
		Update("read_at", now)
	return result.RowsAffected, result.Error
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
