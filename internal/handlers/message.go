package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/middleware"
	"github.com/unihub/unihub/backend/internal/services"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{messageService: services.NewMessageService(db)}
}

// CreateConversation opens a direct or group conversation
// POST /api/conversations
func (h *MessageHandler) CreateConversation(c *gin.Context) {
	var req services.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	conversation, err := h.messageService.CreateConversation(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"conversation": conversation})
}

// ListConversations returns the acting user's conversations
// GET /api/conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	conversations, err := h.messageService.ListConversations(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Listed(c, conversations, int64(len(conversations)))
}

// Send posts a message into a conversation
// POST /api/conversations/:id/messages
func (h *MessageHandler) Send(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	message, err := h.messageService.Send(middleware.GetUserID(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": message})
}

// Messages returns a page of a conversation's messages
// GET /api/conversations/:id/messages
func (h *MessageHandler) Messages(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	messages, total, err := h.messageService.Messages(middleware.GetUserID(c), id, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, messages, page, pageSize, total)
}

// MarkRead marks incoming messages in a conversation as read
// POST /api/conversations/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	marked, err := h.messageService.MarkRead(middleware.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"marked": marked})
}
