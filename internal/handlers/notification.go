package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/middleware"
	"github.com/unihub/unihub/backend/internal/services"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{notificationService: services.NewNotificationService(db)}
}

// List returns the acting user's notifications
// GET /api/notifications?unread=true
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	items, err := h.notificationService.List(middleware.GetUserID(c), unreadOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	unread, err := h.notificationService.UnreadCount(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"notifications": items, "unread": unread})
}

// MarkRead marks one notification as read
// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(middleware.GetUserID(c), id); err != nil {
		if err == gorm.ErrRecordNotFound {
			response.NotFound(c, "notification not found")
			return
		}
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, "notification marked as read")
}

// MarkAllRead marks every unread notification as read
// POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	marked, err := h.notificationService.MarkAllRead(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"marked": marked})
}
