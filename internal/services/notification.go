package services

import (
	"fmt"
	"time"

	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/logger"
	"gorm.io/gorm"
)

// NotificationService writes best-effort in-app notices. A failed write is
// logged and otherwise ignored so it can never fail the triggering request.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) notify(n *models.Notification) {
	if err := s.db.Create(n).Error; err != nil {
		logger.Warnf("[Notification] failed to write %s notice for user %d: %v", n.Type, n.UserID, err)
	}
}

// Welcome records the post-verification welcome notice.
func (s *NotificationService) Welcome(userID uint, name string) {
	s.notify(&models.Notification{
		UserID: userID,
		Type:   models.NotificationWelcome,
		Title:  "Welcome to UniHub",
		Body:   fmt.Sprintf("Hi %s, your account is verified. Browse projects and find your team.", name),
	})
}

// JoinRequestDecided tells the requester their join request was resolved.
func (s *NotificationService) JoinRequestDecided(requesterUserID uint, projectTitle, status string, requestID uint) {
	s.notify(&models.Notification{
		UserID:  requesterUserID,
		Type:    models.NotificationJoinDecided,
		Title:   fmt.Sprintf("Join request %s", status),
		Body:    fmt.Sprintf("Your request to join %q was %s.", projectTitle, status),
		RefType: "join_request",
		RefID:   requestID,
	})
}

// SupervisionRequested tells a supervisor a project wants them on board.
func (s *NotificationService) SupervisionRequested(supervisorUserID uint, projectTitle string, requestID uint) {
	s.notify(&models.Notification{
		UserID:  supervisorUserID,
		Type:    models.NotificationSupervisionAsked,
		Title:   "Supervision requested",
		Body:    fmt.Sprintf("Project %q is asking you to supervise it.", projectTitle),
		RefType: "supervisor_request",
		RefID:   requestID,
	})
}

// SupervisionDecided tells the project creator the supervisor answered.
func (s *NotificationService) SupervisionDecided(creatorUserID uint, projectTitle, status string, requestID uint) {
	s.notify(&models.Notification{
		UserID:  creatorUserID,
		Type:    models.NotificationSupervisionResult,
		Title:   fmt.Sprintf("Supervision request %s", status),
		Body:    fmt.Sprintf("The supervision request for %q was %s.", projectTitle, status),
		RefType: "supervisor_request",
		RefID:   requestID,
	})
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(userID uint, unreadOnly bool) ([]models.Notification, error) {
	var items []models.Notification
	query := s.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Order("created_at DESC").Limit(100).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one notification as read; scoped to the owning user.
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for a user as read.
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}
