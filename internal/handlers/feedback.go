package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/middleware"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

type FeedbackHandler struct {
	db *gorm.DB
}

func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{db: db}
}

// Create leaves a rated comment on a project
// POST /api/projects/:id/feedback
func (h *FeedbackHandler) Create(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment" binding:"omitempty,max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var project models.Project
	if err := h.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "project not found")
			return
		}
		response.Error(c, err)
		return
	}

	feedback := models.Feedback{
		ProjectID: projectID,
		UserID:    middleware.GetUserID(c),
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.db.Create(&feedback).Error; err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"feedback": feedback})
}

// List returns a project's feedback, newest first
// GET /api/projects/:id/feedback
func (h *FeedbackHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var items []models.Feedback
	if err := h.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		response.Error(c, err)
		return
	}

	response.Listed(c, items, int64(len(items)))
}

// Delete removes one's own feedback (admins may remove any)
// DELETE /api/feedback/:id
func (h *FeedbackHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var feedback models.Feedback
	if err := h.db.First(&feedback, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "feedback not found")
			return
		}
		response.Error(c, err)
		return
	}

	if feedback.UserID != middleware.GetUserID(c) && middleware.GetRole(c) != models.RoleAdmin {
		response.Forbidden(c, "you can only delete your own feedback")
		return
	}

	if err := h.db.Delete(&feedback).Error; err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, "feedback deleted")
}
