package handlers

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/middleware"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlannerHandler stores opaque per-user JSON buckets. The payload is owned
// by the client; the server only checks that it is valid JSON.
type PlannerHandler struct {
	db *gorm.DB
}

func NewPlannerHandler(db *gorm.DB) *PlannerHandler {
	return &PlannerHandler{db: db}
}

const maxPlannerPayload = 64 * 1024

// Put upserts one bucket
// PUT /api/planner/:bucket
func (h *PlannerHandler) Put(c *gin.Context) {
	bucket := c.Param("bucket")
	if bucket == "" || len(bucket) > 100 {
		response.BadRequest(c, "invalid bucket name")
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPlannerPayload+1))
	if err != nil {
		response.BadRequest(c, "failed to read request body")
		return
	}
	if len(body) > maxPlannerPayload {
		response.BadRequest(c, "planner payload too large")
		return
	}
	if !json.Valid(body) {
		response.BadRequest(c, "planner payload must be valid JSON")
		return
	}

	entry := models.PlannerEntry{
		UserID: middleware.GetUserID(c),
		Bucket: bucket,
		Value:  string(body),
	}

	err = h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "bucket"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, "planner saved")
}

// Get returns one bucket's raw JSON payload
// GET /api/planner/:bucket
func (h *PlannerHandler) Get(c *gin.Context) {
	var entry models.PlannerEntry
	err := h.db.Where("user_id = ? AND bucket = ?", middleware.GetUserID(c), c.Param("bucket")).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "planner bucket not found")
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"bucket": entry.Bucket, "value": json.RawMessage(entry.Value)})
}

// List returns all of the user's buckets
// GET /api/planner
func (h *PlannerHandler) List(c *gin.Context) {
	var entries []models.PlannerEntry
	if err := h.db.Where("user_id = ?", middleware.GetUserID(c)).
		Order("bucket ASC").
		Find(&entries).Error; err != nil {
		response.Error(c, err)
		return
	}

	buckets := make(map[string]json.RawMessage, len(entries))
	for _, entry := range entries {
		buckets[entry.Bucket] = json.RawMessage(entry.Value)
	}

	response.Success(c, gin.H{"buckets": buckets})
}

// Delete removes one bucket
// DELETE /api/planner/:bucket
func (h *PlannerHandler) Delete(c *gin.Context) {
	result := h.db.Where("user_id = ? AND bucket = ?", middleware.GetUserID(c), c.Param("bucket")).
		Delete(&models.PlannerEntry{})
	if result.Error != nil {
		response.Error(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		response.NotFound(c, "planner bucket not found")
		return
	}

	response.SuccessMessage(c, "planner bucket deleted")
}
