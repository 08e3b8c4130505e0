package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/internal/services"
)

// HealthHandler reports subsystem health.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
// GET /api/health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	var pendingJoin int64
	models.GetDB().Model(&models.JoinRequest{}).
		Where("status = ?", models.RequestPending).
		Count(&pendingJoin)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "unihub",
		"components": gin.H{
			"database":              dbStatus,
			"queue_mode":            queueMode,
			"pending_join_requests": pendingJoin,
		},
	})
}
