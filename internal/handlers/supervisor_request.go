package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/middleware"
	"github.com/unihub/unihub/backend/internal/services"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

type SupervisorRequestHandler struct {
	requestService *services.SupervisorRequestService
}

func NewSupervisorRequestHandler(db *gorm.DB) *SupervisorRequestHandler {
	return &SupervisorRequestHandler{requestService: services.NewSupervisorRequestService(db)}
}

// Create asks a supervisor to take on a project; creator only
// POST /api/supervisor-requests
func (h *SupervisorRequestHandler) Create(c *gin.Context) {
	var req services.CreateSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	request, err := h.requestService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"request": request})
}

// Inbox lists requests addressed to the acting supervisor
// GET /api/supervisor-requests/inbox
func (h *SupervisorRequestHandler) Inbox(c *gin.Context) {
	requests, err := h.requestService.Inbox(middleware.GetUserID(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Listed(c, requests, int64(len(requests)))
}

// UpdateStatus resolves a pending request; addressed supervisor only
// PATCH /api/supervisor-requests/:id/status
func (h *SupervisorRequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateRequestStatus
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	request, err := h.requestService.UpdateStatus(middleware.GetUserID(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWith(c, "request "+request.Status, gin.H{"request": request})
}
