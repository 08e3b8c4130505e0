package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/middleware"
	"github.com/unihub/unihub/backend/internal/services"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

type JoinRequestHandler struct {
	requestService *services.JoinRequestService
}

func NewJoinRequestHandler(db *gorm.DB) *JoinRequestHandler {
	return &JoinRequestHandler{requestService: services.NewJoinRequestService(db)}
}

// Create files a join request
// POST /api/join-requests
func (h *JoinRequestHandler) Create(c *gin.Context) {
	var req services.CreateJoinRequest
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

// Inbox lists requests over the acting student's projects
// GET /api/join-requests/inbox
func (h *JoinRequestHandler) Inbox(c *gin.Context) {
	requests, err := h.requestService.Inbox(middleware.GetUserID(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Listed(c, requests, int64(len(requests)))
}

// ListMine lists requests the acting student sent
// GET /api/join-requests/mine
func (h *JoinRequestHandler) ListMine(c *gin.Context) {
	requests, err := h.requestService.ListMine(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Listed(c, requests, int64(len(requests)))
}

// ListForProject lists one project's requests; creator only
// GET /api/join-requests/project/:projectId
func (h *JoinRequestHandler) ListForProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	requests, err := h.requestService.ListForProject(middleware.GetUserID(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Listed(c, requests, int64(len(requests)))
}

// UpdateStatus resolves a pending request; creator only
// PATCH /api/join-requests/:id/status
func (h *JoinRequestHandler) UpdateStatus(c *gin.Context) {
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
