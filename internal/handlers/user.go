package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/middleware"
	"github.com/unihub/unihub/backend/internal/services"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

// UserHandler covers admin user management.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{userService: services.NewUserService(db)}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

// List returns a filtered page of users
// GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	var req services.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.userService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Page, result.PageSize, result.Total)
}

// Ban suspends an account
// POST /api/admin/users/:id/ban
func (h *UserHandler) Ban(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Body is optional; an omitted reason gets a default.
	var req struct {
		Reason string `json:"reason" binding:"omitempty,max=500"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}

	user, err := h.userService.Ban(middleware.GetUserID(c), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWith(c, "user banned", gin.H{"user": user})
}

// Unban lifts a suspension
// POST /api/admin/users/:id/unban
func (h *UserHandler) Unban(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Unban(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWith(c, "user unbanned", gin.H{"user": user})
}

// SetRole changes a user's role
// PATCH /api/admin/users/:id/role
func (h *UserHandler) SetRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required,oneof=student supervisor admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := h.userService.SetRole(middleware.GetUserID(c), id, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWith(c, "role updated", gin.H{"user": user})
}
