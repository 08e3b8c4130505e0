package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/services"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

// AdminHandler exposes audit logs and platform settings to admins.
type AdminHandler struct {
	auditService  *services.AuditLogService
	configService *services.SystemConfigService
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		auditService:  services.NewAuditLogService(db),
		configService: services.NewSystemConfigService(db),
	}
}

// ListAuditLogs returns a filtered page of audit entries
// GET /api/admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	var req services.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.auditService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Page, result.PageSize, result.Total)
}

// ListAuditModules returns the distinct audited modules for filter dropdowns
// GET /api/admin/audit-logs/modules
func (h *AdminHandler) ListAuditModules(c *gin.Context) {
	modules, err := h.auditService.GetModules()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"modules": modules})
}

// GetSettings returns settings for one config group
// GET /api/admin/settings?group=registration
func (h *AdminHandler) GetSettings(c *gin.Context) {
	group := c.DefaultQuery("group", "registration")

	configs, err := h.configService.GetByGroup(group)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"settings": configs})
}

// UpdateSetting sets one config key
// PUT /api/admin/settings
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required,max=100"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.configService.Set(req.Key, req.Value); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, "setting updated")
}
