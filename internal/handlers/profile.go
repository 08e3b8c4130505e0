package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/middleware"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

// ProfileHandler covers the student and supervisor profile resources.
type ProfileHandler struct {
	db *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// ListStudents returns student profiles with their users
// GET /api/students
func (h *ProfileHandler) ListStudents(c *gin.Context) {
	query := h.db.Preload("User")
	if major := c.Query("major"); major != "" {
		query = query.Where("major LIKE ?", "%"+major+"%")
	}

	var students []models.Student
	if err := query.Order("created_at DESC").Limit(200).Find(&students).Error; err != nil {
		response.Error(c, err)
		return
	}

	response.Listed(c, students, int64(len(students)))
}

// GetStudent returns one student profile
// GET /api/students/:id
func (h *ProfileHandler) GetStudent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var student models.Student
	if err := h.db.Preload("User").First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "student not found")
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"student": student})
}

// UpdateStudent edits the acting user's own student profile
// PATCH /api/students/me
func (h *ProfileHandler) UpdateStudent(c *gin.Context) {
	var req struct {
		Major     *string  `json:"major" binding:"omitempty,max=200"`
		YearLevel *int     `json:"year_level" binding:"omitempty,min=1,max=10"`
		GPA       *float64 `json:"gpa" binding:"omitempty,gte=0,lte=4"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var student models.Student
	err := h.db.Where("user_id = ?", middleware.GetUserID(c)).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "student profile not found")
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Major != nil {
		updates["major"] = *req.Major
	}
	if req.YearLevel != nil {
		updates["year_level"] = *req.YearLevel
	}
	if req.GPA != nil {
		updates["gpa"] = *req.GPA
	}
	if len(updates) > 0 {
		if err := h.db.Model(&student).Updates(updates).Error; err != nil {
			response.Error(c, err)
			return
		}
	}

	response.SuccessWith(c, "profile updated", gin.H{"student": student})
}

// ListSupervisors returns supervisor profiles with their users
// GET /api/supervisors
func (h *ProfileHandler) ListSupervisors(c *gin.Context) {
	query := h.db.Preload("User")
	if dept := c.Query("department"); dept != "" {
		query = query.Where("department LIKE ?", "%"+dept+"%")
	}

	var supervisors []models.Supervisor
	if err := query.Order("created_at DESC").Limit(200).Find(&supervisors).Error; err != nil {
		response.Error(c, err)
		return
	}

	response.Listed(c, supervisors, int64(len(supervisors)))
}

// GetSupervisor returns one supervisor profile
// GET /api/supervisors/:id
func (h *ProfileHandler) GetSupervisor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var supervisor models.Supervisor
	if err := h.db.Preload("User").First(&supervisor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "supervisor not found")
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"supervisor": supervisor})
}

// UpdateSupervisor edits the acting user's own supervisor profile
// PATCH /api/supervisors/me
func (h *ProfileHandler) UpdateSupervisor(c *gin.Context) {
	var req struct {
		Department     *string `json:"department" binding:"omitempty,max=200"`
		Specialization *string `json:"specialization" binding:"omitempty,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var supervisor models.Supervisor
	err := h.db.Where("user_id = ?", middleware.GetUserID(c)).First(&supervisor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "supervisor profile not found")
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Specialization != nil {
		updates["specialization"] = *req.Specialization
	}
	if len(updates) > 0 {
		if err := h.db.Model(&supervisor).Updates(updates).Error; err != nil {
			response.Error(c, err)
			return
		}
	}

	response.SuccessWith(c, "profile updated", gin.H{"supervisor": supervisor})
}
