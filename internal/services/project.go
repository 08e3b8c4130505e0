package services

import (
	"errors"

	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

// ProjectService implements project CRUD with visibility rules. Listing and
// reads are visibility-filtered against the viewer; writes are creator-only.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	Status      string `json:"status" binding:"omitempty,oneof=planning pending approved rejected in-progress completed cancelled"`
	Visibility  string `json:"visibility" binding:"omitempty,oneof=public private university"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Status      *string `json:"status" binding:"omitempty,oneof=planning pending approved rejected in-progress completed cancelled"`
	Visibility  *string `json:"visibility" binding:"omitempty,oneof=public private university"`
}

type ProjectListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=planning pending approved rejected in-progress completed cancelled"`
	Search   string `form:"search"`
	Mine     bool   `form:"mine"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

func (s *ProjectService) studentForUser(userID uint) (*models.Student, error) {
	var student models.Student
	err := s.db.Where("user_id = ?", userID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewForbidden("a student profile is required for this action")
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create registers a new project owned by the acting student.
func (s *ProjectService) Create(userID uint, req *CreateProjectRequest) (*models.Project, error) {
	student, err := s.studentForUser(userID)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   student.ID,
		Status:      req.Status,
		Visibility:  req.Visibility,
	}
	if project.Status == "" {
		project.Status = models.ProjectPlanning
	}
	if project.Visibility == "" {
		project.Visibility = models.VisibilityPublic
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// viewer describes the acting user for visibility checks. A nil viewer is
// an anonymous request.
type viewer struct {
	UserID     uint
	Role       string
	University string
	StudentID  uint // 0 when the viewer has no student profile
}

func (s *ProjectService) resolveViewer(userID uint) *viewer {
	if userID == 0 {
		return nil
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil
	}
	v := &viewer{UserID: user.ID, Role: user.Role, University: user.University}
	var student models.Student
	if err := s.db.Where("user_id = ?", userID).First(&student).Error; err == nil {
		v.StudentID = student.ID
	}
	return v
}

func (s *ProjectService) canView(project *models.Project, v *viewer) bool {
	switch project.Visibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityUniversity:
		if v == nil {
			return false
		}
		if v.Role == models.RoleAdmin {
			return true
		}
		var creatorUser models.User
		err := s.db.
			Joins("JOIN students ON students.user_id = users.id").
			Where("students.id = ?", project.CreatorID).
			First(&creatorUser).Error
		if err != nil {
			return false
		}
		return creatorUser.University != "" && creatorUser.University == v.University
	case models.VisibilityPrivate:
		if v == nil {
			return false
		}
		if v.Role == models.RoleAdmin {
			return true
		}
		if v.StudentID != 0 && project.CreatorID == v.StudentID {
			return true
		}
		if v.StudentID != 0 {
			var memberCount int64
			s.db.Model(&models.ProjectMember{}).
				Where("project_id = ? AND student_id = ?", project.ID, v.StudentID).
				Count(&memberCount)
			if memberCount > 0 {
				return true
			}
		}
		if project.SupervisorID != nil {
			var supervisor models.Supervisor
			if err := s.db.First(&supervisor, *project.SupervisorID).Error; err == nil {
				return supervisor.UserID == v.UserID
			}
		}
		return false
	}
	return false
}

// Get returns one project if the viewer may see it. userID 0 is anonymous.
func (s *ProjectService) Get(userID, projectID uint) (*models.Project, error) {
	var project models.Project
	err := s.db.
		Preload("Creator").
		Preload("Creator.User").
		Preload("Supervisor").
		Preload("Supervisor.User").
		First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("project not found")
	}
	if err != nil {
		return nil, err
	}

	if !s.canView(&project, s.resolveViewer(userID)) {
		// A hidden project reads the same as a missing one.
		return nil, response.NewNotFound("project not found")
	}
	return &project, nil
}

// List returns projects the viewer may see, paginated. userID 0 is anonymous
// and sees only public projects.
func (s *ProjectService) List(userID uint, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	v := s.resolveViewer(userID)
	query := s.db.Model(&models.Project{})

	switch {
	case req.Mine && v != nil && v.StudentID != 0:
		query = query.Where("creator_id = ?", v.StudentID)
	case v == nil:
		query = query.Where("visibility = ?", models.VisibilityPublic)
	case v.Role == models.RoleAdmin:
		// admins see everything
	default:
		conditions := s.db.Where("visibility = ?", models.VisibilityPublic)
		if v.University != "" {
			conditions = conditions.Or(
				"visibility = ? AND creator_id IN (?)",
				models.VisibilityUniversity,
				s.db.Model(&models.Student{}).
					Select("students.id").
					Joins("JOIN users ON users.id = students.user_id").
					Where("users.university = ?", v.University),
			)
		}
		if v.StudentID != 0 {
			conditions = conditions.Or("creator_id = ?", v.StudentID)
			conditions = conditions.Or(
				"id IN (?)",
				s.db.Model(&models.ProjectMember{}).
					Select("project_id").
					Where("student_id = ?", v.StudentID),
			)
		}
		query = query.Where(conditions)
	}

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.
		Preload("Creator").
		Preload("Creator.User").
		Preload("Supervisor").
		Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

func (s *ProjectService) ownedProject(userID, projectID uint) (*models.Project, error) {
	student, err := s.studentForUser(userID)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	if project.CreatorID != student.ID {
		return nil, response.NewForbidden("only the project creator can modify this project")
	}
	return &project, nil
}

// Update applies partial changes; creator only.
func (s *ProjectService) Update(userID, projectID uint, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Visibility != nil {
		updates["visibility"] = *req.Visibility
	}
	if len(updates) == 0 {
		return project, nil
	}

	if err := s.db.Model(project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete soft-deletes a project; creator or admin.
func (s *ProjectService) Delete(userID uint, role string, projectID uint) error {
	if role == models.RoleAdmin {
		result := s.db.Delete(&models.Project{}, projectID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return response.NewNotFound("project not found")
		}
		return nil
	}

	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return err
	}
	return s.db.Delete(project).Error
}

// Members lists a project's member roster; visible to anyone who can view
// the project.
func (s *ProjectService) Members(userID, projectID uint) ([]models.ProjectMember, error) {
	if _, err := s.Get(userID, projectID); err != nil {
		return nil, err
	}

	var members []models.ProjectMember
	if err := s.db.Where("project_id = ?", projectID).
		Preload("Student").
		Preload("Student.User").
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// RemoveMember takes a student off the roster; creator only. The creator
// cannot be removed through this path.
func (s *ProjectService) RemoveMember(userID, projectID, studentID uint) error {
	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return err
	}
	if studentID == project.CreatorID {
		return response.NewBadRequest("the project creator cannot be removed")
	}

	result := s.db.Where("project_id = ? AND student_id = ?", projectID, studentID).
		Delete(&models.ProjectMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("member not found")
	}
	return nil
}
