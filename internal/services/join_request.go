package services

import (
	"errors"
	"strings"
	"time"

	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

// JoinRequestService implements the join-request approval workflow. The
// single-pending rule is enforced by a partial unique index; the pre-checks
// here exist to return friendlier messages than a raw constraint error.
type JoinRequestService struct {
	db     *gorm.DB
	notify *NotificationService
}

func NewJoinRequestService(db *gorm.DB) *JoinRequestService {
	return &JoinRequestService{db: db, notify: NewNotificationService(db)}
}

type CreateJoinRequest struct {
	ProjectID   uint   `json:"project_id" binding:"required"`
	DesiredRole string `json:"desired_role" binding:"omitempty,max=100"`
	Message     string `json:"message" binding:"omitempty,max=500"`
}

type UpdateRequestStatus struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

func (s *JoinRequestService) studentForUser(userID uint) (*models.Student, error) {
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

// Create files a join request from the acting student.
func (s *JoinRequestService) Create(userID uint, req *CreateJoinRequest) (*models.JoinRequest, error) {
	student, err := s.studentForUser(userID)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, req.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if project.CreatorID == student.ID {
		return nil, response.NewBadRequest("you cannot request to join your own project")
	}

	var memberCount int64
	s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND student_id = ?", project.ID, student.ID).
		Count(&memberCount)
	if memberCount > 0 {
		return nil, response.NewConflict("you are already a member of this project")
	}

	var pendingCount int64
	s.db.Model(&models.JoinRequest{}).
		Where("project_id = ? AND requester_id = ? AND status = ?", project.ID, student.ID, models.RequestPending).
		Count(&pendingCount)
	if pendingCount > 0 {
		return nil, response.NewConflict("you already have a pending request for this project")
	}

	request := models.JoinRequest{
		ProjectID:   project.ID,
		RequesterID: student.ID,
		DesiredRole: req.DesiredRole,
		Message:     req.Message,
		Status:      models.RequestPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("you already have a pending request for this project")
		}
		return nil, err
	}

	return &request, nil
}

// Inbox lists requests across all projects created by the acting student.
func (s *JoinRequestService) Inbox(userID uint, status string) ([]models.JoinRequest, error) {
	student, err := s.studentForUser(userID)
	if err != nil {
		return nil, err
	}

	query := s.db.
		Joins("JOIN projects ON projects.id = join_requests.project_id").
		Where("projects.creator_id = ?", student.ID).
		Preload("Project").
		Preload("Requester").
		Preload("Requester.User")
	if status != "" {
		query = query.Where("join_requests.status = ?", status)
	}

	var requests []models.JoinRequest
	if err := query.Order("join_requests.created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListMine lists requests the acting student has sent.
func (s *JoinRequestService) ListMine(userID uint) ([]models.JoinRequest, error) {
	student, err := s.studentForUser(userID)
	if err != nil {
		return nil, err
	}

	var requests []models.JoinRequest
	if err := s.db.Where("requester_id = ?", student.ID).
		Preload("Project").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListForProject lists a single project's requests; creator only.
func (s *JoinRequestService) ListForProject(userID, projectID uint) ([]models.JoinRequest, error) {
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
		return nil, response.NewForbidden("only the project creator can view its join requests")
	}

	var requests []models.JoinRequest
	if err := s.db.Where("project_id = ?", projectID).
		Preload("Requester").
		Preload("Requester.User").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateStatus resolves a pending request. Acceptance and the membership
// write happen in one transaction so a request is never marked accepted
// without its member row.
func (s *JoinRequestService) UpdateStatus(userID, requestID uint, req *UpdateRequestStatus) (*models.JoinRequest, error) {
	student, err := s.studentForUser(userID)
	if err != nil {
		return nil, err
	}

	var request models.JoinRequest
	err = s.db.Preload("Project").Preload("Requester").First(&request, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("join request not found")
	}
	if err != nil {
		return nil, err
	}

	if request.Project == nil || request.Project.CreatorID != student.ID {
		return nil, response.NewForbidden("only the project creator can resolve this request")
	}
	if request.Status != models.RequestPending {
		return nil, response.NewBadRequest("request has already been resolved")
	}

	now := time.Now()

	if req.Status == models.RequestAccepted {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			var existing int64
			tx.Model(&models.ProjectMember{}).
				Where("project_id = ? AND student_id = ?", request.ProjectID, request.RequesterID).
				Count(&existing)
			if existing == 0 {
				member := models.ProjectMember{
					ProjectID: request.ProjectID,
					StudentID: request.RequesterID,
					Role:      normalizeDesiredRole(request.DesiredRole),
				}
				if err := tx.Create(&member).Error; err != nil {
					return err
				}
			}
			return tx.Model(&request).Updates(map[string]interface{}{
				"status":       models.RequestAccepted,
				"responded_at": now,
			}).Error
		})
	} else {
		err = s.db.Model(&request).Updates(map[string]interface{}{
			"status":       models.RequestRejected,
			"responded_at": now,
		}).Error
	}
	if err != nil {
		return nil, err
	}

	request.Status = req.Status
	request.RespondedAt = &now

	if request.Requester != nil && request.Project != nil {
		s.notify.JoinRequestDecided(request.Requester.UserID, request.Project.Title, req.Status, request.ID)
	}

	return &request, nil
}

// normalizeDesiredRole maps the free-text desired role onto a member role.
// Anything mentioning "lead" becomes leader, everything else member.
func normalizeDesiredRole(desired string) string {
	if strings.Contains(strings.ToLower(desired), "lead") {
		return models.MemberRoleLeader
	}
	return models.MemberRoleMember
}
