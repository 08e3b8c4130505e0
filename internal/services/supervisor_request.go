package services

import (
	"errors"
	"time"

	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

// SupervisorRequestService implements the supervision approval workflow:
// a project creator asks a specific supervisor, the supervisor decides.
type SupervisorRequestService struct {
	db     *gorm.DB
	notify *NotificationService
}

func NewSupervisorRequestService(db *gorm.DB) *SupervisorRequestService {
	return &SupervisorRequestService{db: db, notify: NewNotificationService(db)}
}

type CreateSupervisorRequest struct {
	ProjectID    uint   `json:"project_id" binding:"required"`
	SupervisorID uint   `json:"supervisor_id" binding:"required"`
	Message      string `json:"message" binding:"omitempty,max=500"`
}

func (s *SupervisorRequestService) supervisorForUser(userID uint) (*models.Supervisor, error) {
	var supervisor models.Supervisor
	err := s.db.Where("user_id = ?", userID).First(&supervisor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewForbidden("a supervisor profile is required for this action")
	}
	if err != nil {
		return nil, err
	}
	return &supervisor, nil
}

// Create files a supervision request; only the project creator may ask.
func (s *SupervisorRequestService) Create(userID uint, req *CreateSupervisorRequest) (*models.SupervisorRequest, error) {
	var student models.Student
	err := s.db.Where("user_id = ?", userID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewForbidden("a student profile is required for this action")
	}
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
	if project.CreatorID != student.ID {
		return nil, response.NewForbidden("only the project creator can request supervision")
	}

	var supervisor models.Supervisor
	if err := s.db.Preload("User").First(&supervisor, req.SupervisorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewBadRequest("invalid supervisor id")
		}
		return nil, err
	}

	var pendingCount int64
	s.db.Model(&models.SupervisorRequest{}).
		Where("project_id = ? AND supervisor_id = ? AND status = ?", project.ID, supervisor.ID, models.RequestPending).
		Count(&pendingCount)
	if pendingCount > 0 {
		return nil, response.NewConflict("a pending supervision request already exists for this supervisor")
	}

	request := models.SupervisorRequest{
		ProjectID:    project.ID,
		SupervisorID: supervisor.ID,
		Message:      req.Message,
		Status:       models.RequestPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("a pending supervision request already exists for this supervisor")
		}
		return nil, err
	}

	s.notify.SupervisionRequested(supervisor.UserID, project.Title, request.ID)

	return &request, nil
}

// Inbox lists requests addressed to the acting supervisor.
func (s *SupervisorRequestService) Inbox(userID uint, status string) ([]models.SupervisorRequest, error) {
	supervisor, err := s.supervisorForUser(userID)
	if err != nil {
		return nil, err
	}

	query := s.db.Where("supervisor_id = ?", supervisor.ID).
		Preload("Project").
		Preload("Project.Creator").
		Preload("Project.Creator.User")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.SupervisorRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateStatus resolves a pending request; only the addressed supervisor
// may decide. Acceptance assigns the supervisor to the project in the same
// transaction that flips the status.
func (s *SupervisorRequestService) UpdateStatus(userID, requestID uint, req *UpdateRequestStatus) (*models.SupervisorRequest, error) {
	supervisor, err := s.supervisorForUser(userID)
	if err != nil {
		return nil, err
	}

	var request models.SupervisorRequest
	err = s.db.Preload("Project").Preload("Project.Creator").First(&request, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("supervision request not found")
	}
	if err != nil {
		return nil, err
	}

	if request.SupervisorID != supervisor.ID {
		return nil, response.NewForbidden("only the addressed supervisor can resolve this request")
	}
	if request.Status != models.RequestPending {
		return nil, response.NewBadRequest("request has already been resolved")
	}

	now := time.Now()

	if req.Status == models.RequestAccepted {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Project{}).
				Where("id = ?", request.ProjectID).
				Update("supervisor_id", supervisor.ID).Error; err != nil {
				return err
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

	if request.Project != nil && request.Project.Creator != nil {
		s.notify.SupervisionDecided(request.Project.Creator.UserID, request.Project.Title, req.Status, request.ID)
	}

	return &request, nil
}
