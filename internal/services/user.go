package services

import (
	"errors"

	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

// UserService covers admin user management: listing, ban/unban, role changes.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Role     string `form:"role" binding:"omitempty,oneof=student supervisor admin"`
	Banned   *bool  `form:"banned"`
	Verified *bool  `form:"verified"`
	Search   string `form:"search"`
}

type UserListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.User `json:"items"`
}

func (s *UserService) List(req *UserListRequest) (*UserListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.User{})

	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}
	if req.Banned != nil {
		query = query.Where("is_banned = ?", *req.Banned)
	}
	if req.Verified != nil {
		query = query.Where("is_verified = ?", *req.Verified)
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}

	return &UserListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    users,
	}, nil
}

func (s *UserService) getUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// Ban suspends an account. Admins cannot ban themselves or other admins.
func (s *UserService) Ban(adminID, targetID uint, reason string) (*models.User, error) {
	if adminID == targetID {
		return nil, response.NewForbidden("you cannot ban your own account")
	}

	user, err := s.getUser(targetID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, response.NewForbidden("admin accounts cannot be banned")
	}
	if user.IsBanned {
		return nil, response.NewBadRequest("user is already banned")
	}

	if reason == "" {
		reason = "terms of service violation"
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"is_banned":  true,
		"ban_reason": reason,
	}).Error; err != nil {
		return nil, err
	}

	user.IsBanned = true
	user.BanReason = reason
	return user, nil
}

// Unban lifts a suspension and clears the stored reason.
func (s *UserService) Unban(targetID uint) (*models.User, error) {
	user, err := s.getUser(targetID)
	if err != nil {
		return nil, err
	}
	if !user.IsBanned {
		return nil, response.NewBadRequest("user is not banned")
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"is_banned":  false,
		"ban_reason": "",
	}).Error; err != nil {
		return nil, err
	}

	user.IsBanned = false
	user.BanReason = ""
	return user, nil
}

// SetRole changes a user's role. Admins cannot change their own role.
func (s *UserService) SetRole(adminID, targetID uint, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, response.NewBadRequest("invalid role")
	}
	if adminID == targetID {
		return nil, response.NewForbidden("you cannot change your own role")
	}

	user, err := s.getUser(targetID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return nil, response.NewBadRequest("user already has this role")
	}

	if err := s.db.Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}

	user.Role = role
	return user, nil
}
