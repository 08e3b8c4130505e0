package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/unihub/unihub/backend/internal/config"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/internal/utils"
	"github.com/unihub/unihub/backend/pkg/logger"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
	configSvc *SystemConfigService
	email     *EmailService
	notify    *NotificationService
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, email *EmailService) *AuthService {
	return &AuthService{
		db:        db,
		jwtConfig: jwtCfg,
		configSvc: NewSystemConfigService(db),
		email:     email,
		notify:    NewNotificationService(db),
	}
}

type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8,max=128"`
	Role       string `json:"role" binding:"required,oneof=student supervisor"`
	University string `json:"university" binding:"omitempty,max=200"`

	// Student profile fields
	StudentID string  `json:"student_id" binding:"omitempty,max=50"`
	Major     string  `json:"major" binding:"omitempty,max=100"`
	YearLevel int     `json:"year_level" binding:"omitempty,min=1,max=10"`
	GPA       float64 `json:"gpa" binding:"omitempty,gte=0,lte=4"`

	// Supervisor profile fields
	EmployeeID     string `json:"employee_id" binding:"omitempty,max=50"`
	Department     string `json:"department" binding:"omitempty,max=100"`
	Specialization string `json:"specialization" binding:"omitempty,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Tokens *utils.TokenPair `json:"tokens"`
	User   *models.User     `json:"user"`
}

// Register creates an unverified account and queues a verification email.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	if !s.configSvc.RegistrationOpen() {
		return nil, response.NewForbidden("registration is currently closed")
	}

	email := normalizeEmail(req.Email)

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, response.NewConflict("an account with this email already exists")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(verificationTokenTTL)

	user := models.User{
		Name:                req.Name,
		Email:               email,
		Password:            hashed,
		Role:                req.Role,
		University:          req.University,
		VerificationToken:   token,
		VerificationExpires: &expires,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		switch req.Role {
		case models.RoleStudent:
			student := models.Student{
				UserID:    user.ID,
				StudentID: req.StudentID,
				Major:     req.Major,
				YearLevel: req.YearLevel,
				GPA:       req.GPA,
			}
			return tx.Create(&student).Error
		case models.RoleSupervisor:
			supervisor := models.Supervisor{
				UserID:         user.ID,
				EmployeeID:     req.EmployeeID,
				Department:     req.Department,
				Specialization: req.Specialization,
			}
			return tx.Create(&supervisor).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("an account with these details already exists")
		}
		return nil, err
	}

	s.email.QueueVerification(user.Email, user.Name, token)

	return &user, nil
}

// VerifyEmail consumes a verification token and activates the account.
func (s *AuthService) VerifyEmail(token string) (*models.User, error) {
	if token == "" {
		return nil, response.NewBadRequest("verification token required")
	}

	var user models.User
	err := s.db.Where("verification_token = ?", token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewBadRequest("invalid or expired verification token")
	}
	if err != nil {
		return nil, err
	}

	if user.IsVerified {
		return nil, response.NewBadRequest("email is already verified")
	}
	if user.VerificationExpires == nil || time.Now().After(*user.VerificationExpires) {
		return nil, response.NewBadRequest("invalid or expired verification token")
	}

	updates := map[string]interface{}{
		"is_verified":          true,
		"verification_token":   "",
		"verification_expires": nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	user.IsVerified = true

	s.notify.Welcome(user.ID, user.Name)
	s.email.QueueWelcome(user.Email, user.Name)

	return &user, nil
}

// ResendVerification rotates the verification token for an unverified account.
func (s *AuthService) ResendVerification(email string) error {
	var user models.User
	err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFound("no account found for this email")
	}
	if err != nil {
		return err
	}

	if user.IsVerified {
		return response.NewBadRequest("email is already verified")
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return err
	}
	expires := time.Now().Add(verificationTokenTTL)

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"verification_token":   token,
		"verification_expires": expires,
	}).Error; err != nil {
		return err
	}

	s.email.QueueVerification(user.Email, user.Name, token)
	return nil
}

// Login authenticates by email and password and issues a token pair.
// Stored passwords without a bcrypt prefix are treated as legacy values,
// compared directly and transparently re-hashed on a successful match.
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	var user models.User
	err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewUnauthorized("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if !s.verifyPassword(&user, req.Password) {
		return nil, response.NewUnauthorized("invalid email or password")
	}

	if user.IsBanned {
		reason := user.BanReason
		if reason == "" {
			reason = "account suspended"
		}
		return nil, response.NewForbiddenCode("account is banned", response.CodeBanned,
			map[string]interface{}{"ban_reason": reason})
	}

	if !user.IsVerified {
		return nil, response.NewForbiddenCode("email not verified", response.CodeNeedsVerification,
			map[string]interface{}{"needs_verification": true})
	}

	tokens, err := s.issueTokens(&user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		logger.Warnf("[Auth] failed to record last login for user %d: %v", user.ID, err)
	}

	return &LoginResult{Tokens: tokens, User: &user}, nil
}

func (s *AuthService) verifyPassword(user *models.User, password string) bool {
	if utils.IsBcryptHash(user.Password) {
		return utils.CheckPassword(password, user.Password)
	}

	// Legacy plaintext value imported from the old platform.
	if user.Password == "" || user.Password != password {
		return false
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		logger.Warnf("[Auth] failed to re-hash legacy password for user %d: %v", user.ID, err)
		return true
	}
	if err := s.db.Model(user).Update("password", hashed).Error; err != nil {
		logger.Warnf("[Auth] failed to persist migrated password for user %d: %v", user.ID, err)
		return true
	}
	user.Password = hashed
	logger.Infof("[Auth] migrated legacy password for user %d", user.ID)
	return true
}

// Refresh validates a refresh token and issues a fresh pair. Account state
// is re-checked so a ban takes effect at the next refresh.
func (s *AuthService) Refresh(refreshToken string) (*utils.TokenPair, error) {
	if refreshToken == "" {
		return nil, response.NewBadRequest("refresh token required")
	}

	claims, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, response.NewUnauthorizedCode("refresh token expired", response.CodeTokenExpired)
		}
		return nil, response.NewUnauthorized("invalid refresh token")
	}

	var user models.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid refresh token")
		}
		return nil, err
	}

	if user.IsBanned {
		return nil, response.NewForbiddenCode("account is banned", response.CodeBanned, nil)
	}

	return s.issueTokens(&user)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("user not found")
		}
		return err
	}

	if !s.verifyPassword(&user, req.CurrentPassword) {
		return response.NewUnauthorized("current password is incorrect")
	}
	if req.NewPassword == req.CurrentPassword {
		return response.NewBadRequest("new password must differ from the current password")
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.db.Model(&user).Update("password", hashed).Error
}

// ForgotPassword issues a reset token for known accounts. The caller always
// gets the same generic success message so the endpoint cannot be used to
// probe which emails are registered.
func (s *AuthService) ForgotPassword(email string) error {
	var user models.User
	err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return err
	}
	expires := time.Now().Add(resetTokenTTL)

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"reset_token":   token,
		"reset_expires": expires,
	}).Error; err != nil {
		return err
	}

	s.email.QueuePasswordReset(user.Email, user.Name, token)
	return nil
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// ResetPassword consumes a single-use reset token.
func (s *AuthService) ResetPassword(req *ResetPasswordRequest) error {
	var user models.User
	err := s.db.Where("reset_token = ?", req.Token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewBadRequest("invalid or expired reset token")
	}
	if err != nil {
		return err
	}

	if user.ResetExpires == nil || time.Now().After(*user.ResetExpires) {
		return response.NewBadRequest("invalid or expired reset token")
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.db.Model(&user).Updates(map[string]interface{}{
		"password":      hashed,
		"reset_token":   "",
		"reset_expires": nil,
	}).Error
}

// GetUserByID retrieves a user by ID.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// CreateAdminIfNotExists seeds a default admin account on first boot.
func (s *AuthService) CreateAdminIfNotExists() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword("changeme-admin")
	if err != nil {
		return err
	}

	admin := models.User{
		Name:       "Administrator",
		Email:      "admin@unihub.local",
		Password:   hashed,
		Role:       models.RoleAdmin,
		IsVerified: true,
	}
	return s.db.Create(&admin).Error
}

func (s *AuthService) issueTokens(user *models.User) (*utils.TokenPair, error) {
	accessTTL := s.accessTTL()
	refreshTTL := s.refreshTTL()
	return utils.GenerateTokenPair(user.ID, user.Email, user.Role, user.Name, accessTTL, refreshTTL)
}

func (s *AuthService) accessTTL() time.Duration {
	defaultHours := s.jwtConfig.ExpireHour
	value := s.configSvc.GetWithDefault("auth_access_token_expire_hours", strconv.Itoa(defaultHours))
	hours, err := strconv.Atoi(value)
	if err != nil || hours <= 0 {
		hours = defaultHours
	}
	return time.Duration(hours) * time.Hour
}

func (s *AuthService) refreshTTL() time.Duration {
	defaultHours := s.jwtConfig.RefreshExpireHour
	value := s.configSvc.GetWithDefault("auth_refresh_token_expire_hours", strconv.Itoa(defaultHours))
	hours, err := strconv.Atoi(value)
	if err != nil || hours <= 0 {
		hours = defaultHours
	}
	return time.Duration(hours) * time.Hour
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
