package services

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/unihub/unihub/backend/internal/config"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/internal/utils"
	"github.com/unihub/unihub/backend/pkg/response"
	"gorm.io/gorm"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:            "test-access-secret",
		RefreshSecret:     "test-refresh-secret",
		ExpireHour:        24,
		RefreshExpireHour: 168,
	}
}

func newTestAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db, testJWTConfig(), testEmailService())
}

func appStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *response.AppError, got %T: %v", err, err)
	}
	return appErr.HTTPStatus
}

func registerStudent(t *testing.T, svc *AuthService, email string) *models.User {
	t.Helper()
	user, err := svc.Register(&RegisterRequest{
		Name:      "Test Student",
		Email:     email,
		Password:  "password123",
		Role:      models.RoleStudent,
		StudentID: "S-" + email,
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return user
}

func TestRegister_CreatesUnverifiedUserWithProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	user, err := svc.Register(&RegisterRequest{
		Name:      "Alice",
		Email:     "Alice@Uni.EDU",
		Password:  "password123",
		Role:      models.RoleStudent,
		StudentID: "s1000",
		Major:     "Physics",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.Email != "alice@uni.edu" {
		t.Errorf("email = %q, expected normalized lower-case", user.Email)
	}
	if user.IsVerified {
		t.Error("new accounts must start unverified")
	}
	if user.VerificationToken == "" || user.VerificationExpires == nil {
		t.Error("verification token and expiry must be set")
	}
	if !utils.IsBcryptHash(user.Password) {
		t.Error("password must be stored as a bcrypt hash")
	}

	var student models.Student
	if err := db.Where("user_id = ?", user.ID).First(&student).Error; err != nil {
		t.Fatalf("student profile not created: %v", err)
	}
	if student.Major != "Physics" {
		t.Errorf("student major = %q, expected %q", student.Major, "Physics")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	registerStudent(t, svc, "dup@uni.edu")

	_, err := svc.Register(&RegisterRequest{
		Name:      "Other",
		Email:     "DUP@uni.edu",
		Password:  "password123",
		Role:      models.RoleStudent,
		StudentID: "s2000",
	})
	if err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}
	if status := appStatus(t, err); status != http.StatusConflict {
		t.Errorf("status = %d, expected %d", status, http.StatusConflict)
	}
}

func TestRegister_ClosedRegistration(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	if err := NewSystemConfigService(db).Set("registration_open", "false"); err != nil {
		t.Fatalf("failed to close registration: %v", err)
	}

	_, err := svc.Register(&RegisterRequest{
		Name:     "Late",
		Email:    "late@uni.edu",
		Password: "password123",
		Role:     models.RoleStudent,
	})
	if err == nil {
		t.Fatal("expected registration to be closed")
	}
	if status := appStatus(t, err); status != http.StatusForbidden {
		t.Errorf("status = %d, expected %d", status, http.StatusForbidden)
	}
}

func TestVerifyEmail_Flow(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	user := registerStudent(t, svc, "verify@uni.edu")

	verified, err := svc.VerifyEmail(user.VerificationToken)
	if err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	if !verified.IsVerified {
		t.Error("user should be verified")
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.VerificationToken != "" {
		t.Error("verification token should be cleared after use")
	}

	// Second use of the same token must fail.
	if _, err := svc.VerifyEmail(user.VerificationToken); err == nil {
		t.Error("consumed token should not verify again")
	}

	// A welcome notification should have been written.
	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", user.ID, models.NotificationWelcome).
		Count(&count)
	if count != 1 {
		t.Errorf("welcome notifications = %d, expected 1", count)
	}
}

func TestVerifyEmail_ExpiredToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	user := registerStudent(t, svc, "expired@uni.edu")

	past := time.Now().Add(-time.Hour)
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("verification_expires", past)

	_, err := svc.VerifyEmail(user.VerificationToken)
	if err == nil {
		t.Fatal("expected expired token to be rejected")
	}
	if status := appStatus(t, err); status != http.StatusBadRequest {
		t.Errorf("status = %d, expected %d", status, http.StatusBadRequest)
	}
}

func TestResendVerification(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	user := registerStudent(t, svc, "resend@uni.edu")
	oldToken := user.VerificationToken

	if err := svc.ResendVerification("resend@uni.edu"); err != nil {
		t.Fatalf("ResendVerification() error = %v", err)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.VerificationToken == "" || stored.VerificationToken == oldToken {
		t.Error("resend should rotate the verification token")
	}

	if err := svc.ResendVerification("unknown@uni.edu"); err == nil {
		t.Error("unknown email should return an error")
	}
}

func TestLogin_SuccessAfterVerification(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	user := registerStudent(t, svc, "login@uni.edu")
	if _, err := svc.VerifyEmail(user.VerificationToken); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}

	result, err := svc.Login(&LoginRequest{Email: "LOGIN@uni.edu", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Error("login must issue both tokens")
	}

	claims, err := utils.ParseAccessToken(result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("issued access token does not parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != models.RoleStudent {
		t.Errorf("claims = %+v, expected user %d role student", claims, user.ID)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.LastLogin == nil {
		t.Error("last login should be recorded")
	}
}

func TestLogin_Failures(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	user := registerStudent(t, svc, "cases@uni.edu")

	// Unverified account.
	_, err := svc.Login(&LoginRequest{Email: "cases@uni.edu", Password: "password123"})
	if err == nil {
		t.Fatal("unverified login should fail")
	}
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Code != response.CodeNeedsVerification {
		t.Errorf("expected NEEDS_VERIFICATION code, got %v", err)
	}

	if _, err := svc.VerifyEmail(user.VerificationToken); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}

	// Wrong password and unknown user read identically.
	_, errWrong := svc.Login(&LoginRequest{Email: "cases@uni.edu", Password: "wrong-pass"})
	_, errUnknown := svc.Login(&LoginRequest{Email: "ghost@uni.edu", Password: "password123"})
	if errWrong == nil || errUnknown == nil {
		t.Fatal("bad credentials should fail")
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Errorf("unknown-user and bad-password messages must match: %q vs %q",
			errWrong.Error(), errUnknown.Error())
	}

	// Banned account.
	db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"is_banned": true, "ban_reason": "spamming"})
	_, err = svc.Login(&LoginRequest{Email: "cases@uni.edu", Password: "password123"})
	if err == nil {
		t.Fatal("banned login should fail")
	}
	if !errors.As(err, &appErr) || appErr.Code != response.CodeBanned {
		t.Errorf("expected ACCOUNT_BANNED code, got %v", err)
	}
}

func TestLogin_MigratesLegacyPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	// Simulate an account imported with a plaintext password.
	user := models.User{
		Name:       "Legacy",
		Email:      "legacy@uni.edu",
		Password:   "plaintext-secret",
		Role:       models.RoleStudent,
		IsVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed legacy user: %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Email: "legacy@uni.edu", Password: "wrong"}); err == nil {
		t.Fatal("wrong legacy password should fail")
	}

	if _, err := svc.Login(&LoginRequest{Email: "legacy@uni.edu", Password: "plaintext-secret"}); err != nil {
		t.Fatalf("legacy login failed: %v", err)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if !utils.IsBcryptHash(stored.Password) {
		t.Error("legacy password should be re-hashed on successful login")
	}
	if strings.Contains(stored.Password, "plaintext-secret") {
		t.Error("plaintext value must not survive migration")
	}

	// The migrated hash must keep working.
	if _, err := svc.Login(&LoginRequest{Email: "legacy@uni.edu", Password: "plaintext-secret"}); err != nil {
		t.Errorf("login after migration failed: %v", err)
	}
}

func TestRefresh(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	user := registerStudent(t, svc, "refresh@uni.edu")
	if _, err := svc.VerifyEmail(user.VerificationToken); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	result, err := svc.Login(&LoginRequest{Email: "refresh@uni.edu", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	pair, err := svc.Refresh(result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("refresh must issue a full pair")
	}

	// An access token must not be usable as a refresh token.
	if _, err := svc.Refresh(result.Tokens.AccessToken); err == nil {
		t.Error("access token should not refresh")
	}

	// Bans take effect at the next refresh.
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_banned", true)
	if _, err := svc.Refresh(result.Tokens.RefreshToken); err == nil {
		t.Error("banned user should not refresh")
	}
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	user := registerStudent(t, svc, "change@uni.edu")

	err := svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword1",
	})
	if err == nil {
		t.Error("wrong current password should fail")
	}

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "password123",
	})
	if err == nil {
		t.Error("unchanged password should be rejected")
	}

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword1",
	})
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if !utils.CheckPassword("newpassword1", stored.Password) {
		t.Error("new password should verify")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	user := registerStudent(t, svc, "reset@uni.edu")

	// Unknown addresses get the same silent success.
	if err := svc.ForgotPassword("ghost@uni.edu"); err != nil {
		t.Errorf("ForgotPassword(unknown) error = %v", err)
	}

	if err := svc.ForgotPassword("reset@uni.edu"); err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.ResetToken == "" || stored.ResetExpires == nil {
		t.Fatal("reset token and expiry must be set")
	}

	err := svc.ResetPassword(&ResetPasswordRequest{Token: "bogus", NewPassword: "newpassword1"})
	if err == nil {
		t.Error("unknown reset token should fail")
	}

	err = svc.ResetPassword(&ResetPasswordRequest{Token: stored.ResetToken, NewPassword: "newpassword1"})
	if err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	// Single use: the token is cleared.
	err = svc.ResetPassword(&ResetPasswordRequest{Token: stored.ResetToken, NewPassword: "another-pass1"})
	if err == nil {
		t.Error("reset token must be single use")
	}

	db.First(&stored, user.ID)
	if !utils.CheckPassword("newpassword1", stored.Password) {
		t.Error("new password should verify after reset")
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("CreateAdminIfNotExists() error = %v", err)
	}
	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("second call error = %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count != 1 {
		t.Errorf("admin count = %d, expected 1", count)
	}
}
