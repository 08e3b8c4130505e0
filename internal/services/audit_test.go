package services

import (
	"testing"
	"time"

	"github.com/unihub/unihub/backend/internal/models"
)

func TestAuditLog_WriteAndList(t *testing.T) {
	db := setupTestDB(t)
	InitAuditLogger(db)
	defer InitAuditLogger(nil)

	uid := uint(7)
	AuditInfo("Users", "Create", "created a user", &uid, "127.0.0.1", "test-agent", map[string]interface{}{"k": "v"})
	AuditWarning("Users", "Delete", "deleted a user", &uid, "127.0.0.1", "test-agent", nil)
	AuditError("Auth", "Login", "login failed", nil, "10.0.0.1", "test-agent", nil)

	svc := NewAuditLogService(db)

	all, err := svc.List(&AuditLogListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if all.Total != 3 {
		t.Fatalf("total = %d, expected 3", all.Total)
	}

	byLevel, err := svc.List(&AuditLogListRequest{Level: "error"})
	if err != nil {
		t.Fatalf("List(level) error = %v", err)
	}
	if byLevel.Total != 1 || byLevel.Items[0].Module != "Auth" {
		t.Errorf("level filter = %+v, expected the single error entry", byLevel.Items)
	}

	byUser, err := svc.List(&AuditLogListRequest{UserID: uid})
	if err != nil {
		t.Fatalf("List(user) error = %v", err)
	}
	if byUser.Total != 2 {
		t.Errorf("user filter total = %d, expected 2", byUser.Total)
	}

	modules, err := svc.GetModules()
	if err != nil {
		t.Fatalf("GetModules() error = %v", err)
	}
	if len(modules) != 2 {
		t.Errorf("modules = %v, expected 2 distinct", modules)
	}
}

func TestAuditLog_Cleanup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuditLogService(db)

	old := models.AuditLog{Level: "info", Module: "Users", Message: "old", CreatedAt: time.Now().AddDate(0, 0, -120)}
	fresh := models.AuditLog{Level: "info", Module: "Users", Message: "fresh", CreatedAt: time.Now()}
	for _, entry := range []*models.AuditLog{&old, &fresh} {
		if err := db.Create(entry).Error; err != nil {
			t.Fatalf("failed to seed entry: %v", err)
		}
	}

	deleted, err := svc.CleanupOldLogs(90)
	if err != nil {
		t.Fatalf("CleanupOldLogs() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, expected 1", deleted)
	}

	// Disabled retention is a no-op.
	deleted, err = svc.CleanupOldLogs(0)
	if err != nil || deleted != 0 {
		t.Errorf("CleanupOldLogs(0) = (%d, %v), expected no-op", deleted, err)
	}
}

func TestAuditLog_RetentionDaysFromConfig(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuditLogService(db)

	if got := svc.GetRetentionDays(); got != 90 {
		t.Errorf("default retention = %d, expected 90", got)
	}

	NewSystemConfigService(db).Set("audit_retention_days", "30")
	if got := svc.GetRetentionDays(); got != 30 {
		t.Errorf("retention = %d, expected 30", got)
	}

	NewSystemConfigService(db).Set("audit_retention_days", "junk")
	if got := svc.GetRetentionDays(); got != 90 {
		t.Errorf("retention on bad value = %d, expected fallback 90", got)
	}
}

func TestScheduler_PurgeExpiredTokens(t *testing.T) {
	db := setupTestDB(t)
	scheduler := NewScheduler(db)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := models.User{
		Name: "Expired", Email: "e@uni.edu", Role: models.RoleStudent,
		VerificationToken: "tok-expired", VerificationExpires: &past,
		ResetToken: "rst-expired", ResetExpires: &past,
	}
	valid := models.User{
		Name: "Valid", Email: "v@uni.edu", Role: models.RoleStudent,
		VerificationToken: "tok-valid", VerificationExpires: &future,
	}
	for _, u := range []*models.User{&expired, &valid} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	scheduler.PurgeExpiredTokens()

	var stored models.User
	db.First(&stored, expired.ID)
	if stored.VerificationToken != "" || stored.ResetToken != "" {
		t.Error("expired tokens should be purged")
	}

	stored = models.User{}
	db.First(&stored, valid.ID)
	if stored.VerificationToken != "tok-valid" {
		t.Error("unexpired tokens must survive the purge")
	}
}
