package services

import (
	"testing"

	"github.com/unihub/unihub/backend/internal/config"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	utils.SetBcryptCost(10)
	utils.SetTokenConfig(&config.JWTConfig{
		Secret:            "test-access-secret",
		RefreshSecret:     "test-refresh-secret",
		ExpireHour:        24,
		RefreshExpireHour: 168,
	})
}

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Supervisor{},
		&models.Project{},
		&models.ProjectMember{},
		&models.JoinRequest{},
		&models.SupervisorRequest{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.Feedback{},
		&models.PlannerEntry{},
		&models.Notification{},
		&models.AuditLog{},
		&models.SystemConfig{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func testEmailService() *EmailService {
	return NewEmailService(config.DefaultConfig())
}

// createStudent inserts a verified student user plus profile and returns both.
func createStudent(t *testing.T, db *gorm.DB, email, studentID string) (*models.User, *models.Student) {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Name:       "Student " + studentID,
		Email:      email,
		Password:   hashed,
		Role:       models.RoleStudent,
		University: "Example University",
		IsVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	student := models.Student{
		UserID:    user.ID,
		StudentID: studentID,
		Major:     "Computer Science",
		YearLevel: 3,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}

	return &user, &student
}

// createSupervisor inserts a verified supervisor user plus profile.
func createSupervisor(t *testing.T, db *gorm.DB, email, employeeID string) (*models.User, *models.Supervisor) {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Name:       "Supervisor " + employeeID,
		Email:      email,
		Password:   hashed,
		Role:       models.RoleSupervisor,
		University: "Example University",
		IsVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	supervisor := models.Supervisor{
		UserID:     user.ID,
		EmployeeID: employeeID,
		Department: "Engineering",
	}
	if err := db.Create(&supervisor).Error; err != nil {
		t.Fatalf("failed to create supervisor: %v", err)
	}

	return &user, &supervisor
}

// createProject inserts a project owned by the given student.
func createProject(t *testing.T, db *gorm.DB, creator *models.Student, title string) *models.Project {
	t.Helper()

	project := models.Project{
		Title:      title,
		CreatorID:  creator.ID,
		Status:     models.ProjectPlanning,
		Visibility: models.VisibilityPublic,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return &project
}
