package main

import (
	"github.com/unihub/unihub/backend/internal/config"
	"github.com/unihub/unihub/backend/internal/handlers"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/internal/services"
	"github.com/unihub/unihub/backend/internal/utils"
	"github.com/unihub/unihub/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg          *config.Config
	emailService *services.EmailService
	taskQueue    services.TaskQueue
	worker       *services.Worker
	scheduler    *services.Scheduler
	authHandler  *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetTokenConfig(&cfg.JWT)
	utils.SetBcryptCost(cfg.Bcrypt.Cost)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize audit logger
	services.InitAuditLogger(models.GetDB())

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	emailService := services.NewEmailService(cfg)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(emailService.Process)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(emailService.Process)
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start email worker")
			}
		}
	}

	// Start token purge and audit cleanup schedules
	scheduler := services.NewScheduler(models.GetDB())
	if err := scheduler.Start(); err != nil {
		logger.Warn().Err(err).Msg("Failed to start scheduler")
	}

	// Create default admin user
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg, emailService)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		cfg:          cfg,
		emailService: emailService,
		taskQueue:    taskQueue,
		worker:       worker,
		scheduler:    scheduler,
		authHandler:  authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("All background services stopped")
}
