package main

import (
	"github.com/gin-gonic/gin"
	"github.com/unihub/unihub/backend/internal/handlers"
	"github.com/unihub/unihub/backend/internal/middleware"
	"github.com/unihub/unihub/backend/internal/models"
	"github.com/unihub/unihub/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	db := models.GetDB()

	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.CheckHealth)

		// Auth routes (public, rate limited against credential stuffing)
		auth := api.Group("/auth", middleware.RateLimit(5, 10))
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.GET("/verify-email", svc.authHandler.VerifyEmail)
			auth.POST("/resend-verification", svc.authHandler.ResendVerification)
			auth.POST("/forgot-password", svc.authHandler.ForgotPassword)
			auth.POST("/reset-password", svc.authHandler.ResetPassword)
		}

		// Project browsing works anonymously; visibility filtering narrows
		// what each viewer sees.
		projectHandler := handlers.NewProjectHandler(db)
		browse := api.Group("", middleware.OptionalAuth())
		{
			browse.GET("/projects", projectHandler.List)
			browse.GET("/projects/:id", projectHandler.Get)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Projects
			protected.POST("/projects", projectHandler.Create)
			protected.PATCH("/projects/:id", projectHandler.Update)
			protected.DELETE("/projects/:id", projectHandler.Delete)
			protected.GET("/projects/:id/members", projectHandler.Members)
			protected.DELETE("/projects/:id/members/:studentId", projectHandler.RemoveMember)

			// Project feedback
			feedbackHandler := handlers.NewFeedbackHandler(db)
			protected.POST("/projects/:id/feedback", feedbackHandler.Create)
			protected.GET("/projects/:id/feedback", feedbackHandler.List)
			protected.DELETE("/feedback/:id", feedbackHandler.Delete)

			// Join requests
			joinRequestHandler := handlers.NewJoinRequestHandler(db)
			protected.POST("/join-requests", joinRequestHandler.Create)
			protected.GET("/join-requests/inbox", joinRequestHandler.Inbox)
			protected.GET("/join-requests/mine", joinRequestHandler.ListMine)
			protected.GET("/join-requests/project/:projectId", joinRequestHandler.ListForProject)
			protected.PATCH("/join-requests/:id/status", joinRequestHandler.UpdateStatus)

			// Supervisor requests
			supervisorRequestHandler := handlers.NewSupervisorRequestHandler(db)
			protected.POST("/supervisor-requests", supervisorRequestHandler.Create)
			protected.GET("/supervisor-requests/inbox", supervisorRequestHandler.Inbox)
			protected.PATCH("/supervisor-requests/:id/status", supervisorRequestHandler.UpdateStatus)

			// Profiles
			profileHandler := handlers.NewProfileHandler(db)
			protected.GET("/students", profileHandler.ListStudents)
			protected.PATCH("/students/me", profileHandler.UpdateStudent)
			protected.GET("/students/:id", profileHandler.GetStudent)
			protected.GET("/supervisors", profileHandler.ListSupervisors)
			protected.PATCH("/supervisors/me", profileHandler.UpdateSupervisor)
			protected.GET("/supervisors/:id", profileHandler.GetSupervisor)

			// Conversations and messages
			messageHandler := handlers.NewMessageHandler(db)
			protected.POST("/conversations", messageHandler.CreateConversation)
			protected.GET("/conversations", messageHandler.ListConversations)
			protected.POST("/conversations/:id/messages", messageHandler.Send)
			protected.GET("/conversations/:id/messages", messageHandler.Messages)
			protected.POST("/conversations/:id/read", messageHandler.MarkRead)

			// Planner
			plannerHandler := handlers.NewPlannerHandler(db)
			protected.GET("/planner", plannerHandler.List)
			protected.PUT("/planner/:bucket", plannerHandler.Put)
			protected.GET("/planner/:bucket", plannerHandler.Get)
			protected.DELETE("/planner/:bucket", plannerHandler.Delete)

			// Notifications
			notificationHandler := handlers.NewNotificationHandler(db)
			protected.GET("/notifications", notificationHandler.List)
			protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)
			protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
		}

		// Admin only routes, all writes audit logged
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin), middleware.AuditLog())
		{
			// Users
			userHandler := handlers.NewUserHandler(db)
			admin.GET("/users", userHandler.List)
			admin.POST("/users/:id/ban", userHandler.Ban)
			admin.POST("/users/:id/unban", userHandler.Unban)
			admin.PUT("/users/:id/role", userHandler.SetRole)

			// Audit logs
			adminHandler := handlers.NewAdminHandler(db)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
			admin.GET("/audit-logs/modules", adminHandler.ListAuditModules)

			// Platform settings
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.UpdateSetting)
		}
	}
}
