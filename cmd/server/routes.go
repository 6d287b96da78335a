package main

import (
	"github.com/gin-gonic/gin"
	"github.com/replydeck/backend/internal/handlers"
	"github.com/replydeck/backend/internal/middleware"
	"github.com/replydeck/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public ingestion endpoint
	ingestLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", handlers.Health)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Comment ingestion (public, rate limited; platform webhooks hit this)
		ingest := api.Group("", ingestLimiter.Middleware())
		{
			ingest.POST("/comments/ingest", svc.commentHandler.Create)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Dashboard
			protected.GET("/dashboard/stats", svc.dashboardHandler.GetStats)
			protected.GET("/dashboard/reply-trend", svc.dashboardHandler.GetReplyTrend)

			// Comments
			protected.GET("/comments", svc.commentHandler.List)
			protected.GET("/comments/:id", svc.commentHandler.GetByID)
			protected.PUT("/comments/:id/status", svc.commentHandler.UpdateStatus)
			protected.DELETE("/comments/:id", svc.commentHandler.Delete)
			protected.GET("/comments/:id/replies", svc.replyHandler.ListByComment)

			// Replies
			protected.GET("/replies", svc.replyHandler.List)
			protected.POST("/replies/manual", svc.replyHandler.CreateManual)

			// Auto-reply
			protected.GET("/auto-reply/settings", svc.autoReplyHandler.GetSettings)
			protected.PUT("/auto-reply/settings", svc.autoReplyHandler.UpdateSettings)
			protected.POST("/auto-reply/trigger", middleware.RateLimit(1, 5), svc.autoReplyHandler.Trigger)
			protected.GET("/auto-reply/runs", svc.autoReplyHandler.ListRuns)
			protected.GET("/auto-reply/runs/:run_id", svc.autoReplyHandler.GetRun)
			protected.GET("/auto-reply/countries", svc.autoReplyHandler.GetCountries)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// LLM Configs
			admin.GET("/llm-configs", svc.llmConfigHandler.List)
			admin.GET("/llm-configs/:id", svc.llmConfigHandler.GetByID)
			admin.POST("/llm-configs", svc.llmConfigHandler.Create)
			admin.PUT("/llm-configs/:id", svc.llmConfigHandler.Update)
			admin.DELETE("/llm-configs/:id", svc.llmConfigHandler.Delete)
			admin.POST("/llm-configs/:id/test", svc.llmConfigHandler.Test)

			// Users
			admin.GET("/users", svc.userHandler.List)
			admin.PUT("/users/:id", svc.userHandler.Update)
			admin.DELETE("/users/:id", svc.userHandler.Delete)

			// Scheduler config
			admin.GET("/system/scheduler", svc.systemHandler.GetSchedulerConfig)
			admin.PUT("/system/scheduler", svc.systemHandler.UpdateSchedulerConfig)

			// System Logs
			admin.GET("/system-logs", svc.systemHandler.ListLogs)
			admin.GET("/system-logs/modules", svc.systemHandler.GetLogModules)
		}
	}
}
