package main

import (
	"context"

	"github.com/replydeck/backend/internal/config"
	"github.com/replydeck/backend/internal/handlers"
	"github.com/replydeck/backend/internal/models"
	"github.com/replydeck/backend/internal/services"
	"github.com/replydeck/backend/internal/utils"
	"github.com/replydeck/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	autoReplyService *services.AutoReplyService
	schedulerService *services.SchedulerService
	taskQueue        services.TaskQueue
	worker           *services.Worker

	authHandler      *handlers.AuthHandler
	commentHandler   *handlers.CommentHandler
	replyHandler     *handlers.ReplyHandler
	autoReplyHandler *handlers.AutoReplyHandler
	llmConfigHandler *handlers.LLMConfigHandler
	dashboardHandler *handlers.DashboardHandler
	systemHandler    *handlers.SystemHandler
	userHandler      *handlers.UserHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

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

	db := models.GetDB()

	// Initialize system logger and log retention
	services.InitSystemLogger(db)
	services.StartLogCleanupScheduler(db)

	// Pipeline services
	classifier := services.NewClassifierService()
	holidayService := services.NewHolidayService()
	workingHours := services.NewWorkingHoursService(holidayService)
	eligibility := services.NewEligibilityService(workingHours)

	settingsService := services.NewSettingsService(db)
	commentService := services.NewCommentService(db)
	replyService := services.NewReplyService(db)
	generatorService := services.NewGeneratorService(db, &cfg.Generator)
	platformService := services.NewPlatformService(&cfg.Platform)

	autoReplyService := services.NewAutoReplyService(
		db,
		settingsService,
		commentService,
		replyService,
		generatorService,
		platformService,
		classifier,
		eligibility,
	)

	runProcessor := func(ctx context.Context, task *services.AutoReplyTask) error {
		_, err := autoReplyService.RunWithID(ctx, task.Trigger, task.RunID)
		return err
	}

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(runProcessor)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(runProcessor)
			worker.Start()
		}
	}

	// Start the cron scheduler for periodic runs
	schedulerService := services.NewSchedulerService(db, taskQueue)
	schedulerService.Start()

	// Create default admin user
	authService := services.NewAuthService(db, &cfg.JWT, &cfg.LDAP)
	if err := authService.CreateAdminIfNotExists("admin", "admin123"); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	llmConfigService := services.NewLLMConfigService(db)
	configService := services.NewSystemConfigService(db)
	logService := services.NewSystemLogService(db)

	return &appServices{
		autoReplyService: autoReplyService,
		schedulerService: schedulerService,
		taskQueue:        taskQueue,
		worker:           worker,
		authHandler:      handlers.NewAuthHandler(authService),
		commentHandler:   handlers.NewCommentHandler(db),
		replyHandler:     handlers.NewReplyHandler(db),
		autoReplyHandler: handlers.NewAutoReplyHandler(settingsService, autoReplyService, holidayService),
		llmConfigHandler: handlers.NewLLMConfigHandler(llmConfigService, generatorService),
		dashboardHandler: handlers.NewDashboardHandler(db),
		systemHandler:    handlers.NewSystemHandler(configService, logService, schedulerService),
		userHandler:      handlers.NewUserHandler(db),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.schedulerService != nil {
		s.schedulerService.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("All background services stopped")
}
