package models

import (
	"fmt"

	"github.com/replydeck/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Comment{},
		&Reply{},
		&AutoReplySetting{},
		&AutoReplyRun{},
		&LLMConfig{},
		&SystemConfig{},
		&SystemLog{},
		&SchedulerLock{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates default data if not exists
func SeedDefaultData() error {
	// Default auto-reply settings row (disabled until configured)
	var settingCount int64
	DB.Model(&AutoReplySetting{}).Count(&settingCount)
	if settingCount == 0 {
		defaults := AutoReplySetting{
			OwnerID:               0,
			Enabled:               false,
			ConfidenceThreshold:   0.8,
			AutoReplyCategories:   "thank_you,compliment",
			MaxTimeInQueueMinutes: 60,
			WorkingHoursOnly:      true,
			MaxDailyAutoReplies:   50,
			CandidateCount:        1,
			MaxReplyLength:        280,
			Temperature:           0.7,
			HolidayCountry:        "NONE",
		}
		if err := DB.Create(&defaults).Error; err != nil {
			return err
		}
	}

	// Default system configs
	defaultConfigs := []SystemConfig{
		{Key: "auto_reply_interval_minutes", Value: "5", Type: "int", Group: "scheduler", Label: "Auto-Reply Run Interval (minutes)"},
		{Key: "auto_reply_scheduler_enabled", Value: "true", Type: "bool", Group: "scheduler", Label: "Enable Scheduled Auto-Reply Runs"},
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
	}

	for _, cfg := range defaultConfigs {
		var count int64
		DB.Model(&SystemConfig{}).Where("`key` = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
