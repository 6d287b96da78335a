package services

import (
	"strconv"

	"github.com/replydeck/backend/internal/models"
	"gorm.io/gorm"
)

type SystemConfigService struct {
	db *gorm.DB
}

func NewSystemConfigService(db *gorm.DB) *SystemConfigService {
	return &SystemConfigService{db: db}
}

func (s *SystemConfigService) Get(key string) (string, error) {
	var cfg models.SystemConfig
	if err := s.db.Where("`key` = ?", key).First(&cfg).Error; err != nil {
		return "", err
	}
	return cfg.Value, nil
}

func (s *SystemConfigService) GetWithDefault(key, defaultValue string) string {
	value, err := s.Get(key)
	if err != nil {
		return defaultValue
	}
	return value
}

func (s *SystemConfigService) GetIntWithDefault(key string, defaultValue int) int {
	val, err := strconv.Atoi(s.GetWithDefault(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return val
}

func (s *SystemConfigService) Set(key, value string) error {
	var cfg models.SystemConfig
	err := s.db.Where("`key` = ?", key).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		cfg = models.SystemConfig{
			Key:   key,
			Value: value,
		}
		return s.db.Create(&cfg).Error
	}
	if err != nil {
		return err
	}
	return s.db.Model(&cfg).Update("value", value).Error
}

func (s *SystemConfigService) GetByGroup(group string) ([]models.SystemConfig, error) {
	var configs []models.SystemConfig
	if err := s.db.Where("`group` = ?", group).Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// SchedulerConfigResponse is the runtime scheduler configuration.
type SchedulerConfigResponse struct {
	Enabled         bool `json:"enabled"`
	IntervalMinutes int  `json:"interval_minutes"`
}

func (s *SystemConfigService) GetSchedulerConfig() *SchedulerConfigResponse {
	return &SchedulerConfigResponse{
		Enabled:         s.GetWithDefault("auto_reply_scheduler_enabled", "true") == "true",
		IntervalMinutes: s.GetIntWithDefault("auto_reply_interval_minutes", 5),
	}
}

type UpdateSchedulerConfigRequest struct {
	Enabled         *bool `json:"enabled"`
	IntervalMinutes *int  `json:"interval_minutes"`
}

func (s *SystemConfigService) UpdateSchedulerConfig(req *UpdateSchedulerConfigRequest) error {
	if req.Enabled != nil {
		if err := s.Set("auto_reply_scheduler_enabled", strconv.FormatBool(*req.Enabled)); err != nil {
			return err
		}
	}
	if req.IntervalMinutes != nil {
		if err := s.Set("auto_reply_interval_minutes", strconv.Itoa(*req.IntervalMinutes)); err != nil {
			return err
		}
	}
	return nil
}
