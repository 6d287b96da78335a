package services

import (
	"fmt"

	"github.com/replydeck/backend/internal/models"
	"gorm.io/gorm"
)

// SettingsService persists the auto-reply policy. A single row is used; it
// is created with safe defaults on first read.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the auto-reply settings, creating the default (disabled) row
// if none exists yet.
func (s *SettingsService) Get() (*models.AutoReplySetting, error) {
	var setting models.AutoReplySetting
	err := s.db.Order("id ASC").First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		setting = models.AutoReplySetting{
			Enabled:               false,
			ConfidenceThreshold:   0.8,
			AutoReplyCategories:   CategoryThankYou + "," + CategoryCompliment,
			MaxTimeInQueueMinutes: 60,
			WorkingHoursOnly:      true,
			MaxDailyAutoReplies:   50,
			CandidateCount:        1,
			MaxReplyLength:        280,
			Temperature:           0.7,
			HolidayCountry:        "NONE",
		}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// UpdateSettingsRequest carries partial updates; nil fields are untouched.
type UpdateSettingsRequest struct {
	Enabled               *bool    `json:"enabled"`
	ConfidenceThreshold   *float64 `json:"confidence_threshold"`
	AutoReplyCategories   *string  `json:"auto_reply_categories"`
	MaxTimeInQueueMinutes *int     `json:"max_time_in_queue_minutes"`
	WorkingHoursOnly      *bool    `json:"working_hours_only"`
	MaxDailyAutoReplies   *int     `json:"max_daily_auto_replies"`
	CandidateCount        *int     `json:"candidate_count"`
	MaxReplyLength        *int     `json:"max_reply_length"`
	Temperature           *float64 `json:"temperature"`
	SkipHolidays          *bool    `json:"skip_holidays"`
	HolidayCountry        *string  `json:"holiday_country"`
	LLMConfigID           *uint    `json:"llm_config_id"`
}

// Validate rejects values the policy engine cannot work with.
func (r *UpdateSettingsRequest) Validate() error {
	if r.ConfidenceThreshold != nil && (*r.ConfidenceThreshold < 0 || *r.ConfidenceThreshold > 1) {
		return fmt.Errorf("confidence_threshold must be between 0 and 1")
	}
	if r.MaxTimeInQueueMinutes != nil && *r.MaxTimeInQueueMinutes < 0 {
		return fmt.Errorf("max_time_in_queue_minutes must be >= 0")
	}
	if r.MaxDailyAutoReplies != nil && *r.MaxDailyAutoReplies < 0 {
		return fmt.Errorf("max_daily_auto_replies must be >= 0")
	}
	if r.CandidateCount != nil && (*r.CandidateCount < 1 || *r.CandidateCount > 5) {
		return fmt.Errorf("candidate_count must be between 1 and 5")
	}
	if r.MaxReplyLength != nil && *r.MaxReplyLength < 1 {
		return fmt.Errorf("max_reply_length must be >= 1")
	}
	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 2) {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

// Update applies a partial update and returns the fresh row.
func (s *SettingsService) Update(req *UpdateSettingsRequest) (*models.AutoReplySetting, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setting, err := s.Get()
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if req.ConfidenceThreshold != nil {
		updates["confidence_threshold"] = *req.ConfidenceThreshold
	}
	if req.AutoReplyCategories != nil {
		updates["auto_reply_categories"] = *req.AutoReplyCategories
	}
	if req.MaxTimeInQueueMinutes != nil {
		updates["max_time_in_queue_minutes"] = *req.MaxTimeInQueueMinutes
	}
	if req.WorkingHoursOnly != nil {
		updates["working_hours_only"] = *req.WorkingHoursOnly
	}
	if req.MaxDailyAutoReplies != nil {
		updates["max_daily_auto_replies"] = *req.MaxDailyAutoReplies
	}
	if req.CandidateCount != nil {
		updates["candidate_count"] = *req.CandidateCount
	}
	if req.MaxReplyLength != nil {
		updates["max_reply_length"] = *req.MaxReplyLength
	}
	if req.Temperature != nil {
		updates["temperature"] = *req.Temperature
	}
	if req.SkipHolidays != nil {
		updates["skip_holidays"] = *req.SkipHolidays
	}
	if req.HolidayCountry != nil {
		updates["holiday_country"] = *req.HolidayCountry
	}
	if req.LLMConfigID != nil {
		updates["llm_config_id"] = *req.LLMConfigID
	}

	if len(updates) > 0 {
		if err := s.db.Model(setting).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	s.db.First(setting, setting.ID)
	return setting, nil
}
