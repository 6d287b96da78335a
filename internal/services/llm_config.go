package services

import (
	"context"
	"errors"
	"time"

	"github.com/replydeck/backend/internal/models"
	"gorm.io/gorm"
)

type LLMConfigService struct {
	db *gorm.DB
}

func NewLLMConfigService(db *gorm.DB) *LLMConfigService {
	return &LLMConfigService{db: db}
}

func (s *LLMConfigService) List() ([]models.LLMConfig, error) {
	var configs []models.LLMConfig
	if err := s.db.Order("is_default DESC, id ASC").Find(&configs).Error; err != nil {
		return nil, err
	}
	for i := range configs {
		configs[i].APIKeyMask = configs[i].MaskAPIKey()
	}
	return configs, nil
}

func (s *LLMConfigService) GetByID(id uint) (*models.LLMConfig, error) {
	var cfg models.LLMConfig
	if err := s.db.First(&cfg, id).Error; err != nil {
		return nil, err
	}
	cfg.APIKeyMask = cfg.MaskAPIKey()
	return &cfg, nil
}

type LLMConfigRequest struct {
	Name        string  `json:"name" binding:"required"`
	Provider    string  `json:"provider"`
	BaseURL     string  `json:"base_url" binding:"required"`
	APIKey      string  `json:"api_key"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	IsDefault   bool    `json:"is_default"`
	IsActive    *bool   `json:"is_active"`
}

func (s *LLMConfigService) Create(req *LLMConfigRequest) (*models.LLMConfig, error) {
	cfg := models.LLMConfig{
		Name:        req.Name,
		Provider:    req.Provider,
		BaseURL:     req.BaseURL,
		APIKey:      req.APIKey,
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		IsDefault:   req.IsDefault,
		IsActive:    true,
	}
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if cfg.IsDefault {
			if err := tx.Model(&models.LLMConfig{}).Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&cfg).Error
	})
	if err != nil {
		return nil, err
	}

	cfg.APIKeyMask = cfg.MaskAPIKey()
	return &cfg, nil
}

func (s *LLMConfigService) Update(id uint, req *LLMConfigRequest) (*models.LLMConfig, error) {
	var cfg models.LLMConfig
	if err := s.db.First(&cfg, id).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"provider":    req.Provider,
		"base_url":    req.BaseURL,
		"model":       req.Model,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"is_default":  req.IsDefault,
	}
	// empty api_key means keep the stored one
	if req.APIKey != "" {
		updates["api_key"] = req.APIKey
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.LLMConfig{}).Where("id != ? AND is_default = ?", id, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&cfg).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.db.First(&cfg, id)
	cfg.APIKeyMask = cfg.MaskAPIKey()
	return &cfg, nil
}

func (s *LLMConfigService) Delete(id uint) error {
	var count int64
	s.db.Model(&models.AutoReplySetting{}).Where("llm_config_id = ?", id).Count(&count)
	if count > 0 {
		return errors.New("config is referenced by auto-reply settings")
	}
	return s.db.Delete(&models.LLMConfig{}, id).Error
}

// Test fires a trivial generation through the given config to verify
// credentials and connectivity.
func (s *LLMConfigService) Test(generator *GeneratorService, id uint) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := generator.Generate(ctx, &GenerateRequest{
		CommentText:    "Thanks for the quick delivery!",
		CandidateCount: 1,
		MaxLength:      120,
		LLMConfigID:    &id,
	})
	return err
}
