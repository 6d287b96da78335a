package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/replydeck/backend/internal/config"
	"github.com/replydeck/backend/internal/models"
	"github.com/replydeck/backend/pkg/logger"
)

// PlatformService posts accepted replies back to the originating social
// platform. Without a configured base URL it runs in log-only mode, which
// keeps local development and tests off the network.
type PlatformService struct {
	client *resty.Client
	config *config.PlatformConfig
}

func NewPlatformService(cfg *config.PlatformConfig) *PlatformService {
	timeout := 15 * time.Second
	if cfg != nil && cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &PlatformService{client: client, config: cfg}
}

type postReplyPayload struct {
	CommentID string `json:"comment_id"`
	Message   string `json:"message"`
}

// PostReply delivers the reply to the platform comment thread.
func (s *PlatformService) PostReply(ctx context.Context, comment *models.Comment, reply *models.Reply) error {
	if s.config == nil || s.config.BaseURL == "" {
		logger.Infof("[Platform] Log-only mode: reply %d for comment %s (%s) not posted externally",
			reply.ID, comment.ExternalID, comment.Platform)
		return nil
	}

	url := fmt.Sprintf("%s/%s/comments/%s/replies", s.config.BaseURL, comment.Platform, comment.ExternalID)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.config.AccessToken).
		SetBody(postReplyPayload{
			CommentID: comment.ExternalID,
			Message:   reply.Content,
		}).
		Post(url)
	if err != nil {
		return fmt.Errorf("platform request failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("platform rejected reply: status %d: %s", resp.StatusCode(), resp.String())
	}

	logger.Infof("[Platform] Posted reply %d to %s comment %s", reply.ID, comment.Platform, comment.ExternalID)
	return nil
}
