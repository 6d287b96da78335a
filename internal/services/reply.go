package services

import (
	"time"

	"github.com/replydeck/backend/internal/models"
	"gorm.io/gorm"
)

type ReplyService struct {
	db *gorm.DB
}

func NewReplyService(db *gorm.DB) *ReplyService {
	return &ReplyService{db: db}
}

func (s *ReplyService) Create(reply *models.Reply) error {
	return s.db.Create(reply).Error
}

// CountAutoRepliesSince counts auto-replies created at or after the given
// instant. The orchestrator passes the start of the local calendar day to
// compute the daily budget.
func (s *ReplyService) CountAutoRepliesSince(since time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.Reply{}).
		Where("is_auto_reply = ? AND created_at >= ?", true, since).
		Count(&count).Error
	return count, err
}

// MarkPosted stamps the time the reply reached the platform.
func (s *ReplyService) MarkPosted(replyID uint, at time.Time) error {
	return s.db.Model(&models.Reply{}).
		Where("id = ?", replyID).
		Updates(map[string]interface{}{"posted_at": at, "post_error": ""}).Error
}

// RecordPostError keeps the reply row but notes why posting failed, so a
// later run or a human can retry.
func (s *ReplyService) RecordPostError(replyID uint, msg string) error {
	if len(msg) > 1000 {
		msg = msg[:1000]
	}
	return s.db.Model(&models.Reply{}).
		Where("id = ?", replyID).
		Update("post_error", msg).Error
}

func (s *ReplyService) ListByComment(commentID uint) ([]models.Reply, error) {
	var replies []models.Reply
	err := s.db.Where("comment_id = ?", commentID).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}

type ReplyListRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	AutoOnly  bool   `form:"auto_only"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type ReplyListResponse struct {
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Items    []models.Reply `json:"items"`
}

func (s *ReplyService) List(req *ReplyListRequest) (*ReplyListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var replies []models.Reply
	var total int64

	query := s.db.Model(&models.Reply{})
	if req.AutoOnly {
		query = query.Where("is_auto_reply = ?", true)
	}
	if req.StartDate != "" {
		query = query.Where("created_at >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("created_at <= ?", req.EndDate+" 23:59:59")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Comment").Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").Find(&replies).Error; err != nil {
		return nil, err
	}

	return &ReplyListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    replies,
	}, nil
}

// CreateManual records a human-written reply and marks the comment replied.
func (s *ReplyService) CreateManual(commentID uint, content string) (*models.Reply, error) {
	reply := models.Reply{
		CommentID:   commentID,
		Content:     content,
		IsAutoReply: false,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			Updates(map[string]interface{}{
				"status":             models.CommentStatusReplied,
				"has_existing_reply": true,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}
