package services

import (
	"time"

	"github.com/replydeck/backend/internal/models"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// ListPending returns the auto-reply work queue: pending comments without an
// existing reply, oldest first so the queue is drained FIFO.
func (s *CommentService) ListPending() ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Where("status = ? AND has_existing_reply = ?", models.CommentStatusPending, false).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// MarkReplied moves a comment to replied state.
func (s *CommentService) MarkReplied(commentID uint) error {
	return s.db.Model(&models.Comment{}).
		Where("id = ?", commentID).
		Update("status", models.CommentStatusReplied).Error
}

type CommentListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status"`
	Platform string `form:"platform"`
	Search   string `form:"search"`
}

type CommentListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Comment `json:"items"`
}

func (s *CommentService) List(req *CommentListRequest) (*CommentListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var comments []models.Comment
	var total int64

	query := s.db.Model(&models.Comment{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Platform != "" {
		query = query.Where("platform = ?", req.Platform)
	}
	if req.Search != "" {
		query = query.Where("content LIKE ? OR author LIKE ?", "%"+req.Search+"%", "%"+req.Search+"%")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}

	return &CommentListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    comments,
	}, nil
}

func (s *CommentService) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

type CreateCommentRequest struct {
	ExternalID   string     `json:"external_id" binding:"required"`
	Platform     string     `json:"platform" binding:"required"`
	PostID       string     `json:"post_id"`
	PostContext  string     `json:"post_context"`
	Author       string     `json:"author"`
	AuthorAvatar string     `json:"author_avatar"`
	Content      string     `json:"content" binding:"required"`
	CreatedAt    *time.Time `json:"created_at"`
}

// Create ingests a comment. Re-ingesting a known external id returns the
// existing row unchanged so platform webhooks can safely redeliver.
func (s *CommentService) Create(req *CreateCommentRequest) (*models.Comment, error) {
	var existing models.Comment
	if err := s.db.Where("external_id = ?", req.ExternalID).First(&existing).Error; err == nil {
		return &existing, nil
	}

	comment := models.Comment{
		ExternalID:   req.ExternalID,
		Platform:     req.Platform,
		PostID:       req.PostID,
		PostContext:  req.PostContext,
		Author:       req.Author,
		AuthorAvatar: req.AuthorAvatar,
		Content:      req.Content,
		Status:       models.CommentStatusPending,
	}
	if req.CreatedAt != nil {
		comment.CreatedAt = *req.CreatedAt
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateStatus is the human-review path: skip or flag a comment, or put it
// back in the pending queue.
func (s *CommentService) UpdateStatus(id uint, status string) (*models.Comment, error) {
	switch status {
	case models.CommentStatusPending, models.CommentStatusReplied,
		models.CommentStatusSkipped, models.CommentStatusFlagged:
	default:
		return nil, gorm.ErrInvalidValue
	}

	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&comment).Update("status", status).Error; err != nil {
		return nil, err
	}
	comment.Status = status
	return &comment, nil
}

func (s *CommentService) Delete(id uint) error {
	return s.db.Delete(&models.Comment{}, id).Error
}

// CountByStatus returns comment counts keyed by status.
func (s *CommentService) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.db.Model(&models.Comment{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
