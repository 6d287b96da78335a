package services

import (
	"time"

	"github.com/replydeck/backend/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStats struct {
	TotalComments    int64                 `json:"total_comments"`
	PendingComments  int64                 `json:"pending_comments"`
	RepliedComments  int64                 `json:"replied_comments"`
	AutoRepliesToday int64                 `json:"auto_replies_today"`
	TotalAutoReplies int64                 `json:"total_auto_replies"`
	AvgConfidence    float64               `json:"avg_confidence"`
	RecentRuns       []models.AutoReplyRun `json:"recent_runs"`
}

func (s *DashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	s.db.Model(&models.Comment{}).Count(&stats.TotalComments)
	s.db.Model(&models.Comment{}).Where("status = ?", models.CommentStatusPending).Count(&stats.PendingComments)
	s.db.Model(&models.Comment{}).Where("status = ?", models.CommentStatusReplied).Count(&stats.RepliedComments)

	startOfDay := StartOfDay(time.Now())
	s.db.Model(&models.Reply{}).
		Where("is_auto_reply = ? AND created_at >= ?", true, startOfDay).
		Count(&stats.AutoRepliesToday)
	s.db.Model(&models.Reply{}).Where("is_auto_reply = ?", true).Count(&stats.TotalAutoReplies)

	s.db.Model(&models.Reply{}).
		Where("is_auto_reply = ? AND confidence_score IS NOT NULL", true).
		Select("COALESCE(AVG(confidence_score), 0)").
		Scan(&stats.AvgConfidence)

	if err := s.db.Order("started_at DESC").Limit(5).Find(&stats.RecentRuns).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

type DailyReplyPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// GetReplyTrend returns auto-reply counts per day for the last n days.
func (s *DashboardService) GetReplyTrend(days int) ([]DailyReplyPoint, error) {
	if days < 1 || days > 90 {
		days = 7
	}

	points := make([]DailyReplyPoint, 0, days)
	now := time.Now()

	for i := days - 1; i >= 0; i-- {
		dayStart := StartOfDay(now.AddDate(0, 0, -i))
		dayEnd := dayStart.Add(24 * time.Hour)

		var count int64
		if err := s.db.Model(&models.Reply{}).
			Where("is_auto_reply = ? AND created_at >= ? AND created_at < ?", true, dayStart, dayEnd).
			Count(&count).Error; err != nil {
			return nil, err
		}

		points = append(points, DailyReplyPoint{
			Date:  dayStart.Format("2006-01-02"),
			Count: count,
		})
	}

	return points, nil
}
