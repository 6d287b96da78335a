package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment statuses. Only the auto-reply pipeline moves a comment to
// "replied"; skipped/flagged are set by human review.
const (
	CommentStatusPending = "pending"
	CommentStatusReplied = "replied"
	CommentStatusSkipped = "skipped"
	CommentStatusFlagged = "flagged"
)

// User represents a dashboard user
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string         `gorm:"size:255" json:"-"` // Hashed password, empty for LDAP users
	Email     string         `gorm:"size:255" json:"email"`
	Nickname  string         `gorm:"size:100" json:"nickname"`
	Role      string         `gorm:"size:50;default:user" json:"role"`       // admin, user
	AuthType  string         `gorm:"size:20;default:local" json:"auth_type"` // local, ldap
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Comment represents an inbound social-media comment.
// CreatedAt is the arrival time and drives queue-age computation.
type Comment struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ExternalID       string         `gorm:"uniqueIndex;size:100" json:"external_id"` // platform-side comment id
	Platform         string         `gorm:"size:50" json:"platform"`                 // instagram, facebook, ...
	PostID           string         `gorm:"size:100;index" json:"post_id"`
	PostContext      string         `gorm:"size:1000" json:"post_context"`
	Author           string         `gorm:"size:200" json:"author"`
	AuthorAvatar     string         `gorm:"size:500" json:"author_avatar"`
	Content          string         `gorm:"type:text;not null" json:"content"`
	Status           string         `gorm:"size:20;default:pending;index" json:"status"`
	HasExistingReply bool           `gorm:"default:false" json:"has_existing_reply"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// Reply represents a reply to a comment, auto-generated or human-written.
// ConfidenceScore is null for human replies.
type Reply struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	CommentID       uint       `gorm:"index;not null" json:"comment_id"`
	Comment         *Comment   `gorm:"foreignKey:CommentID" json:"comment,omitempty"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	IsAutoReply     bool       `gorm:"default:false;index" json:"is_auto_reply"`
	ConfidenceScore *float64   `json:"confidence_score"`
	PostedAt        *time.Time `json:"posted_at"`
	PostError       string     `gorm:"size:1000" json:"post_error"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// AutoReplySetting is the per-owner auto-reply policy. One row per owner.
// The orchestrator reads it exactly once per run so a run's policy stays
// consistent.
type AutoReplySetting struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	OwnerID               uint      `gorm:"uniqueIndex" json:"owner_id"`
	Enabled               bool      `gorm:"default:false" json:"enabled"`
	ConfidenceThreshold   float64   `gorm:"default:0.8" json:"confidence_threshold"`
	AutoReplyCategories   string    `gorm:"size:500" json:"auto_reply_categories"` // comma list: thank_you,compliment,...
	MaxTimeInQueueMinutes int       `gorm:"default:60" json:"max_time_in_queue_minutes"`
	WorkingHoursOnly      bool      `gorm:"default:true" json:"working_hours_only"`
	MaxDailyAutoReplies   int       `gorm:"default:50" json:"max_daily_auto_replies"` // 0 = unlimited
	CandidateCount        int       `gorm:"default:1" json:"candidate_count"`
	MaxReplyLength        int       `gorm:"default:280" json:"max_reply_length"`
	Temperature           float64   `gorm:"default:0.7" json:"temperature"`
	SkipHolidays          bool      `gorm:"default:false" json:"skip_holidays"`
	HolidayCountry        string    `gorm:"size:10;default:NONE" json:"holiday_country"`
	LLMConfigID           *uint     `json:"llm_config_id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// AutoReplyRun records the outcome of one orchestrator pass.
type AutoReplyRun struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	RunID           string     `gorm:"uniqueIndex;size:64" json:"run_id"`
	Trigger         string     `gorm:"size:20" json:"trigger"` // cron, manual
	Processed       int        `json:"processed"`
	Skipped         int        `json:"skipped"`
	Failed          int        `json:"failed"`
	FailedToPost    int        `json:"failed_to_post"`
	BudgetRemaining int        `json:"budget_remaining"`
	ErrorMessage    string     `gorm:"type:text" json:"error_message"`
	StartedAt       time.Time  `gorm:"index" json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at"`
}

// LLMConfig represents a reply-generation model configuration (stored in database)
type LLMConfig struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Provider    string         `gorm:"size:50;default:openai" json:"provider"` // openai, azure, anthropic, gemini, ollama
	BaseURL     string         `gorm:"size:500;not null" json:"base_url"`
	APIKey      string         `gorm:"size:500" json:"-"`
	APIKeyMask  string         `gorm:"-" json:"api_key_mask"` // For display only
	Model       string         `gorm:"size:100" json:"model"`
	MaxTokens   int            `gorm:"default:1024" json:"max_tokens"`
	Temperature float64        `gorm:"default:0.7" json:"temperature"`
	IsDefault   bool           `gorm:"default:false" json:"is_default"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// SystemConfig represents system-wide configuration (stored in database)
type SystemConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      string    `gorm:"size:20;default:string" json:"type"` // string, int, bool, json
	Group     string    `gorm:"size:50;index" json:"group"`         // general, scheduler, system
	Label     string    `gorm:"size:200" json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SystemLog represents a system operation log
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:20;index" json:"level"` // info, warning, error
	Module    string    `gorm:"size:100;index" json:"module"`
	Action    string    `gorm:"size:200;index" json:"action"`
	Message   string    `gorm:"type:text" json:"message"`
	UserID    *uint     `json:"user_id"`
	IP        string    `gorm:"size:50" json:"ip"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	Extra     string    `gorm:"type:text" json:"extra"` // JSON extra data
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides
func (User) TableName() string             { return "users" }
func (Comment) TableName() string          { return "comments" }
func (Reply) TableName() string            { return "replies" }
func (AutoReplySetting) TableName() string { return "auto_reply_settings" }
func (AutoReplyRun) TableName() string     { return "auto_reply_runs" }
func (LLMConfig) TableName() string        { return "llm_configs" }
func (SystemConfig) TableName() string     { return "system_configs" }
func (SystemLog) TableName() string        { return "system_logs" }

// MaskAPIKey returns masked API key for display
func (l *LLMConfig) MaskAPIKey() string {
	if len(l.APIKey) <= 8 {
		return "****"
	}
	return l.APIKey[:4] + "****" + l.APIKey[len(l.APIKey)-4:]
}
