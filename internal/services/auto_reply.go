package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/replydeck/backend/internal/models"
	"github.com/replydeck/backend/pkg/logger"
	"gorm.io/gorm"
)

// Run triggers.
const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

// Collaborator contracts the orchestrator runs against. The gorm-backed
// services satisfy them in production; tests substitute in-memory fakes.
type SettingsSource interface {
	Get() (*models.AutoReplySetting, error)
}

type CommentSource interface {
	ListPending() ([]models.Comment, error)
	MarkReplied(commentID uint) error
}

type ReplySink interface {
	Create(reply *models.Reply) error
	CountAutoRepliesSince(since time.Time) (int64, error)
	MarkPosted(replyID uint, at time.Time) error
	RecordPostError(replyID uint, msg string) error
}

type ReplyGenerator interface {
	Generate(ctx context.Context, req *GenerateRequest) ([]GeneratedCandidate, error)
}

type PlatformPoster interface {
	PostReply(ctx context.Context, comment *models.Comment, reply *models.Reply) error
}

// RunResult reports one orchestrator pass. Counts are always populated,
// including after partial failures.
type RunResult struct {
	Processed       int            `json:"processed"`
	Skipped         int            `json:"skipped"`
	Failed          int            `json:"failed"`
	FailedToPost    int            `json:"failed_to_post"`
	BudgetRemaining int            `json:"budget_remaining"`
	SkipReasons     map[string]int `json:"skip_reasons"`
}

// AutoReplyService runs the auto-reply pipeline: pending comments are
// drained oldest first, each one classified, generated for, checked against
// the policy, and on acceptance persisted and posted. One comment's failure
// never aborts the run.
type AutoReplyService struct {
	db          *gorm.DB
	settings    SettingsSource
	comments    CommentSource
	replies     ReplySink
	generator   ReplyGenerator
	poster      PlatformPoster
	classifier  *ClassifierService
	eligibility *EligibilityService

	// now is swappable for deterministic tests
	now func() time.Time
}

func NewAutoReplyService(
	db *gorm.DB,
	settings SettingsSource,
	comments CommentSource,
	replies ReplySink,
	generator ReplyGenerator,
	poster PlatformPoster,
	classifier *ClassifierService,
	eligibility *EligibilityService,
) *AutoReplyService {
	return &AutoReplyService{
		db:          db,
		settings:    settings,
		comments:    comments,
		replies:     replies,
		generator:   generator,
		poster:      poster,
		classifier:  classifier,
		eligibility: eligibility,
		now:         time.Now,
	}
}

// Run executes one pass and records it as an AutoReplyRun row. Only a
// configuration error (unreadable settings) fails the run outright.
func (s *AutoReplyService) Run(ctx context.Context, trigger string) (*models.AutoReplyRun, error) {
	return s.RunWithID(ctx, trigger, uuid.NewString())
}

// RunWithID is Run with a caller-assigned run id, used by the task queue so
// the trigger endpoint can return the id before the run executes.
func (s *AutoReplyService) RunWithID(ctx context.Context, trigger, runID string) (*models.AutoReplyRun, error) {
	if runID == "" {
		runID = uuid.NewString()
	}

	run := &models.AutoReplyRun{
		RunID:     runID,
		Trigger:   trigger,
		StartedAt: s.now(),
	}
	if s.db != nil {
		s.db.Create(run)
	}

	result, err := s.execute(ctx)

	finished := s.now()
	run.FinishedAt = &finished
	run.Processed = result.Processed
	run.Skipped = result.Skipped
	run.Failed = result.Failed
	run.FailedToPost = result.FailedToPost
	run.BudgetRemaining = result.BudgetRemaining
	if err != nil {
		run.ErrorMessage = err.Error()
	}
	if s.db != nil {
		s.db.Save(run)
	}

	logger.Infof("[AutoReply] Run %s (%s) finished: processed=%d skipped=%d failed=%d failed_to_post=%d",
		run.RunID, trigger, run.Processed, run.Skipped, run.Failed, run.FailedToPost)

	return run, err
}

// execute is the per-run loop. It returns counts even when it also returns
// an error.
func (s *AutoReplyService) execute(ctx context.Context) (RunResult, error) {
	result := RunResult{SkipReasons: make(map[string]int)}

	setting, err := s.settings.Get()
	if err != nil {
		return result, err
	}

	if !setting.Enabled {
		logger.Infof("[AutoReply] Auto-reply disabled, nothing to do")
		return result, nil
	}

	now := s.now()
	usedToday, err := s.replies.CountAutoRepliesSince(StartOfDay(now))
	if err != nil {
		return result, err
	}

	budget := NewBudgetTracker(setting.MaxDailyAutoReplies, int(usedToday))
	result.BudgetRemaining = budget.Remaining()
	if !budget.HasBudget() {
		logger.Infof("[AutoReply] Daily budget exhausted (%d used of %d), skipping run",
			usedToday, setting.MaxDailyAutoReplies)
		return result, nil
	}

	pending, err := s.comments.ListPending()
	if err != nil {
		return result, err
	}

	logger.Infof("[AutoReply] Processing %d pending comment(s), budget remaining: %d", len(pending), budget.Remaining())

	for i := range pending {
		// cancellation is checked between comments only; an in-flight
		// comment always finishes its persist + status update
		select {
		case <-ctx.Done():
			result.BudgetRemaining = budget.Remaining()
			return result, ctx.Err()
		default:
		}

		if !budget.HasBudget() {
			break
		}

		s.processComment(ctx, &pending[i], setting, budget, &result)
	}

	result.BudgetRemaining = budget.Remaining()
	return result, nil
}

func (s *AutoReplyService) processComment(ctx context.Context, comment *models.Comment, setting *models.AutoReplySetting, budget *BudgetTracker, result *RunResult) {
	now := s.now()
	age := now.Sub(comment.CreatedAt)
	category := s.classifier.Classify(comment.Content)

	// Outside working hours nothing can be accepted, so the generator call
	// is skipped. The recorded reason matches what the full evaluation
	// would report.
	if setting.WorkingHoursOnly && !s.eligibility.workingHours.IsOpenAt(now, setting) {
		result.Skipped++
		result.SkipReasons[ReasonOutsideWorkingHours]++
		return
	}

	candidates, err := s.generator.Generate(ctx, &GenerateRequest{
		CommentText:    comment.Content,
		PostContext:    comment.PostContext,
		IntentHint:     category,
		CandidateCount: setting.CandidateCount,
		MaxLength:      setting.MaxReplyLength,
		Temperature:    setting.Temperature,
		LLMConfigID:    setting.LLMConfigID,
	})
	if err != nil {
		logger.Infof("[AutoReply] Generation failed for comment %d: %v", comment.ID, err)
		result.Skipped++
		result.SkipReasons[ReasonGenerationFailed]++
		return
	}

	candidate := BestCandidate(candidates)
	decision := s.eligibility.Evaluate(now, age, category, candidate, setting)
	if !decision.Accepted {
		result.Skipped++
		result.SkipReasons[decision.Reason]++
		return
	}

	confidence := candidate.Confidence
	reply := &models.Reply{
		CommentID:       comment.ID,
		Content:         candidate.Text,
		IsAutoReply:     true,
		ConfidenceScore: &confidence,
	}
	if err := s.replies.Create(reply); err != nil {
		logger.Infof("[AutoReply] Failed to persist reply for comment %d: %v", comment.ID, err)
		result.Failed++
		return
	}

	if err := s.poster.PostReply(ctx, comment, reply); err != nil {
		// reply row stays for retry by a later run or a human; the
		// comment is deliberately left pending
		logger.Infof("[AutoReply] Failed to post reply %d for comment %d: %v", reply.ID, comment.ID, err)
		if recErr := s.replies.RecordPostError(reply.ID, err.Error()); recErr != nil {
			logger.Infof("[AutoReply] Failed to record post error for reply %d: %v", reply.ID, recErr)
		}
		result.FailedToPost++
		return
	}

	if err := s.replies.MarkPosted(reply.ID, s.now()); err != nil {
		logger.Infof("[AutoReply] Failed to stamp posted_at on reply %d: %v", reply.ID, err)
	}

	if err := s.comments.MarkReplied(comment.ID); err != nil {
		logger.Infof("[AutoReply] Failed to mark comment %d replied: %v", comment.ID, err)
		result.Failed++
		return
	}

	budget.Consume()
	result.Processed++
	logger.Infof("[AutoReply] Replied to comment %d (category: %s, confidence: %.2f)", comment.ID, category, confidence)
}

// ListRuns pages through past runs, newest first.
func (s *AutoReplyService) ListRuns(page, pageSize int) ([]models.AutoReplyRun, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var runs []models.AutoReplyRun
	var total int64

	s.db.Model(&models.AutoReplyRun{}).Count(&total)

	offset := (page - 1) * pageSize
	if err := s.db.Order("started_at DESC").Offset(offset).Limit(pageSize).Find(&runs).Error; err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}

func (s *AutoReplyService) GetRun(runID string) (*models.AutoReplyRun, error) {
	var run models.AutoReplyRun
	if err := s.db.Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
