package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/replydeck/backend/internal/models"
)

// In-memory collaborators for driving the orchestrator without a database.

type fakeSettings struct {
	setting models.AutoReplySetting
	err     error
}

func (f *fakeSettings) Get() (*models.AutoReplySetting, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := f.setting
	return &s, nil
}

type fakeComments struct {
	comments []models.Comment
	markErr  error
}

func (f *fakeComments) ListPending() ([]models.Comment, error) {
	var pending []models.Comment
	for _, c := range f.comments {
		if c.Status == models.CommentStatusPending && !c.HasExistingReply {
			pending = append(pending, c)
		}
	}
	return pending, nil
}

func (f *fakeComments) MarkReplied(commentID uint) error {
	if f.markErr != nil {
		return f.markErr
	}
	for i := range f.comments {
		if f.comments[i].ID == commentID {
			f.comments[i].Status = models.CommentStatusReplied
		}
	}
	return nil
}

type fakeReplies struct {
	created    []*models.Reply
	posted     []uint
	postErrors map[uint]string
	usedToday  int64
	createErr  error
}

func (f *fakeReplies) Create(reply *models.Reply) error {
	if f.createErr != nil {
		return f.createErr
	}
	reply.ID = uint(len(f.created) + 1)
	f.created = append(f.created, reply)
	return nil
}

func (f *fakeReplies) CountAutoRepliesSince(since time.Time) (int64, error) {
	return f.usedToday, nil
}

func (f *fakeReplies) MarkPosted(replyID uint, at time.Time) error {
	f.posted = append(f.posted, replyID)
	return nil
}

func (f *fakeReplies) RecordPostError(replyID uint, msg string) error {
	if f.postErrors == nil {
		f.postErrors = make(map[uint]string)
	}
	f.postErrors[replyID] = msg
	return nil
}

type fakeGenerator struct {
	candidates []GeneratedCandidate
	err        error
	calls      int
}

func (f *fakeGenerator) Generate(ctx context.Context, req *GenerateRequest) ([]GeneratedCandidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

type fakePoster struct {
	err   error
	calls int
}

func (f *fakePoster) PostReply(ctx context.Context, comment *models.Comment, reply *models.Reply) error {
	f.calls++
	return f.err
}

// Monday 10:00, inside working hours.
var runNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func runSetting() models.AutoReplySetting {
	return models.AutoReplySetting{
		Enabled:               true,
		ConfidenceThreshold:   0.8,
		AutoReplyCategories:   "thank_you",
		MaxTimeInQueueMinutes: 60,
		WorkingHoursOnly:      false,
		MaxDailyAutoReplies:   1,
		CandidateCount:        1,
		MaxReplyLength:        280,
	}
}

func pendingComment(id uint, content string, age time.Duration) models.Comment {
	return models.Comment{
		ID:        id,
		Content:   content,
		Status:    models.CommentStatusPending,
		CreatedAt: runNow.Add(-age),
	}
}

func newTestOrchestrator(settings *fakeSettings, comments *fakeComments, replies *fakeReplies, generator *fakeGenerator, poster *fakePoster) *AutoReplyService {
	svc := NewAutoReplyService(
		nil,
		settings, comments, replies, generator, poster,
		NewClassifierService(),
		NewEligibilityService(NewWorkingHoursService(nil)),
	)
	svc.now = func() time.Time { return runNow }
	return svc
}

func TestRunAcceptFlow(t *testing.T) {
	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "Thanks so much!!", 90*time.Minute),
	}}
	replies := &fakeReplies{}
	generator := &fakeGenerator{candidates: []GeneratedCandidate{{Text: "You're welcome!", Confidence: 0.85}}}
	poster := &fakePoster{}

	svc := newTestOrchestrator(&fakeSettings{setting: runSetting()}, comments, replies, generator, poster)
	run, err := svc.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if run.Processed != 1 || run.Skipped != 0 || run.Failed != 0 || run.FailedToPost != 0 {
		t.Errorf("counts = %+v", run)
	}
	if len(replies.created) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies.created))
	}
	reply := replies.created[0]
	if !reply.IsAutoReply || reply.Content != "You're welcome!" || reply.ConfidenceScore == nil || *reply.ConfidenceScore != 0.85 {
		t.Errorf("reply = %+v", reply)
	}
	if comments.comments[0].Status != models.CommentStatusReplied {
		t.Errorf("comment status = %s, want replied", comments.comments[0].Status)
	}
	if run.BudgetRemaining != 0 {
		t.Errorf("budget remaining = %d, want 0", run.BudgetRemaining)
	}
}

func TestRunBudgetLimitsFIFO(t *testing.T) {
	// two eligible comments, budget 1: the older one must win
	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "thanks a lot", 3*time.Hour),
		pendingComment(2, "thank you!", 2*time.Hour),
	}}
	replies := &fakeReplies{}
	generator := &fakeGenerator{candidates: []GeneratedCandidate{{Text: "Anytime!", Confidence: 0.9}}}
	poster := &fakePoster{}

	svc := newTestOrchestrator(&fakeSettings{setting: runSetting()}, comments, replies, generator, poster)
	run, err := svc.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if run.Processed != 1 {
		t.Errorf("processed = %d, want 1", run.Processed)
	}
	if len(replies.created) != 1 || replies.created[0].CommentID != 1 {
		t.Errorf("budget of 1 must go to the oldest comment, replies = %+v", replies.created)
	}
	if comments.comments[0].Status != models.CommentStatusReplied {
		t.Error("oldest comment should be replied")
	}
	if comments.comments[1].Status != models.CommentStatusPending {
		t.Error("second comment must stay pending, not be persisted")
	}
}

func TestRunIdempotence(t *testing.T) {
	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "thanks!", 2 * time.Hour),
	}}
	setting := runSetting()
	setting.MaxDailyAutoReplies = 0 // unlimited, isolate the fetch filter
	replies := &fakeReplies{}
	generator := &fakeGenerator{candidates: []GeneratedCandidate{{Text: "Cheers!", Confidence: 0.95}}}

	svc := newTestOrchestrator(&fakeSettings{setting: setting}, comments, replies, generator, &fakePoster{})

	first, err := svc.Run(context.Background(), TriggerManual)
	if err != nil || first.Processed != 1 {
		t.Fatalf("first run: processed=%d err=%v", first.Processed, err)
	}

	second, err := svc.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if second.Processed != 0 || len(replies.created) != 1 {
		t.Errorf("second run must accept nothing: processed=%d replies=%d", second.Processed, len(replies.created))
	}
}

func TestRunDisabledDoesNothing(t *testing.T) {
	setting := runSetting()
	setting.Enabled = false
	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "thanks!", 2 * time.Hour),
	}}
	generator := &fakeGenerator{candidates: []GeneratedCandidate{{Text: "x", Confidence: 1}}}

	svc := newTestOrchestrator(&fakeSettings{setting: setting}, comments, &fakeReplies{}, generator, &fakePoster{})
	run, err := svc.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if run.Processed != 0 || run.Skipped != 0 || generator.calls != 0 {
		t.Errorf("disabled run must touch nothing: %+v, generator calls %d", run, generator.calls)
	}
}

func TestRunSettingsErrorIsFatal(t *testing.T) {
	svc := newTestOrchestrator(
		&fakeSettings{err: errors.New("settings table missing")},
		&fakeComments{}, &fakeReplies{}, &fakeGenerator{}, &fakePoster{},
	)

	run, err := svc.Run(context.Background(), TriggerManual)
	if err == nil {
		t.Fatal("configuration error must fail the run")
	}
	if run.ErrorMessage == "" {
		t.Error("run report should carry the error message")
	}
}

func TestRunGeneratorFailureIsSkipped(t *testing.T) {
	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "thanks!", 2 * time.Hour),
		pendingComment(2, "thank you", 90 * time.Minute),
	}}
	replies := &fakeReplies{}
	generator := &fakeGenerator{err: ErrGeneration}

	setting := runSetting()
	setting.MaxDailyAutoReplies = 0

	svc := newTestOrchestrator(&fakeSettings{setting: setting}, comments, replies, generator, &fakePoster{})
	run, err := svc.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("generator failures must not abort the run: %v", err)
	}

	if run.Skipped != 2 || run.Processed != 0 || run.Failed != 0 {
		t.Errorf("counts = %+v", run)
	}
	if generator.calls != 2 {
		t.Errorf("both comments should be attempted, generator calls = %d", generator.calls)
	}
	if comments.comments[0].Status != models.CommentStatusPending {
		t.Error("comments must stay pending after generation failure")
	}
}

func TestRunOutsideWorkingHoursSkipsGenerator(t *testing.T) {
	setting := runSetting()
	setting.WorkingHoursOnly = true

	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "thanks!", 2 * time.Hour),
	}}
	generator := &fakeGenerator{candidates: []GeneratedCandidate{{Text: "x", Confidence: 1}}}

	svc := newTestOrchestrator(&fakeSettings{setting: setting}, comments, &fakeReplies{}, generator, &fakePoster{})
	svc.now = func() time.Time { return time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC) }

	run, err := svc.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if run.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", run.Skipped)
	}
	if generator.calls != 0 {
		t.Errorf("generator must not be called outside working hours, calls = %d", generator.calls)
	}
}

func TestRunPostFailureKeepsReplyAndPendingComment(t *testing.T) {
	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "thanks!", 2 * time.Hour),
	}}
	replies := &fakeReplies{}
	generator := &fakeGenerator{candidates: []GeneratedCandidate{{Text: "Welcome!", Confidence: 0.9}}}
	poster := &fakePoster{err: errors.New("platform 503")}

	svc := newTestOrchestrator(&fakeSettings{setting: runSetting()}, comments, replies, generator, poster)
	run, err := svc.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if run.FailedToPost != 1 || run.Processed != 0 {
		t.Errorf("counts = %+v", run)
	}
	if len(replies.created) != 1 {
		t.Error("reply row must be kept after post failure")
	}
	if replies.postErrors[1] == "" {
		t.Error("post error should be recorded on the reply")
	}
	if comments.comments[0].Status != models.CommentStatusPending {
		t.Error("comment must not be marked replied after post failure")
	}
	// budget is only consumed on success
	if run.BudgetRemaining != 1 {
		t.Errorf("budget remaining = %d, want 1", run.BudgetRemaining)
	}
}

func TestRunPersistenceFailureIsFailed(t *testing.T) {
	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "thanks!", 2 * time.Hour),
	}}
	replies := &fakeReplies{createErr: errors.New("disk full")}
	generator := &fakeGenerator{candidates: []GeneratedCandidate{{Text: "Welcome!", Confidence: 0.9}}}
	poster := &fakePoster{}

	svc := newTestOrchestrator(&fakeSettings{setting: runSetting()}, comments, replies, generator, poster)
	run, err := svc.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if run.Failed != 1 || run.Processed != 0 {
		t.Errorf("counts = %+v", run)
	}
	if poster.calls != 0 {
		t.Error("posting must not happen when the reply row was never saved")
	}
	if comments.comments[0].Status != models.CommentStatusPending {
		t.Error("comment must stay pending after persistence failure")
	}
}

func TestRunBudgetAlreadyExhausted(t *testing.T) {
	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "thanks!", 2 * time.Hour),
	}}
	replies := &fakeReplies{usedToday: 1}
	generator := &fakeGenerator{candidates: []GeneratedCandidate{{Text: "x", Confidence: 1}}}

	svc := newTestOrchestrator(&fakeSettings{setting: runSetting()}, comments, replies, generator, &fakePoster{})
	run, err := svc.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if run.Processed != 0 || generator.calls != 0 {
		t.Errorf("exhausted budget must short-circuit the run: %+v, generator calls %d", run, generator.calls)
	}
}

func TestRunCancellationBetweenComments(t *testing.T) {
	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "thanks!", 2 * time.Hour),
	}}
	generator := &fakeGenerator{candidates: []GeneratedCandidate{{Text: "x", Confidence: 1}}}

	svc := newTestOrchestrator(&fakeSettings{setting: runSetting()}, comments, &fakeReplies{}, generator, &fakePoster{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := svc.Run(ctx, TriggerManual)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if run.Processed != 0 || generator.calls != 0 {
		t.Errorf("cancelled run must not process comments: %+v", run)
	}
}

func TestRunSkipReasonBreakdown(t *testing.T) {
	setting := runSetting()
	setting.MaxDailyAutoReplies = 0

	comments := &fakeComments{comments: []models.Comment{
		pendingComment(1, "thanks!", 10 * time.Minute),           // too new
		pendingComment(2, "meh", 2 * time.Hour),                  // no category
		pendingComment(3, "I love this product", 2 * time.Hour),  // category not whitelisted
	}}
	generator := &fakeGenerator{candidates: []GeneratedCandidate{{Text: "x", Confidence: 0.95}}}

	svc := newTestOrchestrator(&fakeSettings{setting: setting}, comments, &fakeReplies{}, generator, &fakePoster{})
	run, err := svc.Run(context.Background(), TriggerManual)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if run.Skipped != 3 || run.Processed != 0 {
		t.Errorf("counts = %+v", run)
	}
}
