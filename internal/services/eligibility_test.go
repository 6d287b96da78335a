package services

import (
	"testing"
	"time"

	"github.com/replydeck/backend/internal/models"
)

// Monday 10:00, inside working hours.
var evalNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func evalSetting() *models.AutoReplySetting {
	return &models.AutoReplySetting{
		Enabled:               true,
		ConfidenceThreshold:   0.8,
		AutoReplyCategories:   "thank_you",
		MaxTimeInQueueMinutes: 60,
		WorkingHoursOnly:      false,
		MaxDailyAutoReplies:   1,
	}
}

func TestEvaluateOrderedChecks(t *testing.T) {
	s := NewEligibilityService(NewWorkingHoursService(nil))
	candidate := &GeneratedCandidate{Text: "You're welcome!", Confidence: 0.85}

	tests := []struct {
		name       string
		modify     func(*models.AutoReplySetting)
		now        time.Time
		age        time.Duration
		category   string
		candidate  *GeneratedCandidate
		wantAccept bool
		wantReason string
	}{
		{
			name:       "accept",
			modify:     func(s *models.AutoReplySetting) {},
			now:        evalNow,
			age:        90 * time.Minute,
			category:   CategoryThankYou,
			candidate:  candidate,
			wantAccept: true,
		},
		{
			name:       "disabled wins over everything",
			modify:     func(s *models.AutoReplySetting) { s.Enabled = false; s.WorkingHoursOnly = true },
			now:        time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC),
			age:        time.Minute,
			category:   "",
			candidate:  &GeneratedCandidate{Confidence: 0},
			wantReason: ReasonDisabled,
		},
		{
			name:       "outside working hours before confidence",
			modify:     func(s *models.AutoReplySetting) { s.WorkingHoursOnly = true },
			now:        time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC),
			age:        90 * time.Minute,
			category:   CategoryThankYou,
			candidate:  &GeneratedCandidate{Confidence: 0.1},
			wantReason: ReasonOutsideWorkingHours,
		},
		{
			name:       "low confidence before category",
			modify:     func(s *models.AutoReplySetting) {},
			now:        evalNow,
			age:        90 * time.Minute,
			category:   "",
			candidate:  &GeneratedCandidate{Confidence: 0.5},
			wantReason: ReasonLowConfidence,
		},
		{
			name:       "category not in whitelist",
			modify:     func(s *models.AutoReplySetting) {},
			now:        evalNow,
			age:        90 * time.Minute,
			category:   CategoryCompliment,
			candidate:  candidate,
			wantReason: ReasonCategoryNotEligible,
		},
		{
			name:       "no category",
			modify:     func(s *models.AutoReplySetting) {},
			now:        evalNow,
			age:        90 * time.Minute,
			category:   "",
			candidate:  candidate,
			wantReason: ReasonCategoryNotEligible,
		},
		{
			name:       "too new checked last",
			modify:     func(s *models.AutoReplySetting) {},
			now:        evalNow,
			age:        10 * time.Minute,
			category:   CategoryThankYou,
			candidate:  candidate,
			wantReason: ReasonTooNew,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setting := evalSetting()
			tt.modify(setting)

			got := s.Evaluate(tt.now, tt.age, tt.category, tt.candidate, setting)
			if got.Accepted != tt.wantAccept {
				t.Fatalf("Accepted = %v, want %v (reason %q)", got.Accepted, tt.wantAccept, got.Reason)
			}
			if !tt.wantAccept && got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateConfidenceBoundaryInclusive(t *testing.T) {
	s := NewEligibilityService(NewWorkingHoursService(nil))
	setting := evalSetting()

	exact := &GeneratedCandidate{Text: "ok", Confidence: 0.8}
	got := s.Evaluate(evalNow, 90*time.Minute, CategoryThankYou, exact, setting)
	if !got.Accepted {
		t.Errorf("confidence exactly at threshold should accept, got reject(%q)", got.Reason)
	}

	below := &GeneratedCandidate{Text: "ok", Confidence: 0.7999}
	got = s.Evaluate(evalNow, 90*time.Minute, CategoryThankYou, below, setting)
	if got.Accepted || got.Reason != ReasonLowConfidence {
		t.Errorf("confidence below threshold should reject low-confidence, got %+v", got)
	}
}

func TestEvaluateCategoryRejectRegardlessOfConfidence(t *testing.T) {
	s := NewEligibilityService(NewWorkingHoursService(nil))
	setting := evalSetting()

	perfect := &GeneratedCandidate{Text: "ok", Confidence: 1.0}
	got := s.Evaluate(evalNow, 90*time.Minute, CategoryAvailability, perfect, setting)
	if got.Accepted || got.Reason != ReasonCategoryNotEligible {
		t.Errorf("ineligible category must reject even at confidence 1.0, got %+v", got)
	}
}

func TestEvaluateZeroQueueTime(t *testing.T) {
	s := NewEligibilityService(NewWorkingHoursService(nil))
	setting := evalSetting()
	setting.MaxTimeInQueueMinutes = 0

	got := s.Evaluate(evalNow, 0, CategoryThankYou, &GeneratedCandidate{Text: "ok", Confidence: 0.9}, setting)
	if !got.Accepted {
		t.Errorf("zero grace period should accept brand-new comments, got reject(%q)", got.Reason)
	}
}

func TestParseCategoriesHandlesWhitespace(t *testing.T) {
	got := ParseCategories(" thank_you , compliment ,,")
	if len(got) != 2 || got[0] != "thank_you" || got[1] != "compliment" {
		t.Errorf("ParseCategories = %v", got)
	}

	if got := ParseCategories(""); len(got) != 0 {
		t.Errorf("empty list should parse to nothing, got %v", got)
	}
}
