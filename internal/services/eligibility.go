package services

import (
	"strings"
	"time"

	"github.com/replydeck/backend/internal/models"
)

// Rejection reasons reported by the eligibility checks. The policy reasons
// come out of Evaluate in check order; generation-failed is produced by the
// orchestrator when the generator itself errors out.
const (
	ReasonDisabled            = "disabled"
	ReasonOutsideWorkingHours = "outside-working-hours"
	ReasonLowConfidence       = "low-confidence"
	ReasonCategoryNotEligible = "category-not-eligible"
	ReasonTooNew              = "too-new"
	ReasonGenerationFailed    = "generation-failed"
)

// Decision is the outcome of evaluating one comment against the settings.
type Decision struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

func accept() Decision {
	return Decision{Accepted: true}
}

func reject(reason string) Decision {
	return Decision{Accepted: false, Reason: reason}
}

// EligibilityService decides whether a generated candidate may be posted
// automatically. Checks run in a fixed order and short-circuit on the first
// failure, so the reported reason is always the first failing check.
type EligibilityService struct {
	workingHours *WorkingHoursService
}

func NewEligibilityService(workingHours *WorkingHoursService) *EligibilityService {
	return &EligibilityService{workingHours: workingHours}
}

// Evaluate runs the ordered checks: enabled, working hours, confidence,
// category, queue age. The confidence boundary is inclusive: a candidate
// scoring exactly the threshold is accepted.
func (s *EligibilityService) Evaluate(now time.Time, commentAge time.Duration, category string, candidate *GeneratedCandidate, setting *models.AutoReplySetting) Decision {
	if !setting.Enabled {
		return reject(ReasonDisabled)
	}

	if setting.WorkingHoursOnly && !s.workingHours.IsOpenAt(now, setting) {
		return reject(ReasonOutsideWorkingHours)
	}

	if candidate == nil || candidate.Confidence < setting.ConfidenceThreshold {
		return reject(ReasonLowConfidence)
	}

	if category == "" || !categoryEligible(category, setting) {
		return reject(ReasonCategoryNotEligible)
	}

	minAge := time.Duration(setting.MaxTimeInQueueMinutes) * time.Minute
	if commentAge < minAge {
		return reject(ReasonTooNew)
	}

	return accept()
}

// categoryEligible checks membership in the comma-separated whitelist.
func categoryEligible(category string, setting *models.AutoReplySetting) bool {
	for _, c := range ParseCategories(setting.AutoReplyCategories) {
		if c == category {
			return true
		}
	}
	return false
}

// ParseCategories splits a stored category list into clean tags.
func ParseCategories(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
