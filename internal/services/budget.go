package services

import "time"

// BudgetTracker holds the remaining auto-reply allowance for one
// orchestrator run. The daily count is queried once at run start and
// decremented in memory as replies are accepted; the tracker is not shared
// across runs and does not guard against concurrent runs.
type BudgetTracker struct {
	unlimited bool
	remaining int
}

// NewBudgetTracker computes the run's starting budget from the daily cap
// and the number of auto-replies already issued today. A cap of 0 means
// unlimited.
func NewBudgetTracker(maxDaily, usedToday int) *BudgetTracker {
	if maxDaily == 0 {
		return &BudgetTracker{unlimited: true}
	}

	remaining := maxDaily - usedToday
	if remaining < 0 {
		remaining = 0
	}
	return &BudgetTracker{remaining: remaining}
}

// HasBudget reports whether another auto-reply may be issued.
func (b *BudgetTracker) HasBudget() bool {
	return b.unlimited || b.remaining > 0
}

// Consume records one issued auto-reply.
func (b *BudgetTracker) Consume() {
	if b.unlimited {
		return
	}
	if b.remaining > 0 {
		b.remaining--
	}
}

// Remaining returns the replies left in the budget, or -1 when unlimited.
func (b *BudgetTracker) Remaining() int {
	if b.unlimited {
		return -1
	}
	return b.remaining
}

// StartOfDay returns midnight of t's calendar day in t's location. Daily
// budget windows are local calendar days.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
