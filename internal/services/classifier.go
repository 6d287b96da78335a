package services

import "strings"

// Comment categories assignable by the classifier.
const (
	CategoryThankYou       = "thank_you"
	CategoryCompliment     = "compliment"
	CategoryAvailability   = "availability_question"
	CategorySimpleQuestion = "simple_question"
)

// Keyword sets checked in precedence order. First match wins, so a comment
// like "thanks, where are you open?" is classified thank_you, not
// availability_question.
var (
	thankYouKeywords       = []string{"thank you", "thanks", "thx"}
	complimentKeywords     = []string{"love", "awesome", "great", "amazing"}
	availabilityKeywords   = []string{"where", "when", "hours", "open", "close", "available"}
	simpleQuestionKeywords = []string{"how", "what", "?"}
)

// ClassifierService assigns at most one category to a comment body using
// case-insensitive keyword matching. It is deterministic and side-effect free.
type ClassifierService struct{}

func NewClassifierService() *ClassifierService {
	return &ClassifierService{}
}

// Classify returns the category tag for the given content, or an empty
// string when no keyword set matches. Uncategorized comments are never
// eligible for auto-reply.
func (s *ClassifierService) Classify(content string) string {
	lower := strings.ToLower(content)

	if containsAny(lower, thankYouKeywords) {
		return CategoryThankYou
	}
	if containsAny(lower, complimentKeywords) {
		return CategoryCompliment
	}
	if containsAny(lower, availabilityKeywords) {
		return CategoryAvailability
	}
	if containsAny(lower, simpleQuestionKeywords) {
		return CategorySimpleQuestion
	}

	return ""
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
