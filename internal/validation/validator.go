package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"vidquiz/internal/domain"
)

// ValidateQuiz enforces the quiz schema invariants on an untrusted RawQuiz.
// Checks run in a fixed order and the first violation is returned, naming
// the offending question index where applicable. Pure function, no side
// effects.
func ValidateQuiz(raw *domain.RawQuiz) error {
	if raw == nil {
		return domain.NewQuizValidationError("quiz is empty", -1)
	}
	if strings.TrimSpace(raw.Title) == "" {
		return domain.NewQuizValidationError("title is required", -1)
	}
	if strings.TrimSpace(raw.Description) == "" {
		return domain.NewQuizValidationError("description is required", -1)
	}
	if utf8.RuneCountInString(raw.Description) > domain.MaxDescriptionLength {
		return domain.NewQuizValidationError(
			fmt.Sprintf("description exceeds %d characters", domain.MaxDescriptionLength), -1)
	}
	if len(raw.Questions) != domain.QuestionsPerQuiz {
		return domain.NewQuizValidationError(
			fmt.Sprintf("expected exactly %d questions, got %d", domain.QuestionsPerQuiz, len(raw.Questions)), -1)
	}

	for i, q := range raw.Questions {
		if strings.TrimSpace(q.Title) == "" {
			return domain.NewQuizValidationError("question text is required", i)
		}
		if len(q.Options) != domain.OptionsPerQuestion {
			return domain.NewQuizValidationError(
				fmt.Sprintf("expected exactly %d options, got %d", domain.OptionsPerQuestion, len(q.Options)), i)
		}
		if dup, found := firstDuplicate(q.Options); found {
			return domain.NewQuizValidationError(
				fmt.Sprintf("options are not distinct: %q appears more than once", dup), i)
		}
		// Exact string equality; no case folding, no "Option A" aliasing.
		if !contains(q.Options, q.Answer) {
			return domain.NewQuizValidationError("answer is not one of the options", i)
		}
	}

	return nil
}

func firstDuplicate(options []string) (string, bool) {
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		if _, ok := seen[opt]; ok {
			return opt, true
		}
		seen[opt] = struct{}{}
	}
	return "", false
}

func contains(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
