package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxQuestionTextRunes = 500
	MaxQuestionOptions   = 20
)

// Question is one prompt on a business's feedback form.
type Question struct {
	ID         string
	BusinessID string
	Text       string
	Type       QuestionType
	Options    []string
	Required   bool
	Order      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OwnedBy compares the owning business with the caller.
func (q Question) OwnedBy(businessID string) bool {
	return q.BusinessID != "" && q.BusinessID == businessID
}

// Normalize trims input and enforces the option rules for the question type.
// Options survive only for multiple-choice questions.
func (q *Question) Normalize() error {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return NewValidationError("questionText", "question text is required")
	}
	if utf8.RuneCountInString(q.Text) > MaxQuestionTextRunes {
		return NewValidationError("questionText", "question text must be at most 500 characters")
	}
	if q.Type == "" {
		q.Type = QuestionTypeText
	}
	if q.Order < 0 {
		return NewValidationError("order", "order must not be negative")
	}

	if q.Type != QuestionTypeMultipleChoice {
		q.Options = nil
		return nil
	}

	options := make([]string, 0, len(q.Options))
	seen := make(map[string]struct{}, len(q.Options))
	for _, option := range q.Options {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		if _, ok := seen[option]; ok {
			continue
		}
		seen[option] = struct{}{}
		options = append(options, option)
	}
	if len(options) < 2 {
		return NewValidationError("options", "multiple-choice questions need at least 2 options")
	}
	if len(options) > MaxQuestionOptions {
		return NewValidationError("options", "multiple-choice questions accept at most 20 options")
	}
	q.Options = options
	return nil
}
