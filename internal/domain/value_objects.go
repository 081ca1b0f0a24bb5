package domain

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// QuestionType tags how a question is answered on the feedback form.
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeMultipleChoice QuestionType = "multiple-choice"
	QuestionTypeYesNo          QuestionType = "yes-no"
)

// NewQuestionType validates a question type. Empty input defaults to text.
func NewQuestionType(value string) (QuestionType, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch QuestionType(trimmed) {
	case "":
		return QuestionTypeText, nil
	case QuestionTypeText, QuestionTypeRating, QuestionTypeMultipleChoice, QuestionTypeYesNo:
		return QuestionType(trimmed), nil
	}
	return "", NewValidationError("questionType", fmt.Sprintf("unsupported question type %q", value))
}

func (t QuestionType) String() string {
	return string(t)
}

// NewEmail trims and validates an email address. Empty input is returned as is.
func NewEmail(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > 254 {
		return "", NewValidationError("email", "email must be at most 254 characters")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", NewValidationError("email", "email format is invalid")
	}
	return strings.ToLower(trimmed), nil
}

// NewOverallRating accepts nil or a rating between 1 and 5.
func NewOverallRating(value *int) (*int, error) {
	if value == nil {
		return nil, nil
	}
	if *value < 1 || *value > 5 {
		return nil, NewValidationError("overallRating", "rating must be between 1 and 5")
	}
	v := *value
	return &v, nil
}

// NewHexColor validates colors like #3B82F6.
func NewHexColor(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if !hexColorPattern.MatchString(trimmed) {
		return "", NewValidationError("themeColor", "theme color must be a hex color such as #3B82F6")
	}
	return trimmed, nil
}
