package common

import (
	"time"

	"github.com/SUMMERxKx/Review/internal/domain"
)

// FormSettingsResponse uses the "thankyouMessage" key the dashboard reads.
type FormSettingsResponse struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	ThankYouMessage string `json:"thankyouMessage"`
	LogoURL         string `json:"logoUrl"`
	ThemeColor      string `json:"themeColor"`
}

// BusinessResponse never includes the password hash.
type BusinessResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	OwnerEmail   string               `json:"ownerEmail"`
	QRCodeURL    string               `json:"qrCodeUrl,omitempty"`
	FeedbackURL  string               `json:"feedbackUrl,omitempty"`
	FormSettings FormSettingsResponse `json:"formSettings"`
	CreatedAt    time.Time            `json:"createdAt"`
	LastLogin    *time.Time           `json:"lastLogin,omitempty"`
}

type QuestionResponse struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"businessId"`
	QuestionText string    `json:"questionText"`
	QuestionType string    `json:"questionType"`
	Options      []string  `json:"options"`
	Required     bool      `json:"required"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AnswerResponse struct {
	QuestionID   string   `json:"questionId,omitempty"`
	QuestionText string   `json:"questionText"`
	AnswerText   string   `json:"answerText,omitempty"`
	AnswerRating *float64 `json:"answerRating,omitempty"`
}

type AnalysisResponse struct {
	SentimentScore float64  `json:"sentimentScore"`
	KeyTopics      []string `json:"keyTopics"`
	Summary        string   `json:"summary"`
	Suggestions    string   `json:"suggestions"`
	Fallback       bool     `json:"fallback,omitempty"`
}

type ReviewResponse struct {
	ID            string            `json:"id"`
	BusinessID    string            `json:"businessId"`
	CustomerName  string            `json:"customerName,omitempty"`
	CustomerEmail string            `json:"customerEmail,omitempty"`
	Answers       []AnswerResponse  `json:"answers"`
	OverallRating *int              `json:"overallRating,omitempty"`
	Analysis      *AnalysisResponse `json:"analysis,omitempty"`
	Processed     bool              `json:"processed"`
	CreatedAt     time.Time         `json:"createdAt"`
	AnalyzedAt    *time.Time        `json:"analyzedAt,omitempty"`
}

func NewFormSettingsResponse(s domain.FormSettings) FormSettingsResponse {
	return FormSettingsResponse{
		Title:           s.Title,
		Description:     s.Description,
		ThankYouMessage: s.ThankYouMessage,
		LogoURL:         s.LogoURL,
		ThemeColor:      s.ThemeColor,
	}
}

func NewBusinessResponse(b domain.Business) BusinessResponse {
	return BusinessResponse{
		ID:           b.ID,
		Name:         b.Name,
		OwnerEmail:   b.OwnerEmail,
		QRCodeURL:    b.QRCodeURL,
		FeedbackURL:  b.FeedbackURL,
		FormSettings: NewFormSettingsResponse(b.FormSettings),
		CreatedAt:    b.CreatedAt,
		LastLogin:    b.LastLogin,
	}
}

func NewQuestionResponse(q domain.Question) QuestionResponse {
	options := q.Options
	if options == nil {
		options = []string{}
	}
	return QuestionResponse{
		ID:           q.ID,
		BusinessID:   q.BusinessID,
		QuestionText: q.Text,
		QuestionType: q.Type.String(),
		Options:      options,
		Required:     q.Required,
		Order:        q.Order,
		CreatedAt:    q.CreatedAt,
	}
}

func NewQuestionResponses(questions []domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, NewQuestionResponse(q))
	}
	return out
}

func NewReviewResponse(r domain.Review) ReviewResponse {
	answers := make([]AnswerResponse, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, AnswerResponse{
			QuestionID:   a.QuestionID,
			QuestionText: a.QuestionText,
			AnswerText:   a.AnswerText,
			AnswerRating: a.AnswerRating,
		})
	}
	resp := ReviewResponse{
		ID:            r.ID,
		BusinessID:    r.BusinessID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Answers:       answers,
		OverallRating: r.OverallRating,
		Processed:     r.Processed,
		CreatedAt:     r.CreatedAt,
		AnalyzedAt:    r.AnalyzedAt,
	}
	if r.Analysis != nil {
		topics := r.Analysis.KeyTopics
		if topics == nil {
			topics = []string{}
		}
		resp.Analysis = &AnalysisResponse{
			SentimentScore: r.Analysis.SentimentScore,
			KeyTopics:      topics,
			Summary:        r.Analysis.Summary,
			Suggestions:    r.Analysis.Suggestions,
			Fallback:       r.Analysis.Fallback,
		}
	}
	return resp
}

func NewReviewResponses(reviews []domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return out
}
