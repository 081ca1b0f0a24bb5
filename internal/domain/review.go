package domain

import "time"

// Review is one customer's submission plus the analysis attached later.
// Analysis stays nil until Processed is set by the analysis step.
type Review struct {
	ID            string
	BusinessID    string
	CustomerName  string
	CustomerEmail string
	Answers       []Answer
	OverallRating *int
	Analysis      *AnalysisResult
	Processed     bool
	CreatedAt     time.Time
	AnalyzedAt    *time.Time
}

// Answer pairs a question snapshot with a free-text or numeric answer.
type Answer struct {
	QuestionID   string
	QuestionText string
	AnswerText   string
	AnswerRating *float64
}

// OwnedBy compares the owning business with the caller.
func (r Review) OwnedBy(businessID string) bool {
	return r.BusinessID != "" && r.BusinessID == businessID
}

// SentimentScore returns the analysed score, or 0 when no analysis exists yet.
func (r Review) SentimentScore() float64 {
	if r.Analysis == nil {
		return 0
	}
	return r.Analysis.SentimentScore
}

// Rating returns the overall rating, or 0 when the customer left none.
func (r Review) Rating() float64 {
	if r.OverallRating == nil {
		return 0
	}
	return float64(*r.OverallRating)
}
