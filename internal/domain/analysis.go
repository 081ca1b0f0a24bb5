package domain

import (
	"math"
	"strings"
)

const (
	MaxKeyTopics   = 5
	MaxSuggestions = 3
)

// AnalysisResult is the sentiment/topic breakdown produced for a review.
type AnalysisResult struct {
	SentimentScore float64
	KeyTopics      []string
	Summary        string
	Suggestions    string
	// Fallback marks results substituted after the AI call failed.
	Fallback bool
}

// FallbackAnalysis is stored when the AI call or its output parsing fails.
func FallbackAnalysis() AnalysisResult {
	return AnalysisResult{
		SentimentScore: 0,
		KeyTopics:      []string{"analysis failed"},
		Summary:        "Unable to analyze review content.",
		Suggestions:    "Review manually.",
		Fallback:       true,
	}
}

// Normalize clamps the score into [-1, 1] and caps topics at five distinct labels.
func (a *AnalysisResult) Normalize() {
	switch {
	case math.IsNaN(a.SentimentScore):
		a.SentimentScore = 0
	case a.SentimentScore > 1:
		a.SentimentScore = 1
	case a.SentimentScore < -1:
		a.SentimentScore = -1
	}

	topics := make([]string, 0, len(a.KeyTopics))
	seen := make(map[string]struct{}, len(a.KeyTopics))
	for _, topic := range a.KeyTopics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		key := strings.ToLower(topic)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		topics = append(topics, topic)
		if len(topics) == MaxKeyTopics {
			break
		}
	}
	a.KeyTopics = topics
	a.Summary = strings.TrimSpace(a.Summary)
	a.Suggestions = strings.TrimSpace(a.Suggestions)
}
