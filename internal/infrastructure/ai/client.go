// Package ai analyses review transcripts with a generative model.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Model generates a completion for a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the disabled model.
var ErrNotConfigured = errors.New("ai provider is not configured")

// DisabledModel is used when no API key is set; every review gets the fallback analysis.
type DisabledModel struct{}

func (DisabledModel) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Client implements application.ReviewAnalyzer on top of a Model.
type Client struct {
	model   Model
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient wraps model. A non-positive timeout means 30s.
func NewClient(model Model, timeout time.Duration, logger *zap.Logger) *Client {
	if model == nil {
		model = DisabledModel{}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{model: model, timeout: timeout, logger: logger}
}

// Analyze never fails. Model errors and unusable output yield domain.FallbackAnalysis.
func (c *Client) Analyze(ctx context.Context, review domain.Review) domain.AnalysisResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.model.Generate(ctx, BuildPrompt(FormatReview(review)))
	if err != nil {
		c.logger.Warn("ai generate failed", zap.String("reviewId", review.ID), zap.Error(err))
		return domain.FallbackAnalysis()
	}
	result, err := ParseAnalysis(text)
	if err != nil {
		c.logger.Warn("ai response unusable", zap.String("reviewId", review.ID), zap.Error(err))
		return domain.FallbackAnalysis()
	}
	return result
}

type analysisPayload struct {
	SentimentScore *float64        `json:"sentimentScore"`
	KeyTopics      []string        `json:"keyTopics"`
	Summary        string          `json:"summary"`
	Suggestions    json.RawMessage `json:"suggestions"`
}

// ParseAnalysis extracts and decodes the JSON object in a model response.
func ParseAnalysis(text string) (domain.AnalysisResult, error) {
	raw, ok := ExtractJSON(text)
	if !ok {
		return domain.AnalysisResult{}, errors.New("no json object in response")
	}
	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("decode analysis: %w", err)
	}
	if payload.SentimentScore == nil {
		return domain.AnalysisResult{}, errors.New("sentimentScore missing")
	}
	suggestions, err := decodeSuggestions(payload.Suggestions)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	result := domain.AnalysisResult{
		SentimentScore: *payload.SentimentScore,
		KeyTopics:      payload.KeyTopics,
		Summary:        payload.Summary,
		Suggestions:    suggestions,
	}
	result.Normalize()
	return result, nil
}

// suggestions は文字列でも配列でも受け付ける。
func decodeSuggestions(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", fmt.Errorf("decode suggestions: %w", err)
	}
	kept := make([]string, 0, domain.MaxSuggestions)
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		kept = append(kept, item)
		if len(kept) == domain.MaxSuggestions {
			break
		}
	}
	return strings.Join(kept, "\n"), nil
}
