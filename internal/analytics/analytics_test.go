package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMMERxKx/Review/internal/domain"
)

func intPtr(v int) *int { return &v }

func analysed(score float64, topics ...string) *domain.AnalysisResult {
	return &domain.AnalysisResult{SentimentScore: score, KeyTopics: topics}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, nil)

	assert.Equal(t, 0, got.TotalReviews)
	assert.Zero(t, got.AverageSentiment)
	assert.Zero(t, got.AverageRating)
	assert.Empty(t, got.ReviewsByMonth)
	assert.Empty(t, got.TopTopics)
	assert.Equal(t, 0, got.PendingAnalysis)
}

func TestComputeAverages(t *testing.T) {
	created := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	reviews := []domain.Review{
		{OverallRating: intPtr(5), Analysis: analysed(0.8), Processed: true, CreatedAt: created},
		{OverallRating: intPtr(3), Analysis: analysed(-0.2), Processed: true, CreatedAt: created},
		// 未分析・評価なしのレビューは 0 として平均に含める。
		{CreatedAt: created},
	}

	got := Compute(reviews, time.UTC)

	assert.Equal(t, 3, got.TotalReviews)
	assert.InDelta(t, 0.2, got.AverageSentiment, 1e-9)
	assert.InDelta(t, 8.0/3.0, got.AverageRating, 1e-9)
	assert.Equal(t, 1, got.PendingAnalysis)
}

func TestComputeReviewsByMonth(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	reviews := []domain.Review{
		{CreatedAt: time.Date(2024, 1, 31, 16, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)},
	}

	assert.Equal(t, map[string]int{"2024-01": 2, "2024-02": 1}, Compute(reviews, time.UTC).ReviewsByMonth)
	assert.Equal(t, map[string]int{"2024-01": 1, "2024-02": 2}, Compute(reviews, tokyo).ReviewsByMonth)
}

func TestComputeTopTopicsTieBreak(t *testing.T) {
	reviews := []domain.Review{
		{Processed: true, Analysis: analysed(0, "service", "price")},
		{Processed: true, Analysis: analysed(0, "food", "price")},
		{Processed: true, Analysis: analysed(0, "ambience", "parking", "wifi", "food")},
	}

	got := Compute(reviews, nil)

	require.Len(t, got.TopTopics, 5)
	assert.Equal(t, []domain.TopicCount{
		{Topic: "price", Count: 2},
		{Topic: "food", Count: 2},
		{Topic: "service", Count: 1},
		{Topic: "ambience", Count: 1},
		{Topic: "parking", Count: 1},
	}, got.TopTopics)
}
