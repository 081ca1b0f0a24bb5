// Package analytics aggregates a business's reviews into dashboard statistics.
package analytics

import (
	"sort"
	"time"

	"github.com/SUMMERxKx/Review/internal/domain"
)

const (
	monthLayout  = "2006-01"
	maxTopTopics = 5
)

// Compute recomputes all statistics from scratch. loc decides the month bucket of
// each review; nil means UTC.
func Compute(reviews []domain.Review, loc *time.Location) domain.Analytics {
	if loc == nil {
		loc = time.UTC
	}
	result := domain.Analytics{
		TotalReviews:   len(reviews),
		ReviewsByMonth: make(map[string]int),
		TopTopics:      []domain.TopicCount{},
	}
	if len(reviews) == 0 {
		return result
	}

	var sentimentSum, ratingSum float64
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, review := range reviews {
		sentimentSum += review.SentimentScore()
		ratingSum += review.Rating()
		if !review.Processed {
			result.PendingAnalysis++
		}
		if !review.CreatedAt.IsZero() {
			result.ReviewsByMonth[review.CreatedAt.In(loc).Format(monthLayout)]++
		}
		if review.Analysis == nil {
			continue
		}
		for _, topic := range review.Analysis.KeyTopics {
			if topic == "" {
				continue
			}
			if _, ok := firstSeen[topic]; !ok {
				firstSeen[topic] = len(firstSeen)
			}
			counts[topic]++
		}
	}

	total := float64(len(reviews))
	result.AverageSentiment = sentimentSum / total
	result.AverageRating = ratingSum / total
	result.TopTopics = topTopics(counts, firstSeen)
	return result
}

func topTopics(counts, firstSeen map[string]int) []domain.TopicCount {
	topics := make([]domain.TopicCount, 0, len(counts))
	for topic, count := range counts {
		topics = append(topics, domain.TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return firstSeen[topics[i].Topic] < firstSeen[topics[j].Topic]
	})
	if len(topics) > maxTopTopics {
		topics = topics[:maxTopTopics]
	}
	return topics
}
