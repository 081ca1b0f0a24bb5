package main

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/SUMMERxKx/Review/internal/domain"
)

var businessNames = []string{
	"Blue Bottle Kitchen", "Sakura Ramen", "Harbor Books", "Maple Dental", "Northside Cycles",
	"Lumen Yoga", "Copper Pot Bistro", "Green Leaf Grocers",
}

var customerNames = []string{
	"Hanako", "Taro", "Emma", "Liam", "Yuki", "Olivia", "Kenji", "Sofia", "Noah", "Aiko", "",
}

var topicPool = []string{
	"service", "staff", "price", "cleanliness", "wait time", "atmosphere", "quality", "location",
}

type canned struct {
	text      string
	sentiment float64
}

var comments = []canned{
	{"Friendly staff and quick service, will come back.", 0.8},
	{"Great quality but a little pricey.", 0.4},
	{"Waited too long and nobody apologised.", -0.6},
	{"Clean place, nice atmosphere.", 0.7},
	{"It was fine, nothing special.", 0.0},
	{"Order was wrong and the staff were rude.", -0.8},
	{"Loved it! Best in the neighbourhood.", 0.9},
}

func generateBusinesses(rng *rand.Rand, count int, passwordHash string, now time.Time) []domain.Business {
	out := make([]domain.Business, 0, count)
	for i := 0; i < count; i++ {
		name := businessNames[i%len(businessNames)]
		if i >= len(businessNames) {
			name = fmt.Sprintf("%s %d", name, i/len(businessNames)+1)
		}
		settings := domain.DefaultFormSettings()
		settings.Title = name + " Feedback"
		settings.Description = "Tell us how we did today."
		created := now.AddDate(0, -6, 0).Add(time.Duration(rng.Intn(72)) * time.Hour)
		out = append(out, domain.Business{
			Name:         name,
			OwnerEmail:   fmt.Sprintf("owner%d@example.com", i+1),
			PasswordHash: passwordHash,
			FormSettings: settings,
			CreatedAt:    created,
			UpdatedAt:    created,
		})
	}
	return out
}

func generateQuestions(businessID string, now time.Time) []domain.Question {
	base := []domain.Question{
		{Text: "How would you rate your overall experience?", Type: domain.QuestionTypeRating, Required: true},
		{Text: "What did you like most?", Type: domain.QuestionTypeText},
		{Text: "Which of these did you use?", Type: domain.QuestionTypeMultipleChoice, Options: []string{"Dine in", "Takeaway", "Delivery"}},
		{Text: "Would you recommend us to a friend?", Type: domain.QuestionTypeYesNo},
	}
	for i := range base {
		base[i].BusinessID = businessID
		base[i].Order = i
		base[i].CreatedAt = now
		base[i].UpdatedAt = now
	}
	return base
}

// generateReviews は過去 6 か月に散らばったレビューを作る。pendingRatio の割合は未分析のまま残す。
func generateReviews(rng *rand.Rand, businessID string, questions []domain.Question, count int, pendingRatio float64, now time.Time) []domain.Review {
	out := make([]domain.Review, 0, count)
	for i := 0; i < count; i++ {
		c := comments[rng.Intn(len(comments))]
		rating := clampRating(int(math.Round((c.sentiment+1)*2)) + 1)
		created := now.Add(-time.Duration(rng.Intn(180*24)) * time.Hour)

		answers := make([]domain.Answer, 0, len(questions))
		for _, q := range questions {
			answer := domain.Answer{QuestionID: q.ID, QuestionText: q.Text}
			switch q.Type {
			case domain.QuestionTypeRating:
				r := float64(rating)
				answer.AnswerRating = &r
			case domain.QuestionTypeMultipleChoice:
				answer.AnswerText = q.Options[rng.Intn(len(q.Options))]
			case domain.QuestionTypeYesNo:
				answer.AnswerText = "no"
				if c.sentiment > 0 {
					answer.AnswerText = "yes"
				}
			default:
				answer.AnswerText = c.text
			}
			answers = append(answers, answer)
		}

		name := customerNames[rng.Intn(len(customerNames))]
		review := domain.Review{
			BusinessID:    businessID,
			CustomerName:  name,
			Answers:       answers,
			OverallRating: &rating,
			CreatedAt:     created,
		}
		if name != "" {
			review.CustomerEmail = fmt.Sprintf("%s.%d@example.com", strings.ToLower(name), i)
		}
		if rng.Float64() >= pendingRatio {
			analyzedAt := created.Add(time.Duration(5+rng.Intn(55)) * time.Second)
			review.Processed = true
			review.AnalyzedAt = &analyzedAt
			review.Analysis = &domain.AnalysisResult{
				SentimentScore: c.sentiment,
				KeyTopics:      pickTopics(rng, 1+rng.Intn(3)),
				Summary:        "Customer said: " + c.text,
				Suggestions:    "Keep monitoring feedback for recurring themes.",
			}
		}
		out = append(out, review)
	}
	return out
}

// distribute splits total across buckets; earlier buckets take the remainder.
func distribute(total, buckets, index int) int {
	if buckets <= 0 || index < 0 || index >= buckets {
		return 0
	}
	n := total / buckets
	if index < total%buckets {
		n++
	}
	return n
}

func pickTopics(rng *rand.Rand, n int) []string {
	perm := rng.Perm(len(topicPool))
	if n > len(perm) {
		n = len(perm)
	}
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, topicPool[idx])
	}
	return out
}

func clampRating(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
