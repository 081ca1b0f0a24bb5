package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMMERxKx/Review/internal/domain"
)

func TestDistribute(t *testing.T) {
	total := 0
	for i := 0; i < 3; i++ {
		total += distribute(10, 3, i)
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, 4, distribute(10, 3, 0))
	assert.Equal(t, 3, distribute(10, 3, 2))
	assert.Zero(t, distribute(10, 0, 0))
}

func TestGenerateReviews(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	questions := generateQuestions("biz-1", now)

	reviews := generateReviews(rng, "biz-1", questions, 40, 0.5, now)

	require.Len(t, reviews, 40)
	var pending int
	for _, r := range reviews {
		assert.Equal(t, "biz-1", r.BusinessID)
		require.NotNil(t, r.OverallRating)
		assert.GreaterOrEqual(t, *r.OverallRating, 1)
		assert.LessOrEqual(t, *r.OverallRating, 5)
		assert.Len(t, r.Answers, len(questions))
		assert.False(t, r.CreatedAt.After(now))
		if !r.Processed {
			pending++
			assert.Nil(t, r.Analysis)
			continue
		}
		require.NotNil(t, r.Analysis)
		assert.LessOrEqual(t, len(r.Analysis.KeyTopics), domain.MaxKeyTopics)
	}
	assert.Greater(t, pending, 0)
	assert.Less(t, pending, 40)
}

func TestGenerateBusinessesUniqueEmails(t *testing.T) {
	businesses := generateBusinesses(rand.New(rand.NewSource(1)), 10, "hash", time.Now())
	seen := map[string]bool{}
	for _, b := range businesses {
		assert.False(t, seen[b.OwnerEmail], b.OwnerEmail)
		seen[b.OwnerEmail] = true
		assert.Equal(t, "hash", b.PasswordHash)
	}
}
