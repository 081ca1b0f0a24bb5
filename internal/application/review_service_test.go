package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMMERxKx/Review/internal/domain"
)

type intakeFixture struct {
	businesses *memoryBusinesses
	questions  *memoryQuestions
	reviews    *memoryReviews
	queue      *recordingQueue
	svc        ReviewCommandService
	business   *domain.Business
}

func newIntakeFixture(t *testing.T) *intakeFixture {
	t.Helper()
	f := &intakeFixture{
		businesses: newMemoryBusinesses(),
		questions:  newMemoryQuestions(),
		reviews:    newMemoryReviews(),
		queue:      &recordingQueue{},
	}
	f.business = &domain.Business{Name: "Shop", OwnerEmail: "a@b.co"}
	require.NoError(t, f.businesses.Create(context.Background(), f.business))
	f.svc = NewReviewCommandService(ReviewCommandConfig{
		Businesses: f.businesses,
		Questions:  f.questions,
		Reviews:    f.reviews,
		Queue:      f.queue,
		Clock:      fixedClock{now: testNow},
	})
	return f
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestSubmitStoresUnprocessedAndEnqueues(t *testing.T) {
	f := newIntakeFixture(t)

	review, err := f.svc.Submit(context.Background(), SubmitReviewCommand{
		BusinessID:    f.business.ID,
		CustomerName:  " Jane ",
		CustomerEmail: "jane@example.com",
		OverallRating: intPtr(4),
		Answers:       []AnswerInput{{QuestionText: "How was it?", AnswerText: "Great coffee", AnswerRating: floatPtr(5)}},
	})
	require.NoError(t, err)

	assert.False(t, review.Processed)
	assert.Nil(t, review.Analysis)
	assert.Equal(t, "Jane", review.CustomerName)
	assert.Equal(t, testNow, review.CreatedAt)

	tasks := f.queue.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, review.ID, tasks[0].ReviewID)
	assert.Equal(t, f.business.ID, tasks[0].BusinessID)
	assert.Equal(t, 1, tasks[0].Attempt)
	assert.NotEmpty(t, tasks[0].ID)
}

func TestSubmitUnknownBusinessWritesNothing(t *testing.T) {
	f := newIntakeFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitReviewCommand{
		BusinessID: "no-such-business",
		Answers:    []AnswerInput{{QuestionText: "Q", AnswerText: "A"}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.reviews.items)
	assert.Empty(t, f.queue.Tasks())
}

func TestSubmitSnapshotsQuestionText(t *testing.T) {
	f := newIntakeFixture(t)
	question := &domain.Question{BusinessID: f.business.ID, Text: "Stored text", Type: domain.QuestionTypeText}
	require.NoError(t, f.questions.Create(context.Background(), question))

	review, err := f.svc.Submit(context.Background(), SubmitReviewCommand{
		BusinessID: f.business.ID,
		Answers:    []AnswerInput{{QuestionID: question.ID, QuestionText: "client text", AnswerText: "fine"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Stored text", review.Answers[0].QuestionText)
}

func TestSubmitValidation(t *testing.T) {
	f := newIntakeFixture(t)

	cases := map[string]SubmitReviewCommand{
		"rating too high":  {BusinessID: f.business.ID, OverallRating: intPtr(6)},
		"rating too low":   {BusinessID: f.business.ID, OverallRating: intPtr(0)},
		"answer rating":    {BusinessID: f.business.ID, Answers: []AnswerInput{{QuestionText: "Q", AnswerRating: floatPtr(9)}}},
	}
	for name, cmd := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), cmd)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
	assert.Empty(t, f.reviews.items)
}

// 店舗の存在以外は原則そのまま受け付ける。
func TestSubmitAcceptsLooseInput(t *testing.T) {
	f := newIntakeFixture(t)
	foreign := &domain.Question{BusinessID: "biz-other", Text: "Other"}
	require.NoError(t, f.questions.Create(context.Background(), foreign))

	tests := []struct {
		name   string
		cmd    SubmitReviewCommand
		verify func(t *testing.T, r *domain.Review)
	}{
		{
			name: "free-form email",
			cmd:  SubmitReviewCommand{BusinessID: f.business.ID, CustomerEmail: "  call me maybe  "},
			verify: func(t *testing.T, r *domain.Review) {
				assert.Equal(t, "call me maybe", r.CustomerEmail)
			},
		},
		{
			name: "unknown question id",
			cmd: SubmitReviewCommand{BusinessID: f.business.ID, Answers: []AnswerInput{
				{QuestionID: "65f000000000000000000000", QuestionText: "Client prompt", AnswerText: "ok"},
			}},
			verify: func(t *testing.T, r *domain.Review) {
				assert.Empty(t, r.Answers[0].QuestionID)
				assert.Equal(t, "Client prompt", r.Answers[0].QuestionText)
			},
		},
		{
			name: "foreign question id",
			cmd: SubmitReviewCommand{BusinessID: f.business.ID, Answers: []AnswerInput{
				{QuestionID: foreign.ID, QuestionText: "Mine", AnswerText: "ok"},
			}},
			verify: func(t *testing.T, r *domain.Review) {
				assert.Empty(t, r.Answers[0].QuestionID)
				assert.Equal(t, "Mine", r.Answers[0].QuestionText)
			},
		},
		{
			name: "answer without question text",
			cmd:  SubmitReviewCommand{BusinessID: f.business.ID, Answers: []AnswerInput{{AnswerText: "just a comment"}}},
			verify: func(t *testing.T, r *domain.Review) {
				assert.Empty(t, r.Answers[0].QuestionText)
				assert.Equal(t, "just a comment", r.Answers[0].AnswerText)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, err := f.svc.Submit(context.Background(), tt.cmd)
			require.NoError(t, err)
			require.NotNil(t, review)
			tt.verify(t, review)
		})
	}
	assert.Len(t, f.reviews.items, len(tests))
	assert.Len(t, f.queue.Tasks(), len(tests))
}

func TestSubmitSucceedsWhenEnqueueFails(t *testing.T) {
	f := newIntakeFixture(t)
	f.queue.err = errors.New("redis down")

	review, err := f.svc.Submit(context.Background(), SubmitReviewCommand{BusinessID: f.business.ID})
	require.NoError(t, err)
	assert.False(t, review.Processed)
	assert.Len(t, f.reviews.items, 1)
}

func TestReviewQueries(t *testing.T) {
	businesses := newMemoryBusinesses()
	questions := newMemoryQuestions()
	reviews := newMemoryReviews()
	ctx := context.Background()

	business := &domain.Business{Name: "Shop", OwnerEmail: "a@b.co", FormSettings: domain.DefaultFormSettings()}
	require.NoError(t, businesses.Create(ctx, business))
	require.NoError(t, questions.Create(ctx, &domain.Question{BusinessID: business.ID, Text: "Q1"}))
	own := &domain.Review{BusinessID: business.ID, OverallRating: intPtr(4), CreatedAt: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, reviews.Create(ctx, own))
	other := &domain.Review{BusinessID: "biz-other"}
	require.NoError(t, reviews.Create(ctx, other))

	svc := NewReviewQueryService(businesses, questions, reviews, nil)

	detail, err := svc.Detail(ctx, business.ID, own.ID)
	require.NoError(t, err)
	assert.Equal(t, own.ID, detail.ID)

	_, err = svc.Detail(ctx, business.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Detail(ctx, business.ID, "r-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stats, err := svc.Analytics(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalReviews)
	assert.InDelta(t, 4.0, stats.AverageRating, 1e-9)
	assert.Equal(t, map[string]int{"2024-04": 1}, stats.ReviewsByMonth)
	assert.Equal(t, 1, stats.PendingAnalysis)

	form, err := svc.Form(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shop", form.Business.Name)
	assert.Len(t, form.Questions, 1)

	_, err = svc.Form(ctx, "biz-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
