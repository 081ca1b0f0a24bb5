package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMMERxKx/Review/internal/domain"
)

func TestCreateQuestionAppendsByDefault(t *testing.T) {
	repo := newMemoryQuestions()
	svc := NewQuestionService(repo, fixedClock{now: testNow})
	ctx := context.Background()

	first, err := svc.Create(ctx, "biz-1", CreateQuestionCommand{Text: "How was it?", Type: "rating", Options: []string{"ignored"}})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "biz-1", CreateQuestionCommand{Text: "Pick one", Type: "multiple-choice", Options: []string{"A", "B", "A", " "}})
	require.NoError(t, err)

	assert.Equal(t, 0, first.Order)
	assert.Nil(t, first.Options)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, []string{"A", "B"}, second.Options)
}

func TestCreateQuestionValidation(t *testing.T) {
	svc := NewQuestionService(newMemoryQuestions(), nil)

	_, err := svc.Create(context.Background(), "biz-1", CreateQuestionCommand{Text: "  "})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(context.Background(), "biz-1", CreateQuestionCommand{Text: "Q", Type: "slider"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(context.Background(), "biz-1", CreateQuestionCommand{Text: "Q", Type: "multiple-choice", Options: []string{"only"}})
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateQuestionOwnership(t *testing.T) {
	repo := newMemoryQuestions()
	svc := NewQuestionService(repo, fixedClock{now: testNow})
	ctx := context.Background()
	question, err := svc.Create(ctx, "biz-1", CreateQuestionCommand{Text: "Original"})
	require.NoError(t, err)

	text := "Hijacked"
	_, err = svc.Update(ctx, "biz-2", question.ID, UpdateQuestionCommand{Text: &text})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := repo.FindByID(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Text)

	_, err = svc.Update(ctx, "biz-1", "q-missing", UpdateQuestionCommand{Text: &text})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	text = "Updated"
	required := true
	updated, err := svc.Update(ctx, "biz-1", question.ID, UpdateQuestionCommand{Text: &text, Required: &required})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Text)
	assert.True(t, updated.Required)
}

func TestDeleteQuestionOwnership(t *testing.T) {
	repo := newMemoryQuestions()
	svc := NewQuestionService(repo, nil)
	ctx := context.Background()
	question, err := svc.Create(ctx, "biz-1", CreateQuestionCommand{Text: "Keep me"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "biz-2", question.ID), domain.ErrForbidden)
	_, err = repo.FindByID(ctx, question.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "biz-1", question.ID))
	_, err = repo.FindByID(ctx, question.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuestionRepositoryFakeDeleteIsTenantScoped(t *testing.T) {
	repo := newMemoryQuestions()
	ctx := context.Background()
	question := &domain.Question{BusinessID: "biz-1", Text: "Keep me"}
	require.NoError(t, repo.Create(ctx, question))

	assert.ErrorIs(t, repo.Delete(ctx, "biz-2", question.ID), domain.ErrNotFound)
	_, err := repo.FindByID(ctx, question.ID)
	require.NoError(t, err)
}

func TestReorderQuestions(t *testing.T) {
	repo := newMemoryQuestions()
	svc := NewQuestionService(repo, nil)
	ctx := context.Background()

	var ids []string
	for _, text := range []string{"one", "two", "three"} {
		q, err := svc.Create(ctx, "biz-1", CreateQuestionCommand{Text: text})
		require.NoError(t, err)
		ids = append(ids, q.ID)
	}
	foreign, err := svc.Create(ctx, "biz-2", CreateQuestionCommand{Text: "other"})
	require.NoError(t, err)

	require.NoError(t, svc.Reorder(ctx, "biz-1", []string{ids[2], ids[0], ids[1]}))
	list, err := svc.List(ctx, "biz-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"three", "one", "two"}, []string{list[0].Text, list[1].Text, list[2].Text})

	err = svc.Reorder(ctx, "biz-1", []string{ids[0], foreign.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	list, err = svc.List(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, "three", list[0].Text)

	assert.True(t, domain.IsValidation(svc.Reorder(ctx, "biz-1", nil)))
	assert.True(t, domain.IsValidation(svc.Reorder(ctx, "biz-1", []string{ids[0], ids[0]})))
}
