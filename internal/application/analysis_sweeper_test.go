package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMMERxKx/Review/internal/domain"
)

func TestSweepRequeuesStaleUnprocessedReviews(t *testing.T) {
	reviews := newMemoryReviews()
	ctx := context.Background()
	stale := &domain.Review{BusinessID: "biz-1", CreatedAt: testNow.Add(-10 * time.Minute)}
	fresh := &domain.Review{BusinessID: "biz-1", CreatedAt: testNow.Add(-30 * time.Second)}
	done := &domain.Review{BusinessID: "biz-1", CreatedAt: testNow.Add(-time.Hour), Processed: true}
	for _, r := range []*domain.Review{stale, fresh, done} {
		require.NoError(t, reviews.Create(ctx, r))
	}

	queue := &recordingQueue{}
	sweeper := NewAnalysisSweeper(AnalysisSweeperConfig{
		Reviews: reviews,
		Queue:   queue,
		Grace:   2 * time.Minute,
		Clock:   fixedClock{now: testNow},
	})

	queued, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, queued)
	tasks := queue.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, stale.ID, tasks[0].ReviewID)
	assert.Equal(t, 1, tasks[0].Attempt)
}

func TestSweeperRejectsBadSpec(t *testing.T) {
	sweeper := NewAnalysisSweeper(AnalysisSweeperConfig{Reviews: newMemoryReviews(), Queue: &recordingQueue{}, Spec: "not a spec"})
	assert.Error(t, sweeper.Start(context.Background()))
	sweeper.Stop()
}

func TestSweeperStartStop(t *testing.T) {
	sweeper := NewAnalysisSweeper(AnalysisSweeperConfig{Reviews: newMemoryReviews(), Queue: &recordingQueue{}, Spec: "@every 1h"})
	require.NoError(t, sweeper.Start(context.Background()))
	sweeper.Stop()
}
