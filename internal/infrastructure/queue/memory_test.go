package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SUMMERxKx/Review/internal/application"
)

func TestMemoryQueueBounded(t *testing.T) {
	q := NewMemoryQueue(2, nil)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, application.AnalysisTask{ReviewID: "r1"}))
	require.NoError(t, q.Enqueue(ctx, application.AnalysisTask{ReviewID: "r2"}))
	assert.ErrorIs(t, q.Enqueue(ctx, application.AnalysisTask{ReviewID: "r3"}), application.ErrQueueFull)
	assert.Equal(t, 2, q.Len())
}

func TestMemoryQueueConsume(t *testing.T) {
	q := NewMemoryQueue(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Enqueue(ctx, application.AnalysisTask{ReviewID: "r1", Attempt: 1}))

	got := make(chan application.AnalysisTask, 1)
	done := make(chan error, 1)
	go func() {
		done <- q.Consume(ctx, func(_ context.Context, task application.AnalysisTask) error {
			got <- task
			return nil
		})
	}()

	select {
	case task := <-got:
		assert.Equal(t, "r1", task.ReviewID)
	case <-time.After(2 * time.Second):
		t.Fatal("task was not delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestMemoryQueueRejectsCancelledContext(t *testing.T) {
	q := NewMemoryQueue(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.Enqueue(ctx, application.AnalysisTask{ReviewID: "r1"}), context.Canceled)
}

func TestMemoryQueueLogsHandlerError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	q := NewMemoryQueue(1, zap.New(core))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Enqueue(ctx, application.AnalysisTask{ID: "t1", ReviewID: "r1"}))

	handled := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- q.Consume(ctx, func(context.Context, application.AnalysisTask) error {
			defer close(handled)
			return errors.New("mongo unavailable")
		})
	}()

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not delivered")
	}
	require.Eventually(t, func() bool { return logs.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	entry := logs.All()[0]
	assert.Equal(t, "analysis handler failed", entry.Message)
	assert.Equal(t, "r1", entry.ContextMap()["reviewId"])
	assert.Equal(t, "mongo unavailable", entry.ContextMap()["error"])
}
