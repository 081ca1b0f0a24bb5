// Package queue provides AnalysisQueue backends.
package queue

import (
	"context"

	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/application"
)

const DefaultMemoryQueueSize = 256

// MemoryQueue is a bounded in-process queue. Tasks are lost on restart; the
// sweeper re-queues them.
type MemoryQueue struct {
	tasks  chan application.AnalysisTask
	logger *zap.Logger
}

func NewMemoryQueue(size int, logger *zap.Logger) *MemoryQueue {
	if size <= 0 {
		size = DefaultMemoryQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryQueue{tasks: make(chan application.AnalysisTask, size), logger: logger}
}

// Enqueue never blocks; a full buffer returns application.ErrQueueFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, task application.AnalysisTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return application.ErrQueueFull
	}
}

func (q *MemoryQueue) Consume(ctx context.Context, handler application.TaskHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-q.tasks:
			if err := handler(ctx, task); err != nil {
				q.logger.Warn("analysis handler failed",
					zap.String("taskId", task.ID),
					zap.String("reviewId", task.ReviewID),
					zap.Error(err),
				)
			}
		}
	}
}

// Len reports buffered tasks.
func (q *MemoryQueue) Len() int {
	return len(q.tasks)
}
