package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/domain"
)

const (
	defaultAnalysisWorkers     = 2
	defaultAnalysisMaxAttempts = 3
)

// AnalysisWorkerConfig wires the background analysis consumers.
type AnalysisWorkerConfig struct {
	Queue       AnalysisQueue
	Reviews     ReviewRepository
	Analyzer    ReviewAnalyzer
	Workers     int
	MaxAttempts int
	Clock       Clock
	Logger      *zap.Logger
}

// AnalysisWorker consumes AnalysisTasks and attaches results to stored reviews.
type AnalysisWorker struct {
	queue       AnalysisQueue
	reviews     ReviewRepository
	analyzer    ReviewAnalyzer
	workers     int
	maxAttempts int
	clock       Clock
	logger      *zap.Logger
}

// NewAnalysisWorker applies defaults to the config.
func NewAnalysisWorker(cfg AnalysisWorkerConfig) *AnalysisWorker {
	w := &AnalysisWorker{
		queue:       cfg.Queue,
		reviews:     cfg.Reviews,
		analyzer:    cfg.Analyzer,
		workers:     cfg.Workers,
		maxAttempts: cfg.MaxAttempts,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
	}
	if w.workers <= 0 {
		w.workers = defaultAnalysisWorkers
	}
	if w.maxAttempts <= 0 {
		w.maxAttempts = defaultAnalysisMaxAttempts
	}
	if w.clock == nil {
		w.clock = SystemClock{}
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// Run blocks until ctx is cancelled and every consumer has returned.
func (w *AnalysisWorker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				err := w.queue.Consume(ctx, w.Handle)
				if ctx.Err() != nil {
					return
				}
				w.logger.Error("analysis consumer stopped; restarting", zap.Int("worker", id), zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
			}
		}(i)
	}
	wg.Wait()
}

// Handle processes one task. It returns an error only when the task could not be
// completed or handed back to the queue.
func (w *AnalysisWorker) Handle(ctx context.Context, task AnalysisTask) error {
	logger := w.logger.With(
		zap.String("taskId", task.ID),
		zap.String("reviewId", task.ReviewID),
		zap.Int("attempt", task.Attempt),
	)

	review, err := w.reviews.FindByID(ctx, task.ReviewID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("review for analysis task not found; dropping")
		return nil
	}
	if err != nil {
		return w.retry(ctx, logger, task, err)
	}
	if review.Processed {
		logger.Debug("review already analysed; skipping")
		return nil
	}

	result := w.analyzer.Analyze(ctx, *review)
	updated, err := w.reviews.MarkAnalyzed(ctx, review.ID, result, w.clock.Now())
	if err != nil {
		return w.retry(ctx, logger, task, err)
	}
	if !updated {
		logger.Debug("review analysed concurrently; result discarded")
		return nil
	}
	logger.Info("review analysed",
		zap.Float64("sentiment", result.SentimentScore),
		zap.Bool("fallback", result.Fallback),
	)
	return nil
}

func (w *AnalysisWorker) retry(ctx context.Context, logger *zap.Logger, task AnalysisTask, cause error) error {
	if task.Attempt >= w.maxAttempts {
		logger.Error("analysis attempts exhausted; leaving review for the sweeper", zap.Error(cause))
		return nil
	}
	next := task
	next.Attempt++
	next.EnqueuedAt = w.clock.Now()
	if err := w.queue.Enqueue(ctx, next); err != nil {
		logger.Error("re-enqueue analysis failed", zap.Error(err), zap.NamedError("cause", cause))
		return err
	}
	logger.Warn("analysis failed; re-enqueued", zap.Int("nextAttempt", next.Attempt), zap.Error(cause))
	return nil
}
