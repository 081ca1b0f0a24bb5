package application

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	defaultSweepSpec  = "@every 5m"
	defaultSweepGrace = 2 * time.Minute
	defaultSweepLimit = 100
)

// AnalysisSweeperConfig wires the periodic re-queue of unprocessed reviews.
type AnalysisSweeperConfig struct {
	Reviews ReviewRepository
	Queue   AnalysisQueue
	Spec    string
	Grace   time.Duration
	Limit   int
	Clock   Clock
	Logger  *zap.Logger
}

// AnalysisSweeper re-enqueues reviews whose task was lost or exhausted.
type AnalysisSweeper struct {
	reviews ReviewRepository
	queue   AnalysisQueue
	spec    string
	grace   time.Duration
	limit   int
	clock   Clock
	logger  *zap.Logger
	cron    *cron.Cron
}

func NewAnalysisSweeper(cfg AnalysisSweeperConfig) *AnalysisSweeper {
	s := &AnalysisSweeper{
		reviews: cfg.Reviews,
		queue:   cfg.Queue,
		spec:    cfg.Spec,
		grace:   cfg.Grace,
		limit:   cfg.Limit,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
	}
	if s.spec == "" {
		s.spec = defaultSweepSpec
	}
	if s.grace <= 0 {
		s.grace = defaultSweepGrace
	}
	if s.limit <= 0 {
		s.limit = defaultSweepLimit
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Sweep re-enqueues unprocessed reviews older than the grace period.
func (s *AnalysisSweeper) Sweep(ctx context.Context) (int, error) {
	now := s.clock.Now()
	pending, err := s.reviews.ListUnprocessed(ctx, now.Add(-s.grace), s.limit)
	if err != nil {
		return 0, fmt.Errorf("list unprocessed reviews: %w", err)
	}
	queued := 0
	for _, review := range pending {
		task := NewAnalysisTask(review.ID, review.BusinessID, 1, now)
		if err := s.queue.Enqueue(ctx, task); err != nil {
			return queued, fmt.Errorf("enqueue review %s: %w", review.ID, err)
		}
		queued++
	}
	return queued, nil
}

// Start schedules Sweep on the cron spec. Runs never overlap.
func (s *AnalysisSweeper) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(s.spec, func() {
		queued, err := s.Sweep(ctx)
		if err != nil {
			s.logger.Error("analysis sweep failed", zap.Int("queued", queued), zap.Error(err))
			return
		}
		if queued > 0 {
			s.logger.Info("analysis sweep re-queued reviews", zap.Int("queued", queued))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule analysis sweep %q: %w", s.spec, err)
	}
	s.cron = c
	c.Start()
	s.logger.Info("analysis sweeper started", zap.String("spec", s.spec), zap.Duration("grace", s.grace))
	return nil
}

// Stop halts the schedule and waits for a running sweep.
func (s *AnalysisSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
