package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/application"
	"github.com/SUMMERxKx/Review/internal/config"
	"github.com/SUMMERxKx/Review/internal/infrastructure/ai"
	mongorepo "github.com/SUMMERxKx/Review/internal/infrastructure/mongo"
	"github.com/SUMMERxKx/Review/internal/infrastructure/qrcode"
	"github.com/SUMMERxKx/Review/internal/infrastructure/queue"
	"github.com/SUMMERxKx/Review/internal/infrastructure/security"
	dashboardhttp "github.com/SUMMERxKx/Review/internal/interfaces/http/dashboard"
	publichttp "github.com/SUMMERxKx/Review/internal/interfaces/http/public"
)

// Server は HTTP サーバーと分析ワーカーのライフサイクルを管理するコンポジションルート。
// ドメインロジックは持たず、リポジトリ・サービス・ハンドラを組み立てて接続するだけ。
type Server struct {
	cfg      config.Config
	logger   *zap.Logger
	client   *mongo.Client
	database *mongo.Database
	redis    *redis.Client
	location *time.Location
	tokens   *security.JWTManager

	queue   application.AnalysisQueue
	streams *queue.RedisStreamQueue
	worker  *application.AnalysisWorker
	sweeper *application.AnalysisSweeper

	dashboard *dashboardhttp.Handler
	public    *publichttp.Handler
	checks    []healthCheck
}

// New は Config と接続済みの Mongo クライアントから全依存を組み立てる。
// MinIO のバケット確認を行うため ctx を受け取る。
func New(ctx context.Context, cfg config.Config, client *mongo.Client, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	srv := &Server{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		database: client.Database(cfg.MongoDatabase),
		location: loc,
		tokens:   security.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
	}
	srv.checks = append(srv.checks, healthCheck{name: "mongo", check: mongoCheck(client)})

	if cfg.RedisEnabled() {
		srv.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		srv.streams = queue.NewRedisStreamQueue(srv.redis, cfg.AnalysisStream, "", logger)
		srv.queue = srv.streams
		srv.checks = append(srv.checks, healthCheck{name: "redis", check: redisCheck(srv.redis)})
	} else {
		srv.queue = queue.NewMemoryQueue(cfg.AnalysisQueueSize, logger)
	}

	var images qrcode.ImageStore
	if cfg.MinioEnabled() {
		store, err := qrcode.NewMinioStore(ctx, qrcode.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.MinioRegion,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init qr image store: %w", err)
		}
		images = store
	}

	model, err := ai.NewModel(ai.ProviderConfig{
		Provider:      cfg.AIProvider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		GeminiBaseURL: cfg.GeminiBaseURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		return nil, err
	}
	if _, disabled := model.(ai.DisabledModel); disabled {
		logger.Warn("AI API key is not configured; reviews will receive fallback analysis",
			zap.String("provider", cfg.AIProvider))
	}

	businesses := mongorepo.NewBusinessRepository(srv.database, cfg.BusinessCollection)
	questions := mongorepo.NewQuestionRepository(srv.database, cfg.QuestionCollection)
	reviews := mongorepo.NewReviewRepository(srv.database, cfg.ReviewCollection)
	clock := application.SystemClock{}

	businessService := application.NewBusinessService(application.BusinessServiceConfig{
		Businesses: businesses,
		Hasher:     security.NewBcryptHasher(cfg.BcryptCost),
		Tokens:     srv.tokens,
		QRCodes:    qrcode.NewGenerator(cfg.FeedbackBaseURL, images),
		Clock:      clock,
		Logger:     logger.Named("business"),
	})
	questionService := application.NewQuestionService(questions, clock)
	reviewCommands := application.NewReviewCommandService(application.ReviewCommandConfig{
		Businesses: businesses,
		Questions:  questions,
		Reviews:    reviews,
		Queue:      srv.queue,
		Clock:      clock,
		Logger:     logger.Named("reviews"),
	})
	reviewQueries := application.NewReviewQueryService(businesses, questions, reviews, loc)

	srv.worker = application.NewAnalysisWorker(application.AnalysisWorkerConfig{
		Queue:       srv.queue,
		Reviews:     reviews,
		Analyzer:    ai.NewClient(model, cfg.AITimeout, logger.Named("ai")),
		Workers:     cfg.AnalysisWorkers,
		MaxAttempts: cfg.AnalysisMaxAttempts,
		Clock:       clock,
		Logger:      logger.Named("analysis"),
	})
	srv.sweeper = application.NewAnalysisSweeper(application.AnalysisSweeperConfig{
		Reviews: reviews,
		Queue:   srv.queue,
		Spec:    cfg.AnalysisSweepSpec,
		Grace:   cfg.AnalysisSweepGrace,
		Clock:   clock,
		Logger:  logger.Named("sweeper"),
	})

	srv.dashboard = dashboardhttp.NewHandler(dashboardhttp.Config{
		Logger:        logger,
		Businesses:    businessService,
		Questions:     questionService,
		ReviewQueries: reviewQueries,
		Location:      loc,
	})
	srv.public = publichttp.NewHandler(publichttp.Config{
		Logger:         logger,
		ReviewCommands: reviewCommands,
		ReviewQueries:  reviewQueries,
	})
	return srv, nil
}

// Router はミドルウェアと全ルートを組み立てる。
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(newCORS(s.cfg.AllowedOrigins))

	router.Get("/healthz", s.healthHandler())
	s.public.Register(router)
	s.dashboard.Register(router, s.authMiddleware)
	return router
}

// Run はインデックス作成、ワーカーとスイーパーの起動を行ってから HTTP を待ち受ける。
// SIGINT/SIGTERM を受けるか ctx が終わると順に停止して戻る。
func (s *Server) Run(ctx context.Context) error {
	setupCtx, cancel := context.WithTimeout(ctx, s.cfg.MongoConnectTimeout)
	err := mongorepo.EnsureIndexes(setupCtx, s.database, mongorepo.Collections{
		Businesses: s.cfg.BusinessCollection,
		Questions:  s.cfg.QuestionCollection,
		Reviews:    s.cfg.ReviewCollection,
	})
	if err == nil && s.streams != nil {
		err = s.streams.EnsureGroup(setupCtx)
	}
	cancel()
	if err != nil {
		s.shutdown()
		return err
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		s.worker.Run(workerCtx)
	}()
	if err := s.sweeper.Start(workerCtx); err != nil {
		stopWorkers()
		workers.Wait()
		s.shutdown()
		return err
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP サーバー起動", zap.String("addr", s.cfg.Addr))
		errChan <- httpServer.ListenAndServe()
	}()

	runErr := s.waitForShutdown(ctx, httpServer, errChan)

	s.sweeper.Stop()
	stopWorkers()
	workers.Wait()
	s.shutdown()
	return runErr
}

// waitForShutdown は ListenAndServe の終了、OS シグナル、ctx の終了のいずれかを待つ。
func (s *Server) waitForShutdown(ctx context.Context, httpServer *http.Server, errChan <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-sigChan:
		s.logger.Info("シグナルを受信。停止処理を開始します", zap.String("signal", sig.String()))
	case <-ctx.Done():
		s.logger.Info("context cancelled; shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("サーバー停止時にエラー", zap.Error(err))
	}
	return nil
}

// shutdown は外部接続をタイムアウト付きで閉じる。
func (s *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Redis 切断時にエラー", zap.Error(err))
		}
	}
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Warn("MongoDB 切断時にエラー", zap.Error(err))
	}
}
