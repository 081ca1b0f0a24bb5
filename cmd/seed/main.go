package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/config"
	repo "github.com/SUMMERxKx/Review/internal/infrastructure/mongo"
	"github.com/SUMMERxKx/Review/internal/infrastructure/qrcode"
	"github.com/SUMMERxKx/Review/internal/infrastructure/security"
	"github.com/SUMMERxKx/Review/internal/logging"
)

type seedOptions struct {
	businessCount   int
	reviewCount     int
	pendingRatio    float64
	password        string
	dropCollections bool
	randomSeed      int64
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "review-seed")
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("MongoDB 接続に失敗しました", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDatabase)
	names := repo.Collections{
		Businesses: cfg.BusinessCollection,
		Questions:  cfg.QuestionCollection,
		Reviews:    cfg.ReviewCollection,
	}

	if opts.dropCollections {
		for _, name := range []string{names.Businesses, names.Questions, names.Reviews} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				// 存在しないコレクションでもエラーになるので警告にとどめる
				logger.Warn("コレクションの削除に失敗", zap.String("collection", name), zap.Error(err))
			}
		}
		logger.Info("既存コレクションを削除しました")
	}
	if err := repo.EnsureIndexes(ctx, db, names); err != nil {
		logger.Fatal("インデックス作成に失敗しました", zap.Error(err))
	}

	hash, err := security.NewBcryptHasher(cfg.BcryptCost).Hash(opts.password)
	if err != nil {
		logger.Fatal("パスワードのハッシュ化に失敗しました", zap.Error(err))
	}

	businesses := repo.NewBusinessRepository(db, names.Businesses)
	questions := repo.NewQuestionRepository(db, names.Questions)
	reviews := repo.NewReviewRepository(db, names.Reviews)
	qr := qrcode.NewGenerator(cfg.FeedbackBaseURL, nil)

	rng := rand.New(rand.NewSource(opts.randomSeed))
	now := time.Now().UTC()
	var totalQuestions, totalReviews, pending int

	for i, business := range generateBusinesses(rng, opts.businessCount, hash, now) {
		if err := businesses.Create(ctx, &business); err != nil {
			logger.Fatal("ビジネスの挿入に失敗しました", zap.Error(err))
		}
		if code, err := qr.Generate(ctx, business.ID); err == nil {
			if err := businesses.UpdateQRCode(ctx, business.ID, code.ImageURL, code.FeedbackURL); err != nil {
				logger.Warn("QR コードの保存に失敗", zap.String("businessId", business.ID), zap.Error(err))
			}
		}

		qs := generateQuestions(business.ID, now)
		for j := range qs {
			if err := questions.Create(ctx, &qs[j]); err != nil {
				logger.Fatal("質問の挿入に失敗しました", zap.Error(err))
			}
		}
		totalQuestions += len(qs)

		perBusiness := distribute(opts.reviewCount, opts.businessCount, i)
		for _, review := range generateReviews(rng, business.ID, qs, perBusiness, opts.pendingRatio, now) {
			if err := reviews.Create(ctx, &review); err != nil {
				logger.Fatal("レビューの挿入に失敗しました", zap.Error(err))
			}
			if !review.Processed {
				pending++
			}
		}
		totalReviews += perBusiness

		logger.Info("seeded business",
			zap.String("businessId", business.ID),
			zap.String("ownerEmail", business.OwnerEmail),
			zap.Int("reviews", perBusiness),
		)
	}

	logger.Info("Seed 完了",
		zap.Int("businesses", opts.businessCount),
		zap.Int("questions", totalQuestions),
		zap.Int("reviews", totalReviews),
		zap.Int("pendingAnalysis", pending),
		zap.String("database", cfg.MongoDatabase),
	)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.IntVar(&opts.businessCount, "businesses", 3, "生成するビジネス数")
	flag.IntVar(&opts.reviewCount, "reviews", 60, "生成するレビュー総数")
	flag.Float64Var(&opts.pendingRatio, "pending", 0.2, "未分析のまま残すレビューの割合 (0-1)")
	flag.StringVar(&opts.password, "password", "password123", "全デモアカウント共通のパスワード")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "乱数シード（再現用）")
	flag.Parse()

	if opts.businessCount <= 0 {
		log.Fatal("businesses は 1 以上を指定してください")
	}
	if opts.reviewCount < 0 {
		opts.reviewCount = 0
	}
	if opts.pendingRatio < 0 || opts.pendingRatio > 1 {
		log.Fatalf("pending は 0 から 1 の範囲で指定してください: %v", opts.pendingRatio)
	}
	if len(opts.password) < 8 {
		log.Fatal("password は 8 文字以上を指定してください")
	}
	return opts
}
