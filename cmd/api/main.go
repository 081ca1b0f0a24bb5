package main

import (
	"context"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/config"
	"github.com/SUMMERxKx/Review/internal/logging"
	"github.com/SUMMERxKx/Review/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "review-api")
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatal("MongoDB 接続に失敗しました", zap.Error(err))
	}

	app, err := server.New(ctx, cfg, client, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("サーバーの初期化に失敗しました", zap.Error(err))
		os.Exit(1)
	}
	if err := app.Run(context.Background()); err != nil {
		logger.Error("サーバーが異常終了しました", zap.Error(err))
		os.Exit(1)
	}
}
