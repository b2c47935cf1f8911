package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"automarket/internal/adapter/geocode"
	"automarket/internal/adapter/identity"
	natsadapter "automarket/internal/adapter/messaging/nats"
	"automarket/internal/adapter/repository/cache"
	"automarket/internal/adapter/repository/mongodb"
	"automarket/internal/adapter/storage/s3"
	"automarket/internal/adapter/web"
	"automarket/internal/config"
	"automarket/internal/listing/usecase"
	"automarket/internal/platform/logger"
	"automarket/internal/platform/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	tp, err := tracer.Init(ctx, cfg.OTLPEndpoint)
	if err != nil {
		zlog.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			zlog.Error("Failed to shut down tracer", zap.Error(err))
		}
	}()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zlog.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zlog.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDB)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		zlog.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATSURL)
	if err != nil {
		zlog.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	storage, err := s3.NewImageStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	listingRepo := mongodb.NewListingRepository(db)
	feedCache := cache.NewFeedCache(redisClient)
	identityClient := identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityDeleteURL, cfg.IdentityServiceKey)
	geocoder := geocode.NewClient(cfg.OpenCageAPIKey)

	listingUC := usecase.NewListingUsecase(listingRepo, storage, feedCache, publisher, zlog)
	accountUC := usecase.NewAccountUsecase(listingRepo, storage, identityClient, feedCache, publisher, zlog)

	server := web.NewServer(listingUC, accountUC, identityClient, geocoder, cfg.SessionSecret, zlog)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Router(),
	}

	go func() {
		zlog.Info("Starting AutoMarket HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
