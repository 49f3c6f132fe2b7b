package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rl1809/sweet-shop/internal/adapter/auth"
	"github.com/rl1809/sweet-shop/internal/adapter/handler"
	"github.com/rl1809/sweet-shop/internal/adapter/storage"
	"github.com/rl1809/sweet-shop/internal/config"
	"github.com/rl1809/sweet-shop/internal/core/service"
	"github.com/rl1809/sweet-shop/internal/port"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.DevLog)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MongoDB
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		logger.Fatal("failed to ping mongodb", zap.Error(err))
	}
	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))

	db := client.Database(cfg.MongoDatabase)
	sweetRepo := storage.NewMongoSweetRepository(db)
	userRepo := storage.NewMongoUserRepository(db)

	if err := userRepo.EnsureIndexes(connectCtx); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	// Initialize Redis (optional: without it, purchases lose the
	// duplicate-request guard but everything else works)
	var cache port.CacheRepository
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		cache = storage.NewRedisAdapter(rdb)
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	// Initialize services
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewBcryptHasher()

	inventoryService := service.NewInventoryService(sweetRepo, cache, logger)
	catalogService := service.NewCatalogService(sweetRepo, logger)
	authService := service.NewAuthService(userRepo, hasher, tokens, logger)
	policy := service.NewAccessPolicy()

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(catalogService, inventoryService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)
	access := handler.NewAccessMiddleware(tokens, userRepo, policy, logger)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewRouter(httpHandler, authHandler, access, logger),
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}

	if rdb != nil {
		rdb.Close()
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongodb disconnect error", zap.Error(err))
	}
	logger.Info("connections closed")
}

func newLogger(dev bool) *zap.Logger {
	if dev {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
