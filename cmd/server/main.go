package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"DocControl/internal/analysis"
	"DocControl/internal/auth"
	"DocControl/internal/cache"
	"DocControl/internal/config"
	"DocControl/internal/handlers"
	"DocControl/internal/middleware"
	"DocControl/internal/repo"
	"DocControl/internal/service"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	docRepo := repo.NewDocumentRepository(gormDB)

	// кеш результатов: включается, только если задан адрес Redis
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, 0)
		if err != nil {
			sugar.Fatalw("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer redisClient.Close()
		docRepo = cache.NewCachedDocumentRepository(docRepo, redisClient, cfg.CacheTTL, sugar)
		sugar.Infow("document cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	codec := auth.NewTokenCodec(cfg.AuthSecret)
	userService := service.NewUserService(userRepo)
	docService := service.NewDocumentService(docRepo)
	policy := service.NewAccessPolicy(docRepo, cfg.StorageDir, cfg.AllowedRoots, cfg.ElevatedRole)
	analyzer := analysis.New(docRepo, cfg.StorageDir, sugar)

	h := handlers.NewHandler(userService, docService, policy, analyzer, codec, sugar, cfg)

	sugar.Infow("Starting server", "addr", cfg.RunAddr)
	sugar.Infow("Config",
		"RunAddr", cfg.RunAddr,
		"EnableHTTPS", cfg.EnableHTTPS,
		"StorageDir", cfg.StorageDir,
		"AllowedRoots", cfg.AllowedRoots,
		"TokenTTL", cfg.TokenTTL,
	)

	srv := &http.Server{
		Addr:    cfg.RunAddr,
		Handler: h.Router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Infow("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorw("Shutdown failed", "error", err)
	}
}
