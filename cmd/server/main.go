package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tipsy/config"
	"tipsy/internal/api/handler"
	"tipsy/internal/api/router"
	"tipsy/internal/repository"
	"tipsy/internal/service"
	"tipsy/pkg/database"
	"tipsy/pkg/jwt"
	applogger "tipsy/pkg/logger"
	"tipsy/pkg/metrics"
	"tipsy/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting tipsy",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("auth_mode", cfg.Auth.Mode),
	)

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	// Redis is optional; the rate limiter falls back to in-process buckets.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, using in-process rate limiting", zap.Error(err))
			rdb = nil
		}
	}

	var jwtMgr *jwt.Manager
	if cfg.Auth.Mode == config.AuthModeJWT {
		jwtMgr = jwt.NewManager(&cfg.Auth)
	}

	m := metrics.New()
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, m, logger)
	h := handler.NewHandler(svc)

	deps := router.Deps{
		Identity: svc.Identity,
		DB:       repo,
		Redis:    rdb,
		Metrics:  m,
		Logger:   logger,
	}
	engine := router.Setup(cfg, h, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("server stopped")
}
