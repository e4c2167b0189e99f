// @title           CastNFish API
// @version         1.0.0
// @description     Community API for the CastNFish recreational fishing platform

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"castnfish/internal/cache"
	"castnfish/internal/config"
	"castnfish/internal/database"
	"castnfish/internal/media"
	"castnfish/internal/notifications"
	"castnfish/internal/response"
	"castnfish/internal/router"
	"castnfish/internal/services"

	"go.uber.org/zap"
)

func main() {
	logger, err := initLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger.Info("Starting CastNFish server")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	db, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	cacheClient, err := cache.New(&cache.Config{
		Provider: cfg.Cache.Provider,
		RedisURL: cfg.Cache.RedisURL,
		PoolSize: cfg.Cache.PoolSize,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer cacheClient.Close()

	// Photo uploads are optional; without Cloudinary credentials the avatar
	// endpoint reports the feature as unavailable.
	var storage media.Storage
	if cfg.Cloudinary.CloudName != "" {
		cloudinaryStorage, err := media.NewCloudinaryStorage(cfg.Cloudinary, logger)
		if err != nil {
			logger.Fatal("Failed to initialize photo storage", zap.Error(err))
		}
		storage = cloudinaryStorage
	} else {
		logger.Warn("Cloudinary not configured, photo uploads disabled")
	}

	hub := notifications.NewHub(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serviceCollection, err := services.NewCollection(ctx, services.Dependencies{
		Config:  cfg,
		DB:      db,
		Cache:   cacheClient,
		Hub:     hub,
		Storage: storage,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	builder := response.NewBuilder(response.DefaultConfig(), logger)

	handler := router.New(router.Dependencies{
		Config:   cfg,
		Services: serviceCollection,
		Hub:      hub,
		DB:       db,
		Cache:    cacheClient,
		Builder:  builder,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		if err := server.Close(); err != nil {
			logger.Error("Forced shutdown failed", zap.Error(err))
		}
	}
	logger.Info("Server stopped")
}

func initLogger() (*zap.Logger, error) {
	env := os.Getenv("GO_ENV")
	var config zap.Config

	switch env {
	case "production":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "staging":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
