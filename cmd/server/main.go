// Package main is the entry point for the scholarship platform API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/easescholar/scholar-platform/internal/api"
	"github.com/easescholar/scholar-platform/internal/infrastructure/config"
	"github.com/easescholar/scholar-platform/internal/infrastructure/db/postgres"
	redisdb "github.com/easescholar/scholar-platform/internal/infrastructure/db/redis"
	"github.com/easescholar/scholar-platform/internal/infrastructure/storage"
	"github.com/easescholar/scholar-platform/internal/infrastructure/worker"
	"github.com/easescholar/scholar-platform/pkg/logger"
)

// @title Scholarship Platform API
// @version 1.0
// @description Scholarship listing, application and review service
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	docs, err := storage.NewDiskStore(cfg.UploadRoot)
	if err != nil {
		log.Fatal().Err(err).Msg("upload store init failed")
	}

	reaper := worker.NewTokenReaper(postgres.NewResetTokenRepository(db), time.Hour, log)
	reaper.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, docs, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
