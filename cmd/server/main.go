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

	"go.uber.org/zap"

	"github.com/Patasheva/congrats-analyzer/internal/api"
	"github.com/Patasheva/congrats-analyzer/internal/app"
	"github.com/Patasheva/congrats-analyzer/internal/config"
	"github.com/Patasheva/congrats-analyzer/internal/database"
	"github.com/Patasheva/congrats-analyzer/internal/logger"
	"github.com/Patasheva/congrats-analyzer/internal/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(ctx, cfg.OTELEndpoint)
	if err != nil {
		l.Fatal("failed to initialize tracer", zap.Error(err))
	}
	if tp != nil {
		defer tp.Shutdown(context.Background())
	}

	dbConfig := cfg.Database()
	db, err := database.NewDB(ctx, dbConfig, l)
	if err != nil {
		l.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		l.Fatal("failed to run migrations", zap.Error(err))
	}

	runs := database.NewRunRepository(db)

	runner, err := app.NewRunner(cfg, runs, l)
	if err != nil {
		l.Fatal("failed to build pipeline", zap.Error(err))
	}

	router := api.NewRouter(&api.App{
		Runner:        runner,
		Runs:          runs,
		MaxUploadSize: cfg.MaxUploadSize,
		DefaultLocale: cfg.DefaultLocale,
		Logger:        l,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("scratch_dir", cfg.ScratchDir),
			zap.String("db_type", dbConfig.Type),
			zap.Int64("max_upload_size", cfg.MaxUploadSize),
			zap.String("speech_model", cfg.SpeechModel),
			zap.String("vision_model", cfg.VisionModel),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("graceful shutdown failed", zap.Error(err))
	}
}
