package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/app"
	"github.com/mmeshcher/shortslug/internal/config"
	"github.com/mmeshcher/shortslug/internal/logger"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Configuration error", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to create logger", zap.Error(err))
	}
	defer log.Sync()

	log.Info("Configuration loaded",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("base_url", cfg.BaseURL),
		zap.String("file_storage_path", cfg.FileStoragePath),
		zap.Bool("database", cfg.DatabaseDSN != ""),
		zap.Int("short_code_length", cfg.ShortCodeLength),
		zap.Bool("https", cfg.EnableHTTPS),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := application.Run(ctx); err != nil {
		log.Error("Server error", zap.Error(err))
	}

	if err := application.Close(); err != nil {
		log.Error("Failed to close storage", zap.Error(err))
	}
}
