package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/mmeshcher/shortslug/internal/captcha"
	"github.com/mmeshcher/shortslug/internal/config"
	"github.com/mmeshcher/shortslug/internal/handler"
	"github.com/mmeshcher/shortslug/internal/repository"
	"github.com/mmeshcher/shortslug/internal/service"
	"github.com/mmeshcher/shortslug/internal/worker"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	httpsAddress           = ":443"
)

type App struct {
	logger  *zap.Logger
	store   service.Store
	clicks  *worker.ClickWorker
	service *service.ShortenerService
	server  *http.Server
	useTLS  bool

	shutdownTimeout time.Duration
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	clicks := worker.NewClickWorker(store, logger)
	svc := service.NewShortenerService(store, clicks, logger, cfg.ShortCodeLength)

	opts := []handler.Option{
		handler.WithShortenPassword(cfg.ShortenPassword),
		handler.WithAnalyticsPassword(cfg.AnalyticsPassword),
		handler.WithVerifier(captcha.NewVerifier(cfg.CapSiteVerifyURL, cfg.CapSecret)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, handler.WithBaseURL(cfg.BaseURL))
	}
	h := handler.NewHandler(svc, logger, opts...)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if cfg.EnableHTTPS {
		manager := &autocert.Manager{
			Cache:      autocert.DirCache(cfg.TLSCacheDir),
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.TLSHosts...),
		}
		server.Addr = httpsAddress
		server.TLSConfig = manager.TLSConfig()
	}

	return &App{
		logger:          logger,
		store:           store,
		clicks:          clicks,
		service:         svc,
		server:          server,
		useTLS:          cfg.EnableHTTPS,
		shutdownTimeout: defaultShutdownTimeout,
	}, nil
}

// newStore picks PostgreSQL when a DSN is configured, then the storage file,
// then memory. A database that cannot be reached falls through to the next option.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Store, error) {
	if cfg.DatabaseDSN != "" {
		repo, err := repository.NewPostgresRepository(ctx, cfg.DatabaseDSN)
		if err == nil {
			logger.Info("Using PostgreSQL repository")
			return repo, nil
		}
		logger.Error("Failed to connect to PostgreSQL, falling back", zap.Error(err))
	}

	if cfg.FileStoragePath != "" {
		repo, err := repository.NewFileRepository(cfg.FileStoragePath, logger)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		logger.Info("Using file repository", zap.String("path", cfg.FileStoragePath))
		return repo, nil
	}

	logger.Info("Using in-memory repository")
	return repository.NewMemoryRepository(), nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		var err error
		if a.useTLS {
			err = a.server.ListenAndServeTLS("", "")
		} else {
			err = a.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	a.logger.Info("Server started",
		zap.String("address", a.server.Addr),
		zap.Bool("tls", a.useTLS))

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to listen and serve: %w", err)
	case <-ctx.Done():
		return a.stopGracefully()
	}
}

func (a *App) stopGracefully() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping the server")
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	a.logger.Info("Server stopped")
	return nil
}

// Close flushes pending clicks and releases the store. Call it after Run returns.
func (a *App) Close() error {
	a.clicks.Close()
	return a.service.Close()
}
