package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skinker-shop/internal/catalog"
	"skinker-shop/internal/config"
	"skinker-shop/internal/database"
	"skinker-shop/internal/events"
	"skinker-shop/internal/handler"
	"skinker-shop/internal/notification"
	"skinker-shop/internal/repository"
	"skinker-shop/internal/router"
	"skinker-shop/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting skinker-shop API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	if cfg.Catalog.SeedEnabled {
		if err := seedCatalog(ctx, cfg.Catalog, productRepo, logger); err != nil {
			return err
		}
	}

	// Notifications: email through Resend, order events through AMQP.
	var mailer notification.Mailer
	if cfg.Mail.Enabled() {
		mailer = notification.NewResendMailer(cfg.Mail.APIKey, logger)
	}

	var publisher notification.EventPublisher
	if cfg.Events.Enabled() {
		p, err := events.Dial(cfg.Events, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to AMQP broker, order events disabled")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	dispatcher := notification.NewDispatcher(mailer, publisher, cfg.Mail, logger)
	dispatcher.Start()

	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, dispatcher, cfg.Order, logger)

	mux := router.New(router.Handlers{
		Product: handler.NewProductHandler(productService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
		Mail:    handler.NewMailHandler(dispatcher, logger),
	}, cfg.Server.AllowedOrigins, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		// Queued notifications get what is left of the shutdown budget.
		if err := dispatcher.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("notification queue not drained before shutdown")
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// seedCatalog upserts the catalogue document, reading it from S3 when
// enabled and from the local file system otherwise.
func seedCatalog(ctx context.Context, cfg config.CatalogConfig, store catalog.ProductStore, logger zerolog.Logger) error {
	fileLoader := catalog.NewFileLoader(logger)
	var s3Loader catalog.Loader

	if cfg.S3Enabled {
		l, err := catalog.NewS3Loader(ctx, cfg.S3Bucket, cfg.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for the catalogue (S3 disabled)")
	}

	seeder := catalog.NewSeeder(catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3Prefix, logger), store, logger)
	if _, err := seeder.Seed(ctx, cfg.SeedFile); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}
	return nil
}
