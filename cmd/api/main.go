package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/budgetbook/budgetbook/internal/config"
	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/handler"
	"github.com/budgetbook/budgetbook/internal/middleware"
	"github.com/budgetbook/budgetbook/internal/repository/postgres"
	"github.com/budgetbook/budgetbook/internal/repository/sqlite"
	"github.com/budgetbook/budgetbook/internal/repository/storage"
	"github.com/budgetbook/budgetbook/internal/service"
	"github.com/budgetbook/budgetbook/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Open the document store
	docRepo, closeRepo, err := openDocumentRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open document store")
	}
	defer closeRepo()

	// Optional S3 backups
	var backupRepo domain.BackupRepository
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3BackupRepository(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize backup storage")
		}
		backupRepo = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("S3 backups enabled")
	}

	// Event hub for live updates
	hub := websocket.NewHub()

	// Load the document
	store := service.NewStore(docRepo, cfg.StorageKey, cfg.CurrencyLocale)
	store.SetEventPublisher(hub)
	result := store.Load(ctx)
	if result.Warning != "" {
		log.Warn().
			Bool("created", result.Created).
			Bool("recovered", result.Recovered).
			Msg(result.Warning)
	} else {
		log.Info().Bool("created", result.Created).Msg("Document loaded")
	}

	// Initialize services
	aggregationService := service.NewAggregationService()
	entryService := service.NewEntryService(store)
	loanService := service.NewLoanService(store)
	goalService := service.NewGoalService(store, aggregationService)
	categoryService := service.NewCategoryService(store)
	transferService := service.NewTransferService(store)
	backupService := service.NewBackupService(backupRepo, transferService)

	// Initialize handlers
	handlers := handler.Handlers{
		Entry:     handler.NewEntryHandler(entryService),
		Loan:      handler.NewLoanHandler(loanService),
		Goal:      handler.NewGoalHandler(goalService),
		Category:  handler.NewCategoryHandler(categoryService),
		Summary:   handler.NewSummaryHandler(store, aggregationService),
		Transfer:  handler.NewTransferHandler(store, transferService),
		Backup:    handler.NewBackupHandler(backupService),
		WebSocket: handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	}

	bulkLimiter := middleware.NewRateLimiterWithConfig(cfg.ImportRateLimit, middleware.DefaultBurstSize)
	defer bulkLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		status := "ok"
		if store.Dirty() || store.ReadFailed() {
			status = "degraded"
		}
		return c.JSON(http.StatusOK, map[string]string{"status": status})
	})

	// Register API routes
	handler.RegisterRoutes(e, handlers, bulkLimiter)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Last attempt to persist changes that failed to save earlier
	if store.Dirty() {
		if err := store.Save(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Unsaved changes lost on shutdown")
		}
	}

	log.Info().Msg("Server exited")
}

// openDocumentRepository opens the configured document store and returns a
// function releasing its resources
func openDocumentRepository(ctx context.Context, cfg *config.Config) (domain.DocumentRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Msg("Connected to database")
		return postgres.NewDocumentRepository(pool), pool.Close, nil

	default:
		repo, err := sqlite.NewDocumentRepository(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Opened SQLite document store")
		return repo, func() {
			if err := repo.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close SQLite document store")
			}
		}, nil
	}
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
