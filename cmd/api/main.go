package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/digitaltreasurer/treasurer-api/docs"
	"github.com/digitaltreasurer/treasurer-api/internal/auth"
	"github.com/digitaltreasurer/treasurer-api/internal/config"
	"github.com/digitaltreasurer/treasurer-api/internal/database"
	"github.com/digitaltreasurer/treasurer-api/internal/http/handler"
	"github.com/digitaltreasurer/treasurer-api/internal/http/middleware"
	"github.com/digitaltreasurer/treasurer-api/internal/http/router"
	"github.com/digitaltreasurer/treasurer-api/internal/jobs"
	"github.com/digitaltreasurer/treasurer-api/internal/logger"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"github.com/digitaltreasurer/treasurer-api/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title Digital Treasurer API
// @version 1.0
// @description Contribution tracking for family and community events
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token from /auth/login as "Bearer <token>"

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description Admin API key for automation

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" || basicCfg.App.Environment == "local" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// secrets come from Key Vault outside development
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, cfg.Database.Driver, log); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	snapshotStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	contributionRepo := repository.NewContributionRepository(db)
	logisticsRepo := repository.NewLogisticsRepository(db)

	// Services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLDuration(), cfg.Auth.Issuer)
	authService := service.NewAuthService(userRepo, tokens, log)
	groupService := service.NewGroupService(groupRepo, cfg.Treasurer.PublicBaseURL, log)
	contributionService := service.NewContributionService(contributionRepo, logisticsRepo, groupRepo, db, cfg.Treasurer.FlatRate, log)
	lookupService := service.NewLookupService(groupRepo, contributionRepo, logisticsRepo, cfg.Treasurer.RecentLimit, cfg.Treasurer.Currency, log)
	viewService := service.NewViewService(groupRepo, contributionService.FlatRate)
	reportService := service.NewReportService(groupRepo, contributionRepo, logisticsRepo, groupService, cfg.Treasurer.Currency, log)
	exportService := service.NewExportService(groupRepo, contributionRepo, snapshotStorage, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, cfg.Auth.APIKey, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	var registry *prometheus.Registry
	if cfg.Server.EnableMetrics {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, cfg.Database.Driver))
	}

	rt := router.NewRouter(cfg, log, authMiddleware, rateLimiter, registry, router.Handlers{
		Auth:         handler.NewAuthHandler(authService, log),
		Group:        handler.NewGroupHandler(groupService, log),
		Contribution: handler.NewContributionHandler(contributionService, reportService, log),
		Public:       handler.NewPublicHandler(groupService, lookupService, log),
		View:         handler.NewViewHandler(viewService, log),
		Settings:     handler.NewSettingsHandler(contributionService, cfg.Treasurer.Currency, log),
		Health:       handler.NewHealthHandler(db, cfg.Database.Driver, log),
	})

	var scheduler *jobs.Scheduler
	if cfg.Jobs.ExportSnapshotEnabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterExportSnapshotJob(
			scheduler,
			exportService,
			log,
			cfg.Jobs.ExportSnapshotCron,
			cfg.Jobs.ExportSnapshotTimeoutDuration(),
		); err != nil {
			log.Error("Failed to register export snapshot job", zap.Error(err))
			scheduler = nil
		} else {
			scheduler.Start()
		}
	} else {
		log.Info("Export snapshots disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		log.Info("Server stopped gracefully")
	}

	return nil
}
