// Package main provides the main entry point for the Desa Ngasem village portal API
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/handlers"
	"github.com/amirphl/desa-ngasem/app/middleware"
	"github.com/amirphl/desa-ngasem/app/router"
	"github.com/amirphl/desa-ngasem/app/services"
	businessflow "github.com/amirphl/desa-ngasem/business_flow"
	"github.com/amirphl/desa-ngasem/config"
	"github.com/amirphl/desa-ngasem/logging"
	"github.com/amirphl/desa-ngasem/migrations"
	"github.com/amirphl/desa-ngasem/models"
	"github.com/amirphl/desa-ngasem/repository"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router        router.Router
	config        *config.ProductionConfig
	logger        *zap.Logger
	metricsServer *http.Server
	closers       []func() error
}

func main() {
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Desa Ngasem API",
		zap.String("environment", cfg.Deployment.Environment),
		zap.String("version", cfg.Deployment.Version))

	app, err := initializeApplication(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.router.Start(address); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	if app.metricsServer != nil {
		go func() {
			logger.Info("Metrics server starting", zap.String("address", app.metricsServer.Addr))
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server stopped", zap.Error(err))
			}
		}()
	}

	<-sigChan
	logger.Info("Shutting down gracefully...")
	app.shutdown()
	logger.Info("Server stopped")
}

func (a *Application) shutdown() {
	if err := a.router.Shutdown(); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
	}

	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Warn("Metrics server shutdown failed", zap.Error(err))
		}
		cancel()
	}

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("Failed to release resource", zap.Error(err))
		}
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.SlowQueryLog {
		logLevel = gormlogger.Warn
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.New(
			zap.NewStdLog(logger.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             cfg.SlowQueryTime,
				LogLevel:                  logLevel,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns))

	return db, nil
}

// initializeCache connects to Redis when it is the configured provider
func initializeCache(cfg config.CacheConfig, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis connection established", zap.Int("db", cfg.RedisDB))
	return rc, nil
}

func initializeListCache(cfg config.CacheConfig, rc *redis.Client) services.ListCache {
	switch {
	case !cfg.Enabled:
		return services.NoopListCache{}
	case rc != nil:
		return services.NewRedisListCache(rc, cfg.RedisPrefix+"list:", cfg.DefaultTTL)
	default:
		return services.NewMemoryListCache(cfg.MaxEntries, cfg.DefaultTTL)
	}
}

func initializeSessionStorage(rc *redis.Client, logger *zap.Logger) services.KeyValueStorage {
	if rc != nil {
		return services.NewRedisKeyValueStorage(rc)
	}
	logger.Warn("Session records are kept in memory and will not survive a restart")
	return services.NewMemoryKeyValueStorage()
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig, logger *zap.Logger) (*Application, error) {
	var closers []func() error

	if cfg.Database.AutoMigrate {
		result, err := migrations.Up(cfg.Database.MigrationURL())
		if err != nil {
			return nil, err
		}
		logger.Info("Database migrations applied",
			zap.Uint("version", result.Version),
			zap.Bool("changed", result.Changed))
	}

	db, err := initializeDatabase(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	closers = append(closers, sqlDB.Close)

	rc, err := initializeCache(cfg.Cache, logger)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		closers = append(closers, rc.Close)
	}

	listCache := initializeListCache(cfg.Cache, rc)
	sessionStorage := initializeSessionStorage(rc, logger)

	objectStorage, err := services.NewLocalObjectStorage(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	tokenService, err := services.NewSessionTokenService(cfg.Session.SigningKey, cfg.Session.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	registry := businessflow.NewSessionRegistry(
		sessionStorage,
		businessflow.Credentials{Username: cfg.Session.AdminUsername, Password: cfg.Session.AdminPassword},
		cfg.Session.StorePrefix,
		cfg.Session.RegistrySize,
		cfg.Session.RegistryTTL,
		businessflow.WithSessionTTL(cfg.Session.TTL),
		businessflow.WithSessionLogger(logger.Named("session")),
	)

	// Initialize repositories
	serviceRepo := repository.NewServiceRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	officialRepo := repository.NewVillageOfficialRepository(db)
	facilityRepo := repository.NewFacilityRepository(db)
	programRepo := repository.NewCommunityProgramRepository(db)
	kknRepo := repository.NewKKNProgramRepository(db)
	statisticRepo := repository.NewStatisticRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	applicationRepo := repository.NewServiceApplicationRepository(db)

	// Initialize flows
	settings := businessflow.ResourceSettings{
		Logger:            logger.Named("store"),
		Validator:         businessflow.NewValidator(),
		ListRetryAttempts: cfg.Store.ListRetryAttempts,
		RetryInitial:      cfg.Store.ListRetryInitial,
		RetryMax:          cfg.Store.ListRetryMax,
	}

	serviceFlow := businessflow.NewServiceFlow(serviceRepo, listCache, settings)
	newsFlow := businessflow.NewNewsFlow(newsRepo, listCache, settings)
	officialFlow := businessflow.NewVillageOfficialFlow(officialRepo, listCache, settings)
	facilityFlow := businessflow.NewFacilityFlow(facilityRepo, listCache, settings)
	programFlow := businessflow.NewCommunityProgramFlow(programRepo, listCache, settings)
	kknFlow := businessflow.NewKKNProgramFlow(kknRepo, listCache, settings)
	statisticFlow := businessflow.NewStatisticFlow(statisticRepo, listCache, settings)
	achievementFlow := businessflow.NewAchievementFlow(achievementRepo, listCache, settings)
	applicationFlow := businessflow.NewServiceApplicationFlow(applicationRepo, listCache, serviceFlow, settings)

	dashboardFlow := businessflow.NewDashboardFlow(serviceFlow, newsFlow, applicationFlow,
		officialFlow, facilityFlow, programFlow, kknFlow, statisticFlow, achievementFlow)
	uploadFlow := businessflow.NewImageUploadFlow(objectStorage, cfg.Storage.MaxUploadSize, cfg.Storage.MaxImageWidth, cfg.Storage.MaxImagePixels, logger.Named("uploads"))

	// Initialize handlers
	requestTimeout := cfg.Server.RequestTimeout
	resources := []router.ResourceRoute{
		{Path: "services", Public: true, Handler: handlers.NewResourceHandler(serviceFlow, "Services",
			func() *dto.CreateServiceRequest { return &dto.CreateServiceRequest{} },
			func() *dto.UpdateServiceRequest { return &dto.UpdateServiceRequest{} }, requestTimeout, logger)},
		{Path: "news", Public: true, Handler: handlers.NewResourceHandler[models.NewsArticle, *dto.CreateNewsRequest, *dto.UpdateNewsRequest](newsFlow, "News",
			func() *dto.CreateNewsRequest { return &dto.CreateNewsRequest{} },
			func() *dto.UpdateNewsRequest { return &dto.UpdateNewsRequest{} }, requestTimeout, logger)},
		{Path: "officials", Public: true, Handler: handlers.NewResourceHandler(officialFlow, "Village officials",
			func() *dto.CreateVillageOfficialRequest { return &dto.CreateVillageOfficialRequest{} },
			func() *dto.UpdateVillageOfficialRequest { return &dto.UpdateVillageOfficialRequest{} }, requestTimeout, logger)},
		{Path: "facilities", Public: true, Handler: handlers.NewResourceHandler(facilityFlow, "Facilities",
			func() *dto.CreateFacilityRequest { return &dto.CreateFacilityRequest{} },
			func() *dto.UpdateFacilityRequest { return &dto.UpdateFacilityRequest{} }, requestTimeout, logger)},
		{Path: "programs", Public: true, Handler: handlers.NewResourceHandler(programFlow, "Community programs",
			func() *dto.CreateCommunityProgramRequest { return &dto.CreateCommunityProgramRequest{} },
			func() *dto.UpdateCommunityProgramRequest { return &dto.UpdateCommunityProgramRequest{} }, requestTimeout, logger)},
		{Path: "kkn", Public: true, Handler: handlers.NewResourceHandler(kknFlow, "KKN programs",
			func() *dto.CreateKKNProgramRequest { return &dto.CreateKKNProgramRequest{} },
			func() *dto.UpdateKKNProgramRequest { return &dto.UpdateKKNProgramRequest{} }, requestTimeout, logger)},
		{Path: "statistics", Public: true, Handler: handlers.NewResourceHandler(statisticFlow, "Statistics",
			func() *dto.CreateStatisticRequest { return &dto.CreateStatisticRequest{} },
			func() *dto.UpdateStatisticRequest { return &dto.UpdateStatisticRequest{} }, requestTimeout, logger)},
		{Path: "achievements", Public: true, Handler: handlers.NewResourceHandler(achievementFlow, "Achievements",
			func() *dto.CreateAchievementRequest { return &dto.CreateAchievementRequest{} },
			func() *dto.UpdateAchievementRequest { return &dto.UpdateAchievementRequest{} }, requestTimeout, logger)},
		{Path: "applications", Handler: handlers.NewResourceHandler[models.ServiceApplication, *dto.CreateServiceApplicationRequest, *dto.UpdateServiceApplicationRequest](applicationFlow, "Service applications",
			func() *dto.CreateServiceApplicationRequest { return &dto.CreateServiceApplicationRequest{} },
			func() *dto.UpdateServiceApplicationRequest { return &dto.UpdateServiceApplicationRequest{} }, requestTimeout, logger)},
	}

	checks := map[string]handlers.Pinger{"database": sqlDB.PingContext}
	if rc != nil {
		checks["redis"] = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
	}

	sessionMiddleware := middleware.NewSessionMiddleware(tokenService, registry, middleware.SessionCookieOptions{
		Domain:   cfg.Security.SessionCookieDomain,
		Secure:   cfg.Security.SessionCookieSecure,
		HTTPOnly: cfg.Security.SessionCookieHTTPOnly,
		SameSite: cfg.Security.SessionCookieSameSite,
	}, logger.Named("session"))

	appRouter := router.NewFiberRouter(router.Handlers{
		Auth:       handlers.NewAdminAuthHandler(requestTimeout, logger),
		Public:     handlers.NewPublicHandler(newsFlow, applicationFlow, requestTimeout, logger),
		AdminTools: handlers.NewAdminToolsHandler(uploadFlow, applicationFlow, dashboardFlow, requestTimeout, logger),
		System:     handlers.NewSystemHandler(objectStorage, checks, cfg.Deployment.Version, logger),
		Resources:  resources,
	}, sessionMiddleware, cfg, logger)

	application := &Application{
		router:  appRouter,
		config:  cfg,
		logger:  logger,
		closers: closers,
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
		application.metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return application, nil
}
