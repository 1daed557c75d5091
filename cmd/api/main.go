package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/serenity-care/wellness-api/internal/api/http"
	"github.com/serenity-care/wellness-api/internal/api/http/handlers"
	"github.com/serenity-care/wellness-api/internal/auth"
	"github.com/serenity-care/wellness-api/internal/config"
	"github.com/serenity-care/wellness-api/internal/events"
	"github.com/serenity-care/wellness-api/internal/observability"
	"github.com/serenity-care/wellness-api/internal/persistence"
	"github.com/serenity-care/wellness-api/internal/repository"
	"github.com/serenity-care/wellness-api/internal/service"
	"github.com/serenity-care/wellness-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.With(zap.String("service", cfg.App.Name), zap.String("version", cfg.App.Version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recordStore, closeStore, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open record store", zap.Error(err))
	}
	defer closeStore()

	if err := persistence.Bootstrap(ctx, recordStore, logger); err != nil {
		logger.Fatal("failed to bootstrap record store", zap.Error(err))
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	accountRepo := repository.NewAccountRepository(recordStore)
	serviceRepo := repository.NewServiceRepository(recordStore)
	bookingRepo := repository.NewBookingRepository(recordStore)
	moodRepo := repository.NewMoodRepository(recordStore)

	var statusCache repository.StatusCache
	if redis != nil {
		statusCache = repository.NewRedisStatusCache(redis.Client, cfg.Auth.StatusCacheTTL())
	}

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(service.AuthDependencies{
		Accounts:   accountRepo,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	catalogService := service.NewCatalogService(serviceRepo)
	bookingService := service.NewBookingService(bookingRepo, catalogService, dispatcher, logger)
	journalService := service.NewJournalService(moodRepo)
	statusService := service.NewAccountStatusService(accountRepo, statusCache, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.RegisterSubscribers(dispatcher, notificationService, statusService)

	if cfg.Seed.AdminEmail != "" && cfg.Seed.AdminPassword != "" {
		created, err := authService.SeedAdmin(ctx, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
		if err != nil {
			logger.Fatal("failed to seed admin", zap.Error(err))
		}
		logger.Info("admin seed checked", zap.String("email", cfg.Seed.AdminEmail), zap.Bool("created", created))
	}

	var guardOpts []auth.GuardOption
	if cfg.Auth.TokenCookie != "" {
		guardOpts = append(guardOpts, auth.WithTokenCookie(cfg.Auth.TokenCookie))
	}
	if cfg.Auth.EnforceActiveAccount {
		guardOpts = append(guardOpts, auth.WithAccountStatus(statusService))
	}
	guard := auth.NewGuard(tokens, guardOpts...)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(logger, metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, recordStore, redis, logger),
		Auth:     handlers.NewAuthHandler(authService),
		Admin:    handlers.NewAdminHandler(authService, metrics),
		Catalog:  handlers.NewCatalogHandler(catalogService),
		Bookings: handlers.NewBookingHandler(bookingService),
		Journal:  handlers.NewJournalHandler(journalService),
		Guard:    guard,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
