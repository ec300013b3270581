package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/worldhost-group/support-dashboard/internal/api/http"
	"github.com/worldhost-group/support-dashboard/internal/api/http/handlers"
	"github.com/worldhost-group/support-dashboard/internal/auth"
	"github.com/worldhost-group/support-dashboard/internal/config"
	"github.com/worldhost-group/support-dashboard/internal/events"
	"github.com/worldhost-group/support-dashboard/internal/observability"
	"github.com/worldhost-group/support-dashboard/internal/persistence"
	"github.com/worldhost-group/support-dashboard/internal/repository"
	"github.com/worldhost-group/support-dashboard/internal/service"
	"github.com/worldhost-group/support-dashboard/internal/supportlink"
	"github.com/worldhost-group/support-dashboard/internal/ticketid"
	"github.com/worldhost-group/support-dashboard/internal/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	clock := ticketid.Clock{OffsetMinutes: cfg.Dashboard.TimezoneOffsetMinutes}
	links := supportlink.NewBuilder(cfg.Dashboard.SupportInboxURL)

	sessions := auth.NewSessionStore(redis.Client, cfg.Session.TTL())
	tokens := auth.NewTokenManager(cfg.Ingest.JWTSecret, cfg.Ingest.TokenTTLMinutes)
	sessionMiddleware := auth.NewSessionMiddleware(sessions, userRepo, cfg.Session.CookieName)
	ingestMiddleware := auth.NewIngestMiddleware(cfg.Ingest.Token, tokens)

	ingestService := service.NewIngestService(service.IngestDependencies{
		TicketRepo:       ticketRepo,
		UserRepo:         userRepo,
		NotificationRepo: notificationRepo,
		Clock:            clock,
		Links:            links,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
	})
	ticketService := service.NewTicketService(ticketRepo, links, dispatcher)
	dashboardService := service.NewDashboardService(ticketRepo, clock)
	notificationService := service.NewNotificationService(notificationRepo)
	authService := service.NewAuthService(userRepo, sessions, tokens, cfg.Session)

	auditWorker := worker.NewIngestAuditWorker(logger, cfg.Notify.WebhookURL)
	auditWorker.Register(dispatcher)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	secureCookies := cfg.App.Env == "production"
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(pg, redis),
		Users:             handlers.NewUsersHandler(authService, cfg.Session, secureCookies),
		Tickets:           handlers.NewTicketsHandler(ticketService, links),
		Ingest:            handlers.NewIngestHandler(ingestService, links),
		Dashboard:         handlers.NewDashboardHandler(dashboardService),
		Notifications:     handlers.NewNotificationsHandler(notificationService),
		SessionMiddleware: sessionMiddleware,
		IngestMiddleware:  ingestMiddleware,
		AllowedOrigins:    cfg.Ingest.AllowedOrigins,
	})

	go func() {
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
