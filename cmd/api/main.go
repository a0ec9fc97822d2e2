package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/gym-access-service/internal/api/http"
	"github.com/spec-kit/gym-access-service/internal/api/http/handlers"
	"github.com/spec-kit/gym-access-service/internal/api/ws"
	"github.com/spec-kit/gym-access-service/internal/auth"
	"github.com/spec-kit/gym-access-service/internal/config"
	"github.com/spec-kit/gym-access-service/internal/events"
	"github.com/spec-kit/gym-access-service/internal/hub"
	"github.com/spec-kit/gym-access-service/internal/observability"
	"github.com/spec-kit/gym-access-service/internal/persistence"
	"github.com/spec-kit/gym-access-service/internal/repository"
	"github.com/spec-kit/gym-access-service/internal/service"
	"github.com/spec-kit/gym-access-service/internal/worker"
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

	metrics := observability.NewMetrics()

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
	memberRepo := repository.NewMemberRepository(pool)
	visitRepo := repository.NewVisitRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	liveHub := hub.New(logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		StaffRepo:         staffRepo,
		PasswordResetRepo: resetRepo,
	})
	memberService := service.NewMemberService(memberRepo)
	presenceService := service.NewPresenceService(cfg.Presence, dispatcher, metrics, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	visitRecorder := service.NewVisitRecorder(visitRepo, logger)
	broadcastService := service.NewBroadcastService(liveHub, logger)

	worker.StartSubscribers(dispatcher, notificationService, visitRecorder, broadcastService)

	presenceService.Start(ctx)
	defer presenceService.Stop()

	feedSink := func(ctx context.Context, source string, raw []byte) {
		presenceService.Ingest(ctx, source, raw)
	}
	feedSource := worker.NewRedisFeedSource(redis.Client, cfg.Feed.RedisChannel, feedSink, logger)
	feedSource.Start(ctx)
	defer feedSource.Stop()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Staff:          handlers.NewStaffHandler(authService),
		Members:        handlers.NewMembersHandler(memberService),
		Presence:       handlers.NewPresenceHandler(presenceService),
		Visits:         handlers.NewVisitsHandler(visitRepo),
		FeedWS:         ws.FeedHandler(presenceService, logger),
		LiveWS:         ws.LiveHandler(liveHub, logger),
		WSUpgrade:      ws.RequireUpgrade,
		AuthMiddleware: authMiddleware,
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
