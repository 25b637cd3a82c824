package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/visitor-access/internal/access"
	httptransport "github.com/spec-kit/visitor-access/internal/api/http"
	"github.com/spec-kit/visitor-access/internal/api/http/handlers"
	"github.com/spec-kit/visitor-access/internal/auth"
	"github.com/spec-kit/visitor-access/internal/booking"
	"github.com/spec-kit/visitor-access/internal/config"
	"github.com/spec-kit/visitor-access/internal/credential"
	"github.com/spec-kit/visitor-access/internal/events"
	"github.com/spec-kit/visitor-access/internal/ledger"
	"github.com/spec-kit/visitor-access/internal/observability"
	"github.com/spec-kit/visitor-access/internal/persistence"
	"github.com/spec-kit/visitor-access/internal/repository"
	"github.com/spec-kit/visitor-access/internal/service"
	"github.com/spec-kit/visitor-access/internal/worker"
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
	staffRepo := repository.NewStaffRepository(pool)
	visitorRepo := repository.NewVisitorRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	grantRepo := repository.NewGrantRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	txManager := repository.NewTxManager(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	// The one-time-use ledger rides the shared Redis instance so the
	// mark-used compare-and-set stays atomic across replicas.
	otuLedger := ledger.NewRedisStore(redis.Client)

	issuer := credential.NewIssuer(cfg.Pass.Secret, otuLedger, cfg.Pass.QRSizePixels)
	verifier := credential.NewVerifier(cfg.Pass.Secret, cfg.Pass.Audience, otuLedger)
	evaluator := access.NewEvaluator(grantRepo)
	resolver := booking.NewResolver(bookingRepo, txManager, dispatcher)

	authService := service.NewAuthService(cfg.Auth, staffRepo)
	passService := service.NewPassService(service.PassDependencies{
		Issuer:      issuer,
		VisitorRepo: visitorRepo,
		BookingRepo: bookingRepo,
		Dispatcher:  dispatcher,
	}, cfg.Pass.Audience, cfg.Pass.DefaultTTLHours)
	checkinService := service.NewCheckInService(service.CheckInDependencies{
		Verifier:    verifier,
		VisitorRepo: visitorRepo,
		BookingRepo: bookingRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	}, cfg.CheckIn.WindowBefore())
	bookingService := service.NewBookingService(service.BookingDependencies{
		Resolver:    resolver,
		RoomRepo:    roomRepo,
		BookingRepo: bookingRepo,
	})
	accessService := service.NewAccessService(evaluator, grantRepo, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Staff:          handlers.NewStaffHandler(authService),
		Passes:         handlers.NewPassesHandler(passService),
		CheckIn:        handlers.NewCheckInHandler(checkinService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		Access:         handlers.NewAccessHandler(accessService),
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
