package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/servicedesk/internal/api/http"
	"github.com/spec-kit/servicedesk/internal/api/http/handlers"
	"github.com/spec-kit/servicedesk/internal/auth"
	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/observability"
	"github.com/spec-kit/servicedesk/internal/persistence"
	"github.com/spec-kit/servicedesk/internal/repository"
	"github.com/spec-kit/servicedesk/internal/repository/memory"
	"github.com/spec-kit/servicedesk/internal/service"
	"github.com/spec-kit/servicedesk/internal/worker"
)

type repositories struct {
	admins       repository.AdminRepository
	customers    repository.CustomerRepository
	technicians  repository.TechnicianRepository
	categories   repository.CategoryRepository
	services     repository.ServiceRepository
	tickets      repository.TicketRepository
	interactions repository.InteractionRepository
	billings     repository.BillingRepository
}

// newRepositories picks the postgres adapters when a pool is available and
// the in-memory ones otherwise.
func newRepositories(pg *persistence.Postgres) repositories {
	if !pg.Enabled() {
		return repositories{
			admins:       memory.NewAdminRepository(),
			customers:    memory.NewCustomerRepository(),
			technicians:  memory.NewTechnicianRepository(),
			categories:   memory.NewCategoryRepository(),
			services:     memory.NewServiceRepository(),
			tickets:      memory.NewTicketRepository(),
			interactions: memory.NewInteractionRepository(),
			billings:     memory.NewBillingRepository(),
		}
	}
	pool := pg.Pool
	return repositories{
		admins:       repository.NewAdminRepository(pool),
		customers:    repository.NewCustomerRepository(pool),
		technicians:  repository.NewTechnicianRepository(pool),
		categories:   repository.NewCategoryRepository(pool),
		services:     repository.NewServiceRepository(pool),
		tickets:      repository.NewTicketRepository(pool),
		interactions: repository.NewInteractionRepository(pool),
		billings:     repository.NewBillingRepository(pool),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := observability.NewLogger(cfg.Logger, cfg.App)
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := newRepositories(pg)
	repos.categories = repository.NewCachedCategoryRepository(repos.categories, cfg.Cache.CategoryTTL())
	accounts := service.Accounts{Admins: repos.admins, Technicians: repos.technicians, Customers: repos.customers}

	var streamClient events.StreamAdder
	if redis.Enabled() {
		streamClient = redis.Client
	}
	dispatcher := events.NewRedisStreamDispatcher(events.NewInMemoryDispatcher(), streamClient, cfg.Notification.EventStream)
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	metrics := observability.NewMetrics(cfg.App.Name)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	sessionService := service.NewSessionService(accounts, tokens, cfg.Auth.BcryptCost, logger, nil)
	if bootstrap := cfg.Auth.BootstrapAdmin; bootstrap.Enabled() {
		if _, err := sessionService.EnsureAdmin(ctx, bootstrap.Name, bootstrap.Email, bootstrap.Password); err != nil {
			logger.Fatal("failed to seed admin", zap.Error(err))
		}
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		CategoryRepo:    repos.categories,
		ServiceRepo:     repos.services,
		TechnicianRepo:  repos.technicians,
		TicketRepo:      repos.tickets,
		InteractionRepo: repos.interactions,
		BillingRepo:     repos.billings,
		Transactor:      pg.Transactor(),
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
		Location:        cfg.Scheduling.Location(),
	})
	customerService := service.NewCustomerService(service.CustomerDependencies{
		Accounts:    accounts,
		TicketRepo:  repos.tickets,
		BillingRepo: repos.billings,
		Transactor:  pg.Transactor(),
		BcryptCost:  cfg.Auth.BcryptCost,
		Logger:      logger,
	})
	technicianService := service.NewTechnicianService(service.TechnicianDependencies{
		Accounts:   accounts,
		Transactor: pg.Transactor(),
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})
	catalogService := service.NewCatalogService(repos.categories, repos.services, logger, nil)
	billingService := service.NewBillingService(repos.billings, dispatcher, logger, nil)

	assignmentWorker := worker.NewAssignmentWorker(ticketService, cfg.Scheduling.PendingSweepInterval(), logger)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		assignmentWorker.Run(ctx)
	}()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:           cfg.App.RequestTimeout(),
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Sessions:       handlers.NewSessionsHandler(sessionService),
		Customers:      handlers.NewCustomersHandler(customerService, ticketService),
		Technicians:    handlers.NewTechniciansHandler(technicianService, ticketService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Tickets:        handlers.NewTicketsHandler(ticketService, billingService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, sessionService),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	<-workerDone
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
