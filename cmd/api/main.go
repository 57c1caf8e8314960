package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Jerkzaen/accesspoint-control-sub000/internal/api/http"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/api/http/handlers"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/auth"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/config"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/events"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/observability"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/persistence"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/service"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/worker"
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
	ticketCache := persistence.NewTicketCache(redis, cfg.Redis.TicketCacheTTL())

	pool := pg.PoolHandle()
	txManager := persistence.NewTxManager(pool)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	geographyRepo := repository.NewGeographyRepository(pool)
	addressRepo := repository.NewAddressRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	branchRepo := repository.NewBranchRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)
	contactRepo := repository.NewContactRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	actionRepo := repository.NewTicketActionRepository(pool)
	equipmentRepo := repository.NewEquipmentRepository(pool)
	loanRepo := repository.NewLoanRepository(pool)

	authService := service.NewAuthService(*cfg, userRepo)
	loanService := service.NewLoanService(service.LoanDependencies{
		LoanRepo:      loanRepo,
		EquipmentRepo: equipmentRepo,
		ContactRepo:   contactRepo,
		Tx:            txManager,
		Dispatcher:    dispatcher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		ActionRepo: actionRepo,
		LoanRepo:   loanRepo,
		LoanSvc:    loanService,
		Tx:         txManager,
		Dispatcher: dispatcher,
	})
	actionService := service.NewActionService(actionRepo, ticketRepo)
	equipmentService := service.NewEquipmentService(equipmentRepo, loanRepo)
	companyService := service.NewCompanyService(companyRepo)
	branchService := service.NewBranchService(service.BranchDependencies{
		BranchRepo:    branchRepo,
		LocationRepo:  locationRepo,
		ContactRepo:   contactRepo,
		EquipmentRepo: equipmentRepo,
		AddressRepo:   addressRepo,
		Tx:            txManager,
	})
	locationService := service.NewLocationService(service.LocationDependencies{
		LocationRepo:  locationRepo,
		BranchRepo:    branchRepo,
		ContactRepo:   contactRepo,
		EquipmentRepo: equipmentRepo,
	})
	contactService := service.NewContactService(contactRepo, companyRepo)
	geographyService := service.NewGeographyService(geographyRepo)
	importService := service.NewImportService(service.ImportDependencies{
		TicketRepo:    ticketRepo,
		ActionRepo:    actionRepo,
		CompanyRepo:   companyRepo,
		UserRepo:      userRepo,
		ContactRepo:   contactRepo,
		GeographyRepo: geographyRepo,
		AddressRepo:   addressRepo,
		BranchRepo:    branchRepo,
		LocationRepo:  locationRepo,
		Tx:            txManager,
		Dispatcher:    dispatcher,
		Logger:        logger,
		MaxRows:       cfg.Import.MaxRows,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, actionService, ticketCache),
		Equipment:      handlers.NewEquipmentHandler(equipmentService),
		Loans:          handlers.NewLoansHandler(loanService),
		Companies:      handlers.NewCompaniesHandler(companyService),
		Branches:       handlers.NewBranchesHandler(branchService),
		Locations:      handlers.NewLocationsHandler(locationService),
		Contacts:       handlers.NewContactsHandler(contactService),
		Geography:      handlers.NewGeographyHandler(geographyService),
		Import:         handlers.NewImportHandler(importService),
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
