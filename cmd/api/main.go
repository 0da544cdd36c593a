package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/ai"
	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

type flags struct {
	envFiles      []string
	store         string
	seedFile      string
	port          string
	migrationsDir string
}

func parseFlags(args []string) (flags, error) {
	var f flags
	flagSet := pflag.NewFlagSet("helpdesk-api", pflag.ContinueOnError)
	flagSet.StringSliceVar(&f.envFiles, "env-file", nil, "env files to load before reading the environment (default: optional .env)")
	flagSet.StringVar(&f.store, "store", "", "slot backend: memory, redis or postgres (overrides STORE_BACKEND)")
	flagSet.StringVar(&f.seedFile, "seed-file", "", "YAML seed data used for slots with nothing persisted (overrides STORE_SEED_FILE)")
	flagSet.StringVar(&f.port, "port", "", "HTTP port (overrides APP_PORT)")
	flagSet.StringVar(&f.migrationsDir, "migrations-dir", persistence.DefaultMigrationsDir, "directory of postgres slot migrations")
	err := flagSet.Parse(args)
	return f, err
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("invalid flags: %v", err)
	}

	cfg, err := config.Load(opts.envFiles...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if opts.store != "" {
		cfg.Store.Backend = opts.store
	}
	if opts.seedFile != "" {
		cfg.Store.SeedFile = opts.seedFile
	}
	if opts.port != "" {
		cfg.App.Port = opts.port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slots, readiness, closeBackend, err := openSlots(ctx, cfg, opts.migrationsDir, logger)
	if err != nil {
		logger.Fatal("failed to open store backend", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeBackend()

	seed, err := loadSeed(cfg.Store.SeedFile)
	if err != nil {
		logger.Fatal("failed to load seed file", zap.String("path", cfg.Store.SeedFile), zap.Error(err))
	}
	store := repository.NewEntityStore(slots, cfg.Store.KeyPrefix, logger)
	if err := store.Load(ctx, seed); err != nil {
		logger.Fatal("failed to load entity store", zap.Error(err))
	}
	logger.Info("entity store loaded",
		zap.String("backend", cfg.Store.Backend),
		zap.Int("tickets", len(store.Tickets())),
		zap.Int("users", len(store.Users())),
		zap.Int("companies", len(store.Companies())))

	ticketRepo := repository.NewTicketRepository(store)
	userRepo := repository.NewUserRepository(store)
	companyRepo := repository.NewCompanyRepository(store)
	categoryRepo := repository.NewCategoryRepository(store)

	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	var collaborator ai.Collaborator
	if cfg.AI.APIKey != "" {
		collaborator = ai.NewGemini(cfg.AI)
	} else {
		logger.Warn("AI_API_KEY not set; triage and summaries use fallbacks")
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		UserRepo:     userRepo,
		CompanyRepo:  companyRepo,
		CategoryRepo: categoryRepo,
		AI:           collaborator,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, companyRepo, logger)
	companyService := service.NewCompanyService(service.CompanyDependencies{
		CompanyRepo:  companyRepo,
		UserRepo:     userRepo,
		CategoryRepo: categoryRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	reportService := service.NewReportService(ticketRepo, userRepo)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Logger:     logger,
		Config:     cfg.Notification,
	})
	worker.StartNotificationWorker(ctx, notificationService, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Store.Backend, readiness, metrics),
		Session:        handlers.NewSessionHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Users:          handlers.NewUsersHandler(userService),
		Billing:        handlers.NewBillingHandler(companyService, notificationService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo, companyRepo),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// openSlots selects the slot backend. The returned map feeds the readiness probe.
func openSlots(ctx context.Context, cfg *config.Config, migrationsDir string, logger *zap.Logger) (persistence.SlotStore, map[string]handlers.Pinger, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		rdb := persistence.NewRedis(cfg.Redis, logger)
		slots, err := persistence.NewRedisSlots(rdb)
		if err != nil {
			rdb.Close()
			return nil, nil, nil, err
		}
		return slots, map[string]handlers.Pinger{"redis": rdb}, rdb.Close, nil

	case config.StoreBackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrationsDir, logger); err != nil {
				pg.Close()
				return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		slots, err := persistence.NewPostgresSlots(pg)
		if err != nil {
			pg.Close()
			return nil, nil, nil, err
		}
		return slots, map[string]handlers.Pinger{"postgres": pg}, pg.Close, nil
	}
	return persistence.NewMemorySlots(), nil, func() {}, nil
}

func loadSeed(path string) (repository.Seed, error) {
	seed := repository.DefaultSeed(time.Now())
	if path == "" {
		return seed, nil
	}
	return repository.LoadSeedFile(path, seed)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
