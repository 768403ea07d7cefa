package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vsinha/eventprocure/pkg/application/services/orchestration"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/infrastructure/config"
	"github.com/vsinha/eventprocure/pkg/infrastructure/database"
	"github.com/vsinha/eventprocure/pkg/infrastructure/events"
	"github.com/vsinha/eventprocure/pkg/infrastructure/logging"
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/postgres"
	"github.com/vsinha/eventprocure/pkg/interfaces/api"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting event procurement service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("store", cfg.Store),
	)

	defaults, err := cfg.Purchasing.Settings()
	if err != nil {
		logger.Fatal("Invalid purchasing defaults", zap.Error(err))
	}

	repos, seed, err := openStore(cfg, defaults)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}

	if cfg.SeedScenario != "" {
		scenario, err := csv.NewLoader().LoadScenario(cfg.SeedScenario)
		if err != nil {
			logger.Fatal("Failed to load seed scenario", zap.String("dir", cfg.SeedScenario), zap.Error(err))
		}
		if err := scenario.Apply(context.Background(), seed); err != nil {
			logger.Fatal("Failed to seed store", zap.Error(err))
		}
		logger.Info("Seeded store from scenario",
			zap.String("dir", cfg.SeedScenario),
			zap.Int("events", len(scenario.Events)),
			zap.Int("supplier_items", len(scenario.SupplierItems)))
	}

	audit := events.NewInMemoryEventStore(logger.Named("audit"))
	audit.Subscribe(events.LogTo(logger.Named("audit")))
	o, err := orchestration.NewOrchestrator(repos, audit, logger)
	if err != nil {
		logger.Fatal("Failed to wire services", zap.Error(err))
	}

	app := api.NewApp(api.NewHandlers(o.Procurement, o.Purchasing), api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger.Named("http"),
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("Server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// openStore returns the configured repositories together with the target a
// seed scenario is written into
func openStore(cfg *config.Config, defaults entities.PurchasingSettings) (orchestration.Repositories, csv.Target, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return orchestration.Repositories{}, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			return orchestration.Repositories{}, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		store := postgres.NewStore(db, defaults)
		if err := store.Ping(context.Background()); err != nil {
			return orchestration.Repositories{}, nil, err
		}
		return orchestration.PostgresRepositories(store), store, nil
	default:
		store := memory.NewStore(defaults)
		return orchestration.MemoryRepositories(store), store, nil
	}
}
