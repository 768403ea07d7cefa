package commands

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vsinha/eventprocure/pkg/application/services/orchestration"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/infrastructure/config"
	"github.com/vsinha/eventprocure/pkg/infrastructure/events"
	"github.com/vsinha/eventprocure/pkg/infrastructure/logging"
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/memory"
)

// workspace is a scenario loaded into memory with services wired over it
type workspace struct {
	scenario     *csv.Scenario
	store        *memory.Store
	audit        *events.InMemoryEventStore
	orchestrator *orchestration.Orchestrator
}

func newCLILogger(verbose bool) (*zap.Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.New(config.LogConfig{Level: level, Format: "console"})
}

func loadWorkspace(ctx context.Context, dir string, logger *zap.Logger) (*workspace, error) {
	if dir == "" {
		return nil, fmt.Errorf("must specify a -scenario directory")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("scenario directory not found: %s", dir)
	}

	scenario, err := csv.NewLoader().LoadScenario(dir)
	if err != nil {
		return nil, fmt.Errorf("error loading scenario: %w", err)
	}

	store := memory.NewStore(entities.PurchasingSettings{})
	if err := scenario.Apply(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to load scenario into repositories: %w", err)
	}

	audit := events.NewInMemoryEventStore(logger)
	// only shown with -verbose, the CLI logger sits at warn otherwise
	audit.Subscribe(events.LogTo(logger.Named("audit")))
	o, err := orchestration.NewOrchestrator(orchestration.MemoryRepositories(store), audit, logger)
	if err != nil {
		return nil, err
	}

	return &workspace{scenario: scenario, store: store, audit: audit, orchestrator: o}, nil
}
