package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command
type Config struct {
	ScenarioDir string
	EventID     string
	OutputDir   string
	Format      string
	Verbose     bool
	Help        bool
	// Out receives everything printed; nil means os.Stdout
	Out io.Writer
}

// PlanCommand plans the events of a scenario and prints their draft orders
type PlanCommand struct {
	config Config
	out    io.Writer
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	if config.Format == "" {
		config.Format = "text"
	}
	return &PlanCommand{config: config, out: out}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		c.printHeader()
		fmt.Fprintln(c.out, "📂 Loading scenario from CSV files...")
	}

	logger, err := newCLILogger(c.config.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ws, err := loadWorkspace(ctx, c.config.ScenarioDir, logger)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Scenario loaded successfully:\n")
		fmt.Fprintf(c.out, "  Events: %d\n", len(ws.scenario.Events))
		fmt.Fprintf(c.out, "  Services: %d\n", len(ws.scenario.Services))
		fmt.Fprintf(c.out, "  Template Items: %d\n", len(ws.scenario.TemplateItems))
		fmt.Fprintf(c.out, "  Supplier Items: %d\n", len(ws.scenario.SupplierItems))
		fmt.Fprintf(c.out, "  Aliases: %d\n", len(ws.scenario.Aliases))
		fmt.Fprintf(c.out, "  Purchase Orders: %d\n", len(ws.scenario.PurchaseOrders))
		fmt.Fprintln(c.out)
	}

	targets, err := c.selectEvents(ws.scenario.Events)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🔄 Synthesizing draft orders...")
	}

	startTime := time.Now()
	reports := make([]output.EventReport, 0, len(targets))
	for _, event := range targets {
		result, err := ws.orchestrator.PlanEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("error planning event %s: %w", event.ID, err)
		}
		reports = append(reports, output.EventReport{EventID: event.ID, EventName: event.Name, Result: result})
	}
	planTime := time.Since(startTime)

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Planned %d events in %v\n\n", len(reports), planTime)
	}

	err = output.Generate(reports, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		PlanTime:  planTime,
		Out:       c.out,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🏁 Planning complete!")
	}
	return nil
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs() error {
	if c.config.ScenarioDir == "" {
		return fmt.Errorf("must specify a -scenario directory")
	}
	switch c.config.Format {
	case "text", "json":
	case "csv", "html":
		if c.config.OutputDir == "" {
			return fmt.Errorf("format %s requires -output", c.config.Format)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	return nil
}

func (c *PlanCommand) selectEvents(all []entities.Event) ([]entities.Event, error) {
	if c.config.EventID == "" {
		return all, nil
	}
	for _, e := range all {
		if e.ID == c.config.EventID {
			return []entities.Event{e}, nil
		}
	}
	return nil, fmt.Errorf("event %s not found in scenario", c.config.EventID)
}

// printHeader prints the command header information
func (c *PlanCommand) printHeader() {
	fmt.Fprintf(c.out, "🚀 Event Procurement CLI\n")
	fmt.Fprintf(c.out, "Scenario: %s\n", c.config.ScenarioDir)
	if c.config.EventID != "" {
		fmt.Fprintf(c.out, "Event: %s\n", c.config.EventID)
	}
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.out)
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Fprintf(c.out, `Event Procurement CLI - draft supplier orders for catered events

USAGE:
    procure -scenario <directory> [-event <id>]
    procure session -scenario <directory>
    procure generate -output <directory>

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -event <id>         Plan only this event (default: every event)
    -output <dir>       Output directory for results (required for csv, html)
    -format <fmt>       Output format: text, json, csv, html (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── events.csv            # Events (required)
    ├── services.csv          # Services of each event (required)
    ├── template_items.csv    # Menu template lines (required)
    ├── supplier_items.csv    # Supplier catalog (required)
    ├── overrides.csv         # Per-service menu changes
    ├── aliases.csv           # Label to supplier item mappings
    ├── stock.csv             # On-hand stock per hotel
    ├── reservations.csv      # Stock reserved by other events
    ├── purchase_orders.csv   # Standalone purchase orders
    └── settings.csv          # Buffer settings per org

CSV FILE FORMATS:

events.csv:
    id,org_id,hotel_id,name,starts_at,ends_at
    E1,ORG1,H1,Summer gala,2025-06-14T18:00:00Z,2025-06-15T00:00:00Z

services.csv:
    id,event_id,name,pax,format,template_id,starts_at,ends_at
    S1,E1,Dinner,40,seated,TPL-DINNER,,

template_items.csv:
    template_id,item_id,name,section,unit,qty_per_seated_guest,qty_per_standing_guest,rounding_rule,pack_size,notes
    TPL-DINNER,D1,Beef tenderloin,mains,kg,0.2,0.15,ceil_pack,0.5,

supplier_items.csv:
    org_id,id,supplier_id,name,purchase_unit,rounding_rule,pack_size,price_per_unit
    ORG1,SI-BEEF,SUP-BUTCHER,Beef tenderloin,kg,none,,38.50

EXAMPLES:
    # Plan every event of the gala scenario
    procure -scenario scenarios/gala -verbose

    # Plan one event as JSON
    procure -scenario scenarios/gala -event 7c9e6679-7425-40de-944b-e07fc1f90ae7 -format json

    # Write a printable purchase sheet
    procure -scenario scenarios/gala -format html -output results/
`)
}
