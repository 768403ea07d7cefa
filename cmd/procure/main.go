package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vsinha/eventprocure/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	args := os.Args[1:]
	name := "plan"
	if len(args) > 0 && (args[0] == "session" || args[0] == "generate" || args[0] == "plan") {
		name, args = args[0], args[1:]
	}

	var cmd command
	switch name {
	case "session":
		cmd = parseSession(args)
	case "generate":
		cmd = parseGenerate(args)
	default:
		cmd = parsePlan(args)
	}

	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parsePlan(args []string) command {
	fs := flag.NewFlagSet("procure", flag.ExitOnError)
	var (
		scenarioDir = fs.String("scenario", "", "Path to scenario directory containing CSV files")
		eventID     = fs.String("event", "", "Plan only this event")
		outputDir   = fs.String("output", "", "Output directory for results (optional)")
		format      = fs.String("format", "text", "Output format: text, json, csv, html")
		verbose     = fs.Bool("verbose", false, "Enable verbose output")
		help        = fs.Bool("help", false, "Show help message")
	)
	fs.Parse(args)

	return commands.NewPlanCommand(commands.Config{
		ScenarioDir: *scenarioDir,
		EventID:     *eventID,
		OutputDir:   *outputDir,
		Format:      *format,
		Verbose:     *verbose,
		Help:        *help,
	})
}

func parseSession(args []string) command {
	fs := flag.NewFlagSet("procure session", flag.ExitOnError)
	var (
		scenarioDir = fs.String("scenario", "", "Path to scenario directory containing CSV files")
		verbose     = fs.Bool("verbose", false, "Enable verbose output")
		help        = fs.Bool("help", false, "Show help message")
	)
	fs.Parse(args)

	return commands.NewSessionCommand(commands.SessionConfig{
		ScenarioDir: *scenarioDir,
		Verbose:     *verbose,
		Help:        *help,
	})
}

func parseGenerate(args []string) command {
	fs := flag.NewFlagSet("procure generate", flag.ExitOnError)
	var (
		events    = fs.Int("events", 10, "Number of events to generate")
		templates = fs.Int("templates", 3, "Number of menu templates")
		inventory = fs.Float64("inventory", 0.5, "Stock as a multiple of one average event's need")
		unmapped  = fs.Int("unmapped", 0, "Dishes left without a supplier item")
		outputDir = fs.String("output", "", "Output directory for generated files")
		seed      = fs.Int64("seed", 0, "Random seed for reproducible generation")
		verbose   = fs.Bool("verbose", false, "Enable verbose output")
		help      = fs.Bool("help", false, "Show help message")
	)
	fs.Parse(args)

	return commands.NewGenerateCommand(commands.GenerateConfig{
		Events:    *events,
		Templates: *templates,
		Inventory: *inventory,
		Unmapped:  *unmapped,
		OutputDir: *outputDir,
		Seed:      *seed,
		Verbose:   *verbose,
		Help:      *help,
	})
}
