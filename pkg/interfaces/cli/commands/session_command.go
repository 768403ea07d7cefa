package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/eventprocure/pkg/interfaces/cli/output"
)

// SessionConfig holds configuration for the interactive session
type SessionConfig struct {
	ScenarioDir string
	Verbose     bool
	Help        bool
	In          io.Reader
	Out         io.Writer
}

// SessionCommand runs an interactive planning session over a loaded scenario
type SessionCommand struct {
	config  SessionConfig
	ws      *workspace
	scanner *bufio.Scanner
	out     io.Writer
}

var errQuit = errors.New("quit")

// NewSessionCommand creates a new session command with the given configuration
func NewSessionCommand(config SessionConfig) *SessionCommand {
	in := config.In
	if in == nil {
		in = os.Stdin
	}
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	return &SessionCommand{
		config:  config,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Execute loads the scenario and reads commands until EOF or quit
func (c *SessionCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.printHelp()
		return nil
	}

	logger, err := newCLILogger(c.config.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	c.ws, err = loadWorkspace(ctx, c.config.ScenarioDir, logger)
	if err != nil {
		return err
	}

	return c.runInteractiveSession(ctx)
}

func (c *SessionCommand) runInteractiveSession(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Event Procurement Session ===")
	fmt.Fprintln(c.out, "Type 'help' for available commands")
	fmt.Fprintln(c.out)

	for {
		fmt.Fprint(c.out, "procure> ")
		if !c.scanner.Scan() {
			break
		}

		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}

		err := c.processCommand(ctx, line)
		if errors.Is(err, errQuit) {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		fmt.Fprintln(c.out)
	}

	return c.scanner.Err()
}

func (c *SessionCommand) processCommand(ctx context.Context, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := parts[0]
	args := parts[1:]

	switch command {
	case "help", "h":
		c.printInteractiveHelp()
	case "events", "list":
		c.handleListEvents()
	case "plan":
		return c.handlePlan(ctx, args)
	case "orders":
		return c.handleOrders(ctx, args)
	case "freeze", "unfreeze":
		return c.handleFreeze(ctx, args, command == "freeze")
	case "send":
		return c.handleTransition(ctx, args, c.ws.orchestrator.Procurement.SendEventOrder)
	case "cancel":
		return c.handleTransition(ctx, args, c.ws.orchestrator.Procurement.CancelEventOrder)
	case "alias":
		return c.handleAlias(ctx, args)
	case "receive":
		return c.handleReceive(ctx, args)
	case "status":
		return c.handleStatus()
	case "history":
		return c.handleHistory(args)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", command)
	}

	return nil
}

func (c *SessionCommand) handleListEvents() {
	for _, e := range c.ws.scenario.Events {
		fmt.Fprintf(c.out, "%s  %-30s %s\n", e.ID, e.Name, e.StartsAt.Format("2006-01-02 15:04"))
	}
}

func (c *SessionCommand) eventName(id string) string {
	for _, e := range c.ws.scenario.Events {
		if e.ID == id {
			return e.Name
		}
	}
	return id
}

func (c *SessionCommand) handlePlan(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: plan <event-id>")
	}
	result, err := c.ws.orchestrator.PlanEvent(ctx, args[0])
	if err != nil {
		return err
	}
	return output.Generate([]output.EventReport{{EventID: args[0], EventName: c.eventName(args[0]), Result: result}},
		output.Config{Format: "text", Out: c.out})
}

func (c *SessionCommand) handleOrders(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: orders <event-id>")
	}
	views, err := c.ws.orchestrator.Procurement.ListEventOrders(ctx, args[0])
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Fprintln(c.out, "No orders for this event")
		return nil
	}
	for _, v := range views {
		fmt.Fprintf(c.out, "%s  %s  supplier %s  [%s]  total %s\n",
			v.Order.ID, v.Order.OrderNumber, v.Order.SupplierID, v.Order.Status, v.Total.StringFixed(2))
		for _, l := range v.Lines {
			frozen := ""
			if l.Freeze {
				frozen = " (frozen)"
			}
			fmt.Fprintf(c.out, "    %s  %-24s %s %s%s\n", l.ID, l.ItemLabel, l.Qty, l.PurchaseUnit, frozen)
		}
	}
	return nil
}

func (c *SessionCommand) handleFreeze(ctx context.Context, args []string, freeze bool) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: freeze|unfreeze <order-id> <line-id>")
	}
	if err := c.ws.orchestrator.Procurement.SetLineFreeze(ctx, args[0], args[1], freeze); err != nil {
		return err
	}
	if freeze {
		fmt.Fprintf(c.out, "Line %s frozen\n", args[1])
	} else {
		fmt.Fprintf(c.out, "Line %s released\n", args[1])
	}
	return nil
}

func (c *SessionCommand) handleTransition(ctx context.Context, args []string, fn func(context.Context, string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: send|cancel <order-id>")
	}
	if err := fn(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Order %s updated\n", args[0])
	return nil
}

func (c *SessionCommand) handleAlias(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: alias <org-id> <supplier-item-id> <label...>")
	}
	alias, err := c.ws.orchestrator.Procurement.CreateAlias(ctx, args[0], strings.Join(args[2:], " "), args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Alias %q -> %s saved\n", alias.NormalizedLabel, alias.SupplierItemID)
	return nil
}

func (c *SessionCommand) handleReceive(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: receive <po-id> <line-id> <qty>")
	}
	qty, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("invalid quantity: %s", args[2])
	}
	po, err := c.ws.orchestrator.Purchasing.Receive(ctx, args[0], args[1], qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Purchase order %s is %s\n", po.OrderNumber, po.Status)
	return nil
}

func (c *SessionCommand) handleStatus() error {
	allEvents, err := c.ws.audit.ReadAllEvents(0)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	fmt.Fprintf(c.out, "=== Session Status ===\n")
	fmt.Fprintf(c.out, "Events in scenario: %d\n", len(c.ws.scenario.Events))
	fmt.Fprintf(c.out, "Changes recorded: %d\n", len(allEvents))

	counts := make(map[string]int)
	var types []string
	for _, event := range allEvents {
		if counts[event.Type()] == 0 {
			types = append(types, event.Type())
		}
		counts[event.Type()]++
	}
	if len(types) > 0 {
		fmt.Fprintf(c.out, "\nChanges by type:\n")
		for _, t := range types {
			fmt.Fprintf(c.out, "  %s: %d\n", t, counts[t])
		}
	}
	return nil
}

func (c *SessionCommand) handleHistory(args []string) error {
	limit := 10
	if len(args) > 0 {
		if l, err := strconv.Atoi(args[0]); err == nil && l > 0 {
			limit = l
		}
	}

	allEvents, err := c.ws.audit.ReadAllEvents(0)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	fmt.Fprintf(c.out, "=== Recent Changes (last %d) ===\n", limit)
	start := len(allEvents) - limit
	if start < 0 {
		start = 0
	}
	for _, event := range allEvents[start:] {
		fmt.Fprintf(c.out, "[%s] %s -> %s\n",
			event.Timestamp().Format("15:04:05"),
			event.Type(),
			event.StreamID())
	}
	return nil
}

func (c *SessionCommand) printHelp() {
	fmt.Fprintln(c.out, `Interactive Procurement Session

USAGE:
    procure session -scenario <DIR> [-verbose]

DESCRIPTION:
    Loads a scenario into memory and lets you plan events, freeze lines,
    send or cancel orders, add aliases and receive purchase orders while
    watching how replanning reacts.`)
}

func (c *SessionCommand) printInteractiveHelp() {
	fmt.Fprintln(c.out, `Available commands:

  events
      List the events of the scenario

  plan <event-id>
      Derive demand and synthesize draft orders for an event

  orders <event-id>
      Show the event's orders with line ids

  freeze <order-id> <line-id>
  unfreeze <order-id> <line-id>
      Keep a draft line unchanged on replanning, or release it

  send <order-id>
  cancel <order-id>
      Change the status of an event order

  alias <org-id> <supplier-item-id> <label...>
      Map a menu label to a supplier item
      Example: alias ORG1 SI-TRUF Black truffle

  receive <po-id> <line-id> <qty>
      Book goods received on a purchase order into stock

  status
      Show counts of recorded changes

  history [limit]
      Show recent changes (default: 10)

  help, h
      Show this help message

  quit, q, exit
      Leave the session`)
}

