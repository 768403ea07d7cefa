package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/eventprocure/pkg/application/dto"
	"github.com/vsinha/eventprocure/pkg/application/services/orchestration"
	"github.com/vsinha/eventprocure/pkg/application/services/procurement"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	PlanTime  time.Duration
	// Out receives stdout output; nil means os.Stdout
	Out io.Writer
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// EventReport is the planning outcome of one event
type EventReport struct {
	EventID   string                     `json:"event_id"`
	EventName string                     `json:"event_name"`
	Result    *orchestration.PlanResult `json:"result"`
}

// Generate writes the reports in the configured format
func Generate(reports []EventReport, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(reports, config)
	case "json":
		return generateJSONOutput(reports, config)
	case "csv":
		return generateCSVOutput(reports, config)
	case "html":
		return generateHTMLOutput(reports, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateTextOutput(reports []EventReport, config Config) error {
	w := config.out()

	fmt.Fprintf(w, "📊 Event Procurement Results\n")
	fmt.Fprintf(w, "============================\n\n")
	fmt.Fprintf(w, "Events: %d\n", len(reports))
	fmt.Fprintf(w, "Plan Time: %v\n\n", config.PlanTime)

	for _, r := range reports {
		writeEventText(w, r)
	}
	return nil
}

func writeEventText(w io.Writer, r EventReport) {
	plan := r.Result.Plan
	fmt.Fprintf(w, "🎉 %s (%s)\n", r.EventName, r.EventID)
	fmt.Fprintf(w, "  Needs: %d\n", len(plan.Demand.Needs))
	for _, m := range plan.Demand.MissingServices {
		fmt.Fprintf(w, "  ⚠️  Service %s has no menu (%s)\n", m.Name, m.Reason)
	}
	for _, warning := range plan.Demand.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}

	switch plan.Synthesis.Status {
	case dto.SynthesisUnknownLabel:
		fmt.Fprintf(w, "  ❌ Unresolved items, nothing written: %s\n\n", procurement.SummarizeUnknown(plan.Synthesis))
		return
	case dto.SynthesisUnitMismatch:
		fmt.Fprintf(w, "  ❌ Unit mismatches, nothing written:\n")
		for _, m := range plan.Synthesis.Mismatches {
			fmt.Fprintf(w, "    %s: needed in %s, bought in %s (%s)\n",
				m.SupplierItemName, m.NeedUnit, m.PurchaseUnit, strings.Join(m.Labels, ", "))
		}
		fmt.Fprintln(w)
		return
	}

	if len(plan.Synthesis.RemovedOrderIDs) > 0 {
		fmt.Fprintf(w, "  Removed stale drafts: %d\n", len(plan.Synthesis.RemovedOrderIDs))
	}
	fmt.Fprintln(w)

	for _, v := range r.Result.Orders {
		fmt.Fprintf(w, "  📋 %s  supplier %s  [%s]\n", v.Order.OrderNumber, v.Order.SupplierID, v.Order.Status)
		fmt.Fprintf(w, "  %-24s %-8s %-8s %-8s %-8s %-8s %-5s %-10s %-10s\n",
			"Item", "Gross", "OnHand", "OnOrder", "Net", "Qty", "Unit", "Price", "Total")
		fmt.Fprintf(w, "  %-24s %-8s %-8s %-8s %-8s %-8s %-5s %-10s %-10s\n",
			"------------------------", "--------", "--------", "--------", "--------", "--------", "-----", "----------", "----------")
		for _, l := range v.Lines {
			label := l.ItemLabel
			if l.Freeze {
				label += " ❄"
			}
			fmt.Fprintf(w, "  %-24s %-8s %-8s %-8s %-8s %-8s %-5s %-10s %-10s\n",
				label,
				l.GrossQty.String(),
				l.OnHandQty.String(),
				l.OnOrderQty.String(),
				l.NetQty.String(),
				l.Qty.String(),
				string(l.PurchaseUnit),
				priceString(l.UnitPrice),
				l.LineTotal.StringFixed(2))
		}
		fmt.Fprintf(w, "  Order total: %s\n\n", v.Total.StringFixed(2))
	}
}

func priceString(p *decimal.Decimal) string {
	if p == nil {
		return "-"
	}
	return p.StringFixed(2)
}

func generateJSONOutput(reports []EventReport, config Config) error {
	jsonData, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.out(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, "plan_results.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// OrderLinesHeader is the header of the order lines CSV
var OrderLinesHeader = []string{
	"event_id", "order_number", "supplier_id", "status", "supplier_item_id", "item_label",
	"gross_qty", "on_hand_qty", "on_order_qty", "net_qty", "qty", "purchase_unit",
	"unit_price", "line_total", "freeze",
}

func generateCSVOutput(reports []EventReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "order_lines.csv")
	if err := writeOrderLinesCSV(reports, filename); err != nil {
		return fmt.Errorf("failed to write order lines CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 CSV results saved to: %s\n", filename)
	}
	return nil
}

func writeOrderLinesCSV(reports []EventReport, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(OrderLinesHeader); err != nil {
		return err
	}
	for _, r := range reports {
		for _, v := range r.Result.Orders {
			for _, l := range v.Lines {
				price := ""
				if l.UnitPrice != nil {
					price = l.UnitPrice.String()
				}
				record := []string{
					r.EventID, v.Order.OrderNumber, v.Order.SupplierID, string(v.Order.Status),
					l.SupplierItemID, l.ItemLabel,
					l.GrossQty.String(), l.OnHandQty.String(), l.OnOrderQty.String(), l.NetQty.String(),
					l.Qty.String(), string(l.PurchaseUnit), price, l.LineTotal.String(),
					fmt.Sprintf("%t", l.Freeze),
				}
				if err := w.Write(record); err != nil {
					return err
				}
			}
		}
	}
	w.Flush()
	return w.Error()
}
