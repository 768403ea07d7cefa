package output

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/eventprocure/pkg/application/dto"
	"github.com/vsinha/eventprocure/pkg/application/services/procurement"
)

//go:embed templates/*.html
var templateFS embed.FS

// PurchaseSheet is the data rendered into the printable purchase sheet
type PurchaseSheet struct {
	Events      []SheetEvent
	GrandTotal  string
	PlanTime    string
	GeneratedAt string
}

// SheetEvent is one event section of the sheet
type SheetEvent struct {
	ID       string
	Name     string
	Aborted  bool
	Problems []string
	Missing  []dto.MissingService
	Orders   []dto.EventOrderView
	Total    string
}

// BuildPurchaseSheet converts reports into sheet data
func BuildPurchaseSheet(reports []EventReport, planTime time.Duration) *PurchaseSheet {
	sheet := &PurchaseSheet{
		PlanTime:    formatDuration(planTime),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	}

	grand := decimal.Zero
	for _, r := range reports {
		plan := r.Result.Plan
		ev := SheetEvent{
			ID:      r.EventID,
			Name:    r.EventName,
			Aborted: procurement.IsAbort(plan.Synthesis),
			Missing: plan.Demand.MissingServices,
		}
		if ev.Aborted {
			for _, n := range plan.Synthesis.Unknown {
				ev.Problems = append(ev.Problems, fmt.Sprintf("No supplier item for %q", n.Label))
			}
			for _, m := range plan.Synthesis.Mismatches {
				ev.Problems = append(ev.Problems, fmt.Sprintf("%s is bought in %s but needed in %s", m.SupplierItemName, m.PurchaseUnit, m.NeedUnit))
			}
		} else {
			ev.Orders = r.Result.Orders
		}

		total := decimal.Zero
		for _, v := range ev.Orders {
			total = total.Add(v.Total)
		}
		ev.Total = total.StringFixed(2)
		grand = grand.Add(total)
		sheet.Events = append(sheet.Events, ev)
	}
	sheet.GrandTotal = grand.StringFixed(2)
	return sheet
}

// RenderHTML renders the purchase sheet template
func RenderHTML(sheet *PurchaseSheet) (string, error) {
	tmpl, err := template.New("purchase_sheet.html").Funcs(template.FuncMap{
		"price": priceString,
		"fixed": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}).ParseFS(templateFS, "templates/purchase_sheet.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, sheet); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func generateHTMLOutput(reports []EventReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for HTML format")
	}

	html, err := RenderHTML(BuildPurchaseSheet(reports, config.PlanTime))
	if err != nil {
		return fmt.Errorf("failed to generate purchase sheet: %w", err)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, "purchase_sheet.html")
	if err := os.WriteFile(filename, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "🌐 Purchase sheet saved to: %s\n", filename)
	}
	return nil
}
