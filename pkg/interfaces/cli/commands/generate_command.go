package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/services"
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Events    int     // Number of events to generate
	Templates int     // Number of menu templates shared by the events
	Inventory float64 // Stock as a fraction of one average event's need (e.g. 0.5, 2.0)
	Unmapped  int     // Number of dishes left without a supplier item
	OutputDir string  // Output directory for generated files
	Seed      int64   // Random seed for reproducible generation
	Help      bool    // Show help
	Verbose   bool    // Verbose output
	Out       io.Writer
}

// GenerateCommand writes a synthetic scenario directory
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	out    io.Writer
}

const (
	generatedOrgID   = "ORG-GEN"
	generatedHotelID = "H-GEN"
)

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	out := config.Out
	if out == nil {
		out = os.Stdout
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
		out:    out,
	}
}

// dish is a menu line together with the catalog entry that buys it
type dish struct {
	label       string
	section     string
	unit        entities.Unit
	seated      string
	standing    string
	menuRule    entities.RoundingRule
	menuPack    string
	supplierID  string
	catalogName string
	buyRule     entities.RoundingRule
	buyPack     string
	price       string
}

var dishes = []dish{
	{"Beef tenderloin", "mains", entities.UnitKg, "0.2", "0.1", entities.RoundCeilPack, "0.5", "SUP-BUTCHER", "Beef tenderloin", entities.RoundNone, "", "38.50"},
	{"Chicken supreme", "mains", entities.UnitKg, "0.18", "0.08", entities.RoundNone, "", "SUP-BUTCHER", "Chicken supreme", entities.RoundCeilUnit, "", "12.40"},
	{"Salmon fillet", "mains", entities.UnitKg, "0.16", "0.06", entities.RoundNone, "", "SUP-FISH", "Salmon fillet skin on", entities.RoundNone, "", "24.00"},
	{"Sea bass", "mains", entities.UnitKg, "0.15", "0", entities.RoundNone, "", "SUP-FISH", "Sea bass", entities.RoundNone, "", "29.90"},
	{"Canapés", "starters", entities.UnitEach, "0", "3", entities.RoundCeilUnit, "", "SUP-DELI", "Canapés", entities.RoundCeilUnit, "", "1.20"},
	{"Bread roll", "bakery", entities.UnitEach, "1", "0.5", entities.RoundCeilUnit, "", "SUP-BAKERY", "Bread roll", entities.RoundCeilPack, "12", "0.35"},
	{"Butter portion", "bakery", entities.UnitEach, "1", "0", entities.RoundCeilUnit, "", "SUP-DAIRY", "Butter portion 10g", entities.RoundCeilPack, "100", "0.09"},
	{"Green salad", "starters", entities.UnitKg, "0.08", "0.05", entities.RoundNone, "", "SUP-GREENS", "Mixed leaves", entities.RoundNone, "", "9.80"},
	{"Potato gratin", "sides", entities.UnitKg, "0.15", "0.05", entities.RoundNone, "", "SUP-GREENS", "Potatoes", entities.RoundCeilUnit, "", "1.60"},
	{"Chocolate fondant", "desserts", entities.UnitEach, "1", "0", entities.RoundCeilUnit, "", "SUP-PASTRY", "Chocolate fondant", entities.RoundCeilPack, "6", "2.80"},
	{"Lemon tart", "desserts", entities.UnitEach, "1", "0.5", entities.RoundCeilUnit, "", "SUP-PASTRY", "Lemon tart", entities.RoundCeilPack, "8", "2.40"},
	{"Sparkling water", "drinks", entities.UnitEach, "0.5", "0.5", entities.RoundCeilPack, "6", "SUP-DRINKS", "Sparkling water 75cl", entities.RoundCeilPack, "6", "2.10"},
	{"Still water", "drinks", entities.UnitEach, "0.5", "0.3", entities.RoundCeilPack, "6", "SUP-DRINKS", "Still water 75cl", entities.RoundCeilPack, "6", "1.90"},
	{"Coffee", "drinks", entities.UnitKg, "0.012", "0.01", entities.RoundCeilPack, "0.5", "SUP-DRINKS", "Coffee beans", entities.RoundCeilPack, "1", "21.00"},
}

var eventNames = []string{"Wedding", "Gala dinner", "Conference lunch", "Product launch", "Board dinner", "Charity ball", "Awards night", "Summer party"}

var serviceNames = []string{"Reception", "Lunch", "Dinner", "Late snack", "Coffee break"}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out,
			"🔧 Generating scenario with %d events, %d templates, %.1fx inventory, %d unmapped dishes\n",
			cmd.config.Events,
			cmd.config.Templates,
			cmd.config.Inventory,
			cmd.config.Unmapped,
		)
		fmt.Fprintf(cmd.out, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	s := &csv.Scenario{Overrides: make(map[string]entities.ServiceOverrides)}

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "📦 Generating supplier catalog...")
	}
	cmd.generateCatalog(s)

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "🍽  Generating menu templates...")
	}
	cmd.generateTemplates(s)

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "📋 Generating events and services...")
	}
	cmd.generateEvents(s)

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "🏬 Generating stock...")
	}
	cmd.generateStock(s)

	if err := csv.WriteScenario(cmd.config.OutputDir, s); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "✅ Scenario written: %d events, %d services, %d template items, %d supplier items\n",
			len(s.Events), len(s.Services), len(s.TemplateItems), len(s.SupplierItems))
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	if cmd.config.Events <= 0 {
		return fmt.Errorf("events must be positive")
	}
	if cmd.config.Templates <= 0 {
		return fmt.Errorf("templates must be positive")
	}
	if cmd.config.Inventory < 0 {
		return fmt.Errorf("inventory cannot be negative")
	}
	if cmd.config.Unmapped < 0 || cmd.config.Unmapped > len(dishes) {
		return fmt.Errorf("unmapped must be between 0 and %d", len(dishes))
	}
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

func supplierItemID(i int) string {
	return fmt.Sprintf("SI-%03d", i+1)
}

func decPtr(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d := decimal.RequireFromString(s)
	return &d
}

// generateCatalog adds one supplier item per dish except the last Unmapped
// ones. Dishes bought under another name get an alias.
func (cmd *GenerateCommand) generateCatalog(s *csv.Scenario) {
	mapped := len(dishes) - cmd.config.Unmapped
	for i, d := range dishes[:mapped] {
		s.SupplierItems = append(s.SupplierItems, csv.SupplierItem{
			OrgID: generatedOrgID,
			Item: entities.SupplierItem{
				ID:           supplierItemID(i),
				SupplierID:   d.supplierID,
				Name:         d.catalogName,
				PurchaseUnit: d.unit,
				RoundingRule: d.buyRule,
				PackSize:     decPtr(d.buyPack),
				PricePerUnit: decPtr(d.price),
			},
		})
		if d.catalogName != d.label {
			s.Aliases = append(s.Aliases, entities.Alias{
				OrgID:           generatedOrgID,
				NormalizedLabel: services.NormalizeLabel(d.label),
				SupplierItemID:  supplierItemID(i),
			})
		}
	}
	s.Settings = append(s.Settings, csv.OrgSettings{
		OrgID:    generatedOrgID,
		Settings: entities.PurchasingSettings{BufferPercent: decimal.NewFromInt(5)},
	})
}

// generateTemplates gives every template a random subset of the dishes
func (cmd *GenerateCommand) generateTemplates(s *csv.Scenario) {
	for t := 0; t < cmd.config.Templates; t++ {
		templateID := fmt.Sprintf("TPL-%02d", t+1)
		size := 3 + cmd.rand.Intn(len(dishes)-3)
		for n, idx := range cmd.rand.Perm(len(dishes))[:size] {
			d := dishes[idx]
			s.TemplateItems = append(s.TemplateItems, csv.TemplateItem{
				TemplateID: templateID,
				Item: entities.MenuTemplateItem{
					ID:                  fmt.Sprintf("%s-%02d", templateID, n+1),
					Name:                d.label,
					Section:             d.section,
					Unit:                d.unit,
					QtyPerSeatedGuest:   decimal.RequireFromString(d.seated),
					QtyPerStandingGuest: decimal.RequireFromString(d.standing),
					RoundingRule:        d.menuRule,
					PackSize:            decPtr(d.menuPack),
				},
			})
		}
	}
}

func (cmd *GenerateCommand) generateEvents(s *csv.Scenario) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for e := 0; e < cmd.config.Events; e++ {
		start := base.AddDate(0, 0, cmd.rand.Intn(120)).Add(time.Duration(11+cmd.rand.Intn(9)) * time.Hour)
		event := entities.Event{
			ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d-%d", cmd.config.Seed, e))).String(),
			OrgID:    generatedOrgID,
			HotelID:  generatedHotelID,
			Name:     fmt.Sprintf("%s %d", eventNames[cmd.rand.Intn(len(eventNames))], e+1),
			StartsAt: start,
			EndsAt:   start.Add(6 * time.Hour),
		}
		s.Events = append(s.Events, event)

		services := 1 + cmd.rand.Intn(3)
		at := start
		for n := 0; n < services; n++ {
			format := entities.FormatSeated
			if cmd.rand.Intn(2) == 0 {
				format = entities.FormatStanding
			}
			templateID := fmt.Sprintf("TPL-%02d", 1+cmd.rand.Intn(cmd.config.Templates))
			if cmd.rand.Intn(10) == 0 {
				templateID = ""
			}
			s.Services = append(s.Services, entities.EventService{
				ID:         fmt.Sprintf("S-%d-%d", e+1, n+1),
				EventID:    event.ID,
				Name:       serviceNames[cmd.rand.Intn(len(serviceNames))],
				Pax:        20 + cmd.rand.Intn(280),
				Format:     format,
				TemplateID: templateID,
				StartsAt:   at,
				EndsAt:     at.Add(2 * time.Hour),
			})
			at = at.Add(2 * time.Hour)
		}
	}
}

// generateStock puts Inventory times one average event's gross need of
// every mapped dish on hand
func (cmd *GenerateCommand) generateStock(s *csv.Scenario) {
	if cmd.config.Inventory == 0 {
		return
	}

	itemsByTemplate := make(map[string][]entities.MenuTemplateItem)
	for _, ti := range s.TemplateItems {
		itemsByTemplate[ti.TemplateID] = append(itemsByTemplate[ti.TemplateID], ti.Item)
	}

	gross := make(map[string]decimal.Decimal)
	for _, svc := range s.Services {
		for _, item := range itemsByTemplate[svc.TemplateID] {
			gross[item.Name] = gross[item.Name].Add(item.RatioFor(svc.Format).Mul(decimal.NewFromInt(int64(svc.Pax))))
		}
	}

	factor := decimal.NewFromFloat(cmd.config.Inventory).Div(decimal.NewFromInt(int64(len(s.Events))))
	for i, d := range dishes[:len(dishes)-cmd.config.Unmapped] {
		qty := gross[d.label].Mul(factor).Round(1)
		if !qty.IsPositive() {
			continue
		}
		s.Stock = append(s.Stock, entities.StockLevel{HotelID: generatedHotelID, SupplierItemID: supplierItemID(i), OnHand: qty})
	}
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.out, `Event Scenario Generator

USAGE:
    procure generate [OPTIONS]

OPTIONS:
    -events <N>         Number of events to generate (default: 10)
    -templates <N>      Number of menu templates (default: 3)
    -inventory <F>      Stock as a multiple of one average event's need (default: 0.5)
    -unmapped <N>       Dishes left without a supplier item (default: 0)
    -output <DIR>       Output directory for generated files (required)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Generate a small scenario
    procure generate -events 5 -output ./small_scenario

    # Generate a scenario where planning aborts on unknown dishes
    procure generate -events 20 -unmapped 2 -output ./unmapped_scenario

    # Generate a reproducible scenario
    procure generate -events 200 -templates 8 -inventory 1.5 -output ./repro_scenario -seed 12345`)
}
