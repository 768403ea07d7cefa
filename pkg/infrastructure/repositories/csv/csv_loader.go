package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/services"
)

// Scenario file names inside a scenario directory
const (
	EventsFile         = "events.csv"
	ServicesFile       = "services.csv"
	TemplateItemsFile  = "template_items.csv"
	OverridesFile      = "overrides.csv"
	SupplierItemsFile  = "supplier_items.csv"
	AliasesFile        = "aliases.csv"
	StockFile          = "stock.csv"
	ReservationsFile   = "reservations.csv"
	PurchaseOrdersFile = "purchase_orders.csv"
	SettingsFile       = "settings.csv"
)

// Timestamps use RFC 3339
const timeLayout = time.RFC3339

var itemColumns = []string{"name", "section", "unit", "qty_per_seated_guest", "qty_per_standing_guest", "rounding_rule", "pack_size", "notes"}

var (
	eventsHeader         = []string{"id", "org_id", "hotel_id", "name", "starts_at", "ends_at"}
	servicesHeader       = []string{"id", "event_id", "name", "pax", "format", "template_id", "starts_at", "ends_at"}
	templateItemsHeader  = append([]string{"template_id", "item_id"}, itemColumns...)
	overridesHeader      = append([]string{"service_id", "kind", "item_id"}, itemColumns...)
	supplierItemsHeader  = []string{"org_id", "id", "supplier_id", "name", "purchase_unit", "rounding_rule", "pack_size", "price_per_unit"}
	aliasesHeader        = []string{"org_id", "label", "supplier_item_id"}
	stockHeader          = []string{"hotel_id", "supplier_item_id", "on_hand"}
	reservationsHeader   = []string{"hotel_id", "event_id", "supplier_item_id", "quantity", "window_from", "window_to"}
	purchaseOrdersHeader = []string{"po_id", "org_id", "hotel_id", "supplier_id", "order_number", "status", "line_id", "supplier_item_id", "item_label", "requested_qty", "received_qty", "purchase_unit", "unit_price"}
	settingsHeader       = []string{"org_id", "buffer_percent", "buffer_qty"}
)

// TemplateItem is a menu item with the template it belongs to
type TemplateItem struct {
	TemplateID string
	Item       entities.MenuTemplateItem
}

// SupplierItem is a catalog entry with its owning org
type SupplierItem struct {
	OrgID string
	Item  entities.SupplierItem
}

// OrgSettings are purchasing settings for one org
type OrgSettings struct {
	OrgID    string
	Settings entities.PurchasingSettings
}

// Scenario is everything read from a scenario directory
type Scenario struct {
	Events         []entities.Event
	Services       []entities.EventService
	TemplateItems  []TemplateItem
	Overrides      map[string]entities.ServiceOverrides
	SupplierItems  []SupplierItem
	Aliases        []entities.Alias
	Stock          []entities.StockLevel
	Reservations   []entities.StockReservation
	PurchaseOrders []*entities.PurchaseOrder
	Settings       []OrgSettings
}

// Target receives a loaded scenario
type Target interface {
	SaveEvent(ctx context.Context, event entities.Event) error
	SaveService(ctx context.Context, service entities.EventService) error
	SaveTemplateItem(ctx context.Context, templateID string, item entities.MenuTemplateItem) error
	SaveOverrides(ctx context.Context, serviceID string, overrides entities.ServiceOverrides) error
	SaveSupplierItem(ctx context.Context, orgID string, item entities.SupplierItem) error
	SaveAlias(ctx context.Context, alias entities.Alias) error
	SaveStockLevel(ctx context.Context, level entities.StockLevel) error
	SaveReservation(ctx context.Context, res entities.StockReservation) error
	SavePurchaseOrder(ctx context.Context, po *entities.PurchaseOrder) error
	SavePurchasingSettings(ctx context.Context, orgID string, settings entities.PurchasingSettings) error
}

// Apply writes the scenario into target
func (s *Scenario) Apply(ctx context.Context, target Target) error {
	for _, e := range s.Events {
		if err := target.SaveEvent(ctx, e); err != nil {
			return fmt.Errorf("failed to save event %s: %w", e.ID, err)
		}
	}
	for _, svc := range s.Services {
		if err := target.SaveService(ctx, svc); err != nil {
			return fmt.Errorf("failed to save service %s: %w", svc.ID, err)
		}
	}
	for _, ti := range s.TemplateItems {
		if err := target.SaveTemplateItem(ctx, ti.TemplateID, ti.Item); err != nil {
			return fmt.Errorf("failed to save template item %s/%s: %w", ti.TemplateID, ti.Item.ID, err)
		}
	}
	for serviceID, ov := range s.Overrides {
		if err := target.SaveOverrides(ctx, serviceID, ov); err != nil {
			return fmt.Errorf("failed to save overrides of %s: %w", serviceID, err)
		}
	}
	for _, si := range s.SupplierItems {
		if err := target.SaveSupplierItem(ctx, si.OrgID, si.Item); err != nil {
			return fmt.Errorf("failed to save supplier item %s: %w", si.Item.ID, err)
		}
	}
	for _, a := range s.Aliases {
		if err := target.SaveAlias(ctx, a); err != nil {
			return fmt.Errorf("failed to save alias %q: %w", a.NormalizedLabel, err)
		}
	}
	for _, level := range s.Stock {
		if err := target.SaveStockLevel(ctx, level); err != nil {
			return fmt.Errorf("failed to save stock of %s: %w", level.SupplierItemID, err)
		}
	}
	for _, res := range s.Reservations {
		if err := target.SaveReservation(ctx, res); err != nil {
			return fmt.Errorf("failed to save reservation of %s: %w", res.SupplierItemID, err)
		}
	}
	for _, po := range s.PurchaseOrders {
		if err := target.SavePurchaseOrder(ctx, po); err != nil {
			return fmt.Errorf("failed to save purchase order %s: %w", po.ID, err)
		}
	}
	for _, org := range s.Settings {
		if err := target.SavePurchasingSettings(ctx, org.OrgID, org.Settings); err != nil {
			return fmt.Errorf("failed to save settings of %s: %w", org.OrgID, err)
		}
	}
	return nil
}

// Loader handles loading scenarios from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario reads every scenario file in dir. Events, services,
// template items and supplier items are required; the rest may be absent.
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	s := &Scenario{Overrides: make(map[string]entities.ServiceOverrides)}

	steps := []struct {
		file     string
		header   []string
		required bool
		parse    func(record []string) error
	}{
		{EventsFile, eventsHeader, true, s.parseEvent},
		{ServicesFile, servicesHeader, true, s.parseService},
		{TemplateItemsFile, templateItemsHeader, true, s.parseTemplateItem},
		{OverridesFile, overridesHeader, false, s.parseOverride},
		{SupplierItemsFile, supplierItemsHeader, true, s.parseSupplierItem},
		{AliasesFile, aliasesHeader, false, s.parseAlias},
		{StockFile, stockHeader, false, s.parseStock},
		{ReservationsFile, reservationsHeader, false, s.parseReservation},
		{PurchaseOrdersFile, purchaseOrdersHeader, false, s.purchaseOrderParser()},
		{SettingsFile, settingsHeader, false, s.parseSettings},
	}

	for _, step := range steps {
		records, err := readCSV(filepath.Join(dir, step.file), step.header)
		if errors.Is(err, fs.ErrNotExist) && !step.required {
			continue
		}
		if err != nil {
			return nil, err
		}
		for i, record := range records {
			if err := step.parse(record); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", step.file, i+2, err)
			}
		}
	}
	return s, nil
}

func readCSV(filename string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s must have a header row", filename)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", filepath.Base(filename), expectedHeader, records[0])
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", filepath.Base(filename), i+2, len(expectedHeader), len(record))
		}
	}
	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func (s *Scenario) parseEvent(record []string) error {
	startsAt, err := parseTime("starts_at", record[4])
	if err != nil {
		return err
	}
	endsAt, err := parseTime("ends_at", record[5])
	if err != nil {
		return err
	}
	if record[0] == "" {
		return fmt.Errorf("event id cannot be empty")
	}
	s.Events = append(s.Events, entities.Event{
		ID:       record[0],
		OrgID:    record[1],
		HotelID:  record[2],
		Name:     record[3],
		StartsAt: startsAt,
		EndsAt:   endsAt,
	})
	return nil
}

func (s *Scenario) parseService(record []string) error {
	pax, err := strconv.Atoi(record[3])
	if err != nil {
		return fmt.Errorf("invalid pax: %s", record[3])
	}
	svc, err := entities.NewEventService(record[0], record[1], record[2], pax, entities.ServiceFormat(strings.ToLower(record[4])), record[5])
	if err != nil {
		return err
	}
	if svc.StartsAt, err = parseOptionalTime("starts_at", record[6]); err != nil {
		return err
	}
	if svc.EndsAt, err = parseOptionalTime("ends_at", record[7]); err != nil {
		return err
	}
	s.Services = append(s.Services, *svc)
	return nil
}

// parseItem reads the shared item columns. Blank fields stay blank so a
// replacement can inherit them.
func parseItem(id string, cols []string) (entities.MenuTemplateItem, error) {
	seated, err := parseOptionalDecimal("qty_per_seated_guest", cols[3])
	if err != nil {
		return entities.MenuTemplateItem{}, err
	}
	standing, err := parseOptionalDecimal("qty_per_standing_guest", cols[4])
	if err != nil {
		return entities.MenuTemplateItem{}, err
	}
	pack, err := parseDecimalPtr("pack_size", cols[6])
	if err != nil {
		return entities.MenuTemplateItem{}, err
	}
	return entities.MenuTemplateItem{
		ID:                  id,
		Name:                strings.TrimSpace(cols[0]),
		Section:             cols[1],
		Unit:                entities.Unit(strings.ToLower(cols[2])),
		QtyPerSeatedGuest:   seated,
		QtyPerStandingGuest: standing,
		RoundingRule:        entities.RoundingRule(strings.ToLower(cols[5])),
		PackSize:            pack,
		Notes:               cols[7],
	}, nil
}

func completeItem(item entities.MenuTemplateItem) (entities.MenuTemplateItem, error) {
	if item.RoundingRule == "" {
		item.RoundingRule = entities.RoundNone
	}
	return item, item.Validate()
}

func (s *Scenario) parseTemplateItem(record []string) error {
	item, err := parseItem(record[1], record[2:])
	if err != nil {
		return err
	}
	if item, err = completeItem(item); err != nil {
		return err
	}
	s.TemplateItems = append(s.TemplateItems, TemplateItem{TemplateID: record[0], Item: item})
	return nil
}

func (s *Scenario) parseOverride(record []string) error {
	serviceID, kind, itemID := record[0], strings.ToLower(record[1]), record[2]
	ov := s.Overrides[serviceID]

	switch kind {
	case "exclude":
		if ov.Excluded == nil {
			ov.Excluded = make(map[string]bool)
		}
		ov.Excluded[itemID] = true
	case "add":
		item, err := parseItem(itemID, record[3:])
		if err != nil {
			return err
		}
		if item, err = completeItem(item); err != nil {
			return err
		}
		ov.Added = append(ov.Added, item)
	case "replace":
		item, err := parseItem(itemID, record[3:])
		if err != nil {
			return err
		}
		if ov.Replaced == nil {
			ov.Replaced = make(map[string]entities.MenuTemplateItem)
		}
		ov.Replaced[itemID] = item
	default:
		return fmt.Errorf("invalid override kind: %s (expected exclude, add or replace)", record[1])
	}

	s.Overrides[serviceID] = ov
	return nil
}

func (s *Scenario) parseSupplierItem(record []string) error {
	unit := entities.Unit(strings.ToLower(record[4]))
	if !unit.Valid() {
		return fmt.Errorf("invalid purchase_unit: %s", record[4])
	}
	rule := entities.RoundingRule(strings.ToLower(record[5]))
	if rule == "" {
		rule = entities.RoundNone
	}
	if !rule.Valid() {
		return fmt.Errorf("invalid rounding_rule: %s", record[5])
	}
	pack, err := parseDecimalPtr("pack_size", record[6])
	if err != nil {
		return err
	}
	price, err := parseDecimalPtr("price_per_unit", record[7])
	if err != nil {
		return err
	}
	s.SupplierItems = append(s.SupplierItems, SupplierItem{
		OrgID: record[0],
		Item: entities.SupplierItem{
			ID:           record[1],
			SupplierID:   record[2],
			Name:         record[3],
			PurchaseUnit: unit,
			RoundingRule: rule,
			PackSize:     pack,
			PricePerUnit: price,
		},
	})
	return nil
}

func (s *Scenario) parseAlias(record []string) error {
	label := services.NormalizeLabel(record[1])
	if label == "" {
		return fmt.Errorf("alias label cannot be empty")
	}
	s.Aliases = append(s.Aliases, entities.Alias{
		OrgID:           record[0],
		NormalizedLabel: label,
		SupplierItemID:  record[2],
	})
	return nil
}

func (s *Scenario) parseStock(record []string) error {
	onHand, err := parseDecimal("on_hand", record[2])
	if err != nil {
		return err
	}
	s.Stock = append(s.Stock, entities.StockLevel{HotelID: record[0], SupplierItemID: record[1], OnHand: onHand})
	return nil
}

func (s *Scenario) parseReservation(record []string) error {
	qty, err := parseDecimal("quantity", record[3])
	if err != nil {
		return err
	}
	from, err := parseTime("window_from", record[4])
	if err != nil {
		return err
	}
	to, err := parseTime("window_to", record[5])
	if err != nil {
		return err
	}
	res, err := entities.NewStockReservation(record[0], record[1], record[2], qty, entities.TimeWindow{From: from, To: to})
	if err != nil {
		return err
	}
	s.Reservations = append(s.Reservations, *res)
	return nil
}

// purchaseOrderParser groups consecutive line rows into orders by po_id
func (s *Scenario) purchaseOrderParser() func(record []string) error {
	byID := make(map[string]*entities.PurchaseOrder)
	return func(record []string) error {
		status := entities.PurchaseOrderStatus(strings.ToLower(record[5]))
		if !status.Valid() {
			return fmt.Errorf("invalid status: %s", record[5])
		}
		po, ok := byID[record[0]]
		if !ok {
			po = &entities.PurchaseOrder{
				ID:          record[0],
				OrgID:       record[1],
				HotelID:     record[2],
				SupplierID:  record[3],
				OrderNumber: record[4],
				Status:      status,
			}
			byID[po.ID] = po
			s.PurchaseOrders = append(s.PurchaseOrders, po)
		}

		requested, err := parseDecimal("requested_qty", record[9])
		if err != nil {
			return err
		}
		received, err := parseOptionalDecimal("received_qty", record[10])
		if err != nil {
			return err
		}
		price, err := parseDecimalPtr("unit_price", record[12])
		if err != nil {
			return err
		}
		line, err := entities.NewPurchaseOrderLine(record[6], record[7], record[8], requested, entities.Unit(strings.ToLower(record[11])), price)
		if err != nil {
			return err
		}
		line.ReceivedQty = received
		po.Lines = append(po.Lines, *line)
		return nil
	}
}

func (s *Scenario) parseSettings(record []string) error {
	pct, err := parseDecimal("buffer_percent", record[1])
	if err != nil {
		return err
	}
	qty, err := parseDecimal("buffer_qty", record[2])
	if err != nil {
		return err
	}
	if pct.IsNegative() || qty.IsNegative() {
		return fmt.Errorf("buffers cannot be negative")
	}
	s.Settings = append(s.Settings, OrgSettings{
		OrgID:    record[0],
		Settings: entities.PurchasingSettings{BufferPercent: pct, BufferQty: qty},
	})
	return nil
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %s (expected RFC 3339)", field, value)
	}
	return t, nil
}

func parseOptionalTime(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return parseTime(field, value)
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, value)
	}
	return d, nil
}

func parseOptionalDecimal(field, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	return parseDecimal(field, value)
}

func parseDecimalPtr(field, value string) (*decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := parseDecimal(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
