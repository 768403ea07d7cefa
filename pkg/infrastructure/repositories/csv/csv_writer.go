package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// WriteScenario writes s into dir in the layout LoadScenario reads.
// Optional files with no rows are not written.
func WriteScenario(dir string, s *Scenario) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}

	files := []struct {
		file     string
		header   []string
		required bool
		rows     [][]string
	}{
		{EventsFile, eventsHeader, true, s.eventRows()},
		{ServicesFile, servicesHeader, true, s.serviceRows()},
		{TemplateItemsFile, templateItemsHeader, true, s.templateItemRows()},
		{OverridesFile, overridesHeader, false, s.overrideRows()},
		{SupplierItemsFile, supplierItemsHeader, true, s.supplierItemRows()},
		{AliasesFile, aliasesHeader, false, s.aliasRows()},
		{StockFile, stockHeader, false, s.stockRows()},
		{ReservationsFile, reservationsHeader, false, s.reservationRows()},
		{PurchaseOrdersFile, purchaseOrdersHeader, false, s.purchaseOrderRows()},
		{SettingsFile, settingsHeader, false, s.settingsRows()},
	}

	for _, f := range files {
		if len(f.rows) == 0 && !f.required {
			continue
		}
		if err := writeCSV(filepath.Join(dir, f.file), f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func formatDecimalPtr(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func (s *Scenario) eventRows() [][]string {
	rows := make([][]string, 0, len(s.Events))
	for _, e := range s.Events {
		rows = append(rows, []string{e.ID, e.OrgID, e.HotelID, e.Name, e.StartsAt.Format(timeLayout), e.EndsAt.Format(timeLayout)})
	}
	return rows
}

func (s *Scenario) serviceRows() [][]string {
	rows := make([][]string, 0, len(s.Services))
	for _, svc := range s.Services {
		rows = append(rows, []string{
			svc.ID, svc.EventID, svc.Name, strconv.Itoa(svc.Pax), string(svc.Format), svc.TemplateID,
			formatOptionalTime(svc.StartsAt), formatOptionalTime(svc.EndsAt),
		})
	}
	return rows
}

// itemRow renders the shared item columns. Partial rows leave zero ratios
// blank so a replacement keeps inheriting them.
func itemRow(item entities.MenuTemplateItem, partial bool) []string {
	ratio := func(d decimal.Decimal) string {
		if partial && d.IsZero() {
			return ""
		}
		return d.String()
	}
	return []string{
		item.Name, item.Section, string(item.Unit),
		ratio(item.QtyPerSeatedGuest), ratio(item.QtyPerStandingGuest),
		string(item.RoundingRule), formatDecimalPtr(item.PackSize), item.Notes,
	}
}

func (s *Scenario) templateItemRows() [][]string {
	rows := make([][]string, 0, len(s.TemplateItems))
	for _, ti := range s.TemplateItems {
		rows = append(rows, append([]string{ti.TemplateID, ti.Item.ID}, itemRow(ti.Item, false)...))
	}
	return rows
}

func (s *Scenario) overrideRows() [][]string {
	serviceIDs := make([]string, 0, len(s.Overrides))
	for id := range s.Overrides {
		serviceIDs = append(serviceIDs, id)
	}
	sort.Strings(serviceIDs)

	blank := make([]string, len(itemColumns))
	var rows [][]string
	for _, serviceID := range serviceIDs {
		ov := s.Overrides[serviceID]

		excluded := make([]string, 0, len(ov.Excluded))
		for itemID, ok := range ov.Excluded {
			if ok {
				excluded = append(excluded, itemID)
			}
		}
		sort.Strings(excluded)
		for _, itemID := range excluded {
			rows = append(rows, append([]string{serviceID, "exclude", itemID}, blank...))
		}

		for _, item := range ov.Added {
			rows = append(rows, append([]string{serviceID, "add", item.ID}, itemRow(item, false)...))
		}

		replaced := make([]string, 0, len(ov.Replaced))
		for itemID := range ov.Replaced {
			replaced = append(replaced, itemID)
		}
		sort.Strings(replaced)
		for _, itemID := range replaced {
			rows = append(rows, append([]string{serviceID, "replace", itemID}, itemRow(ov.Replaced[itemID], true)...))
		}
	}
	return rows
}

func (s *Scenario) supplierItemRows() [][]string {
	rows := make([][]string, 0, len(s.SupplierItems))
	for _, si := range s.SupplierItems {
		it := si.Item
		rows = append(rows, []string{
			si.OrgID, it.ID, it.SupplierID, it.Name, string(it.PurchaseUnit), string(it.RoundingRule),
			formatDecimalPtr(it.PackSize), formatDecimalPtr(it.PricePerUnit),
		})
	}
	return rows
}

func (s *Scenario) aliasRows() [][]string {
	rows := make([][]string, 0, len(s.Aliases))
	for _, a := range s.Aliases {
		rows = append(rows, []string{a.OrgID, a.NormalizedLabel, a.SupplierItemID})
	}
	return rows
}

func (s *Scenario) stockRows() [][]string {
	rows := make([][]string, 0, len(s.Stock))
	for _, l := range s.Stock {
		rows = append(rows, []string{l.HotelID, l.SupplierItemID, l.OnHand.String()})
	}
	return rows
}

func (s *Scenario) reservationRows() [][]string {
	rows := make([][]string, 0, len(s.Reservations))
	for _, r := range s.Reservations {
		rows = append(rows, []string{
			r.HotelID, r.EventID, r.SupplierItemID, r.Quantity.String(),
			r.Window.From.Format(timeLayout), r.Window.To.Format(timeLayout),
		})
	}
	return rows
}

func (s *Scenario) purchaseOrderRows() [][]string {
	var rows [][]string
	for _, po := range s.PurchaseOrders {
		for _, l := range po.Lines {
			rows = append(rows, []string{
				po.ID, po.OrgID, po.HotelID, po.SupplierID, po.OrderNumber, string(po.Status),
				l.ID, l.SupplierItemID, l.ItemLabel, l.RequestedQty.String(), l.ReceivedQty.String(),
				string(l.PurchaseUnit), formatDecimalPtr(l.UnitPrice),
			})
		}
	}
	return rows
}

func (s *Scenario) settingsRows() [][]string {
	rows := make([][]string, 0, len(s.Settings))
	for _, o := range s.Settings {
		rows = append(rows, []string{o.OrgID, o.Settings.BufferPercent.String(), o.Settings.BufferQty.String()})
	}
	return rows
}
