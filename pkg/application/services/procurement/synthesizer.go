package procurement

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/eventprocure/pkg/application/dto"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
	"github.com/vsinha/eventprocure/pkg/domain/services"
	"github.com/vsinha/eventprocure/pkg/infrastructure/events"
)

// Synthesizer turns event needs into supplier-grouped draft orders
type Synthesizer struct {
	events   repositories.EventRepository
	stock    repositories.StockRepository
	ledger   repositories.OrderLedger
	orders   repositories.EventOrderRepository
	settings repositories.SettingsRepository
	numbers  *services.OrderNumberAllocator
	audit    events.EventStore
	logger   *zap.Logger
}

// NewSynthesizer creates a new draft order synthesizer. audit may be nil.
func NewSynthesizer(
	eventRepo repositories.EventRepository,
	stock repositories.StockRepository,
	ledger repositories.OrderLedger,
	orders repositories.EventOrderRepository,
	settings repositories.SettingsRepository,
	audit events.EventStore,
	logger *zap.Logger,
) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		events:   eventRepo,
		stock:    stock,
		ledger:   ledger,
		orders:   orders,
		settings: settings,
		numbers:  services.NewOrderNumberAllocator(),
		audit:    audit,
		logger:   logger,
	}
}

// aggregatedItem is the summed demand for one supplier item
type aggregatedItem struct {
	item     entities.SupplierItem
	gross    decimal.Decimal
	needUnit entities.Unit
	labels   []string
}

// nettedLine is an aggregated item after netting
type nettedLine struct {
	item   entities.SupplierItem
	result services.NetLineResult
}

// supplierGroup holds the netted lines of one supplier in item order
type supplierGroup struct {
	supplierID string
	lines      []nettedLine
}

// SynthesizeEventDraftOrders resolves, nets and groups the needs of an
// event and merges them into one draft order per supplier. Unknown labels
// or unit mismatches abort the run before anything is written. Frozen
// lines of existing drafts are never touched.
func (s *Synthesizer) SynthesizeEventDraftOrders(ctx context.Context, req dto.SynthesisRequest) (*dto.SynthesisResult, error) {
	log := s.logger.With(zap.String("event_id", req.EventID), zap.String("org_id", req.OrgID))

	resolution := services.ResolveNeedsToCatalog(req.Needs, req.Aliases, req.SupplierItems)
	if !resolution.Complete() {
		labels := make([]string, 0, len(resolution.Unknown))
		for _, n := range resolution.Unknown {
			labels = append(labels, n.Label)
		}
		log.Warn("synthesis aborted on unknown labels", zap.Strings("labels", labels))
		s.record(events.SynthesisAbortedEvent, req.EventID, events.SynthesisAborted{EventID: req.EventID, UnknownLabels: labels})
		return &dto.SynthesisResult{Status: dto.SynthesisUnknownLabel, Unknown: resolution.Unknown}, nil
	}

	aggregated := aggregateBySupplierItem(resolution.Mapped)

	netted, mismatches, err := s.netItems(ctx, req, aggregated)
	if err != nil {
		return nil, err
	}
	if len(mismatches) > 0 {
		ids := make([]string, 0, len(mismatches))
		for _, m := range mismatches {
			ids = append(ids, m.SupplierItemID)
		}
		log.Warn("synthesis aborted on unit mismatches", zap.Strings("supplier_items", ids))
		s.record(events.SynthesisAbortedEvent, req.EventID, events.SynthesisAborted{EventID: req.EventID, MismatchItems: ids})
		return &dto.SynthesisResult{Status: dto.SynthesisUnitMismatch, Mismatches: mismatches}, nil
	}

	groups := groupBySupplier(netted)

	result := &dto.SynthesisResult{
		Status:          dto.SynthesisCreated,
		OrderIDs:        make([]string, 0, len(groups)),
		RemovedOrderIDs: make([]string, 0),
	}

	if err := s.removeStaleDrafts(ctx, req, groups, result); err != nil {
		return nil, err
	}

	existing, err := s.orders.ListOrders(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of event %s: %w", req.EventID, err)
	}
	taken := make([]string, 0, len(existing)+len(groups))
	for _, o := range existing {
		taken = append(taken, o.OrderNumber)
	}

	for i, g := range groups {
		number := s.numbers.Allocate(req.EventID, i+1, taken)
		order, removed, err := s.mergeGroup(ctx, req, g.supplierID, number, g.lines)
		if err != nil {
			return nil, err
		}
		if order == nil {
			continue
		}
		if removed {
			result.RemovedOrderIDs = append(result.RemovedOrderIDs, order.ID)
			continue
		}
		taken = append(taken, order.OrderNumber)
		result.OrderIDs = append(result.OrderIDs, order.ID)
	}

	log.Info("draft orders synthesized",
		zap.Int("needs", len(req.Needs)),
		zap.Int("supplier_items", len(aggregated)),
		zap.Int("orders", len(result.OrderIDs)),
		zap.Int("removed", len(result.RemovedOrderIDs)))

	return result, nil
}

// aggregateBySupplierItem sums gross demand per supplier item, keeping the
// order in which items first appear
func aggregateBySupplierItem(mapped []services.MappedNeed) []aggregatedItem {
	index := make(map[string]int, len(mapped))
	items := make([]aggregatedItem, 0, len(mapped))

	for _, m := range mapped {
		i, ok := index[m.SupplierItem.ID]
		if !ok {
			index[m.SupplierItem.ID] = len(items)
			items = append(items, aggregatedItem{
				item:     m.SupplierItem,
				gross:    m.Need.QtyRounded,
				needUnit: m.Need.Unit,
				labels:   []string{m.Need.Label},
			})
			continue
		}
		agg := &items[i]
		agg.gross = agg.gross.Add(m.Need.QtyRounded)
		agg.labels = append(agg.labels, m.Need.Label)
		// any need in a unit other than the purchase unit makes the item unorderable
		if agg.needUnit == agg.item.PurchaseUnit && m.Need.Unit != agg.item.PurchaseUnit {
			agg.needUnit = m.Need.Unit
		}
	}
	return items
}

func (s *Synthesizer) netItems(ctx context.Context, req dto.SynthesisRequest, items []aggregatedItem) ([]nettedLine, []dto.UnitMismatch, error) {
	netted := make([]nettedLine, 0, len(items))
	mismatches := make([]dto.UnitMismatch, 0)
	if len(items) == 0 {
		return netted, mismatches, nil
	}

	event, err := s.events.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load event %s: %w", req.EventID, err)
	}
	settings, err := s.settings.PurchasingSettings(ctx, req.OrgID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load purchasing settings for org %s: %w", req.OrgID, err)
	}

	for _, agg := range items {
		onHand, err := s.availableStock(ctx, req, event.Window(), agg.item.ID)
		if err != nil {
			return nil, nil, err
		}
		onOrder, err := s.ledger.OnOrder(ctx, req.OrgID, agg.item.ID, req.EventID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read on-order quantity of %s: %w", agg.item.ID, err)
		}

		res, err := services.ComputeNetLine(services.NetInput{
			GrossQty:      agg.gross,
			OnHandQty:     onHand,
			OnOrderQty:    decimal.Max(decimal.Zero, onOrder),
			BufferPercent: settings.BufferPercent,
			BufferQty:     settings.BufferQty,
			NeedUnit:      agg.needUnit,
			PurchaseUnit:  agg.item.PurchaseUnit,
			RoundingRule:  agg.item.RoundingRule,
			PackSize:      agg.item.PackSize,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to net supplier item %s: %w", agg.item.ID, err)
		}
		if res.Kind == services.NetLineError {
			mismatches = append(mismatches, dto.UnitMismatch{
				SupplierItemID:   agg.item.ID,
				SupplierItemName: agg.item.Name,
				Labels:           agg.labels,
				NeedUnit:         agg.needUnit,
				PurchaseUnit:     agg.item.PurchaseUnit,
			})
			continue
		}
		netted = append(netted, nettedLine{item: agg.item, result: res})
	}
	return netted, mismatches, nil
}

// availableStock is on-hand stock minus what other events overlapping this
// one have reserved, floored at zero
func (s *Synthesizer) availableStock(ctx context.Context, req dto.SynthesisRequest, window entities.TimeWindow, itemID string) (decimal.Decimal, error) {
	onHand, err := s.stock.OnHand(ctx, req.HotelID, itemID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read stock of %s: %w", itemID, err)
	}
	reserved, err := s.stock.Reserved(ctx, req.HotelID, itemID, window, req.EventID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read reservations of %s: %w", itemID, err)
	}
	return decimal.Max(decimal.Zero, onHand.Sub(reserved)), nil
}

// groupBySupplier splits netted lines per supplier; suppliers are sorted
// so ordinals are stable between runs
func groupBySupplier(lines []nettedLine) []supplierGroup {
	index := make(map[string]int)
	groups := make([]supplierGroup, 0)
	for _, l := range lines {
		i, ok := index[l.item.SupplierID]
		if !ok {
			i = len(groups)
			index[l.item.SupplierID] = i
			groups = append(groups, supplierGroup{supplierID: l.item.SupplierID})
		}
		groups[i].lines = append(groups[i].lines, l)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].supplierID < groups[j].supplierID
	})
	return groups
}

// removeStaleDrafts merges an empty line set into drafts of suppliers that
// no longer receive any demand, dropping them unless they hold frozen lines
func (s *Synthesizer) removeStaleDrafts(ctx context.Context, req dto.SynthesisRequest, groups []supplierGroup, result *dto.SynthesisResult) error {
	current := make(map[string]bool, len(groups))
	for _, g := range groups {
		current[g.supplierID] = true
	}

	existing, err := s.orders.ListOrders(ctx, req.EventID)
	if err != nil {
		return fmt.Errorf("failed to list orders of event %s: %w", req.EventID, err)
	}
	for _, o := range existing {
		if o.Status != entities.EventOrderDraft || current[o.SupplierID] {
			continue
		}
		order, removed, err := s.mergeGroup(ctx, req, o.SupplierID, o.OrderNumber, nil)
		if err != nil {
			return err
		}
		switch {
		case order == nil:
		case removed:
			result.RemovedOrderIDs = append(result.RemovedOrderIDs, order.ID)
		default:
			// kept alive by frozen lines
			result.OrderIDs = append(result.OrderIDs, order.ID)
		}
	}
	return nil
}

// mergeGroup upserts the draft of one supplier under its lock, replaces its
// non-frozen lines and deletes it when nothing is left. The returned order
// is nil when a draft was neither kept nor previously stored.
func (s *Synthesizer) mergeGroup(
	ctx context.Context,
	req dto.SynthesisRequest,
	supplierID, orderNumber string,
	lines []nettedLine,
) (*entities.EventPurchaseOrder, bool, error) {
	key := repositories.DraftKey{
		OrgID:      req.OrgID,
		HotelID:    req.HotelID,
		EventID:    req.EventID,
		SupplierID: supplierID,
	}

	var (
		order    *entities.EventPurchaseOrder
		created  bool
		removed  bool
		inserted int
		frozen   int
	)

	err := s.orders.WithDraftLock(ctx, key, func(tx repositories.DraftTx) error {
		var err error
		order, created, err = tx.UpsertDraft(orderNumber)
		if err != nil {
			return fmt.Errorf("failed to upsert draft: %w", err)
		}

		current, err := tx.ListLines(order.ID)
		if err != nil {
			return fmt.Errorf("failed to list lines of order %s: %w", order.ID, err)
		}

		frozenItems := make(map[string]bool)
		stale := make([]string, 0, len(current))
		for _, line := range current {
			if line.Freeze {
				frozenItems[line.SupplierItemID] = true
				frozen++
				continue
			}
			stale = append(stale, line.ID)
		}
		if len(stale) > 0 {
			if err := tx.DeleteLines(stale); err != nil {
				return fmt.Errorf("failed to delete lines of order %s: %w", order.ID, err)
			}
		}

		fresh := make([]entities.EventPurchaseOrderLine, 0, len(lines))
		for _, l := range lines {
			if !l.result.RoundedQty.IsPositive() || frozenItems[l.item.ID] {
				continue
			}
			fresh = append(fresh, buildLine(order.ID, l))
		}
		if len(fresh) > 0 {
			if err := tx.InsertLines(fresh); err != nil {
				return fmt.Errorf("failed to insert lines into order %s: %w", order.ID, err)
			}
		}
		inserted = len(fresh)

		if frozen+inserted == 0 {
			removed = true
			return tx.DeleteOrder(order.ID)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("draft merge failed",
			zap.String("event_id", req.EventID),
			zap.String("supplier_id", supplierID),
			zap.Error(err))
		return nil, false, err
	}

	if removed {
		if created {
			return nil, true, nil
		}
		s.record(events.EventOrderRemovedEvent, req.EventID, events.EventOrderRemoved{
			OrderID: order.ID, EventID: req.EventID, SupplierID: supplierID,
		})
		return order, true, nil
	}

	s.record(events.EventOrderDraftedEvent, req.EventID, events.EventOrderDrafted{
		Order: *order, Created: created, InsertedLines: inserted, FrozenLines: frozen,
	})
	return order, false, nil
}

func buildLine(orderID string, l nettedLine) entities.EventPurchaseOrderLine {
	qty := l.result.RoundedQty
	total := decimal.Zero
	if l.item.PricePerUnit != nil {
		total = qty.Mul(*l.item.PricePerUnit)
	}
	return entities.EventPurchaseOrderLine{
		OrderID:        orderID,
		SupplierItemID: l.item.ID,
		ItemLabel:      l.item.Name,
		Qty:            qty,
		PurchaseUnit:   l.item.PurchaseUnit,
		UnitPrice:      l.item.PricePerUnit,
		LineTotal:      total,
		GrossQty:       l.result.GrossQty,
		OnHandQty:      l.result.OnHandQty,
		OnOrderQty:     l.result.OnOrderQty,
		NetQty:         l.result.NetQty,
		RoundedQty:     l.result.RoundedQty,
	}
}

func (s *Synthesizer) record(eventType, eventID string, data interface{}) {
	if err := events.Record(s.audit, eventType, events.EventOrderStream(eventID), data); err != nil {
		s.logger.Warn("failed to record audit event", zap.String("type", eventType), zap.Error(err))
	}
}
