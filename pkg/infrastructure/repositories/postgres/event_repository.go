package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

// EventRepository reads events and services from postgres
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ repositories.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (*entities.Event, error) {
	var m EventModel
	err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("event %s: %w", eventID, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", eventID, err)
	}
	return m.toEntity(), nil
}

func (r *EventRepository) ListServices(ctx context.Context, eventID string) ([]*entities.EventService, error) {
	var rows []EventServiceModel
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("starts_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list services of event %s: %w", eventID, err)
	}
	services := make([]*entities.EventService, 0, len(rows))
	for _, row := range rows {
		services = append(services, row.toEntity())
	}
	return services, nil
}

// SaveEvent inserts or replaces an event
func (r *EventRepository) SaveEvent(ctx context.Context, e entities.Event) error {
	m := EventModel{ID: e.ID, OrgID: e.OrgID, HotelID: e.HotelID, Name: e.Name, StartsAt: e.StartsAt, EndsAt: e.EndsAt}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

// SaveService inserts or replaces a service
func (r *EventRepository) SaveService(ctx context.Context, s entities.EventService) error {
	m := EventServiceModel{
		ID:         s.ID,
		EventID:    s.EventID,
		Name:       s.Name,
		Pax:        s.Pax,
		Format:     string(s.Format),
		TemplateID: s.TemplateID,
		StartsAt:   s.StartsAt,
		EndsAt:     s.EndsAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

// MenuRepository reads menu templates and service overrides from postgres
type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

var _ repositories.MenuRepository = (*MenuRepository)(nil)

func (r *MenuRepository) GetTemplateItems(ctx context.Context, templateID string) ([]entities.MenuTemplateItem, error) {
	var rows []MenuTemplateItemModel
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("position ASC, item_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", templateID, err)
	}
	items := make([]entities.MenuTemplateItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.MenuItemColumns.toEntity(row.ItemID))
	}
	return items, nil
}

func (r *MenuRepository) GetOverrides(ctx context.Context, serviceID string) (entities.ServiceOverrides, error) {
	var rows []ServiceOverrideModel
	err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("position ASC, item_id ASC").
		Find(&rows).Error
	if err != nil {
		return entities.ServiceOverrides{}, fmt.Errorf("failed to load overrides of service %s: %w", serviceID, err)
	}

	var ov entities.ServiceOverrides
	for _, row := range rows {
		switch row.Kind {
		case overrideExclude:
			if ov.Excluded == nil {
				ov.Excluded = make(map[string]bool)
			}
			ov.Excluded[row.ItemID] = true
		case overrideAdd:
			ov.Added = append(ov.Added, row.MenuItemColumns.toEntity(row.ItemID))
		case overrideReplace:
			if ov.Replaced == nil {
				ov.Replaced = make(map[string]entities.MenuTemplateItem)
			}
			ov.Replaced[row.ItemID] = row.MenuItemColumns.toEntity(row.ItemID)
		default:
			return entities.ServiceOverrides{}, fmt.Errorf("service %s: unknown override kind %q", serviceID, row.Kind)
		}
	}
	return ov, nil
}

// SaveTemplateItem appends an item to a template, replacing one with the
// same id
func (r *MenuRepository) SaveTemplateItem(ctx context.Context, templateID string, item entities.MenuTemplateItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&MenuTemplateItemModel{}).Where("template_id = ?", templateID).Count(&count).Error; err != nil {
			return err
		}
		m := MenuTemplateItemModel{
			TemplateID:      templateID,
			ItemID:          item.ID,
			Position:        int(count),
			MenuItemColumns: menuItemColumnsFrom(item),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "template_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "section", "unit", "qty_per_seated_guest", "qty_per_standing_guest", "rounding_rule", "pack_size", "notes"}),
		}).Create(&m).Error
	})
}

// SaveOverrides replaces every override of a service
func (r *MenuRepository) SaveOverrides(ctx context.Context, serviceID string, ov entities.ServiceOverrides) error {
	rows := make([]ServiceOverrideModel, 0, len(ov.Excluded)+len(ov.Added)+len(ov.Replaced))
	for id, excluded := range ov.Excluded {
		if excluded {
			rows = append(rows, ServiceOverrideModel{ServiceID: serviceID, Kind: overrideExclude, ItemID: id})
		}
	}
	for i, item := range ov.Added {
		rows = append(rows, ServiceOverrideModel{ServiceID: serviceID, Kind: overrideAdd, ItemID: item.ID, Position: i, MenuItemColumns: menuItemColumnsFrom(item)})
	}
	for id, item := range ov.Replaced {
		rows = append(rows, ServiceOverrideModel{ServiceID: serviceID, Kind: overrideReplace, ItemID: id, MenuItemColumns: menuItemColumnsFrom(item)})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", serviceID).Delete(&ServiceOverrideModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}
