package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

// CatalogRepository stores supplier items, aliases and purchasing settings
type CatalogRepository struct {
	db       *gorm.DB
	defaults entities.PurchasingSettings
}

// NewCatalogRepository creates a catalog repository. defaults apply to orgs
// without a purchasing_settings row.
func NewCatalogRepository(db *gorm.DB, defaults entities.PurchasingSettings) *CatalogRepository {
	return &CatalogRepository{db: db, defaults: defaults}
}

var (
	_ repositories.CatalogRepository  = (*CatalogRepository)(nil)
	_ repositories.SettingsRepository = (*CatalogRepository)(nil)
)

func (r *CatalogRepository) ListSupplierItems(ctx context.Context, orgID string) ([]entities.SupplierItem, error) {
	var rows []SupplierItemModel
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("position ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier items: %w", err)
	}
	items := make([]entities.SupplierItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *CatalogRepository) ListAliases(ctx context.Context, orgID string) ([]entities.Alias, error) {
	var rows []AliasModel
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	aliases := make([]entities.Alias, 0, len(rows))
	for _, row := range rows {
		aliases = append(aliases, row.toEntity())
	}
	return aliases, nil
}

// SaveAlias inserts an alias or repoints the one with the same label
func (r *CatalogRepository) SaveAlias(ctx context.Context, alias entities.Alias) error {
	if alias.NormalizedLabel == "" {
		return fmt.Errorf("alias label cannot be empty")
	}
	if alias.ID == "" {
		alias.ID = uuid.NewString()
	}
	m := AliasModel{
		ID:              alias.ID,
		OrgID:           alias.OrgID,
		NormalizedLabel: alias.NormalizedLabel,
		SupplierItemID:  alias.SupplierItemID,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "org_id"}, {Name: "normalized_label"}},
		DoUpdates: clause.AssignmentColumns([]string{"supplier_item_id"}),
	}).Create(&m).Error
}

// SaveSupplierItem inserts or replaces a catalog entry
func (r *CatalogRepository) SaveSupplierItem(ctx context.Context, orgID string, item entities.SupplierItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&SupplierItemModel{}).Where("org_id = ?", orgID).Count(&count).Error; err != nil {
			return err
		}
		m := SupplierItemModel{
			ID:           item.ID,
			OrgID:        orgID,
			SupplierID:   item.SupplierID,
			Name:         item.Name,
			PurchaseUnit: string(item.PurchaseUnit),
			RoundingRule: string(item.RoundingRule),
			PackSize:     item.PackSize,
			PricePerUnit: item.PricePerUnit,
			Position:     int(count),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"supplier_id", "name", "purchase_unit", "rounding_rule", "pack_size", "price_per_unit"}),
		}).Create(&m).Error
	})
}

func (r *CatalogRepository) PurchasingSettings(ctx context.Context, orgID string) (entities.PurchasingSettings, error) {
	var m PurchasingSettingsModel
	err := r.db.WithContext(ctx).Where("org_id = ?", orgID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.defaults, nil
	}
	if err != nil {
		return entities.PurchasingSettings{}, fmt.Errorf("failed to load purchasing settings: %w", err)
	}
	return entities.PurchasingSettings{BufferPercent: m.BufferPercent, BufferQty: m.BufferQty}, nil
}

// SavePurchasingSettings stores the buffer settings of an org
func (r *CatalogRepository) SavePurchasingSettings(ctx context.Context, orgID string, s entities.PurchasingSettings) error {
	m := PurchasingSettingsModel{OrgID: orgID, BufferPercent: s.BufferPercent, BufferQty: s.BufferQty}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}
