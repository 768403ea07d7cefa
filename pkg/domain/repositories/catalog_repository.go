package repositories

import (
	"context"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// CatalogRepository provides access to supplier items and label aliases
type CatalogRepository interface {
	ListSupplierItems(ctx context.Context, orgID string) ([]entities.SupplierItem, error)
	ListAliases(ctx context.Context, orgID string) ([]entities.Alias, error)
	// SaveAlias inserts the alias or repoints an existing one with the
	// same normalized label
	SaveAlias(ctx context.Context, alias entities.Alias) error
}

// SettingsRepository provides org-level purchasing settings
type SettingsRepository interface {
	PurchasingSettings(ctx context.Context, orgID string) (entities.PurchasingSettings, error)
}
