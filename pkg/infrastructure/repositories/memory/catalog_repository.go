package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

// CatalogRepository provides in-memory supplier items and aliases
type CatalogRepository struct {
	mu       sync.RWMutex
	items    map[string][]entities.SupplierItem
	aliases  map[string][]entities.Alias
	settings map[string]entities.PurchasingSettings
	defaults entities.PurchasingSettings
}

// NewCatalogRepository creates a new in-memory catalog. defaults are
// returned for orgs without their own purchasing settings.
func NewCatalogRepository(defaults entities.PurchasingSettings) *CatalogRepository {
	return &CatalogRepository{
		items:    make(map[string][]entities.SupplierItem),
		aliases:  make(map[string][]entities.Alias),
		settings: make(map[string]entities.PurchasingSettings),
		defaults: defaults,
	}
}

var (
	_ repositories.CatalogRepository  = (*CatalogRepository)(nil)
	_ repositories.SettingsRepository = (*CatalogRepository)(nil)
)

// AddSupplierItem adds a supplier item to an org's catalog
func (r *CatalogRepository) AddSupplierItem(orgID string, item entities.SupplierItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[orgID] = append(r.items[orgID], item)
}

// SetPurchasingSettings overrides the defaults for one org
func (r *CatalogRepository) SetPurchasingSettings(orgID string, settings entities.PurchasingSettings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[orgID] = settings
}

// ListSupplierItems returns the catalog of an org in insertion order
func (r *CatalogRepository) ListSupplierItems(ctx context.Context, orgID string) ([]entities.SupplierItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]entities.SupplierItem, len(r.items[orgID]))
	copy(items, r.items[orgID])
	return items, nil
}

// ListAliases returns the aliases of an org
func (r *CatalogRepository) ListAliases(ctx context.Context, orgID string) ([]entities.Alias, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aliases := make([]entities.Alias, len(r.aliases[orgID]))
	copy(aliases, r.aliases[orgID])
	return aliases, nil
}

// SaveAlias inserts an alias or repoints the one with the same label
func (r *CatalogRepository) SaveAlias(ctx context.Context, alias entities.Alias) error {
	if alias.NormalizedLabel == "" {
		return fmt.Errorf("alias label cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.aliases[alias.OrgID] {
		if existing.NormalizedLabel == alias.NormalizedLabel {
			r.aliases[alias.OrgID][i].SupplierItemID = alias.SupplierItemID
			return nil
		}
	}
	if alias.ID == "" {
		alias.ID = uuid.NewString()
	}
	r.aliases[alias.OrgID] = append(r.aliases[alias.OrgID], alias)
	return nil
}

// PurchasingSettings returns the org's settings or the defaults
func (r *CatalogRepository) PurchasingSettings(ctx context.Context, orgID string) (entities.PurchasingSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.settings[orgID]; ok {
		return s, nil
	}
	return r.defaults, nil
}
