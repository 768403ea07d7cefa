package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// oneDraftIndex allows a single draft per event and supplier while keeping
// any number of sent or cancelled orders for the same pair
const oneDraftIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_event_orders_one_draft
	ON event_purchase_orders (event_id, supplier_id) WHERE status = 'draft'`

// Migrate creates or updates every table used by the repositories
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	if err := db.Exec(oneDraftIndex).Error; err != nil {
		return fmt.Errorf("failed to create draft index: %w", err)
	}
	return nil
}
