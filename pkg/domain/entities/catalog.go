package entities

import "github.com/shopspring/decimal"

// SupplierItem is a purchasable catalog entry owned by a supplier
type SupplierItem struct {
	ID           string           `json:"id"`
	SupplierID   string           `json:"supplier_id"`
	Name         string           `json:"name"`
	PurchaseUnit Unit             `json:"purchase_unit"`
	RoundingRule RoundingRule     `json:"rounding_rule"`
	PackSize     *decimal.Decimal `json:"pack_size,omitempty"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit,omitempty"`
}

// Alias maps a normalized free-text label to a supplier item
type Alias struct {
	ID              string `json:"id"`
	OrgID           string `json:"org_id"`
	NormalizedLabel string `json:"normalized_label"`
	SupplierItemID  string `json:"supplier_item_id"`
}

// PurchasingSettings are the org-level buffer settings applied during netting
type PurchasingSettings struct {
	BufferPercent decimal.Decimal `json:"buffer_percent"`
	BufferQty     decimal.Decimal `json:"buffer_qty"`
}
