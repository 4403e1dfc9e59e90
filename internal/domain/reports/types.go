// Package reports provides read-only financial reporting over components
// and purchases.
package reports

import (
	"time"

	"partshub/internal/core/id"
	"partshub/internal/core/types"
)

const (
	DefaultMonths = 12
	MaxMonths     = 60
	TopComponentN = 10
)

// InventoryTotals aggregates components that have a known price and a
// positive quantity on hand.
type InventoryTotals struct {
	TotalValue       types.Money `db:"total_value"`
	PricedComponents int64       `db:"priced_components"`
}

// ComponentValue is one row of the top-components ranking.
type ComponentValue struct {
	ComponentID          id.ID       `db:"id" json:"component_id"`
	Name                 string      `db:"name" json:"name"`
	PartNumber           *string     `db:"part_number" json:"part_number,omitempty"`
	QuantityOnHand       int64       `db:"quantity_on_hand" json:"quantity_on_hand"`
	AveragePurchasePrice types.Money `db:"average_purchase_price" json:"average_purchase_price"`
	TotalValue           types.Money `db:"total_value" json:"total_value"`
}

// MonthlySpend is the purchase total of one calendar month (UTC).
type MonthlySpend struct {
	Month     time.Time   `db:"month" json:"month"`
	Total     types.Money `db:"total" json:"total"`
	Purchases int64       `db:"purchases" json:"purchases"`
}

// FinancialSummary is the dashboard payload.
type FinancialSummary struct {
	TotalInventoryValue types.Money      `json:"total_inventory_value"`
	PricedComponents    int64            `json:"priced_components"`
	TopComponents       []ComponentValue `json:"top_components"`
	MonthlySpend        []MonthlySpend   `json:"monthly_spend"`
	Months              int              `json:"months"`
	GeneratedAt         time.Time        `json:"generated_at"`
}
