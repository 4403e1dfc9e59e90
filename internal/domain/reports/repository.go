package reports

import (
	"context"
	"time"
)

// Repository defines report data access.
type Repository interface {
	InventoryTotals(ctx context.Context) (InventoryTotals, error)

	// TopComponents ranks priced components by quantity × price, ties by name.
	TopComponents(ctx context.Context, limit int) ([]ComponentValue, error)

	// MonthlySpend returns one row per calendar month since from that has
	// at least one purchase, oldest first.
	MonthlySpend(ctx context.Context, from time.Time) ([]MonthlySpend, error)
}
