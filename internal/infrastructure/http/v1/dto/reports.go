package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"partshub/internal/domain/reports"
)

// FinancialSummaryQuery holds report parameters.
type FinancialSummaryQuery struct {
	Months int `form:"months"`
}

// ComponentValueResponse is one row of the top-components ranking.
type ComponentValueResponse struct {
	ComponentID          string          `json:"component_id"`
	Name                 string          `json:"name"`
	PartNumber           *string         `json:"part_number,omitempty"`
	QuantityOnHand       int64           `json:"quantity_on_hand"`
	AveragePurchasePrice decimal.Decimal `json:"average_purchase_price"`
	TotalValue           decimal.Decimal `json:"total_value"`
}

// MonthlySpendResponse is the spend of one month, keyed "YYYY-MM".
type MonthlySpendResponse struct {
	Month     string          `json:"month"`
	Total     decimal.Decimal `json:"total"`
	Purchases int64           `json:"purchases"`
}

// FinancialSummaryResponse is the dashboard payload.
type FinancialSummaryResponse struct {
	TotalInventoryValue decimal.Decimal          `json:"total_inventory_value"`
	PricedComponents    int64                    `json:"priced_components"`
	TopComponents       []ComponentValueResponse `json:"top_components"`
	MonthlySpend        []MonthlySpendResponse   `json:"monthly_spend"`
	Months              int                      `json:"months"`
	GeneratedAt         time.Time                `json:"generated_at"`
}

// FromFinancialSummary creates the response from the domain report.
func FromFinancialSummary(s *reports.FinancialSummary) FinancialSummaryResponse {
	top := make([]ComponentValueResponse, len(s.TopComponents))
	for i, c := range s.TopComponents {
		top[i] = ComponentValueResponse{
			ComponentID:          c.ComponentID.String(),
			Name:                 c.Name,
			PartNumber:           c.PartNumber,
			QuantityOnHand:       c.QuantityOnHand,
			AveragePurchasePrice: c.AveragePurchasePrice,
			TotalValue:           c.TotalValue,
		}
	}
	spend := make([]MonthlySpendResponse, len(s.MonthlySpend))
	for i, m := range s.MonthlySpend {
		spend[i] = MonthlySpendResponse{
			Month:     m.Month.Format("2006-01"),
			Total:     m.Total,
			Purchases: m.Purchases,
		}
	}
	return FinancialSummaryResponse{
		TotalInventoryValue: s.TotalInventoryValue,
		PricedComponents:    s.PricedComponents,
		TopComponents:       top,
		MonthlySpend:        spend,
		Months:              s.Months,
		GeneratedAt:         s.GeneratedAt,
	}
}
