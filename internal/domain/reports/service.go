package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"partshub/internal/core/apperror"
	"partshub/internal/core/tx"
	"partshub/internal/core/types"
)

// Service provides report generation operations.
type Service struct {
	repo      Repository
	txManager tx.ReadOnlyManager
	now       func() time.Time
}

// NewService creates a new reports service.
func NewService(repo Repository, txManager tx.ReadOnlyManager) *Service {
	return &Service{repo: repo, txManager: txManager, now: time.Now}
}

// GetFinancialSummary computes inventory valuation, the top components by
// value and purchase spend for the trailing months (including the current
// one). months == 0 selects DefaultMonths.
func (s *Service) GetFinancialSummary(ctx context.Context, months int) (*FinancialSummary, error) {
	if months == 0 {
		months = DefaultMonths
	}
	if months < 1 || months > MaxMonths {
		return nil, apperror.NewValidation(fmt.Sprintf("months must be between 1 and %d", MaxMonths)).
			WithDetail("field", "months").
			WithDetail("value", months)
	}

	now := s.now().UTC()
	from := windowStart(now, months)
	summary := &FinancialSummary{Months: months, GeneratedAt: now}

	// one snapshot so the three aggregates agree
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		totals, err := s.repo.InventoryTotals(ctx)
		if err != nil {
			return fmt.Errorf("inventory totals: %w", err)
		}
		top, err := s.repo.TopComponents(ctx, TopComponentN)
		if err != nil {
			return fmt.Errorf("top components: %w", err)
		}
		spend, err := s.repo.MonthlySpend(ctx, from)
		if err != nil {
			return fmt.Errorf("monthly spend: %w", err)
		}

		summary.TotalInventoryValue = types.RoundMoney(totals.TotalValue)
		summary.PricedComponents = totals.PricedComponents
		summary.TopComponents = roundComponents(top)
		summary.MonthlySpend = FillMonths(from, months, spend)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// windowStart returns the first instant of the month months-1 before now.
func windowStart(now time.Time, months int) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(months - 1), 0)
}

// FillMonths returns exactly months entries starting at from, one per
// calendar month, taking totals from rows and zero elsewhere. Rows outside
// the window are dropped.
func FillMonths(from time.Time, months int, rows []MonthlySpend) []MonthlySpend {
	byMonth := make(map[time.Time]MonthlySpend, len(rows))
	for _, r := range rows {
		m := r.Month.UTC()
		key := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
		if prev, ok := byMonth[key]; ok {
			r.Total = r.Total.Add(prev.Total)
			r.Purchases += prev.Purchases
		}
		r.Month = key
		byMonth[key] = r
	}

	out := make([]MonthlySpend, months)
	for i := range out {
		month := from.AddDate(0, i, 0)
		entry, ok := byMonth[month]
		if !ok {
			entry = MonthlySpend{Month: month, Total: decimal.Zero}
		}
		entry.Total = types.RoundMoney(entry.Total)
		out[i] = entry
	}
	return out
}

func roundComponents(items []ComponentValue) []ComponentValue {
	out := make([]ComponentValue, len(items))
	for i, c := range items {
		c.TotalValue = types.RoundMoney(c.TotalValue)
		out[i] = c
	}
	return out
}
