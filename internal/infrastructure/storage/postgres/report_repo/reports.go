// Package report_repo provides the PostgreSQL implementation of
// reports.Repository.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"partshub/internal/domain/reports"
	"partshub/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*ReportRepo)(nil)

// pricedComponents matches components that contribute to inventory value.
var pricedComponents = squirrel.And{
	squirrel.NotEq{"average_purchase_price": nil},
	squirrel.Gt{"quantity_on_hand": 0},
}

const valueExpr = "quantity_on_hand * average_purchase_price"

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReportRepo) totalsQuery() squirrel.SelectBuilder {
	return r.builder.
		Select(
			"COALESCE(SUM("+valueExpr+"), 0) AS total_value",
			"COUNT(*) AS priced_components",
		).
		From("components").
		Where(pricedComponents)
}

func (r *ReportRepo) InventoryTotals(ctx context.Context) (reports.InventoryTotals, error) {
	var totals reports.InventoryTotals
	sql, args, err := r.totalsQuery().ToSql()
	if err != nil {
		return totals, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &totals, sql, args...); err != nil {
		return totals, fmt.Errorf("inventory totals: %w", err)
	}
	return totals, nil
}

func (r *ReportRepo) topQuery(limit int) squirrel.SelectBuilder {
	return r.builder.
		Select(
			"id", "name", "part_number", "quantity_on_hand", "average_purchase_price",
			valueExpr+" AS total_value",
		).
		From("components").
		Where(pricedComponents).
		OrderBy("total_value DESC", "name ASC").
		Limit(uint64(limit))
}

func (r *ReportRepo) TopComponents(ctx context.Context, limit int) ([]reports.ComponentValue, error) {
	sql, args, err := r.topQuery(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var items []reports.ComponentValue
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("top components: %w", err)
	}
	return items, nil
}

func (r *ReportRepo) spendQuery(from time.Time) squirrel.SelectBuilder {
	const month = "date_trunc('month', purchased_at AT TIME ZONE 'UTC')"
	return r.builder.
		Select(
			month+" AS month",
			"SUM(quantity * unit_price) AS total",
			"COUNT(*) AS purchases",
		).
		From("purchases").
		Where(squirrel.GtOrEq{"purchased_at": from}).
		GroupBy(month).
		OrderBy("month ASC")
}

func (r *ReportRepo) MonthlySpend(ctx context.Context, from time.Time) ([]reports.MonthlySpend, error) {
	sql, args, err := r.spendQuery(from).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []reports.MonthlySpend
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("monthly spend: %w", err)
	}
	for i := range rows {
		rows[i].Month = rows[i].Month.UTC()
	}
	return rows, nil
}
