// Package location_repo provides the PostgreSQL implementation of
// locations.Repository.
package location_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"partshub/internal/core/apperror"
	"partshub/internal/core/id"
	"partshub/internal/domain/locations"
	"partshub/internal/infrastructure/storage/postgres"
)

const tableName = "storage_locations"

var _ locations.Repository = (*LocationRepo)(nil)

// LocationRepo persists storage locations.
type LocationRepo struct {
	txManager  *postgres.TxManager
	inserter   *postgres.BatchInserter
	selectCols []string
}

// NewLocationRepo creates a new storage location repository.
func NewLocationRepo(txManager *postgres.TxManager) *LocationRepo {
	return &LocationRepo{
		txManager:  txManager,
		inserter:   postgres.NewBatchInserter(txManager),
		selectCols: postgres.ExtractDBColumns[locations.StorageLocation](),
	}
}

// builder returns a squirrel builder with PostgreSQL placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *LocationRepo) baseSelect() squirrel.SelectBuilder {
	return builder().Select(r.selectCols...).From(tableName)
}

func (r *LocationRepo) GetByID(ctx context.Context, locID id.ID) (*locations.StorageLocation, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": locID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var loc locations.StorageLocation
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &loc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("storage location", locID.String())
		}
		return nil, fmt.Errorf("get storage location: %w", err)
	}
	return &loc, nil
}

func (r *LocationRepo) Exists(ctx context.Context, locID id.ID) (bool, error) {
	sql, args, err := builder().
		Select("1").
		From(tableName).
		Where(squirrel.Eq{"id": locID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// findNamesQuery selects which of names are already stored.
func findNamesQuery(names []string) squirrel.SelectBuilder {
	return builder().
		Select("name").
		From(tableName).
		Where(squirrel.Eq{"name": names})
}

func (r *LocationRepo) FindExistingNames(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	sql, args, err := findNamesQuery(names).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var found []string
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &found, sql, args...); err != nil {
		return nil, fmt.Errorf("find existing names: %w", err)
	}
	return inInputOrder(names, found), nil
}

// inInputOrder returns the names that appear in found, keeping the order of names.
func inInputOrder(names, found []string) []string {
	if len(found) == 0 {
		return nil
	}
	taken := make(map[string]struct{}, len(found))
	for _, n := range found {
		taken[n] = struct{}{}
	}
	out := make([]string, 0, len(found))
	for _, n := range names {
		if _, ok := taken[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (r *LocationRepo) Create(ctx context.Context, loc *locations.StorageLocation) error {
	data := postgres.StructToMap(loc)
	layout, err := encodeLayout(loc.LayoutConfig)
	if err != nil {
		return err
	}
	data["layout_config"] = layout
	data["location_type"] = string(loc.LocationType)

	sql, args, err := builder().
		Insert(tableName).
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return translateWriteError(err, loc.Name)
	}
	return nil
}

// CreateBatch inserts locs with COPY in their slice order. It must run
// inside a transaction.
func (r *LocationRepo) CreateBatch(ctx context.Context, locs []*locations.StorageLocation) error {
	if len(locs) == 0 {
		return nil
	}
	rows, err := postgres.RowsOf(locs, r.selectCols, copyValue)
	if err != nil {
		return fmt.Errorf("prepare rows: %w", err)
	}

	if _, err := r.inserter.CopyFromSlice(ctx, tableName, r.selectCols, rows); err != nil {
		return translateWriteError(err, "")
	}
	return nil
}

// copyValue converts domain values into types pgx can COPY directly.
func copyValue(col string, v any) (any, error) {
	switch val := v.(type) {
	case *locations.LayoutConfig:
		return encodeLayout(val)
	case locations.LocationType:
		return string(val), nil
	}
	return v, nil
}

func encodeLayout(cfg *locations.LayoutConfig) ([]byte, error) {
	if cfg == nil {
		return nil, nil
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal layout_config: %w", err)
	}
	return b, nil
}

// translateWriteError maps constraint violations to domain errors. name is
// reported when the database does not say which value collided.
func translateWriteError(err error, name string) error {
	switch {
	case postgres.IsUniqueViolation(err):
		if v, ok := postgres.ConflictingValue(err); ok {
			name = v
		}
		var names []string
		if name != "" {
			names = []string{name}
		}
		return apperror.NewNameConflict(names).WithCause(err)
	case postgres.IsForeignKeyViolation(err):
		return apperror.NewNotFound("parent storage location", nil).WithCause(err)
	}
	return fmt.Errorf("insert %s: %w", tableName, err)
}

// listQuery applies filter conditions without ordering or pagination.
func (r *LocationRepo) listQuery(filter locations.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + escapeLike(filter.Search) + "%"})
	}
	if filter.ParentID != nil {
		q = q.Where(squirrel.Eq{"parent_id": *filter.ParentID})
	}
	if filter.LocationType != "" {
		q = q.Where(squirrel.Eq{"location_type": string(filter.LocationType)})
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (r *LocationRepo) List(ctx context.Context, filter locations.ListFilter) (locations.ListResult, error) {
	result := locations.ListResult{Limit: filter.Limit, Offset: filter.Offset}
	q := r.listQuery(filter)

	countSQL, countArgs, err := builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("name ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	return result, nil
}

// treeQuery walks parent_id downwards from rootID, or from every top-level
// location when rootID is nil.
func (r *LocationRepo) treeQuery(rootID *id.ID) (string, []any) {
	cond, args := "parent_id IS NULL", []any(nil)
	if rootID != nil {
		cond, args = "id = $1", []any{*rootID}
	}
	cols := strings.Join(r.selectCols, ", ")
	sql := fmt.Sprintf(`
		WITH RECURSIVE tree AS (
			SELECT %[1]s, 0 AS level
			FROM %[2]s
			WHERE %[3]s

			UNION ALL

			SELECT %[4]s, t.level + 1
			FROM %[2]s c
			INNER JOIN tree t ON c.parent_id = t.id
		)
		SELECT %[1]s FROM tree
		ORDER BY level, name
	`, cols, tableName, cond, prefixed("c", r.selectCols))
	return sql, args
}

func prefixed(alias string, cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}

func (r *LocationRepo) GetTree(ctx context.Context, rootID *id.ID) ([]*locations.StorageLocation, error) {
	sql, args := r.treeQuery(rootID)
	var items []*locations.StorageLocation
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	return items, nil
}

func (r *LocationRepo) Delete(ctx context.Context, locID id.ID) error {
	sql, args, err := builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": locID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("storage location is referenced by other records").
				WithDetail("id", locID.String()).
				WithCause(err)
		}
		return fmt.Errorf("delete %s: %w", tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("storage location", locID.String())
	}
	return nil
}
