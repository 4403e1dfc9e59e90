package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrNoTransaction is returned by COPY helpers called outside a transaction.
var ErrNoTransaction = errors.New("bulk insert requires a transaction in context")

// BatchInserter performs bulk inserts with the PostgreSQL COPY protocol.
// COPY is all-or-nothing per statement, and the surrounding transaction
// decides whether the rows survive.
type BatchInserter struct {
	txManager *TxManager
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{txManager: txManager}
}

// CopyFromSlice copies rows into table. Each row holds values in columns order.
func (b *BatchInserter) CopyFromSlice(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	pgTx := b.txManager.GetTx(ctx)
	if pgTx == nil {
		return 0, ErrNoTransaction
	}

	n, err := pgTx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", table, err)
	}
	if n != int64(len(rows)) {
		return n, fmt.Errorf("copy into %s: wrote %d of %d rows", table, n, len(rows))
	}
	return n, nil
}

// RowsOf converts items into COPY rows using each item's db-tagged fields,
// in columns order.
func RowsOf[T any](items []T, columns []string, convert func(col string, v any) (any, error)) ([][]any, error) {
	rows := make([][]any, len(items))
	for i, item := range items {
		m := StructToMap(item)
		row := make([]any, len(columns))
		for j, col := range columns {
			v, ok := m[col]
			if !ok {
				return nil, fmt.Errorf("row %d: no field for column %q", i, col)
			}
			if convert != nil {
				var err error
				if v, err = convert(col, v); err != nil {
					return nil, fmt.Errorf("row %d column %s: %w", i, col, err)
				}
			}
			row[j] = v
		}
		rows[i] = row
	}
	return rows, nil
}
