package location_repo

import (
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partshub/internal/core/apperror"
	"partshub/internal/core/id"
	"partshub/internal/domain/locations"
)

const allCols = "id, name, description, parent_id, location_type, layout_config, single_part_only, created_at, updated_at"

func TestNewLocationRepo_Columns(t *testing.T) {
	repo := NewLocationRepo(nil)
	assert.Equal(t, allCols, strings.Join(repo.selectCols, ", "))
}

func TestFindNamesQuery(t *testing.T) {
	sql, args, err := findNamesQuery([]string{"bin-a-1", "bin-a-2"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM storage_locations WHERE name IN ($1,$2)", sql)
	assert.Equal(t, []any{"bin-a-1", "bin-a-2"}, args)
}

func TestInInputOrder(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"b", "d"}, inInputOrder(names, []string{"d", "b"}))
	assert.Nil(t, inInputOrder(names, nil))
}

func TestListQuery(t *testing.T) {
	repo := NewLocationRepo(nil)
	parent := id.New()

	tests := []struct {
		name     string
		filter   locations.ListFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no filters",
			filter:  locations.ListFilter{},
			wantSQL: "SELECT " + allCols + " FROM storage_locations",
		},
		{
			name:     "search escapes wildcards",
			filter:   locations.ListFilter{Search: "50%_off"},
			wantSQL:  "SELECT " + allCols + " FROM storage_locations WHERE name ILIKE $1",
			wantArgs: []any{`%50\%\_off%`},
		},
		{
			name:     "parent and type",
			filter:   locations.ListFilter{ParentID: &parent, LocationType: locations.TypeBin},
			wantSQL:  "SELECT " + allCols + " FROM storage_locations WHERE parent_id = $1 AND location_type = $2",
			wantArgs: []any{parent.String(), "bin"}, // uuid is a driver.Valuer
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.listQuery(tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestTreeQuery(t *testing.T) {
	repo := NewLocationRepo(nil)

	sql, args := repo.treeQuery(nil)
	assert.Contains(t, sql, "WITH RECURSIVE tree")
	assert.Contains(t, sql, "WHERE parent_id IS NULL")
	assert.Contains(t, sql, "INNER JOIN tree t ON c.parent_id = t.id")
	assert.Empty(t, args)

	root := id.New()
	sql, args = repo.treeQuery(&root)
	assert.Contains(t, sql, "WHERE id = $1")
	assert.Equal(t, []any{root}, args)
}

func TestCopyValue(t *testing.T) {
	cfg := &locations.LayoutConfig{
		LayoutType: locations.LayoutRow,
		Prefix:     "s",
		Ranges:     []locations.RangeSpec{{Kind: locations.RangeLetters, Start: "a", End: "c"}},
	}
	v, err := copyValue("layout_config", cfg)
	require.NoError(t, err)
	assert.Contains(t, string(v.([]byte)), `"layout_type":"row"`)
	assert.Contains(t, string(v.([]byte)), `"type":"letters"`)

	v, err = copyValue("layout_config", (*locations.LayoutConfig)(nil))
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = copyValue("location_type", locations.TypeShelf)
	require.NoError(t, err)
	assert.Equal(t, "shelf", v)

	v, err = copyValue("name", "x")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestTranslateWriteError(t *testing.T) {
	err := translateWriteError(&pgconn.PgError{Code: "23505", Detail: "Key (name)=(bin-b-2) already exists."}, "")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Equal(t, []string{"bin-b-2"}, appErr.Details["names"])

	err = translateWriteError(&pgconn.PgError{Code: "23503"}, "x")
	assert.True(t, apperror.IsNotFound(err))

	err = translateWriteError(&pgconn.PgError{Code: "57014"}, "x")
	assert.False(t, apperror.IsAppError(err))
}
