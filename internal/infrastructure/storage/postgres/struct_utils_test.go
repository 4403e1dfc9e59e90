package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"partshub/internal/core/id"
)

type Timestamps struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type mockLocation struct {
	ID       id.ID  `db:"id"`
	Name     string `db:"name" json:"name"`
	Scratch  string `db:"-"`
	internal string
	Timestamps
}

func TestExtractDBColumns_OrderAndEmbedded(t *testing.T) {
	cols := ExtractDBColumns[mockLocation]()
	assert.Equal(t, []string{"id", "name", "created_at", "updated_at"}, cols)
}

func TestExtractDBColumns_Pointer(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[mockLocation](), ExtractDBColumns[*mockLocation]())
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	loc := &mockLocation{
		ID:         id.New(),
		Name:       "shelf-a",
		Scratch:    "ignored",
		internal:   "ignored",
		Timestamps: Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	m := StructToMap(loc)

	assert.Len(t, m, 4)
	assert.Equal(t, loc.ID, m["id"])
	assert.Equal(t, "shelf-a", m["name"])
	assert.Equal(t, now, m["created_at"])
	assert.NotContains(t, m, "-")
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap((*mockLocation)(nil)))
}

func TestRowsOf(t *testing.T) {
	items := []*mockLocation{{ID: id.New(), Name: "a"}, {ID: id.New(), Name: "b"}}

	rows, err := RowsOf(items, []string{"name", "id"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, [][]any{{"a", items[0].ID}, {"b", items[1].ID}}, rows)

	_, err = RowsOf(items, []string{"missing"}, nil)
	assert.Error(t, err)
}
