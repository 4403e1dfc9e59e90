package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partshub/internal/core/apperror"
	"partshub/internal/core/id"
	"partshub/internal/domain/locations"
)

func TestRangeBound_StringOrNumber(t *testing.T) {
	var req RangeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"range_type":"numbers","start":1,"end":"12"}`), &req))
	assert.Equal(t, RangeBound("1"), req.Start)
	assert.Equal(t, RangeBound("12"), req.End)

	require.NoError(t, json.Unmarshal([]byte(`{"start":-3,"end":2.5}`), &req))
	assert.Equal(t, RangeBound("-3"), req.Start)
	assert.Equal(t, RangeBound("2.5"), req.End)

	assert.Error(t, json.Unmarshal([]byte(`{"start":true}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"start":["a"]}`), &req))
}

func TestLayoutConfigRequest_Defaults(t *testing.T) {
	var req LayoutConfigRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"layout_type": "grid",
		"prefix": "bin-",
		"ranges": [
			{"type": "letters", "start": "a", "end": "b"},
			{"type": "numbers", "start": 1, "end": 2, "zero_pad": true}
		]
	}`), &req))

	cfg, err := req.ToConfig()
	require.NoError(t, err)
	assert.Equal(t, locations.LayoutGrid, cfg.LayoutType)
	assert.Equal(t, "-", cfg.Separator)
	assert.Equal(t, locations.TypeContainer, cfg.LocationType)
	assert.Nil(t, cfg.ParentID)
	require.Len(t, cfg.Ranges, 2)
	assert.Equal(t, locations.RangeSpec{Kind: locations.RangeNumbers, Start: "1", End: "2", ZeroPad: true}, cfg.Ranges[1])
}

func TestLayoutConfigRequest_RangeTypeKeys(t *testing.T) {
	var req LayoutConfigRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"layout_type": "grid",
		"ranges": [
			{"type": "letters", "start": "a", "end": "b"},
			{"range_type": "numbers", "start": 1, "end": 2}
		]
	}`), &req))

	cfg, err := req.ToConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Ranges, 2)
	assert.Equal(t, locations.RangeLetters, cfg.Ranges[0].Kind)
	assert.Equal(t, locations.RangeNumbers, cfg.Ranges[1].Kind)

	// "type" wins when both are sent
	both := RangeRequest{Type: "letters", RangeType: "numbers"}
	assert.Equal(t, "letters", both.kind())
}

func TestLayoutConfigRequest_ExplicitEmptySeparator(t *testing.T) {
	var req LayoutConfigRequest
	require.NoError(t, json.Unmarshal([]byte(`{"layout_type":"grid","separator":""}`), &req))

	cfg, err := req.ToConfig()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Separator)
}

func TestLayoutConfigRequest_InvalidParent(t *testing.T) {
	bad := "not-a-uuid"
	req := LayoutConfigRequest{LayoutType: "row", ParentID: &bad}

	_, err := req.ToConfig()
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	good := id.New().String()
	req.ParentID = &good
	cfg, err := req.ToConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.ParentID)
	assert.Equal(t, good, cfg.ParentID.String())
}

func TestBuildTree(t *testing.T) {
	room := locations.NewStorageLocation("room", locations.TypeRoom)
	shelf := locations.NewStorageLocation("shelf", locations.TypeShelf)
	shelf.ParentID = &room.ID
	bin := locations.NewStorageLocation("bin", locations.TypeBin)
	bin.ParentID = &shelf.ID
	orphanParent := id.New()
	orphan := locations.NewStorageLocation("orphan", locations.TypeBin)
	orphan.ParentID = &orphanParent

	roots := BuildTree([]*locations.StorageLocation{room, shelf, bin, orphan})

	require.Len(t, roots, 2)
	assert.Equal(t, "room", roots[0].Name)
	assert.Equal(t, "orphan", roots[1].Name)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "shelf", roots[0].Children[0].Name)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "bin", roots[0].Children[0].Children[0].Name)
	assert.Empty(t, roots[1].Children)
}

func TestFromPreview_NonNilWarnings(t *testing.T) {
	resp := FromPreview(&locations.PreviewResult{Names: []string{"a"}, TotalCount: 1})
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"names":["a"],"total_count":1,"warnings":[]}`, string(b))
}
