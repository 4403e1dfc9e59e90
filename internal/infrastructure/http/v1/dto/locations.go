package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"partshub/internal/core/apperror"
	"partshub/internal/core/id"
	"partshub/internal/domain/locations"
)

// RangeBound is a range start or end given either as a JSON string or a
// JSON number. The literal text is kept and validated by the domain.
type RangeBound string

// UnmarshalJSON accepts "a", "12" and 12.
func (b *RangeBound) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = RangeBound(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("range bound must be a string or a number")
	}
	*b = RangeBound(n.String())
	return nil
}

// RangeRequest is one axis of a layout request. The alphabet is named by
// "type"; "range_type" is accepted as an alias.
type RangeRequest struct {
	Type       string     `json:"type"`
	RangeType  string     `json:"range_type"`
	Start      RangeBound `json:"start"`
	End        RangeBound `json:"end"`
	ZeroPad    bool       `json:"zero_pad"`
	Capitalize bool       `json:"capitalize"`
}

func (r RangeRequest) kind() string {
	if r.Type != "" {
		return r.Type
	}
	return r.RangeType
}

// LayoutConfigRequest is the body of generate-preview and bulk-create.
type LayoutConfigRequest struct {
	LayoutType     string         `json:"layout_type"`
	Prefix         string         `json:"prefix"`
	Ranges         []RangeRequest `json:"ranges"`
	Separator      *string        `json:"separator"`
	ParentID       *string        `json:"parent_id"`
	LocationType   string         `json:"location_type"`
	SinglePartOnly bool           `json:"single_part_only"`
}

// ToConfig applies defaults (separator "-", location type "container") and
// converts the request to a domain configuration.
func (r *LayoutConfigRequest) ToConfig() (locations.LayoutConfig, error) {
	parentID, err := id.ParseOptional(r.ParentID)
	if err != nil {
		return locations.LayoutConfig{}, apperror.NewValidation("invalid parent_id").
			WithDetail("field", "parent_id").
			WithCause(err)
	}

	cfg := locations.LayoutConfig{
		LayoutType:     locations.LayoutType(r.LayoutType),
		Prefix:         r.Prefix,
		Separator:      locations.DefaultSeparator,
		ParentID:       parentID,
		LocationType:   locations.LocationType(r.LocationType),
		SinglePartOnly: r.SinglePartOnly,
	}
	if r.Separator != nil {
		cfg.Separator = *r.Separator
	}
	if cfg.LocationType == "" {
		cfg.LocationType = locations.DefaultLocationType
	}

	cfg.Ranges = make([]locations.RangeSpec, len(r.Ranges))
	for i, rr := range r.Ranges {
		cfg.Ranges[i] = locations.RangeSpec{
			Kind:       locations.RangeKind(rr.kind()),
			Start:      string(rr.Start),
			End:        string(rr.End),
			ZeroPad:    rr.ZeroPad,
			Capitalize: rr.Capitalize,
		}
	}
	return cfg, nil
}

// PreviewResponse lists the names a layout would generate.
type PreviewResponse struct {
	Names      []string `json:"names"`
	TotalCount int      `json:"total_count"`
	Warnings   []string `json:"warnings"`
}

// FromPreview creates PreviewResponse from the service result.
func FromPreview(p *locations.PreviewResult) PreviewResponse {
	warnings := p.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return PreviewResponse{Names: p.Names, TotalCount: p.TotalCount, Warnings: warnings}
}

// BulkCreateResponse lists created IDs in generation order.
type BulkCreateResponse struct {
	CreatedCount int      `json:"created_count"`
	LocationIDs  []string `json:"location_ids"`
}

// FromBulkCreate creates BulkCreateResponse from the service result.
func FromBulkCreate(r *locations.BulkCreateResult) BulkCreateResponse {
	return BulkCreateResponse{CreatedCount: r.CreatedCount, LocationIDs: idStrings(r.LocationIDs)}
}

// CreateLocationRequest creates a single location by hand.
type CreateLocationRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    *string `json:"description"`
	ParentID       *string `json:"parent_id"`
	LocationType   string  `json:"location_type"`
	SinglePartOnly bool    `json:"single_part_only"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateLocationRequest) ToEntity() (*locations.StorageLocation, error) {
	parentID, err := id.ParseOptional(r.ParentID)
	if err != nil {
		return nil, apperror.NewValidation("invalid parent_id").
			WithDetail("field", "parent_id").
			WithCause(err)
	}
	loc := locations.NewStorageLocation(r.Name, locations.LocationType(r.LocationType))
	loc.Description = r.Description
	loc.ParentID = parentID
	loc.SinglePartOnly = r.SinglePartOnly
	return loc, nil
}

// ListLocationsQuery holds list filters.
type ListLocationsQuery struct {
	PaginationQuery
	Search       string  `form:"search"`
	ParentID     *string `form:"parent_id"`
	LocationType string  `form:"location_type"`
}

// ToFilter converts query parameters to a domain filter.
func (q *ListLocationsQuery) ToFilter() (locations.ListFilter, error) {
	parentID, err := id.ParseOptional(q.ParentID)
	if err != nil {
		return locations.ListFilter{}, apperror.NewValidation("invalid parent_id").
			WithDetail("field", "parent_id").
			WithCause(err)
	}
	return locations.ListFilter{
		Search:       q.Search,
		ParentID:     parentID,
		LocationType: locations.LocationType(q.LocationType),
		Limit:        q.Limit,
		Offset:       q.Offset,
	}, nil
}

// LocationResponse is the API representation of a storage location.
type LocationResponse struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Description    *string                 `json:"description,omitempty"`
	ParentID       *string                 `json:"parent_id,omitempty"`
	LocationType   string                  `json:"location_type"`
	LayoutConfig   *locations.LayoutConfig `json:"layout_config,omitempty"`
	SinglePartOnly bool                    `json:"single_part_only"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// FromLocation creates LocationResponse from a domain entity.
func FromLocation(l *locations.StorageLocation) LocationResponse {
	return LocationResponse{
		ID:             l.ID.String(),
		Name:           l.Name,
		Description:    l.Description,
		ParentID:       optionalIDString(l.ParentID),
		LocationType:   string(l.LocationType),
		LayoutConfig:   l.LayoutConfig,
		SinglePartOnly: l.SinglePartOnly,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// FromLocationList creates a list response from a domain result.
func FromLocationList(r locations.ListResult) ListResponse[LocationResponse] {
	items := make([]LocationResponse, len(r.Items))
	for i, l := range r.Items {
		items[i] = FromLocation(l)
	}
	return ListResponse[LocationResponse]{
		Items:      items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// TreeNode is a location with its nested children.
type TreeNode struct {
	LocationResponse
	Children []*TreeNode `json:"children"`
}

// BuildTree nests a flat list by parent_id. Items whose parent is not in
// the list become roots. Sibling order follows the input order.
func BuildTree(items []*locations.StorageLocation) []*TreeNode {
	nodes := make(map[id.ID]*TreeNode, len(items))
	for _, l := range items {
		nodes[l.ID] = &TreeNode{LocationResponse: FromLocation(l), Children: []*TreeNode{}}
	}

	roots := []*TreeNode{}
	for _, l := range items {
		node := nodes[l.ID]
		if l.ParentID != nil {
			if parent, ok := nodes[*l.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
