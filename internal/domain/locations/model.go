// Package locations provides storage locations and the layout generator that
// creates them in bulk from a compact range specification.
package locations

import (
	"context"
	"strings"
	"time"

	"partshub/internal/core/apperror"
	"partshub/internal/core/id"
)

// LocationType classifies a storage location.
type LocationType string

const (
	TypeBuilding  LocationType = "building"
	TypeRoom      LocationType = "room"
	TypeCabinet   LocationType = "cabinet"
	TypeShelf     LocationType = "shelf"
	TypeDrawer    LocationType = "drawer"
	TypeBin       LocationType = "bin"
	TypeContainer LocationType = "container"
)

// DefaultLocationType is applied when a request does not name one.
const DefaultLocationType = TypeContainer

// Valid reports whether t is a known location type.
func (t LocationType) Valid() bool {
	switch t {
	case TypeBuilding, TypeRoom, TypeCabinet, TypeShelf, TypeDrawer, TypeBin, TypeContainer:
		return true
	}
	return false
}

// StorageLocation is a place where components are kept.
type StorageLocation struct {
	ID          id.ID   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`

	// ParentID references the enclosing location (nullable)
	ParentID *id.ID `db:"parent_id" json:"parent_id,omitempty"`

	LocationType LocationType `db:"location_type" json:"location_type"`

	// LayoutConfig records the configuration a bulk-created row came from.
	// Stored for audit only, never read back by the generator.
	LayoutConfig *LayoutConfig `db:"layout_config" json:"layout_config,omitempty"`

	// SinglePartOnly restricts the location to one component at a time
	SinglePartOnly bool `db:"single_part_only" json:"single_part_only"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewStorageLocation creates a location with a fresh id and timestamps.
func NewStorageLocation(name string, locType LocationType) *StorageLocation {
	now := time.Now().UTC()
	return &StorageLocation{
		ID:           id.New(),
		Name:         name,
		LocationType: locType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks invariants that need no database access.
func (l *StorageLocation) Validate(ctx context.Context) error {
	if strings.TrimSpace(l.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !l.LocationType.Valid() {
		return apperror.NewValidation("invalid location type").
			WithDetail("field", "location_type").
			WithDetail("value", string(l.LocationType))
	}
	if l.ParentID != nil && *l.ParentID == l.ID {
		return apperror.NewValidation("location cannot be its own parent").
			WithDetail("field", "parent_id")
	}
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Search       string
	ParentID     *id.ID
	LocationType LocationType
	Limit        int
	Offset       int
}

// ListResult is one page of locations.
type ListResult struct {
	Items      []*StorageLocation
	TotalCount int64
	Limit      int
	Offset     int
}
