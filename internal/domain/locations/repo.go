package locations

import (
	"context"

	"partshub/internal/core/id"
)

// Repository defines persistence for storage locations.
// Implementations read the active transaction from ctx.
type Repository interface {
	GetByID(ctx context.Context, id id.ID) (*StorageLocation, error)

	Exists(ctx context.Context, id id.ID) (bool, error)

	// FindExistingNames returns those of names that are already taken
	// (exact, case-sensitive match), in the order they were given.
	FindExistingNames(ctx context.Context, names []string) ([]string, error)

	Create(ctx context.Context, loc *StorageLocation) error

	// CreateBatch inserts all rows or none. A unique violation is reported
	// as a conflict error.
	CreateBatch(ctx context.Context, locs []*StorageLocation) error

	List(ctx context.Context, filter ListFilter) (ListResult, error)

	// GetTree returns rootID and all its descendants, or every location
	// when rootID is nil.
	GetTree(ctx context.Context, rootID *id.ID) ([]*StorageLocation, error)

	Delete(ctx context.Context, id id.ID) error
}

// AuditLogger records bulk operations.
type AuditLogger interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}
