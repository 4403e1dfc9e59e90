package locations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"partshub/internal/core/apperror"
	"partshub/internal/core/id"
	"partshub/internal/core/tx"
	"partshub/pkg/logger"
)

var tracer = otel.Tracer("partshub/locations")

const (
	defaultListLimit = 50
	maxListLimit     = 500

	auditEntityBatch = "storage_location_batch"
	auditActionBulk  = "bulk_create"
)

// PreviewResult is the outcome of a dry-run expansion.
type PreviewResult struct {
	Names      []string
	TotalCount int
	Warnings   []string
}

// BulkCreateResult lists the created rows in generation order.
type BulkCreateResult struct {
	CreatedCount int
	LocationIDs  []id.ID
}

// Service provides storage location operations.
type Service struct {
	repo      Repository
	txManager tx.Manager
	audit     AuditLogger
}

// NewService creates a new storage location service. audit may be nil.
func NewService(repo Repository, txManager tx.Manager, audit AuditLogger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		audit:     audit,
	}
}

// Preview expands cfg without touching persistence.
func (s *Service) Preview(ctx context.Context, cfg LayoutConfig) (*PreviewResult, error) {
	layout, err := NewLayout(cfg)
	if err != nil {
		return nil, err
	}
	names, err := Expand(layout)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		Names:      names,
		TotalCount: len(names),
		Warnings:   Warnings(len(names)),
	}, nil
}

// BulkCreate expands cfg and inserts one row per name in a single
// transaction. Expansion errors abort before any query runs; a missing
// parent, an existing name or an insert failure roll back everything.
func (s *Service) BulkCreate(ctx context.Context, cfg LayoutConfig) (result *BulkCreateResult, err error) {
	ctx, span := tracer.Start(ctx, "locations.bulk_create",
		trace.WithAttributes(attribute.String("layout.type", string(cfg.LayoutType))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	layout, err := NewLayout(cfg)
	if err != nil {
		return nil, err
	}
	names, err := Expand(layout)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("layout.count", len(names)))
	ctx = logger.WithFields(ctx, "layout_type", string(cfg.LayoutType), "batch_size", len(names))

	if cfg.LocationType == "" {
		cfg.LocationType = DefaultLocationType
	}
	if !cfg.LocationType.Valid() {
		return nil, apperror.NewValidation("invalid location type").
			WithDetail("field", "location_type").
			WithDetail("value", string(cfg.LocationType))
	}

	rows := buildRows(cfg, names)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if cfg.ParentID != nil {
			if err := s.requireParent(ctx, *cfg.ParentID); err != nil {
				return err
			}
		}

		existing, err := s.repo.FindExistingNames(ctx, names)
		if err != nil {
			return fmt.Errorf("check existing names: %w", err)
		}
		if len(existing) > 0 {
			return apperror.NewNameConflict(existing)
		}

		if err := s.repo.CreateBatch(ctx, rows); err != nil {
			return err
		}

		return s.logBatch(ctx, cfg, rows)
	})
	if err != nil {
		return nil, err
	}

	ids := make([]id.ID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	logger.Info(ctx, "storage locations bulk-created", "created", len(ids))

	return &BulkCreateResult{CreatedCount: len(ids), LocationIDs: ids}, nil
}

func buildRows(cfg LayoutConfig, names []string) []*StorageLocation {
	snapshot := cfg
	snapshot.Ranges = append([]RangeSpec(nil), cfg.Ranges...)

	ids := id.NewBatch(len(names))
	now := time.Now().UTC()
	rows := make([]*StorageLocation, len(names))
	for i, name := range names {
		rows[i] = &StorageLocation{
			ID:             ids[i],
			Name:           name,
			ParentID:       cfg.ParentID,
			LocationType:   cfg.LocationType,
			LayoutConfig:   &snapshot,
			SinglePartOnly: cfg.SinglePartOnly,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
	return rows
}

func (s *Service) logBatch(ctx context.Context, cfg LayoutConfig, rows []*StorageLocation) error {
	if s.audit == nil {
		return nil
	}
	names := make([]string, len(rows))
	ids := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name
		ids[i] = row.ID.String()
	}
	err := s.audit.LogChange(ctx, auditEntityBatch, id.New(), auditActionBulk, map[string]any{
		"layout_config": cfg,
		"names":         names,
		"location_ids":  ids,
	})
	if err != nil {
		return fmt.Errorf("audit bulk create: %w", err)
	}
	return nil
}

func (s *Service) requireParent(ctx context.Context, parentID id.ID) error {
	ok, err := s.repo.Exists(ctx, parentID)
	if err != nil {
		return fmt.Errorf("check parent: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("parent storage location", parentID.String())
	}
	return nil
}

// Create inserts a single, manually defined location.
func (s *Service) Create(ctx context.Context, loc *StorageLocation) error {
	if loc.LocationType == "" {
		loc.LocationType = DefaultLocationType
	}
	if err := loc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if loc.ParentID != nil {
			if err := s.requireParent(ctx, *loc.ParentID); err != nil {
				return err
			}
		}
		existing, err := s.repo.FindExistingNames(ctx, []string{loc.Name})
		if err != nil {
			return fmt.Errorf("check existing names: %w", err)
		}
		if len(existing) > 0 {
			return apperror.NewNameConflict(existing)
		}
		return s.repo.Create(ctx, loc)
	})
}

// Get returns a location by id.
func (s *Service) Get(ctx context.Context, locID id.ID) (*StorageLocation, error) {
	return s.repo.GetByID(ctx, locID)
}

// List returns one page of locations ordered by name.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.LocationType != "" && !filter.LocationType.Valid() {
		return ListResult{}, apperror.NewValidation("invalid location type").
			WithDetail("field", "location_type").
			WithDetail("value", string(filter.LocationType))
	}
	return s.repo.List(ctx, filter)
}

// Tree returns the hierarchy below rootID (or all locations).
func (s *Service) Tree(ctx context.Context, rootID *id.ID) ([]*StorageLocation, error) {
	if rootID != nil {
		ok, err := s.repo.Exists(ctx, *rootID)
		if err != nil {
			return nil, fmt.Errorf("check root: %w", err)
		}
		if !ok {
			return nil, apperror.NewNotFound("storage location", rootID.String())
		}
	}
	return s.repo.GetTree(ctx, rootID)
}

// Delete removes a location that nothing references.
func (s *Service) Delete(ctx context.Context, locID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, locID)
	})
}
