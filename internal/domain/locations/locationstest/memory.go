// Package locationstest provides an in-memory locations.Repository and a
// matching transaction manager for tests.
package locationstest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"partshub/internal/core/apperror"
	"partshub/internal/core/id"
	"partshub/internal/domain/locations"
)

// ErrInjected is returned by CreateBatch when FailBatchAt triggers.
var ErrInjected = errors.New("injected insert failure")

// Store keeps committed rows and the working copy of an open transaction.
// Only one transaction may be open at a time.
type Store struct {
	mu        sync.Mutex
	committed []*locations.StorageLocation
	working   []*locations.StorageLocation
	inTx      bool

	// FailBatchAt makes CreateBatch fail when it reaches the row with this
	// index. Negative disables it.
	FailBatchAt int

	// Commits and Rollbacks count finished transactions.
	Commits   int
	Rollbacks int

	// Queries counts repository calls, to assert nothing was touched.
	Queries int
}

// NewStore returns an empty store.
func NewStore(seed ...*locations.StorageLocation) *Store {
	s := &Store{FailBatchAt: -1}
	s.committed = append(s.committed, seed...)
	return s
}

// Rows returns a copy of the committed rows.
func (s *Store) Rows() []*locations.StorageLocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*locations.StorageLocation(nil), s.committed...)
}

type txKey struct{}

// RunInTransaction implements tx.Manager. Nested calls join the open one.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	if s.inTx {
		s.mu.Unlock()
		return errors.New("locationstest: concurrent transactions are not supported")
	}
	s.inTx = true
	s.working = append([]*locations.StorageLocation(nil), s.committed...)
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.finish(false)
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.finish(false)
		return err
	}
	s.finish(true)
	return nil
}

func (s *Store) finish(commit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if commit {
		s.committed = s.working
		s.Commits++
	} else {
		s.Rollbacks++
	}
	s.working = nil
	s.inTx = false
}

// rows returns the view for ctx. Caller holds s.mu.
func (s *Store) rows(ctx context.Context) []*locations.StorageLocation {
	if s.inTx && ctx.Value(txKey{}) != nil {
		return s.working
	}
	return s.committed
}

func (s *Store) setRows(ctx context.Context, rows []*locations.StorageLocation) error {
	if !s.inTx || ctx.Value(txKey{}) == nil {
		return errors.New("locationstest: write outside transaction")
	}
	s.working = rows
	return nil
}

func (s *Store) GetByID(ctx context.Context, locID id.ID) (*locations.StorageLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries++
	for _, r := range s.rows(ctx) {
		if r.ID == locID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("storage location", locID.String())
}

func (s *Store) Exists(ctx context.Context, locID id.ID) (bool, error) {
	_, err := s.GetByID(ctx, locID)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) FindExistingNames(ctx context.Context, names []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries++
	taken := make(map[string]bool)
	for _, r := range s.rows(ctx) {
		taken[r.Name] = true
	}
	var out []string
	for _, n := range names {
		if taken[n] {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, loc *locations.StorageLocation) error {
	return s.CreateBatch(ctx, []*locations.StorageLocation{loc})
}

// CreateBatch appends rows one by one, so an injected failure leaves a
// partially written working copy that only a rollback can discard.
func (s *Store) CreateBatch(ctx context.Context, locs []*locations.StorageLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries++
	rows := s.rows(ctx)
	taken := make(map[string]bool, len(rows))
	for _, r := range rows {
		taken[r.Name] = true
	}
	for i, loc := range locs {
		if i == s.FailBatchAt {
			if err := s.setRows(ctx, rows); err != nil {
				return err
			}
			return fmt.Errorf("insert row %d: %w", i, ErrInjected)
		}
		if taken[loc.Name] {
			return apperror.NewNameConflict([]string{loc.Name})
		}
		taken[loc.Name] = true
		cp := *loc
		rows = append(rows, &cp)
	}
	return s.setRows(ctx, rows)
}

func (s *Store) List(ctx context.Context, filter locations.ListFilter) (locations.ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries++
	var matched []*locations.StorageLocation
	for _, r := range s.rows(ctx) {
		if filter.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.ParentID != nil && (r.ParentID == nil || *r.ParentID != *filter.ParentID) {
			continue
		}
		if filter.LocationType != "" && r.LocationType != filter.LocationType {
			continue
		}
		matched = append(matched, r)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	res := locations.ListResult{TotalCount: int64(len(matched)), Limit: filter.Limit, Offset: filter.Offset}
	start := min(filter.Offset, len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}
	res.Items = matched[start:end]
	return res, nil
}

func (s *Store) GetTree(ctx context.Context, rootID *id.ID) ([]*locations.StorageLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries++
	rows := s.rows(ctx)
	if rootID == nil {
		return append([]*locations.StorageLocation(nil), rows...), nil
	}
	include := map[id.ID]bool{*rootID: true}
	var out []*locations.StorageLocation
	for changed := true; changed; {
		changed = false
		for _, r := range rows {
			if include[r.ID] {
				continue
			}
			if r.ParentID != nil && include[*r.ParentID] {
				include[r.ID] = true
				changed = true
			}
		}
	}
	for _, r := range rows {
		if include[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, locID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries++
	rows := s.rows(ctx)
	idx := -1
	for i, r := range rows {
		if r.ParentID != nil && *r.ParentID == locID {
			return apperror.NewConflict("storage location is referenced by other locations").
				WithDetail("id", locID.String())
		}
		if r.ID == locID {
			idx = i
		}
	}
	if idx < 0 {
		return apperror.NewNotFound("storage location", locID.String())
	}
	next := append(append([]*locations.StorageLocation(nil), rows[:idx]...), rows[idx+1:]...)
	return s.setRows(ctx, next)
}

// AuditRecorder captures LogChange calls.
type AuditRecorder struct {
	Entries []map[string]any
	Err     error
}

func (a *AuditRecorder) LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error {
	if a.Err != nil {
		return a.Err
	}
	a.Entries = append(a.Entries, changes)
	return nil
}
