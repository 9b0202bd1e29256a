package memory

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/quentinrf/sleep-service/internal/domain"
)

// ErrDuplicateID mirrors a primary key violation.
var ErrDuplicateID = errors.New("entry with this id already exists")

// EntryStore implements domain.EntryStore with in-memory storage
// This is perfect for development - no database setup needed
type EntryStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]domain.Entry
}

// NewEntryStore creates an empty in-memory store
func NewEntryStore() *EntryStore {
	return &EntryStore{
		entries: make(map[uuid.UUID]domain.Entry),
	}
}

// PerformAndWait runs fn against a staged copy of the table.
// Only changes committed with Save become visible.
func (s *EntryStore) PerformAndWait(ctx context.Context, fn func(ctx context.Context, tx domain.EntryTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &entryTx{
		store:  s,
		staged: maps.Clone(s.entries),
	}
	return fn(ctx, tx)
}

// Len returns the number of committed entries
func (s *EntryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type entryTx struct {
	store  *EntryStore
	staged map[uuid.UUID]domain.Entry
	dirty  bool
}

func (tx *entryTx) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Entry, error) {
	var results []domain.Entry
	for _, e := range tx.staged {
		if req.Predicate.Matches(e) {
			results = append(results, e)
		}
	}

	if req.SortByStartDate {
		sort.Slice(results, func(i, j int) bool {
			return results[i].StartDate.Before(results[j].StartDate)
		})
	}

	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return results, nil
}

func (tx *entryTx) Insert(ctx context.Context, entry domain.Entry) error {
	if _, exists := tx.staged[entry.ID]; exists {
		return ErrDuplicateID
	}
	tx.staged[entry.ID] = entry.Persistable()
	tx.dirty = true
	return nil
}

func (tx *entryTx) Update(ctx context.Context, oldID uuid.UUID, entry domain.Entry) error {
	if _, exists := tx.staged[oldID]; !exists {
		return domain.ErrEntryNotFound
	}
	if _, taken := tx.staged[entry.ID]; taken && entry.ID != oldID {
		return ErrDuplicateID
	}
	delete(tx.staged, oldID)
	tx.staged[entry.ID] = entry.Persistable()
	tx.dirty = true
	return nil
}

func (tx *entryTx) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := tx.staged[id]; !exists {
		return domain.ErrEntryNotFound
	}
	delete(tx.staged, id)
	tx.dirty = true
	return nil
}

func (tx *entryTx) DeleteMatching(ctx context.Context, p domain.Predicate) (int64, error) {
	var n int64
	for id, e := range tx.staged {
		if p.Matches(e) {
			delete(tx.staged, id)
			n++
		}
	}
	if n > 0 {
		tx.dirty = true
	}
	return n, nil
}

func (tx *entryTx) HasChanges() bool {
	return tx.dirty
}

func (tx *entryTx) Save() error {
	tx.store.entries = tx.staged
	tx.staged = maps.Clone(tx.staged)
	tx.dirty = false
	return nil
}
