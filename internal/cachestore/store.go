// Package cachestore is the local cache of sleep entries.
//
// Every read and write goes through one mutex, so operations run one at a
// time in the order they were submitted. The check-then-insert in Upsert
// relies on that. Storage failures are logged and reported as empty
// results; callers cannot tell "nothing cached" from "store failed".
package cachestore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/sleep-service/internal/domain"
)

// DefaultDeleteBatchSize keeps id predicates under SQLite's bound-variable limit.
const DefaultDeleteBatchSize = 500

// Store is the Cache Store over a durable EntryStore.
type Store struct {
	mu    sync.Mutex
	store domain.EntryStore
}

// New creates a cache store backed by store
func New(store domain.EntryStore) *Store {
	return &Store{store: store}
}

// Query returns the cached entries matching p, oldest first when sortAscending is set.
// It never returns nil.
func (s *Store) Query(ctx context.Context, p domain.Predicate, sortAscending bool) []domain.Entry {
	var entries []domain.Entry

	err := s.perform(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		var err error
		entries, err = tx.Fetch(ctx, domain.FetchRequest{
			Predicate:       p,
			SortByStartDate: sortAscending,
		})
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to query cached entries")
		return []domain.Entry{}
	}

	if entries == nil {
		return []domain.Entry{}
	}
	return entries
}

// Upsert inserts entry when no entry with its ID is cached yet and reports
// whether it did. An existing entry is left untouched; use Replace to overwrite.
func (s *Store) Upsert(ctx context.Context, entry domain.Entry) bool {
	created := false

	err := s.perform(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		existing, err := tx.Fetch(ctx, domain.FetchRequest{
			Predicate: domain.ByID(entry.ID),
			Limit:     1,
		})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		if err := tx.Insert(ctx, entry); err != nil {
			return err
		}
		if err := saveIfChanged(tx); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", entry.ID.String()).Msg("failed to upsert cached entry")
		return false
	}

	log.Debug().Str("id", entry.ID.String()).Bool("created", created).Msg("upserted cached entry")
	return created
}

// Replace overwrites every field of the entries stored under oldID with
// entry and reports whether any entry was replaced.
func (s *Store) Replace(ctx context.Context, oldID uuid.UUID, entry domain.Entry) bool {
	replaced := false

	err := s.perform(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		matches, err := tx.Fetch(ctx, domain.FetchRequest{Predicate: domain.ByID(oldID)})
		if err != nil {
			return err
		}

		for _, old := range matches {
			if err := tx.Update(ctx, old.ID, entry); err != nil {
				return err
			}
		}
		if err := saveIfChanged(tx); err != nil {
			return err
		}
		replaced = len(matches) > 0
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", oldID.String()).Msg("failed to replace cached entry")
		return false
	}
	return replaced
}

// Delete removes the entries stored under id and reports whether any existed.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) bool {
	deleted := false

	err := s.perform(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		matches, err := tx.Fetch(ctx, domain.FetchRequest{Predicate: domain.ByID(id)})
		if err != nil {
			return err
		}

		for _, e := range matches {
			if err := tx.Delete(ctx, e.ID); err != nil {
				return err
			}
		}
		if err := saveIfChanged(tx); err != nil {
			return err
		}
		deleted = len(matches) > 0
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", id.String()).Msg("failed to delete cached entry")
		return false
	}
	return deleted
}

// DeleteBatch removes the entries stored under ids, issuing one delete per
// chunk of batchSize ids, and returns how many were removed. A batchSize
// below one selects DefaultDeleteBatchSize.
func (s *Store) DeleteBatch(ctx context.Context, ids []uuid.UUID, batchSize int) int64 {
	if len(ids) == 0 {
		return 0
	}
	if batchSize <= 0 {
		batchSize = DefaultDeleteBatchSize
	}

	var total int64
	err := s.perform(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		for start := 0; start < len(ids); start += batchSize {
			end := min(start+batchSize, len(ids))

			n, err := tx.DeleteMatching(ctx, domain.ByID(ids[start:end]...))
			if err != nil {
				return err
			}
			total += n
		}
		return saveIfChanged(tx)
	})
	if err != nil {
		log.Error().Err(err).Int("ids", len(ids)).Msg("failed to delete cached entries")
		return 0
	}

	log.Debug().Int("ids", len(ids)).Int64("deleted", total).Msg("deleted cached entries")
	return total
}

// PurgeBefore removes every entry that started before cutoff.
func (s *Store) PurgeBefore(ctx context.Context, cutoff time.Time) int64 {
	var purged int64

	err := s.perform(ctx, func(ctx context.Context, tx domain.EntryTx) error {
		var err error
		purged, err = tx.DeleteMatching(ctx, domain.Predicate{StartBefore: cutoff})
		if err != nil {
			return err
		}
		return saveIfChanged(tx)
	})
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("failed to purge cached entries")
		return 0
	}
	return purged
}

// perform runs fn in a store transaction while holding the cache lock.
func (s *Store) perform(ctx context.Context, fn func(ctx context.Context, tx domain.EntryTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.PerformAndWait(ctx, fn)
}

// saveIfChanged commits only when the transaction holds pending changes.
func saveIfChanged(tx domain.EntryTx) error {
	if !tx.HasChanges() {
		return nil
	}
	return tx.Save()
}
