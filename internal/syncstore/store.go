// Package syncstore decides whether sleep samples come from the external
// source or the local cache, keeps the cache in step with the source's
// change feed, and derives statistics from recent samples.
package syncstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/sleep-service/internal/cachestore"
	"github.com/quentinrf/sleep-service/internal/domain"
	"github.com/quentinrf/sleep-service/internal/ports"
)

// Config controls cache retention and the cache fast path.
type Config struct {
	// CacheLength is how far back the cache keeps entries.
	CacheLength time.Duration

	// PreferCache serves queries that start inside the retention window
	// from the cache without asking the source. Enable it where source
	// queries are slow or costly.
	PreferCache bool

	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// Store is the Sync Store.
type Store struct {
	source      ports.SampleSource
	cache       *cachestore.Store
	cacheLength time.Duration
	preferCache bool
	now         func() time.Time
}

// New creates a sync store over source and cache
func New(source ports.SampleSource, cache *cachestore.Store, cfg Config) *Store {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		source:      source,
		cache:       cache,
		cacheLength: cfg.CacheLength,
		preferCache: cfg.PreferCache,
		now:         now,
	}
}

// CacheStart returns the oldest start date the cache retains.
func (s *Store) CacheStart() time.Time {
	return s.now().Add(-s.cacheLength)
}

// GetSamples returns the entries that start in [start, end), oldest first.
// A zero end leaves the range open. It never fails: when the source cannot
// answer, the cached entries for the same range are returned.
func (s *Store) GetSamples(ctx context.Context, start, end time.Time) []domain.Entry {
	if s.cacheEligible(start) {
		log.Debug().Time("start", start).Msg("serving samples from cache")
		return s.cache.Query(ctx, domain.StartingIn(start, end), true)
	}

	samples, err := s.source.Query(ctx, ports.SampleQuery{
		Type:  domain.SampleTypeSleepAnalysis,
		Start: start,
		End:   end,
	})
	if err != nil {
		log.Warn().
			Err(&domain.HealthStoreError{Err: err}).
			Time("start", start).
			Msg("sample source failed, falling back to cache")
		return s.cache.Query(ctx, domain.StartingIn(start, end), true)
	}

	entries := make([]domain.Entry, len(samples))
	for i, sample := range samples {
		entries[i] = sample.Entry()
	}
	domain.SortByStartDate(entries)
	return entries
}

func (s *Store) cacheEligible(start time.Time) bool {
	return s.preferCache && !start.Before(s.CacheStart())
}

// Add caches a new sample and reports whether a row was created.
// A sample whose ID is already cached is not an update and changes nothing.
func (s *Store) Add(ctx context.Context, sample domain.Sample) bool {
	return s.cache.Upsert(ctx, sample.Entry())
}

// Update overwrites the cached version of a record and reports whether
// one was cached. Versions are not compared; the last update to run wins.
func (s *Store) Update(ctx context.Context, update domain.SampleUpdate) bool {
	return s.cache.Replace(ctx, update.Old.ID, update.New.Entry())
}

// Delete removes the cached record a tombstone refers to.
func (s *Store) Delete(ctx context.Context, deleted domain.DeletedSample) bool {
	return s.cache.Delete(ctx, deleted.ID)
}

// DeleteBatch removes the cached records with the given IDs.
func (s *Store) DeleteBatch(ctx context.Context, ids []uuid.UUID) int64 {
	return s.cache.DeleteBatch(ctx, ids, cachestore.DefaultDeleteBatchSize)
}

// Apply reconciles one change-feed batch in feed order. Runs of
// consecutive deletions are removed together.
func (s *Store) Apply(ctx context.Context, changes ports.ChangeSet) ports.ApplyResult {
	var result ports.ApplyResult
	var pending []uuid.UUID

	flush := func() {
		switch len(pending) {
		case 0:
		case 1:
			if s.Delete(ctx, domain.DeletedSample{ID: pending[0]}) {
				result.Deleted++
			}
		default:
			result.Deleted += int(s.DeleteBatch(ctx, pending))
		}
		pending = pending[:0]
	}

	for _, c := range changes {
		if c.Kind == ports.ChangeDeleted {
			pending = append(pending, c.Sample.ID)
			continue
		}
		flush()

		switch c.Kind {
		case ports.ChangeAdded:
			if s.Add(ctx, c.Sample) {
				result.Created++
			}
		case ports.ChangeUpdated:
			if s.Update(ctx, domain.SampleUpdate{Old: c.Old, New: c.Sample}) {
				result.Updated++
			}
		default:
			log.Warn().Int("kind", int(c.Kind)).Str("id", c.Sample.ID.String()).Msg("ignoring unknown change kind")
		}
	}
	flush()

	return result
}

// PurgeExpired drops cached entries older than the retention window.
func (s *Store) PurgeExpired(ctx context.Context) int64 {
	return s.cache.PurgeBefore(ctx, s.CacheStart())
}
