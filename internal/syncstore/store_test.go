package syncstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentinrf/sleep-service/internal/adapters/memory"
	"github.com/quentinrf/sleep-service/internal/adapters/mock"
	"github.com/quentinrf/sleep-service/internal/cachestore"
	"github.com/quentinrf/sleep-service/internal/domain"
	"github.com/quentinrf/sleep-service/internal/ports"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

const cacheLength = 7 * 24 * time.Hour

type fixture struct {
	store  *Store
	source *mock.FakeSource
	cache  *cachestore.Store
}

func newFixture(t *testing.T, preferCache bool) fixture {
	t.Helper()
	source := mock.NewFakeSource()
	cache := cachestore.New(memory.NewEntryStore())
	store := New(source, cache, Config{
		CacheLength: cacheLength,
		PreferCache: preferCache,
		Now:         func() time.Time { return now },
	})
	return fixture{store: store, source: source, cache: cache}
}

func ids(entries []domain.Entry) []uuid.UUID {
	out := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestGetSamples_CacheEligibleSkipsSource(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	start := now.Add(-3 * 24 * time.Hour)
	end := now.Add(-24 * time.Hour)

	late := mock.NewSample(domain.CategoryAsleep, start.Add(2*time.Hour), start.Add(9*time.Hour))
	early := mock.NewSample(domain.CategoryInBed, start, start.Add(8*time.Hour))
	atEnd := mock.NewSample(domain.CategoryInBed, end, end.Add(8*time.Hour))
	before := mock.NewSample(domain.CategoryInBed, start.Add(-time.Minute), start.Add(8*time.Hour))
	for _, s := range []domain.Sample{late, early, atEnd, before} {
		require.True(t, f.store.Add(ctx, s))
	}
	// present only in the source; must not be returned
	f.source.Add(mock.NewSample(domain.CategoryInBed, start.Add(time.Hour), start.Add(5*time.Hour)))

	got := f.store.GetSamples(ctx, start, end)

	assert.Equal(t, []uuid.UUID{early.ID, late.ID}, ids(got))
	assert.Zero(t, f.source.Queries())
}

func TestGetSamples_CacheEligibleOpenEnd(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	start := now.Add(-24 * time.Hour)
	a := mock.NewSample(domain.CategoryInBed, start, start.Add(8*time.Hour))
	b := mock.NewSample(domain.CategoryInBed, now.Add(time.Hour), now.Add(9*time.Hour))
	require.True(t, f.store.Add(ctx, b))
	require.True(t, f.store.Add(ctx, a))

	got := f.store.GetSamples(ctx, start, time.Time{})

	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, ids(got))
	assert.Zero(t, f.source.Queries())
}

func TestGetSamples_OutsideWindowQueriesSource(t *testing.T) {
	tests := []struct {
		name        string
		preferCache bool
		start       time.Time
	}{
		{name: "start before retention window", preferCache: true, start: now.Add(-30 * 24 * time.Hour)},
		{name: "fast path disabled", preferCache: false, start: now.Add(-24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.preferCache)
			ctx := context.Background()

			late := mock.NewSample(domain.CategoryAsleep, now.Add(-2*time.Hour), now)
			early := mock.NewSample(domain.CategoryInBed, now.Add(-20*time.Hour), now.Add(-12*time.Hour))
			f.source.Add(late, early)

			cachedOnly := mock.NewSample(domain.CategoryInBed, now.Add(-3*time.Hour), now)
			require.True(t, f.store.Add(ctx, cachedOnly))

			got := f.store.GetSamples(ctx, tt.start, time.Time{})

			assert.Equal(t, []uuid.UUID{early.ID, late.ID}, ids(got))
			assert.Equal(t, 1, f.source.Queries())
		})
	}
}

func TestGetSamples_SourceFailureFallsBackToCache(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	start := now.Add(-60 * 24 * time.Hour)
	end := now.Add(-24 * time.Hour)

	inRange := mock.NewSample(domain.CategoryInBed, now.Add(-40*24*time.Hour), now.Add(-40*24*time.Hour+8*time.Hour))
	newer := mock.NewSample(domain.CategoryInBed, now.Add(-2*24*time.Hour), now.Add(-2*24*time.Hour+8*time.Hour))
	outOfRange := mock.NewSample(domain.CategoryInBed, now.Add(-time.Hour), now)
	for _, s := range []domain.Sample{outOfRange, newer, inRange} {
		require.True(t, f.store.Add(ctx, s))
	}
	f.source.SetError(errors.New("authorization not determined"))

	got := f.store.GetSamples(ctx, start, end)

	assert.Equal(t, []uuid.UUID{inRange.ID, newer.ID}, ids(got))
	assert.Equal(t, 1, f.source.Queries())
}

func TestGetSamples_NeverNil(t *testing.T) {
	f := newFixture(t, true)
	f.source.SetError(errors.New("unavailable"))

	assert.NotNil(t, f.store.GetSamples(context.Background(), now.Add(-time.Hour), time.Time{}))
	assert.NotNil(t, f.store.GetSamples(context.Background(), now.Add(-365*24*time.Hour), time.Time{}))
}

func TestAddUpdateDelete(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	original := mock.NewSample(domain.CategoryInBed, now.Add(-8*time.Hour), now)
	assert.True(t, f.store.Add(ctx, original))

	changed := original
	changed.Value = domain.CategoryAwake
	changed.SyncVersion = 2
	assert.False(t, f.store.Add(ctx, changed), "re-adding is not an update")

	cached := f.cache.Query(ctx, domain.ByID(original.ID), false)
	require.Len(t, cached, 1)
	assert.Equal(t, domain.CategoryInBed, cached[0].Value)

	// no version check: an older version still overwrites
	older := original
	older.SyncVersion = 0
	older.Value = domain.CategoryAsleepCore
	assert.True(t, f.store.Update(ctx, domain.SampleUpdate{Old: original, New: older}))

	cached = f.cache.Query(ctx, domain.ByID(original.ID), false)
	require.Len(t, cached, 1)
	assert.Equal(t, domain.CategoryAsleepCore, cached[0].Value)
	assert.Equal(t, 0, cached[0].SyncVersion)

	assert.True(t, f.store.Delete(ctx, domain.DeletedSample{ID: original.ID}))
	assert.False(t, f.store.Delete(ctx, domain.DeletedSample{ID: original.ID}))
	assert.False(t, f.store.Update(ctx, domain.SampleUpdate{Old: original, New: older}), "nothing cached to update")
}

func TestDeleteBatch(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	var batch []uuid.UUID
	for i := 0; i < 4; i++ {
		s := mock.NewSample(domain.CategoryInBed, now.Add(-time.Duration(i)*time.Hour), now)
		require.True(t, f.store.Add(ctx, s))
		batch = append(batch, s.ID)
	}
	batch = append(batch, uuid.New())

	assert.Equal(t, int64(4), f.store.DeleteBatch(ctx, batch))
	assert.Empty(t, f.cache.Query(ctx, domain.Predicate{}, false))
}

func TestApply_ReconcilesChangeFeed(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a := mock.NewSample(domain.CategoryInBed, now.Add(-10*time.Hour), now)
	b := mock.NewSample(domain.CategoryAsleep, now.Add(-9*time.Hour), now)
	c := mock.NewSample(domain.CategoryAwake, now.Add(-2*time.Hour), now)
	f.source.Add(a, b, c)

	changes, anchor, err := f.source.Changes(ctx, 0)
	require.NoError(t, err)
	result := f.store.Apply(ctx, changes)
	assert.Equal(t, ports.ApplyResult{Created: 3}, result)

	updatedB := b
	updatedB.Value = domain.CategoryAsleepDeep
	updatedB.SyncVersion = 2
	require.True(t, f.source.Update(updatedB))
	require.True(t, f.source.Remove(a.ID))
	require.True(t, f.source.Remove(c.ID))

	changes, _, err = f.source.Changes(ctx, anchor)
	require.NoError(t, err)
	result = f.store.Apply(ctx, changes)
	assert.Equal(t, ports.ApplyResult{Updated: 1, Deleted: 2}, result)

	cached := f.cache.Query(ctx, domain.Predicate{}, true)
	require.Len(t, cached, 1)
	assert.Equal(t, b.ID, cached[0].ID)
	assert.Equal(t, domain.CategoryAsleepDeep, cached[0].Value)
}

func TestApply_FollowsFeedOrder(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	x := mock.NewSample(domain.CategoryInBed, now.Add(-9*time.Hour), now)
	f.source.Add(x)
	changes, anchor, err := f.source.Changes(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, ports.ApplyResult{Created: 1}, f.store.Apply(ctx, changes))

	// removed and re-added between two polls
	require.True(t, f.source.Remove(x.ID))
	f.source.Add(x)

	changes, _, err = f.source.Changes(ctx, anchor)
	require.NoError(t, err)
	result := f.store.Apply(ctx, changes)

	assert.Equal(t, ports.ApplyResult{Created: 1, Deleted: 1}, result)
	cached := f.cache.Query(ctx, domain.ByID(x.ID), false)
	assert.Len(t, cached, 1, "cache must match the source")
}

func TestApply_CountsOnlyEffectiveChanges(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	known := mock.NewSample(domain.CategoryInBed, now.Add(-9*time.Hour), now)
	require.True(t, f.store.Add(ctx, known))
	unknown := mock.NewSample(domain.CategoryAsleep, now.Add(-8*time.Hour), now)

	updated := known
	updated.Value = domain.CategoryAsleepCore
	changes := ports.ChangeSet{
		{Kind: ports.ChangeUpdated, Old: known, Sample: updated},
		{Kind: ports.ChangeUpdated, Old: unknown, Sample: unknown},
		{Kind: ports.ChangeDeleted, Sample: domain.Sample{ID: uuid.New()}},
		{Kind: ports.ChangeAdded, Sample: known},
	}

	assert.Equal(t, ports.ApplyResult{Updated: 1}, f.store.Apply(ctx, changes))
	assert.Len(t, f.cache.Query(ctx, domain.Predicate{}, false), 1)
}

func TestPurgeExpired(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	expired := mock.NewSample(domain.CategoryInBed, now.Add(-cacheLength-time.Hour), now)
	kept := mock.NewSample(domain.CategoryInBed, now.Add(-cacheLength+time.Hour), now)
	require.True(t, f.store.Add(ctx, expired))
	require.True(t, f.store.Add(ctx, kept))

	assert.Equal(t, int64(1), f.store.PurgeExpired(ctx))
	assert.Equal(t, now.Add(-cacheLength), f.store.CacheStart())

	cached := f.cache.Query(ctx, domain.Predicate{}, true)
	require.Len(t, cached, 1)
	assert.Equal(t, kept.ID, cached[0].ID)
}
