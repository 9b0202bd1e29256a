package ports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentinrf/sleep-service/internal/adapters/memory"
	"github.com/quentinrf/sleep-service/internal/adapters/mock"
	"github.com/quentinrf/sleep-service/internal/cachestore"
	"github.com/quentinrf/sleep-service/internal/domain"
	"github.com/quentinrf/sleep-service/internal/ports"
	"github.com/quentinrf/sleep-service/internal/syncstore"
)

func newObserver(t *testing.T, source *mock.FakeSource) (*ports.Observer, *cachestore.Store) {
	t.Helper()
	cache := cachestore.New(memory.NewEntryStore())
	store := syncstore.New(source, cache, syncstore.Config{CacheLength: 7 * 24 * time.Hour, PreferCache: true})
	return ports.NewObserver(source, store, time.Hour, 24*time.Hour), cache
}

func TestPollOnce_AppliesAndAdvancesAnchor(t *testing.T) {
	now := time.Now()
	source := mock.NewFakeSource()
	a := mock.NewSample(domain.CategoryInBed, now.Add(-9*time.Hour), now.Add(-time.Hour))
	b := mock.NewSample(domain.CategoryAsleep, now.Add(-8*time.Hour), now.Add(-time.Hour))
	source.Add(a, b)

	observer, cache := newObserver(t, source)
	ctx := context.Background()

	result := observer.PollOnce(ctx)
	assert.Equal(t, ports.ApplyResult{Created: 2}, result)
	assert.Equal(t, ports.Anchor(2), observer.Anchor())

	// nothing new
	assert.Equal(t, ports.ApplyResult{}, observer.PollOnce(ctx))

	require.True(t, source.Remove(a.ID))
	assert.Equal(t, ports.ApplyResult{Deleted: 1}, observer.PollOnce(ctx))

	cached := cache.Query(ctx, domain.Predicate{}, true)
	require.Len(t, cached, 1)
	assert.Equal(t, b.ID, cached[0].ID)
}

func TestPollOnce_FeedErrorKeepsAnchor(t *testing.T) {
	now := time.Now()
	source := mock.NewFakeSource()
	source.Add(mock.NewSample(domain.CategoryInBed, now.Add(-9*time.Hour), now))

	observer, cache := newObserver(t, source)
	ctx := context.Background()

	source.SetError(errors.New("feed unavailable"))
	assert.Equal(t, ports.ApplyResult{}, observer.PollOnce(ctx))
	assert.Equal(t, ports.Anchor(0), observer.Anchor())

	source.SetError(nil)
	assert.Equal(t, ports.ApplyResult{Created: 1}, observer.PollOnce(ctx))
	assert.Len(t, cache.Query(ctx, domain.Predicate{}, false), 1)
}

func TestStart_SyncsAndPurgesUntilCancelled(t *testing.T) {
	now := time.Now()
	source := mock.NewFakeSource()
	recent := mock.NewSample(domain.CategoryInBed, now.Add(-9*time.Hour), now)
	expired := mock.NewSample(domain.CategoryInBed, now.Add(-30*24*time.Hour), now.Add(-29*24*time.Hour))
	source.Add(recent, expired)

	observer, cache := newObserver(t, source)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		observer.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		cached := cache.Query(context.Background(), domain.Predicate{}, false)
		return observer.Anchor() == 2 && len(cached) == 1 && cached[0].ID == recent.ID
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("observer did not stop after cancel")
	}
}
