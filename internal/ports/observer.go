package ports

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Observer polls a change feed and reconciles it into the cache
type Observer struct {
	feed            ChangeFeed
	reconciler      Reconciler
	interval        time.Duration
	cleanupInterval time.Duration
	anchor          atomic.Uint64
}

// NewObserver creates a new background observer
func NewObserver(feed ChangeFeed, reconciler Reconciler, interval, cleanupInterval time.Duration) *Observer {
	return &Observer{
		feed:            feed,
		reconciler:      reconciler,
		interval:        interval,
		cleanupInterval: cleanupInterval,
	}
}

// Start begins periodic polling
// This runs in a goroutine until context is cancelled
func (o *Observer) Start(ctx context.Context) {
	log.Info().
		Dur("interval", o.interval).
		Dur("cleanup_interval", o.cleanupInterval).
		Msg("starting change observer")

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(o.cleanupInterval)
	defer cleanupTicker.Stop()

	// Sync and trim immediately on start
	o.PollOnce(ctx)
	o.cleanup(ctx)

	for {
		select {
		case <-ticker.C:
			o.PollOnce(ctx)

		case <-cleanupTicker.C:
			o.cleanup(ctx)

		case <-ctx.Done():
			log.Info().Msg("stopping change observer")
			return
		}
	}
}

// PollOnce fetches the changes since the last anchor and applies them.
// The anchor only advances when the fetch succeeded.
func (o *Observer) PollOnce(ctx context.Context) ApplyResult {
	anchor := o.Anchor()
	changes, next, err := o.feed.Changes(ctx, anchor)
	if err != nil {
		log.Error().Err(err).Uint64("anchor", uint64(anchor)).Msg("failed to fetch changes")
		return ApplyResult{}
	}
	o.anchor.Store(uint64(next))

	if changes.Empty() {
		log.Debug().Msg("no changes")
		return ApplyResult{}
	}

	result := o.reconciler.Apply(ctx, changes)
	log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("deleted", result.Deleted).
		Uint64("anchor", uint64(next)).
		Msg("applied changes")
	return result
}

// Anchor returns the position the next poll resumes from.
// It is safe to call while Start is running.
func (o *Observer) Anchor() Anchor {
	return Anchor(o.anchor.Load())
}

func (o *Observer) cleanup(ctx context.Context) {
	purged := o.reconciler.PurgeExpired(ctx)
	log.Info().Int64("purged", purged).Msg("purged expired cache entries")
}
