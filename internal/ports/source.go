package ports

import (
	"context"
	"time"

	"github.com/quentinrf/sleep-service/internal/domain"
)

// SampleQuery selects samples from the external source.
// Zero Start/End leave that side of the range open; Limit 0 means no limit.
type SampleQuery struct {
	Type       domain.SampleType
	Category   *int
	Start      time.Time
	End        time.Time
	Limit      int
	Descending bool
}

// Matches reports whether s satisfies the query filters.
func (q SampleQuery) Matches(s domain.Sample) bool {
	if q.Type != "" && s.Type != q.Type {
		return false
	}
	if q.Category != nil && s.Value != *q.Category {
		return false
	}
	if !q.Start.IsZero() && s.StartDate.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && !s.StartDate.Before(q.End) {
		return false
	}
	return true
}

// SampleSource defines how to query the external health-data store
// This is a PORT - adapters (Mock, ...) will implement it
type SampleSource interface {
	// Query returns samples ordered by start date. It returns
	// domain.ErrNoData when nothing matches and the source says so.
	Query(ctx context.Context, q SampleQuery) ([]domain.Sample, error)

	// Close releases any resources
	Close() error
}

// Anchor marks a position in a change feed. The zero anchor is the start.
type Anchor uint64

// ChangeKind says what happened to a record in the source.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeUpdated
	ChangeDeleted
)

// Change is one event from a change feed.
type Change struct {
	Kind ChangeKind
	// Sample is the added or current version. Deletions only carry its ID.
	Sample domain.Sample
	// Old is the previous version of an updated record.
	Old domain.Sample
}

// ChangeSet is one batch from a change feed, in the order the source recorded it.
type ChangeSet []Change

// Empty reports whether the batch carries no changes
func (c ChangeSet) Empty() bool {
	return len(c) == 0
}

// ChangeFeed pushes additions, updates and deletions made in the source.
type ChangeFeed interface {
	// Changes returns everything after anchor and the anchor to resume from
	Changes(ctx context.Context, anchor Anchor) (ChangeSet, Anchor, error)
}

// ApplyResult counts what a ChangeSet did to the cache.
type ApplyResult struct {
	Created int
	Updated int
	Deleted int
}

// Reconciler applies change sets to the cache and enforces retention.
type Reconciler interface {
	Apply(ctx context.Context, changes ChangeSet) ApplyResult
	PurgeExpired(ctx context.Context) int64
}
