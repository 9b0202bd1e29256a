package mock

import (
	"context"
	"math/rand"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quentinrf/sleep-service/internal/domain"
	"github.com/quentinrf/sleep-service/internal/ports"
)

// FakeSource simulates an external health store for development and tests
// This implements the ports.SampleSource and ports.ChangeFeed interfaces
type FakeSource struct {
	mu      sync.Mutex
	samples map[uuid.UUID]domain.Sample
	changes []ports.Change
	err     error
	queries int

	// ReportNoData makes empty query results fail with domain.ErrNoData
	ReportNoData bool
}

// NewFakeSource creates an empty source
func NewFakeSource() *FakeSource {
	return &FakeSource{
		samples: make(map[uuid.UUID]domain.Sample),
	}
}

// NewNightlySource creates a source holding one in-bed and one asleep
// sample for each of the given nights before now.
// bedtime: average time after midnight, e.g. -90*time.Minute for 22:30
// jitter: +/- range around bedtime (e.g., 30m means 22:00-23:00)
func NewNightlySource(nights int, bedtime, jitter time.Duration, now time.Time, seed int64) *FakeSource {
	s := NewFakeSource()
	rng := rand.New(rand.NewSource(seed))

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for night := nights; night >= 1; night-- {
		offset := time.Duration(0)
		if jitter > 0 {
			offset = time.Duration((rng.Float64() - 0.5) * 2 * float64(jitter))
		}
		start := midnight.AddDate(0, 0, -night+1).Add(bedtime + offset).Truncate(time.Minute)

		s.Add(
			NewSample(domain.CategoryInBed, start, start.Add(8*time.Hour)),
			NewSample(domain.CategoryAsleep, start.Add(15*time.Minute), start.Add(7*time.Hour+30*time.Minute)),
		)
	}
	return s
}

// NewSample builds a sleep analysis sample with a fresh ID
func NewSample(category int, start, end time.Time) domain.Sample {
	return domain.Sample{
		ID:          uuid.New(),
		Type:        domain.SampleTypeSleepAnalysis,
		Value:       category,
		StartDate:   start,
		EndDate:     end,
		SyncVersion: 1,
	}
}

// Add stores samples and records them as additions
func (s *FakeSource) Add(samples ...domain.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sample := range samples {
		s.samples[sample.ID] = sample
		s.changes = append(s.changes, ports.Change{Kind: ports.ChangeAdded, Sample: sample})
	}
}

// Update replaces a stored sample and records the update.
// It reports false when the sample is unknown.
func (s *FakeSource) Update(sample domain.Sample) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.samples[sample.ID]
	if !ok {
		return false
	}
	s.samples[sample.ID] = sample
	s.changes = append(s.changes, ports.Change{Kind: ports.ChangeUpdated, Sample: sample, Old: old})
	return true
}

// Remove deletes a stored sample and records a tombstone
func (s *FakeSource) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.samples[id]; !ok {
		return false
	}
	delete(s.samples, id)
	s.changes = append(s.changes, ports.Change{Kind: ports.ChangeDeleted, Sample: domain.Sample{ID: id}})
	return true
}

// SetError makes every subsequent query and change fetch fail with err.
// A nil err restores normal behaviour.
func (s *FakeSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Queries returns how many queries have been made
func (s *FakeSource) Queries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries
}

// Query returns stored samples matching q
func (s *FakeSource) Query(ctx context.Context, q ports.SampleQuery) ([]domain.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries++
	if s.err != nil {
		return nil, s.err
	}

	var results []domain.Sample
	for _, sample := range s.samples {
		if q.Matches(sample) {
			results = append(results, sample)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if q.Descending {
			return results[i].StartDate.After(results[j].StartDate)
		}
		return results[i].StartDate.Before(results[j].StartDate)
	})

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}

	if len(results) == 0 && s.ReportNoData {
		return nil, domain.ErrNoData
	}
	return results, nil
}

// Changes returns the changes recorded after anchor
func (s *FakeSource) Changes(ctx context.Context, anchor ports.Anchor) (ports.ChangeSet, ports.Anchor, error) {
	if err := ctx.Err(); err != nil {
		return nil, anchor, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, anchor, s.err
	}

	next := ports.Anchor(len(s.changes))
	if anchor >= next {
		return nil, anchor, nil
	}
	return slices.Clone(ports.ChangeSet(s.changes[anchor:])), next, nil
}

// Close is a no-op for fake source
func (s *FakeSource) Close() error {
	return nil
}
