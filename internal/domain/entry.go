package domain

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Entry is one cached sleep interval.
// Identity is the ID alone; the other fields are payload.
type Entry struct {
	ID             uuid.UUID
	SyncIdentifier *string
	SyncVersion    int
	StartDate      time.Time
	EndDate        time.Time
	Value          int
}

// Equal reports whether two entries refer to the same record.
func (e Entry) Equal(other Entry) bool {
	return e.ID == other.ID
}

// Key returns the hash key of the entry.
func (e Entry) Key() uuid.UUID {
	return e.ID
}

// Duration returns the length of the interval
func (e Entry) Duration() time.Duration {
	return e.EndDate.Sub(e.StartDate)
}

// Persistable returns a copy with the integer fields clamped to the
// range of the persisted columns.
func (e Entry) Persistable() Entry {
	e.SyncVersion = ClampInt32(e.SyncVersion)
	e.Value = ClampInt32(e.Value)
	return e
}

// CompareStartDate orders entries by start date ascending.
func CompareStartDate(a, b Entry) int {
	return a.StartDate.Compare(b.StartDate)
}

// SortByStartDate sorts entries in place, oldest first.
func SortByStartDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartDate.Before(entries[j].StartDate)
	})
}

// ClampInt32 clamps v into the signed 32-bit range.
func ClampInt32(v int) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return v
}
