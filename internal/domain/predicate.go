package domain

import (
	"time"

	"github.com/google/uuid"
)

// Predicate selects cached entries. Zero fields do not constrain, except
// that a non-nil empty IDs set matches nothing.
// The start bounds form a half-open interval [StartOnOrAfter, StartBefore).
type Predicate struct {
	IDs            []uuid.UUID
	StartOnOrAfter time.Time
	StartBefore    time.Time
}

// ByID matches the given identities.
func ByID(ids ...uuid.UUID) Predicate {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return Predicate{IDs: ids}
}

// StartingIn matches entries whose start date falls in [start, end).
// A zero end leaves the range open.
func StartingIn(start, end time.Time) Predicate {
	return Predicate{StartOnOrAfter: start, StartBefore: end}
}

// Matches evaluates the predicate against e.
func (p Predicate) Matches(e Entry) bool {
	if p.IDs != nil {
		found := false
		for _, id := range p.IDs {
			if id == e.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !p.StartOnOrAfter.IsZero() && e.StartDate.Before(p.StartOnOrAfter) {
		return false
	}
	if !p.StartBefore.IsZero() && !e.StartDate.Before(p.StartBefore) {
		return false
	}
	return true
}

// FetchRequest describes a fetch against an EntryStore.
type FetchRequest struct {
	Predicate       Predicate
	SortByStartDate bool
	Limit           int // 0 means no limit
}
