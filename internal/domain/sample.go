package domain

import (
	"time"

	"github.com/google/uuid"
)

// SampleType identifies the kind of sample an external source returns.
type SampleType string

const (
	// SampleTypeSleepAnalysis is the only type this service caches.
	SampleTypeSleepAnalysis SampleType = "sleep_analysis"

	// MetadataKeyTimeZone holds the IANA zone the sample was recorded in.
	MetadataKeyTimeZone = "time_zone"
)

// Sleep analysis category codes stored in Entry.Value.
const (
	CategoryInBed      = 0
	CategoryAsleep     = 1
	CategoryAwake      = 2
	CategoryAsleepCore = 3
	CategoryAsleepDeep = 4
	CategoryAsleepREM  = 5
)

// CategoryName returns a human-readable category label
func CategoryName(value int) string {
	switch value {
	case CategoryInBed:
		return "In Bed"
	case CategoryAsleep:
		return "Asleep"
	case CategoryAwake:
		return "Awake"
	case CategoryAsleepCore:
		return "Core Sleep"
	case CategoryAsleepDeep:
		return "Deep Sleep"
	case CategoryAsleepREM:
		return "REM Sleep"
	}
	return "Unknown"
}

// Sample is a sleep sample as reported by the external health source.
type Sample struct {
	ID             uuid.UUID
	Type           SampleType
	Value          int
	StartDate      time.Time
	EndDate        time.Time
	SyncIdentifier *string
	SyncVersion    int
	Metadata       map[string]string
}

// Entry converts the sample into its cached form.
func (s Sample) Entry() Entry {
	return Entry{
		ID:             s.ID,
		SyncIdentifier: s.SyncIdentifier,
		SyncVersion:    s.SyncVersion,
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		Value:          s.Value,
	}
}

// Location returns the zone recorded in the sample metadata, or fallback
// when none is recorded or it cannot be loaded.
func (s Sample) Location(fallback *time.Location) *time.Location {
	name, ok := s.Metadata[MetadataKeyTimeZone]
	if !ok || name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}

// DeletedSample is a tombstone from the external source.
type DeletedSample struct {
	ID uuid.UUID
}

// SampleUpdate carries the previous and current version of a record.
type SampleUpdate struct {
	Old Sample
	New Sample
}
