package syncstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/sleep-service/internal/domain"
	"github.com/quentinrf/sleep-service/internal/ports"
)

// DefaultSampleLimit is how many recent samples the average covers.
const DefaultSampleLimit = 30

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// StatisticEngine derives statistics from the external source directly.
// It never reads the cache.
type StatisticEngine struct {
	source ports.SampleSource
	loc    *time.Location
}

// NewStatisticEngine creates an engine that reads times of day in loc
// when a sample does not record its own zone. A nil loc means time.Local.
func NewStatisticEngine(source ports.SampleSource, loc *time.Location) *StatisticEngine {
	if loc == nil {
		loc = time.Local
	}
	return &StatisticEngine{source: source, loc: loc}
}

// AverageStartTime averages the start time of day of the sampleLimit most
// recent in-bed samples, falling back to asleep samples when there are no
// in-bed ones. Times are averaged as seconds since midnight, so samples on
// both sides of midnight do not wrap.
func (e *StatisticEngine) AverageStartTime(ctx context.Context, sampleLimit int) (TimeOfDay, error) {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}

	tod, err := e.averageStartTime(ctx, domain.CategoryInBed, sampleLimit)
	if errors.Is(err, domain.ErrNoSleepDataAvailable) {
		log.Debug().Msg("no in-bed samples, falling back to asleep samples")
		return e.averageStartTime(ctx, domain.CategoryAsleep, sampleLimit)
	}
	return tod, err
}

func (e *StatisticEngine) averageStartTime(ctx context.Context, category, limit int) (TimeOfDay, error) {
	samples, err := e.source.Query(ctx, ports.SampleQuery{
		Type:       domain.SampleTypeSleepAnalysis,
		Category:   &category,
		Limit:      limit,
		Descending: true,
	})
	if errors.Is(err, domain.ErrNoData) {
		return TimeOfDay{}, domain.ErrNoSleepDataAvailable
	}
	if err != nil {
		return TimeOfDay{}, queryError(err)
	}
	if len(samples) == 0 {
		return TimeOfDay{}, domain.ErrNoSleepDataAvailable
	}

	var total, count int
	for _, s := range samples {
		if s.Type != domain.SampleTypeSleepAnalysis {
			return TimeOfDay{}, domain.ErrUnknownReturnConfiguration
		}
		if s.Value != category {
			continue
		}
		total += secondsOfDay(s.StartDate.In(s.Location(e.loc)))
		count++
	}
	if count == 0 {
		return TimeOfDay{}, domain.ErrNoMatchingBedtime
	}

	mean := total / count
	return TimeOfDay{Hour: mean / 3600, Minute: (mean % 3600) / 60}, nil
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// queryError passes typed errors through and wraps anything else.
func queryError(err error) error {
	var qe *domain.QueryError
	var he *domain.HealthStoreError
	if errors.As(err, &qe) || errors.As(err, &he) {
		return err
	}
	return &domain.QueryError{Description: err.Error(), Err: err}
}
