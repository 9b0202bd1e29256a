package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatchingBedtime indicates sleep samples came back but none in the requested category
	ErrNoMatchingBedtime = errors.New("no matching bedtime")

	// ErrUnknownReturnConfiguration indicates the source returned something other than sleep samples
	ErrUnknownReturnConfiguration = errors.New("unknown return configuration")

	// ErrNoSleepDataAvailable indicates there are no sleep samples to average
	ErrNoSleepDataAvailable = errors.New("no sleep data available")

	// ErrNoData is returned by a sample source when nothing matches a query
	ErrNoData = errors.New("no data available")

	// ErrEntryNotFound indicates requested entry doesn't exist
	ErrEntryNotFound = errors.New("entry not found")
)

// QueryError is an error reported by the external source for a query.
type QueryError struct {
	Description string
	Err         error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %s", e.Description)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// HealthStoreError wraps a raw failure of the external source.
type HealthStoreError struct {
	Err error
}

func (e *HealthStoreError) Error() string {
	return fmt.Sprintf("health store error: %v", e.Err)
}

func (e *HealthStoreError) Unwrap() error {
	return e.Err
}
