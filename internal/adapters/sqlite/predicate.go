package sqlite

import (
	"math"
	"strings"
	"time"

	"github.com/quentinrf/sleep-service/internal/domain"
)

// whereClause translates a predicate into a WHERE clause and its arguments.
func whereClause(p domain.Predicate) (string, []any) {
	var conds []string
	var args []any

	if p.IDs != nil {
		if len(p.IDs) == 0 {
			conds = append(conds, "0")
		} else {
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(p.IDs)), ", ")
			conds = append(conds, "id IN ("+placeholders+")")
			for _, id := range p.IDs {
				args = append(args, id.String())
			}
		}
	}

	if !p.StartOnOrAfter.IsZero() {
		conds = append(conds, "start_date >= ?")
		args = append(args, unixNano(p.StartOnOrAfter))
	}

	if !p.StartBefore.IsZero() {
		conds = append(conds, "start_date < ?")
		args = append(args, unixNano(p.StartBefore))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Stored timestamps are int64 unix nanoseconds, which span 1677-09-21 to 2262-04-11.
var (
	minStoredTime = time.Unix(0, math.MinInt64)
	maxStoredTime = time.Unix(0, math.MaxInt64)
)

// unixNano converts t to stored form, clamping times outside the
// representable range to its ends.
func unixNano(t time.Time) int64 {
	if t.Before(minStoredTime) {
		return math.MinInt64
	}
	if t.After(maxStoredTime) {
		return math.MaxInt64
	}
	return t.UnixNano()
}
