// Package acrange implements armor-class interval refinement. A monster's AC
// starts as an open interval and is narrowed by hit/miss observations until
// the operators have pinned it down (or set it outright).
package acrange

import (
	"fmt"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// AC bounds. An attack roll of 1 always misses and 99 is the widest value the
// tracker accepts, so observed rolls live in [1, 99] and bounds in [0, 99].
const (
	MinBound = 0
	MaxBound = 99
)

// Range is a half-open armor-class interval (Min, Max]. A nil Max means no
// hit has been observed yet, so only the lower bound is known.
type Range struct {
	Min int32  `json:"min"`
	Max *int32 `json:"max,omitempty"`
}

// New returns the widest range: nothing is known beyond the bounds.
func New() Range {
	return Range{Min: MinBound}
}

// NewBounded returns a range with both bounds known.
// Requires 0 <= min < max <= 99.
func NewBounded(minVal, maxVal int32) (Range, error) {
	if minVal < MinBound || maxVal > MaxBound || minVal >= maxVal {
		return Range{}, errors.OutOfRangef(
			"invalid AC range [%d, %d]: want %d <= min < max <= %d",
			minVal, maxVal, MinBound, MaxBound)
	}
	m := maxVal
	return Range{Min: minVal, Max: &m}, nil
}

// ReportAttack narrows the range from one observed attack. A hit at roll R
// means AC <= R, a miss means AC > R. The receiver is never mutated; the
// narrowed range is returned. If the observation contradicts the current
// range (resulting min >= max) an InvalidArgument error is returned and the
// caller should treat its input as contradictory, not the stored state.
func (r Range) ReportAttack(roll int32, hit bool) (Range, error) {
	if roll < 1 || roll > MaxBound {
		return Range{}, errors.OutOfRangef("attack roll %d out of range [1, %d]", roll, MaxBound)
	}

	next := r
	if hit {
		if r.Max == nil || roll < *r.Max {
			v := roll
			next.Max = &v
		} else {
			v := *r.Max
			next.Max = &v
		}
	} else if roll > r.Min {
		next.Min = roll
	}

	if next.Max != nil && next.Min >= *next.Max {
		return Range{}, errors.InvalidArgumentf(
			"attack report (roll %d, hit=%t) contradicts known AC range %s", roll, hit, r)
	}
	return next, nil
}

// String renders the range for display.
//
//	max unknown:   "4 < AC"
//	min+1 == max:  "AC = 15"
//	otherwise:     "4 < AC ≤ 15"
func (r Range) String() string {
	if r.Max == nil {
		return fmt.Sprintf("%d < AC", r.Min)
	}
	if r.Min+1 == *r.Max {
		return fmt.Sprintf("AC = %d", *r.Max)
	}
	return fmt.Sprintf("%d < AC ≤ %d", r.Min, *r.Max)
}
