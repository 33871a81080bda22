// Package score implements the closed-form 0-100 scoring formulas used by
// the watershed model: a linear-truncated priority function, a hump-shaped
// priority function, and min/max range rescaling with positive or negative
// polarity.
//
// The linear and hump functions return a fixed 50 outside their outer
// inflection points rather than the caller-supplied Y. That asymmetry is
// inherited from the original calibration and downstream products depend on
// it, so it is intentionally preserved here.
package score

import (
	"errors"
	"fmt"
)

// Polarity controls the direction of a range rescale.
type Polarity int

const (
	// Positive means higher raw values produce higher scores.
	Positive Polarity = iota
	// Negative means higher raw values produce lower scores.
	Negative
)

const (
	// TruncScore is the value returned outside the outer inflection points.
	TruncScore = 50.0

	// MaxScore is the top of the scoring scale.
	MaxScore = 100.0
)

// DomainError indicates invalid calibration input: a degenerate or reversed
// threshold window. Scoring fails fast on these rather than producing NaN
// or infinite values.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string {
	return "invalid score calibration: " + e.Reason
}

func domainErrf(format string, args ...any) error {
	return &DomainError{Reason: fmt.Sprintf(format, args...)}
}

// IsDomainError reports whether err is (or wraps) a DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// LinearTrunc maps an integrity value to a priority multiplier through a
// single linear segment anchored at (X1, Y) and (X2, 100), truncated flat
// outside the inflection points: values at or below X1 score TruncScore,
// values at or above X2 score 100.
type LinearTrunc struct {
	Y  float64
	X1 float64
	X2 float64
}

// Validate checks the inflection points. The original tooling accepted
// unordered inputs and silently produced undefined slopes; here that is a
// DomainError.
func (f LinearTrunc) Validate() error {
	if f.X1 >= f.X2 {
		return domainErrf("linear inflection points must satisfy X1 < X2, got X1=%v X2=%v", f.X1, f.X2)
	}
	return nil
}

// Score computes the priority multiplier for a single value.
func (f LinearTrunc) Score(v float64) float64 {
	switch {
	case v <= f.X1:
		return TruncScore
	case v >= f.X2:
		return MaxScore
	default:
		slope := (MaxScore - f.Y) / (f.X2 - f.X1)
		intercept := MaxScore - slope*f.X2
		return slope*v + intercept
	}
}

// Hump maps an integrity value to a priority multiplier through a hump-shaped
// relationship: a rising ramp from (X1, Y) to (X2, 100), a plateau at 100 on
// [X2, X3], and a falling ramp from (X3, 100) to (X4, Y). Values outside
// [X1, X4] score TruncScore.
type Hump struct {
	Y  float64
	X1 float64
	X2 float64
	X3 float64
	X4 float64
}

// Validate checks that the inflection points are ordered and that both ramps
// have nonzero run. The plateau may be a single point (X2 == X3).
func (f Hump) Validate() error {
	if f.X1 > f.X2 || f.X2 > f.X3 || f.X3 > f.X4 {
		return domainErrf("hump inflection points must satisfy X1 <= X2 <= X3 <= X4, got %v, %v, %v, %v",
			f.X1, f.X2, f.X3, f.X4)
	}
	if f.X1 == f.X2 {
		return domainErrf("hump rising ramp is degenerate: X1 == X2 == %v", f.X1)
	}
	if f.X3 == f.X4 {
		return domainErrf("hump falling ramp is degenerate: X3 == X4 == %v", f.X3)
	}
	return nil
}

// Score computes the priority multiplier for a single value.
func (f Hump) Score(v float64) float64 {
	switch {
	case v <= f.X1 || v >= f.X4:
		return TruncScore
	case v >= f.X2 && v <= f.X3:
		return MaxScore
	case v < f.X2:
		slope := (MaxScore - f.Y) / (f.X2 - f.X1)
		intercept := MaxScore - slope*f.X2
		return slope*v + intercept
	default:
		slope := (MaxScore - f.Y) / (f.X3 - f.X4)
		intercept := MaxScore - slope*f.X3
		return slope*v + intercept
	}
}

// Range rescales raw measurements onto 0-100 within a [Min, Max] window,
// clamped outside it. Polarity selects whether larger raw values are better
// (Positive: K-factor, biotic indices) or worse (Negative: pollutant loads,
// distances from a protected source).
type Range struct {
	Min float64
	Max float64
	Pol Polarity
}

// NewRange builds a Range, failing with a DomainError on a degenerate or
// reversed window so that the rescale can never divide by zero.
func NewRange(min, max float64, pol Polarity) (Range, error) {
	if min >= max {
		return Range{}, domainErrf("range window must satisfy min < max, got min=%v max=%v", min, max)
	}
	return Range{Min: min, Max: max, Pol: pol}, nil
}

// Score rescales a single measurement. A nil input is a missing value and
// propagates as nil rather than producing a spurious score.
func (r Range) Score(v *float64) *float64 {
	if v == nil {
		return nil
	}
	s := r.ScoreValue(*v)
	return &s
}

// ScoreValue rescales a single non-missing measurement.
func (r Range) ScoreValue(v float64) float64 {
	span := r.Max - r.Min
	if r.Pol == Negative {
		switch {
		case v < r.Min:
			return MaxScore
		case v > r.Max:
			return 0
		default:
			return MaxScore * (r.Max - v) / span
		}
	}
	switch {
	case v < r.Min:
		return 0
	case v > r.Max:
		return MaxScore
	default:
		return MaxScore * (v - r.Min) / span
	}
}

// WindowFromValues derives a data-driven rescale window from the observed
// minimum and maximum of the non-missing values. All-missing input or a
// constant column yields a DomainError.
func WindowFromValues(vals []*float64) (min, max float64, err error) {
	n := 0
	for _, v := range vals {
		if v == nil {
			continue
		}
		if n == 0 || *v < min {
			min = *v
		}
		if n == 0 || *v > max {
			max = *v
		}
		n++
	}
	if n == 0 {
		return 0, 0, domainErrf("no observed values to derive a rescale window from")
	}
	if min == max {
		return 0, 0, domainErrf("observed values are constant (%v); rescale window is degenerate", min)
	}
	return min, max, nil
}
