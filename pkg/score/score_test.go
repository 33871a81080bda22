package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearTrunc_Clamps(t *testing.T) {
	f := LinearTrunc{Y: 20, X1: 10, X2: 50}
	require.NoError(t, f.Validate())

	// Below X1 the score is the fixed truncation value, not Y.
	assert.Equal(t, 50.0, f.Score(5))
	assert.Equal(t, 50.0, f.Score(10))
	assert.Equal(t, 50.0, LinearTrunc{Y: 80, X1: 10, X2: 50}.Score(5))

	assert.Equal(t, 100.0, f.Score(50))
	assert.Equal(t, 100.0, f.Score(60))
}

func TestLinearTrunc_Interpolation(t *testing.T) {
	f := LinearTrunc{Y: 20, X1: 10, X2: 50}
	// 20 + (100-20)/(50-10) * (30-10) = 60
	assert.InDelta(t, 60.0, f.Score(30), 1e-9)
}

func TestLinearTrunc_DiscontinuityAtX1(t *testing.T) {
	f := LinearTrunc{Y: 20, X1: 10, X2: 50}
	// Just above X1 the interpolated value is near Y; at X1 it drops to 50.
	assert.InDelta(t, 20.0, f.Score(10.0000001), 1e-4)
	assert.Equal(t, 50.0, f.Score(10))
}

func TestLinearTrunc_ContinuousAtX2(t *testing.T) {
	f := LinearTrunc{Y: 20, X1: 10, X2: 50}
	assert.InDelta(t, 100.0, f.Score(49.9999999), 1e-4)
}

func TestLinearTrunc_Validate(t *testing.T) {
	assert.Error(t, LinearTrunc{Y: 20, X1: 50, X2: 10}.Validate())
	err := LinearTrunc{Y: 20, X1: 10, X2: 10}.Validate()
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
}

func TestHump_Endpoints(t *testing.T) {
	f := Hump{Y: 20, X1: 10, X2: 30, X3: 60, X4: 90}
	require.NoError(t, f.Validate())

	assert.Equal(t, 50.0, f.Score(10))
	assert.Equal(t, 50.0, f.Score(90))
	assert.Equal(t, 50.0, f.Score(0))
	assert.Equal(t, 50.0, f.Score(200))
}

func TestHump_Plateau(t *testing.T) {
	f := Hump{Y: 20, X1: 10, X2: 30, X3: 60, X4: 90}
	for _, v := range []float64{30, 45, 60} {
		assert.Equal(t, 100.0, f.Score(v), "v=%v", v)
	}
}

func TestHump_Ramps(t *testing.T) {
	f := Hump{Y: 20, X1: 10, X2: 30, X3: 60, X4: 90}
	// Rising ramp midpoint: (100-20)/(30-10)*20 + (100 - 4*30) = 60
	assert.InDelta(t, 60.0, f.Score(20), 1e-9)
	// Falling ramp midpoint between X3=60 and X4=90.
	assert.InDelta(t, 60.0, f.Score(75), 1e-9)
	assert.True(t, f.Score(65) > f.Score(85))
}

func TestHump_Validate(t *testing.T) {
	assert.Error(t, Hump{Y: 20, X1: 30, X2: 10, X3: 60, X4: 90}.Validate())
	assert.Error(t, Hump{Y: 20, X1: 10, X2: 10, X3: 60, X4: 90}.Validate())
	assert.Error(t, Hump{Y: 20, X1: 10, X2: 30, X3: 90, X4: 90}.Validate())
	// Single-point plateau is fine.
	assert.NoError(t, Hump{Y: 20, X1: 10, X2: 50, X3: 50, X4: 90}.Validate())

	err := Hump{Y: 20, X1: 90, X2: 30, X3: 60, X4: 10}.Validate()
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
}

func TestRange_PositivePolarity(t *testing.T) {
	r, err := NewRange(8, 24, Positive)
	require.NoError(t, err)

	assert.Equal(t, 0.0, r.ScoreValue(8))
	assert.Equal(t, 0.0, r.ScoreValue(2))
	assert.Equal(t, 100.0, r.ScoreValue(24))
	assert.Equal(t, 100.0, r.ScoreValue(30))
	assert.InDelta(t, 50.0, r.ScoreValue(16), 1e-9)

	// Monotonically non-decreasing on the window.
	prev := -1.0
	for v := 8.0; v <= 24.0; v += 0.5 {
		s := r.ScoreValue(v)
		assert.GreaterOrEqual(t, s, prev)
		prev = s
	}
}

func TestRange_NegativePolarity(t *testing.T) {
	r, err := NewRange(8046.72, 80467.2, Negative)
	require.NoError(t, err)

	assert.Equal(t, 100.0, r.ScoreValue(8046.72))
	assert.Equal(t, 100.0, r.ScoreValue(100))
	assert.Equal(t, 0.0, r.ScoreValue(80467.2))
	assert.Equal(t, 0.0, r.ScoreValue(99999))

	prev := 101.0
	for v := 8046.72; v <= 80467.2; v += 5000 {
		s := r.ScoreValue(v)
		assert.LessOrEqual(t, s, prev)
		prev = s
	}
}

func TestRange_NilPropagation(t *testing.T) {
	r, err := NewRange(0, 0.55, Positive)
	require.NoError(t, err)

	assert.Nil(t, r.Score(nil))

	v := 0.2
	got := r.Score(&v)
	require.NotNil(t, got)
	assert.InDelta(t, 100*0.2/0.55, *got, 1e-9)
}

func TestNewRange_DegenerateWindow(t *testing.T) {
	_, err := NewRange(5, 5, Positive)
	require.Error(t, err)
	assert.True(t, IsDomainError(err))

	_, err = NewRange(10, 5, Negative)
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
}

func TestWindowFromValues(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	min, max, err := WindowFromValues([]*float64{f(3), nil, f(1), f(7), nil})
	require.NoError(t, err)
	assert.Equal(t, 1.0, min)
	assert.Equal(t, 7.0, max)

	_, _, err = WindowFromValues([]*float64{nil, nil})
	require.Error(t, err)
	assert.True(t, IsDomainError(err))

	_, _, err = WindowFromValues([]*float64{f(4), f(4)})
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
}
