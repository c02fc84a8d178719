package calibration

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleBarCalibration(t *testing.T) {
	m := New()
	require.NoError(t, m.SetFromScaleBar(35, 250))

	assert.InDelta(t, 0.14, m.UmPerPixel(), 1e-12)
	assert.Equal(t, MethodScaleBar, m.Method())
	assert.True(t, m.Calibrated())

	// A node with stored pixel diameter 50 reports 7.0 um.
	assert.InDelta(t, 7.0, m.ToPhysical(50), 1e-12)
}

func TestFallbackEstimate(t *testing.T) {
	m := New()
	assert.False(t, m.Calibrated())
	assert.Equal(t, MethodEstimate, m.Method())
	assert.InDelta(t, FallbackUmPerPixel, m.UmPerPixel(), 1e-12)
	assert.InDelta(t, 14.0, m.ToPhysical(100), 1e-12)
}

func TestInvalidInputs(t *testing.T) {
	m := New()

	assert.ErrorIs(t, m.SetFromScaleBar(0, 250), ErrInvalidInput)
	assert.ErrorIs(t, m.SetFromScaleBar(35, -1), ErrInvalidInput)
	assert.ErrorIs(t, m.SetFromScaleBar(math.NaN(), 250), ErrInvalidInput)
	assert.ErrorIs(t, m.SetFromScaleBar(math.Inf(1), 250), ErrInvalidInput)
	assert.ErrorIs(t, m.SetDirect(0), ErrInvalidInput)
	assert.ErrorIs(t, m.SetFromMeasurement(-5, 10), ErrInvalidInput)
	assert.ErrorIs(t, m.Load(0, MethodDirect), ErrInvalidInput)

	// Failed mutations leave the model untouched.
	assert.False(t, m.Calibrated())
	assert.Equal(t, MethodEstimate, m.Method())
}

func TestSetFromMeasurement(t *testing.T) {
	m := New()
	require.NoError(t, m.SetFromMeasurement(200, 50))
	assert.InDelta(t, 0.25, m.UmPerPixel(), 1e-12)
	assert.Equal(t, MethodMeasure, m.Method())
}

func TestLoadDefaultsMethod(t *testing.T) {
	m := New()
	require.NoError(t, m.Load(0.21, ""))
	assert.Equal(t, MethodLoaded, m.Method())

	require.NoError(t, m.Load(0.33, MethodScaleBar))
	assert.Equal(t, MethodScaleBar, m.Method())
}

func TestChangeNotification(t *testing.T) {
	m := New()
	var calls int
	m.OnChange(func(*Model) { calls++ })

	require.NoError(t, m.SetDirect(0.5))
	assert.Equal(t, 1, calls)

	// Rejected input must not notify.
	assert.Error(t, m.SetDirect(-1))
	assert.Equal(t, 1, calls)
}

// TestConversionRoundTrip verifies toPixels(toPhysical(v)) == v within
// floating-point tolerance for any positive value and calibration state.
func TestConversionRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("round trip with real calibration", prop.ForAll(
		func(v, umPerPx float64) bool {
			m := New()
			if err := m.SetDirect(umPerPx); err != nil {
				return true
			}
			back := m.ToPixels(m.ToPhysical(v))
			return math.Abs(back-v) <= 1e-9*math.Max(1, v)
		},
		gen.Float64Range(1e-6, 1e6),
		gen.Float64Range(1e-6, 1e3),
	))

	properties.Property("round trip with fallback estimate", prop.ForAll(
		func(v float64) bool {
			m := New()
			back := m.ToPixels(m.ToPhysical(v))
			return math.Abs(back-v) <= 1e-9*math.Max(1, v)
		},
		gen.Float64Range(1e-6, 1e6),
	))

	properties.TestingRun(t)
}
