// Package calibration converts pixel distances to physical distances and
// tracks how the conversion factor was obtained.
package calibration

import (
	"errors"
	"math"
	"sync"
)

// FallbackUmPerPixel is used for physical-unit conversion before any real
// calibration has been set. Values derived from it are estimates and must be
// presented as such.
const FallbackUmPerPixel = 0.14

// ErrInvalidInput rejects non-positive or non-finite calibration values.
var ErrInvalidInput = errors.New("calibration: value must be positive and finite")

// Method records the provenance of the calibration factor.
type Method string

const (
	MethodEstimate Method = "estimate"
	MethodScaleBar Method = "scale_bar"
	MethodDirect   Method = "direct"
	MethodMeasure  Method = "measure"
	MethodLoaded   Method = "loaded"
)

// Model holds the active pixel-to-micrometer conversion for one image
// session. Exactly one Model is active per session; derived physical values
// must be recomputed whenever it changes. Methods are safe for concurrent
// use; change listeners run outside the lock and may read the model.
type Model struct {
	mu        sync.RWMutex
	umPerPx   float64
	method    Method
	set       bool
	listeners []func(*Model)
}

// New returns an uncalibrated model. Conversions fall back to
// FallbackUmPerPixel until a real calibration is set.
func New() *Model {
	return &Model{}
}

// OnChange registers a listener invoked after every successful mutation.
func (m *Model) OnChange(fn func(*Model)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Model) notify() {
	m.mu.RLock()
	listeners := make([]func(*Model), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(m)
	}
}

func validPositive(values ...float64) bool {
	for _, v := range values {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// SetFromScaleBar derives the factor from a scale bar of known physical
// length drawn over a measured pixel length.
func (m *Model) SetFromScaleBar(umLength, pixelLength float64) error {
	if !validPositive(umLength, pixelLength) {
		return ErrInvalidInput
	}
	m.apply(umLength/pixelLength, MethodScaleBar)
	return nil
}

// SetDirect sets the factor directly.
func (m *Model) SetDirect(umPerPixel float64) error {
	if !validPositive(umPerPixel) {
		return ErrInvalidInput
	}
	m.apply(umPerPixel, MethodDirect)
	return nil
}

// SetFromMeasurement derives the factor from a measured pixel distance whose
// physical length is known.
func (m *Model) SetFromMeasurement(pixelDistance, umLength float64) error {
	if !validPositive(pixelDistance, umLength) {
		return ErrInvalidInput
	}
	m.apply(umLength/pixelDistance, MethodMeasure)
	return nil
}

// Load restores a calibration from persisted annotation data. An empty
// method defaults to MethodLoaded.
func (m *Model) Load(umPerPixel float64, method Method) error {
	if !validPositive(umPerPixel) {
		return ErrInvalidInput
	}
	if method == "" {
		method = MethodLoaded
	}
	m.apply(umPerPixel, method)
	return nil
}

func (m *Model) apply(umPerPx float64, method Method) {
	m.mu.Lock()
	m.umPerPx = umPerPx
	m.method = method
	m.set = true
	m.mu.Unlock()
	m.notify()
}

// Calibrated reports whether a real calibration has been set, as opposed to
// the fallback estimate.
func (m *Model) Calibrated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set
}

// UmPerPixel returns the active conversion factor, falling back to
// FallbackUmPerPixel when uncalibrated.
func (m *Model) UmPerPixel() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return FallbackUmPerPixel
	}
	return m.umPerPx
}

// Method returns the provenance of the active factor; MethodEstimate while
// uncalibrated.
func (m *Model) Method() Method {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return MethodEstimate
	}
	return m.method
}

// ToPhysical converts a pixel distance to micrometers.
func (m *Model) ToPhysical(pixels float64) float64 {
	return pixels * m.UmPerPixel()
}

// ToPixels converts a micrometer distance to pixels.
func (m *Model) ToPixels(um float64) float64 {
	return um / m.UmPerPixel()
}
