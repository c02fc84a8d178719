package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

func TestScreenImageRoundTrip(t *testing.T) {
	v := New()
	v.SetZoom(2.5)
	v.SetScroll(geometry.NewPoint2D(120, 80))

	img := v.ScreenToImage(geometry.NewPoint2D(200, 150))
	back := v.ImageToScreen(img)
	assert.InDelta(t, 200, back.X, 1e-9)
	assert.InDelta(t, 150, back.Y, 1e-9)
}

func TestZoomClamping(t *testing.T) {
	v := New()
	v.SetZoom(100)
	assert.Equal(t, MaxZoom, v.Zoom())
	v.SetZoom(0.001)
	assert.Equal(t, MinZoom, v.Zoom())
}

// Zooming anchored at a pivot keeps the image pixel under the pivot at the
// same screen position.
func TestZoomAtPreservesPivot(t *testing.T) {
	v := New()
	v.SetZoom(1.5)
	v.SetScroll(geometry.NewPoint2D(37, 91))

	pivot := geometry.NewPoint2D(250, 180)
	before := v.ScreenToImage(pivot)

	v.ZoomInAt(pivot)
	after := v.ScreenToImage(pivot)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)

	v.ZoomOutAt(pivot)
	v.ZoomOutAt(pivot)
	after = v.ScreenToImage(pivot)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestZoomToFit(t *testing.T) {
	v := New()
	v.SetScroll(geometry.NewPoint2D(50, 50))

	// 800x600 view, 2000x1000 image: limiting axis is width.
	v.ZoomToFit(800, 600, 2000, 1000)
	assert.InDelta(t, 800.0/2000.0*FitMargin, v.Zoom(), 1e-9)
	assert.Equal(t, geometry.Point2D{}, v.Scroll())

	// A tiny image would exceed MaxZoom; clamp.
	v.ZoomToFit(800, 600, 10, 10)
	assert.Equal(t, MaxZoom, v.Zoom())

	// Degenerate inputs leave the viewport unchanged.
	prev := v.Zoom()
	v.ZoomToFit(0, 600, 2000, 1000)
	assert.Equal(t, prev, v.Zoom())
}

func TestRotationRemap(t *testing.T) {
	right := RotationRemap(RotateRight, 100, 200)
	assert.Equal(t, geometry.NewPoint2D(179, 10), right(geometry.NewPoint2D(10, 20)))

	left := RotationRemap(RotateLeft, 100, 200)
	assert.Equal(t, geometry.NewPoint2D(20, 89), left(geometry.NewPoint2D(10, 20)))
}

func TestDirectionValid(t *testing.T) {
	assert.True(t, RotateLeft.Valid())
	assert.True(t, RotateRight.Valid())
	assert.False(t, Direction("up").Valid())
	assert.False(t, Direction("").Valid())
}

func TestRegionPickerHappyPath(t *testing.T) {
	rp := NewRegionPicker(1000, 1000)
	assert.Equal(t, PhaseIdle, rp.Phase())

	rp.Begin()
	assert.Equal(t, PhaseAwaitFirst, rp.Phase())

	_, done, err := rp.Click(geometry.NewPoint2D(300, 400))
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, PhaseAwaitSecond, rp.Phase())

	rp.Move(geometry.NewPoint2D(500, 500))
	preview, ok := rp.Preview()
	require.True(t, ok)
	assert.Equal(t, geometry.NewRect(300, 400, 200, 100), preview)

	rect, done, err := rp.Click(geometry.NewPoint2D(100, 150))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, PhaseComplete, rp.Phase())
	// Normalized: corners in either order give non-negative extents.
	assert.Equal(t, geometry.NewRect(100, 150, 200, 250), rect)
}

// A 5x5 selection on a 1000x1000 image is below the 10x10 threshold: the
// selection is rejected and the machine resets to awaiting the first corner.
func TestRegionPickerRejectsTinySelection(t *testing.T) {
	rp := NewRegionPicker(1000, 1000)
	rp.Begin()

	_, _, err := rp.Click(geometry.NewPoint2D(100, 100))
	require.NoError(t, err)
	_, done, err := rp.Click(geometry.NewPoint2D(105, 105))
	assert.ErrorIs(t, err, ErrSelectionTooSmall)
	assert.False(t, done)
	assert.Equal(t, PhaseAwaitFirst, rp.Phase())

	// The machine is immediately usable again.
	_, _, err = rp.Click(geometry.NewPoint2D(0, 0))
	require.NoError(t, err)
	rect, done, err := rp.Click(geometry.NewPoint2D(50, 50))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, geometry.NewRect(0, 0, 50, 50), rect)
}

func TestRegionPickerClampsToImage(t *testing.T) {
	rp := NewRegionPicker(200, 100)
	rp.Begin()
	_, _, err := rp.Click(geometry.NewPoint2D(150, 50))
	require.NoError(t, err)
	rect, done, err := rp.Click(geometry.NewPoint2D(400, 300))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, geometry.NewRect(150, 50, 50, 50), rect)
}

func TestRegionPickerCancel(t *testing.T) {
	rp := NewRegionPicker(1000, 1000)
	rp.Begin()
	_, _, err := rp.Click(geometry.NewPoint2D(10, 10))
	require.NoError(t, err)

	rp.Cancel()
	assert.Equal(t, PhaseIdle, rp.Phase())
	_, ok := rp.Preview()
	assert.False(t, ok)

	// Clicks while idle are ignored.
	_, done, err := rp.Click(geometry.NewPoint2D(50, 50))
	require.NoError(t, err)
	assert.False(t, done)
}

func TestLinePicker(t *testing.T) {
	lp := NewLinePicker()
	lp.Begin()

	_, done := lp.Click(geometry.NewPoint2D(10, 10))
	assert.False(t, done)

	lp.Move(geometry.NewPoint2D(40, 50))
	start, end, ok := lp.Segment()
	require.True(t, ok)
	assert.Equal(t, geometry.NewPoint2D(10, 10), start)
	assert.Equal(t, geometry.NewPoint2D(40, 50), end)

	dist, done := lp.Click(geometry.NewPoint2D(13, 14))
	assert.True(t, done)
	assert.InDelta(t, 5.0, dist, 1e-9)
	assert.Equal(t, PhaseComplete, lp.Phase())
}

func TestLinePickerCancel(t *testing.T) {
	lp := NewLinePicker()
	lp.Begin()
	lp.Click(geometry.NewPoint2D(10, 10))
	lp.Cancel()
	assert.Equal(t, PhaseIdle, lp.Phase())

	_, done := lp.Click(geometry.NewPoint2D(99, 99))
	assert.False(t, done)
}
