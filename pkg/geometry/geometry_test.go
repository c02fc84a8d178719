package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotatedRight(t *testing.T) {
	// 100x200 image: (10, 20) -> (200-1-20, 10)
	p := NewPoint2D(10, 20).RotatedRight(100, 200)
	assert.Equal(t, Point2D{X: 179, Y: 10}, p)
}

func TestRotatedLeft(t *testing.T) {
	// 100x200 image: (10, 20) -> (20, 100-1-10)
	p := NewPoint2D(10, 20).RotatedLeft(100, 200)
	assert.Equal(t, Point2D{X: 20, Y: 89}, p)
}

func TestRotationRoundTrip(t *testing.T) {
	// Right then left on the rotated dimensions lands back on the original.
	w, h := 640.0, 480.0
	p := NewPoint2D(123, 45)
	back := p.RotatedRight(w, h).RotatedLeft(h, w)
	assert.InDelta(t, p.X, back.X, 1e-12)
	assert.InDelta(t, p.Y, back.Y, 1e-12)
}

func TestRectFromCorners(t *testing.T) {
	r := RectFromCorners(NewPoint2D(50, 80), NewPoint2D(10, 20))
	assert.Equal(t, Rect{X: 10, Y: 20, Width: 40, Height: 60}, r)
}

func TestRectClampTo(t *testing.T) {
	r := NewRect(-10, -5, 50, 30).ClampTo(25, 20)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 25, Height: 20}, r)

	r = NewRect(30, 30, 10, 10).ClampTo(25, 20)
	assert.Zero(t, r.Width)
	assert.Zero(t, r.Height)
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)
	assert.True(t, r.Contains(NewPoint2D(10, 10)))
	assert.True(t, r.Contains(NewPoint2D(30, 30)))
	assert.False(t, r.Contains(NewPoint2D(30.001, 30)))
}

func TestCircularity(t *testing.T) {
	// A regular 64-gon approximates a circle.
	circle := regularPolygon(64, 10)
	assert.InDelta(t, 1.0, Circularity(circle), 0.01)

	// A square scores pi/4.
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assert.InDelta(t, math.Pi/4, Circularity(square), 1e-9)

	assert.Zero(t, Circularity(nil))
	assert.Zero(t, Circularity([]Point2D{{1, 1}, {2, 2}}))
}

func TestEquivalentDiameter(t *testing.T) {
	circle := regularPolygon(256, 7)
	assert.InDelta(t, 14.0, EquivalentDiameter(circle), 0.01)
}

func regularPolygon(n int, radius float64) []Point2D {
	pts := make([]Point2D, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point2D{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}
