// Package viewport provides the pure screen/image coordinate transform for
// the canvas (zoom, pan, zoom-to-fit) plus the click-driven interaction
// state machines for crop selection and scale-bar measurement. Nothing in
// this package touches a rendering surface.
package viewport

import (
	"math"

	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

const (
	MinZoom   = 0.1
	MaxZoom   = 10.0
	ZoomStep  = 1.25
	FitMargin = 0.95
)

// Viewport maps between screen-space points (relative to the visible canvas
// origin) and image-pixel space under the current zoom and scroll offset:
// image = (screen + scroll) / zoom.
type Viewport struct {
	zoom   float64
	scroll geometry.Point2D
}

// New returns a viewport at 1:1 zoom with no scroll offset.
func New() *Viewport {
	return &Viewport{zoom: 1.0}
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// Scroll returns the current scroll offset in screen space.
func (v *Viewport) Scroll() geometry.Point2D {
	return v.scroll
}

// SetScroll sets the scroll offset.
func (v *Viewport) SetScroll(offset geometry.Point2D) {
	v.scroll = offset
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(zoom float64) {
	v.zoom = clampZoom(zoom)
}

// ScreenToImage converts a screen-space point to image-pixel space.
func (v *Viewport) ScreenToImage(p geometry.Point2D) geometry.Point2D {
	return p.Add(v.scroll).Scale(1 / v.zoom)
}

// ImageToScreen converts an image-pixel point to screen space.
func (v *Viewport) ImageToScreen(p geometry.Point2D) geometry.Point2D {
	return p.Scale(v.zoom).Sub(v.scroll)
}

// ZoomAt changes the zoom factor anchored at a screen-space pivot: the image
// pixel under the pivot stays under the same screen position. The image
// coordinate is computed before the zoom change, then the new offset is
// solved from image*zoom' - pivot.
func (v *Viewport) ZoomAt(pivot geometry.Point2D, zoom float64) {
	anchor := v.ScreenToImage(pivot)
	v.zoom = clampZoom(zoom)
	v.scroll = anchor.Scale(v.zoom).Sub(pivot)
}

// ZoomInAt and ZoomOutAt step the zoom by ZoomStep around a pivot.
func (v *Viewport) ZoomInAt(pivot geometry.Point2D) {
	v.ZoomAt(pivot, v.zoom*ZoomStep)
}

// ZoomOutAt steps the zoom down by ZoomStep around a pivot.
func (v *Viewport) ZoomOutAt(pivot geometry.Point2D) {
	v.ZoomAt(pivot, v.zoom/ZoomStep)
}

// ZoomToFit chooses the zoom that fits the whole image inside the view with
// a small margin and resets the scroll offset to the origin.
func (v *Viewport) ZoomToFit(viewW, viewH, imageW, imageH float64) {
	if viewW <= 0 || viewH <= 0 || imageW <= 0 || imageH <= 0 {
		return
	}
	zoom := math.Min(viewW/imageW, viewH/imageH) * FitMargin
	v.zoom = clampZoom(zoom)
	v.scroll = geometry.Point2D{}
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Direction selects a 90-degree rotation step.
type Direction string

const (
	RotateLeft  Direction = "left"
	RotateRight Direction = "right"
)

// Valid reports whether the direction is one of the two rotation steps.
func (d Direction) Valid() bool {
	return d == RotateLeft || d == RotateRight
}

// RotationRemap returns the coordinate remapping for a quarter-turn of an
// image with the given dimensions, suitable for Registry.ApplyRemap.
func RotationRemap(dir Direction, imageW, imageH float64) func(geometry.Point2D) geometry.Point2D {
	if dir == RotateRight {
		return func(p geometry.Point2D) geometry.Point2D {
			return p.RotatedRight(imageW, imageH)
		}
	}
	return func(p geometry.Point2D) geometry.Point2D {
		return p.RotatedLeft(imageW, imageH)
	}
}
