// Package canvas provides the zoomable annotation canvas.
package canvas

import (
	"image/color"

	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

// Overlay is the drawable annotation state for one frame: tubercle markers,
// edges, and any in-progress picker preview. The window rebuilds it whenever
// the session changes; the canvas only renders it.
type Overlay struct {
	Markers []Marker
	Lines   []Line
	Preview *PreviewRect
}

// Marker is one tubercle drawn as a circle at its image-space centroid.
type Marker struct {
	Center   geometry.Point2D
	RadiusPx float64
	Label    string // node id, drawn beside the marker
	Color    color.RGBA
	Selected bool
}

// Line is an edge or measurement segment in image coordinates.
type Line struct {
	From, To  geometry.Point2D
	Color     color.RGBA
	Thickness int
}

// PreviewRect is the dashed live rectangle shown while picking a crop region.
type PreviewRect struct {
	Rect  geometry.Rect
	Color color.RGBA
}
