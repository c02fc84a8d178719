// Package annotation holds the editable graph of measured features for one
// image: tubercle nodes, inter-tubercle edges, and the per-set undo history.
package annotation

import (
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

// Tubercle is one annotated point feature on the scale image. Positions are
// stored in image-pixel space; DiameterUm is derived from DiameterPx and the
// active calibration.
type Tubercle struct {
	ID          int              `json:"id"`
	Centroid    geometry.Point2D `json:"centroid"`
	DiameterPx  float64          `json:"diameter_px"`
	DiameterUm  float64          `json:"diameter_um"`
	Circularity float64          `json:"circularity"`
	Boundary    bool             `json:"is_boundary"`
}

// Radius returns the pixel radius.
func (t Tubercle) Radius() float64 {
	return t.DiameterPx / 2
}

// Edge records a spatial relationship between two tubercles. The endpoint
// pair is unordered; ID1 < ID2 always holds after normalization. Both
// distances are derived from geometry plus calibration and are recomputed
// whenever either endpoint moves or the calibration changes.
type Edge struct {
	ID1              int     `json:"id1"`
	ID2              int     `json:"id2"`
	CenterDistanceUm float64 `json:"center_distance_um"`
	EdgeDistanceUm   float64 `json:"edge_distance_um"`
}

// pairKey identifies an unordered endpoint pair.
type pairKey struct {
	lo, hi int
}

func makePair(id1, id2 int) pairKey {
	if id1 > id2 {
		id1, id2 = id2, id1
	}
	return pairKey{lo: id1, hi: id2}
}

// Touches reports whether the edge is incident to the given node id.
func (e Edge) Touches(id int) bool {
	return e.ID1 == id || e.ID2 == id
}

func (e Edge) key() pairKey {
	return makePair(e.ID1, e.ID2)
}
