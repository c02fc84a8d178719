// Package detect imports tubercle detections produced by an external
// segmentation pipeline. Detections arrive as JSON; missing measurements are
// derived from the outline polygon when one is present.
package detect

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MikeWise2718/fish-scales-sub003/internal/annotation"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

// Detection is one detected tubercle as emitted by the pipeline. Centroid,
// diameter, and circularity may be omitted when an outline is given.
type Detection struct {
	X           *float64           `json:"x,omitempty"`
	Y           *float64           `json:"y,omitempty"`
	DiameterPx  float64            `json:"diameter_px,omitempty"`
	Circularity float64            `json:"circularity,omitempty"`
	Boundary    bool               `json:"is_boundary,omitempty"`
	Outline     []geometry.Point2D `json:"outline,omitempty"`
}

// Result is the top-level detection document.
type Result struct {
	Detections []Detection `json:"tubercles"`
}

// Parse decodes a detection document.
func Parse(r io.Reader) (*Result, error) {
	var res Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to parse detection data: %w", err)
	}
	return &res, nil
}

// ParseFile decodes a detection document from disk.
func ParseFile(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open detection file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Tubercles converts the detections into annotation nodes with sequential
// ids starting at 0. Missing measurements are derived from the outline;
// detections with neither an explicit position nor an outline are rejected.
func (r *Result) Tubercles() ([]annotation.Tubercle, error) {
	out := make([]annotation.Tubercle, 0, len(r.Detections))
	for i, d := range r.Detections {
		t := annotation.Tubercle{
			ID:          i,
			DiameterPx:  d.DiameterPx,
			Circularity: d.Circularity,
			Boundary:    d.Boundary,
		}
		switch {
		case d.X != nil && d.Y != nil:
			t.Centroid = geometry.NewPoint2D(*d.X, *d.Y)
		case len(d.Outline) >= 3:
			t.Centroid = geometry.Centroid(d.Outline)
		default:
			return nil, fmt.Errorf("detection %d has neither a position nor an outline", i)
		}
		if len(d.Outline) >= 3 {
			if t.DiameterPx == 0 {
				t.DiameterPx = geometry.EquivalentDiameter(d.Outline)
			}
			if t.Circularity == 0 {
				t.Circularity = geometry.Circularity(d.Outline)
			}
		}
		if t.DiameterPx <= 0 {
			return nil, fmt.Errorf("detection %d has no usable diameter", i)
		}
		out = append(out, t)
	}
	return out, nil
}

// Import replaces the set's content with the detections. The set's history is
// discarded; derived values are computed against the active calibration.
func Import(path string, set *annotation.Set) (int, error) {
	res, err := ParseFile(path)
	if err != nil {
		return 0, err
	}
	nodes, err := res.Tubercles()
	if err != nil {
		return 0, err
	}
	set.Restore(nodes, nil)
	set.MarkDirty()
	return len(nodes), nil
}
