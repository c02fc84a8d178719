package detect

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeWise2718/fish-scales-sub003/internal/annotation"
	"github.com/MikeWise2718/fish-scales-sub003/internal/calibration"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

func TestParseExplicitMeasurements(t *testing.T) {
	res, err := Parse(strings.NewReader(`{
		"tubercles": [
			{"x": 100, "y": 200, "diameter_px": 24, "circularity": 0.91},
			{"x": 150, "y": 210, "diameter_px": 22, "circularity": 0.88, "is_boundary": true}
		]
	}`))
	require.NoError(t, err)

	nodes, err := res.Tubercles()
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, 0, nodes[0].ID)
	assert.Equal(t, 100.0, nodes[0].Centroid.X)
	assert.Equal(t, 24.0, nodes[0].DiameterPx)
	assert.True(t, nodes[1].Boundary)
}

func TestParseDerivesFromOutline(t *testing.T) {
	// A regular 32-gon of radius 10 centered at (50, 60).
	var sb strings.Builder
	sb.WriteString(`{"tubercles": [{"outline": [`)
	for i := 0; i < 32; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		rad := float64(i) / 32 * 2 * math.Pi
		x := 50 + 10*math.Cos(rad)
		y := 60 + 10*math.Sin(rad)
		sb.WriteString(`{"x": ` + formatFloat(x) + `, "y": ` + formatFloat(y) + `}`)
	}
	sb.WriteString(`]}]}`)

	res, err := Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	nodes, err := res.Tubercles()
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	assert.InDelta(t, 50, nodes[0].Centroid.X, 1e-9)
	assert.InDelta(t, 60, nodes[0].Centroid.Y, 1e-9)
	assert.InDelta(t, 20, nodes[0].DiameterPx, 0.1, "equivalent diameter of a near-circle")
	assert.InDelta(t, 1.0, nodes[0].Circularity, 0.01)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func TestParseRejectsUnusableDetections(t *testing.T) {
	res, err := Parse(strings.NewReader(`{"tubercles": [{"diameter_px": 10}]}`))
	require.NoError(t, err)
	_, err = res.Tubercles()
	assert.ErrorContains(t, err, "neither a position nor an outline")

	res, err = Parse(strings.NewReader(`{"tubercles": [{"x": 1, "y": 2}]}`))
	require.NoError(t, err)
	_, err = res.Tubercles()
	assert.ErrorContains(t, err, "no usable diameter")
}

func TestImportReplacesSetContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"tubercles": [
			{"x": 10, "y": 10, "diameter_px": 20},
			{"x": 40, "y": 10, "diameter_px": 18}
		]
	}`), 0644))

	cal := calibration.New()
	require.NoError(t, cal.SetDirect(0.5))
	set := annotation.NewSet(0, "imported", cal)
	_, err := set.AddNode(geometry.NewPoint2D(99, 99), 5, 1, false)
	require.NoError(t, err)

	n, err := Import(path, set)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, set.NodeCount())
	assert.True(t, set.Dirty())
	assert.Zero(t, set.Log().UndoDepth())

	node, ok := set.Node(0)
	require.True(t, ok)
	assert.InDelta(t, 10.0, node.DiameterUm, 1e-9, "derived against the active calibration")
}
