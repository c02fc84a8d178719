package annotfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeWise2718/fish-scales-sub003/internal/annotation"
	"github.com/MikeWise2718/fish-scales-sub003/internal/calibration"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

func buildSession(t *testing.T) (*annotation.Registry, *calibration.Model) {
	t.Helper()
	cal := calibration.New()
	require.NoError(t, cal.SetFromScaleBar(35, 250))

	reg := annotation.NewRegistry(cal)
	first := reg.NewSet("first")
	a, err := first.AddNode(geometry.NewPoint2D(10, 20), 30, 0.9, false)
	require.NoError(t, err)
	b, err := first.AddNode(geometry.NewPoint2D(110, 20), 28, 0.85, true)
	require.NoError(t, err)
	_, err = first.AddEdge(a.ID, b.ID)
	require.NoError(t, err)

	second := reg.NewSet("second")
	_, err = second.AddNode(geometry.NewPoint2D(5, 5), 12, 1, false)
	require.NoError(t, err)
	require.NoError(t, reg.SetActive(first.ID))
	return reg, cal
}

func TestSaveLoadRoundTrip(t *testing.T) {
	reg, cal := buildSession(t)
	path := filepath.Join(t.TempDir(), "scale.annot.json")

	require.NoError(t, Save(path, reg, cal, "scale.tif"))
	for _, s := range reg.Sets() {
		assert.False(t, s.Dirty(), "save clears the dirty flag")
	}

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, f.Version)
	assert.Equal(t, "scale.tif", f.ImagePath)
	require.NotNil(t, f.Calibration)
	assert.InDelta(t, 0.14, f.Calibration.UmPerPixel, 1e-9)
	assert.Equal(t, string(calibration.MethodScaleBar), f.Calibration.Method)

	cal2 := calibration.New()
	reg2 := annotation.NewRegistry(cal2)
	require.NoError(t, f.Apply(reg2, cal2))

	require.Len(t, reg2.Sets(), 2)
	active := reg2.Active()
	require.NotNil(t, active)
	assert.Equal(t, "first", active.Name)
	assert.Equal(t, 2, active.NodeCount())
	assert.Equal(t, 1, active.EdgeCount())
	assert.False(t, active.Dirty())
	assert.Zero(t, active.Log().UndoDepth(), "history does not survive a reload")

	// Derived values recomputed against the loaded calibration.
	n, ok := active.Node(0)
	require.True(t, ok)
	assert.InDelta(t, 30*0.14, n.DiameterUm, 1e-9)

	// New sets after a restore get fresh ids.
	added := reg2.NewSet("third")
	assert.Equal(t, 2, added.ID)
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "sets": []}`), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported annotation file version")
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyDropsDanglingEdges(t *testing.T) {
	f := &File{
		Version:   FormatVersion,
		ActiveSet: 0,
		Sets: []SetRecord{{
			ID:   0,
			Name: "only",
			Nodes: []annotation.Tubercle{
				{ID: 1, Centroid: geometry.NewPoint2D(0, 0), DiameterPx: 10},
			},
			Edges: []annotation.Edge{{ID1: 1, ID2: 7}},
		}},
	}
	cal := calibration.New()
	reg := annotation.NewRegistry(cal)
	require.NoError(t, f.Apply(reg, cal))

	only := reg.Active()
	require.NotNil(t, only)
	assert.Equal(t, 1, only.NodeCount())
	assert.Zero(t, only.EdgeCount())
}

func TestApplyRejectsUnknownActiveSet(t *testing.T) {
	f := &File{Version: FormatVersion, ActiveSet: 5}
	cal := calibration.New()
	reg := annotation.NewRegistry(cal)
	assert.ErrorIs(t, f.Apply(reg, cal), annotation.ErrSetNotFound)
}
