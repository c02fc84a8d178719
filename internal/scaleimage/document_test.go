package scaleimage

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{200, 10, 10, 255})
	path := filepath.Join(t.TempDir(), "scale.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadPNG(t *testing.T) {
	path := writeTestPNG(t, 64, 48)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, 64, doc.Width())
	assert.Equal(t, 48, doc.Height())
	assert.Zero(t, doc.EstimatedUmPerPx, "PNG carries no resolution hint")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 20))
	doc := FromImage(img, "mem.png")

	assert.Equal(t, 30, doc.Width())
	assert.Equal(t, 20, doc.Height())
	assert.Equal(t, 30.0, doc.Size().Width)
	assert.Equal(t, 20.0, doc.Size().Height)
}

func TestIsSupportedFormat(t *testing.T) {
	for _, path := range []string{"a.png", "b.JPG", "c.jpeg", "d.tif", "e.TIFF"} {
		assert.True(t, IsSupportedFormat(path), path)
	}
	for _, path := range []string{"a.bmp", "b.gif", "noext", "c.png.bak"} {
		assert.False(t, IsSupportedFormat(path), path)
	}
}

// buildTIFFHeader writes a minimal little-endian TIFF IFD carrying only the
// resolution tags, enough for the tag reader without being a decodable image.
func buildTIFFHeader(dpi uint32, unit uint16) []byte {
	le := binary.LittleEndian
	buf := &bytes.Buffer{}
	buf.WriteString("II")
	binary.Write(buf, le, uint16(42))
	binary.Write(buf, le, uint32(8)) // first IFD offset

	binary.Write(buf, le, uint16(3)) // entry count
	writeEntry := func(tag, typ uint16, value uint32) {
		binary.Write(buf, le, tag)
		binary.Write(buf, le, typ)
		binary.Write(buf, le, uint32(1))
		binary.Write(buf, le, value)
	}
	writeEntry(282, 5, 50) // XResolution, rational stored at offset 50
	writeEntry(283, 5, 58) // YResolution, rational stored at offset 58
	writeEntry(296, 3, uint32(unit))
	binary.Write(buf, le, uint32(0)) // no next IFD

	for i := 0; i < 2; i++ {
		binary.Write(buf, le, dpi)
		binary.Write(buf, le, uint32(1))
	}
	return buf.Bytes()
}

func TestExtractTIFFDPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "res.tif")
	require.NoError(t, os.WriteFile(path, buildTIFFHeader(300, 2), 0644))

	dpi, err := extractTIFFDPI(path)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, dpi, 1e-9)
}

func TestExtractTIFFDPIPerCentimeter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rescm.tif")
	require.NoError(t, os.WriteFile(path, buildTIFFHeader(300, 3), 0644))

	dpi, err := extractTIFFDPI(path)
	require.NoError(t, err)
	assert.InDelta(t, 762.0, dpi, 1e-9)
}

func TestExtractTIFFDPIRejectsNonTIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.tif")
	require.NoError(t, os.WriteFile(path, []byte("XXjunkjunk"), 0644))

	_, err := extractTIFFDPI(path)
	assert.Error(t, err)
}
