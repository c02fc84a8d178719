// Package scaleimage provides loading and bookkeeping for the micrograph
// being annotated.
package scaleimage

import (
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// micrometers per inch, for converting TIFF resolution metadata.
const umPerInch = 25400.0

// Document is the image under annotation. Annotation coordinates are stored
// in this image's pixel space; replacing the pixels (crop/rotate) goes
// through the session so stored coordinates stay consistent.
type Document struct {
	Path  string      // original file path
	Image image.Image // loaded pixel data

	// EstimatedUmPerPx is a calibration hint recovered from TIFF resolution
	// metadata, 0 when unavailable. It seeds an estimate only and never
	// overrides a real calibration.
	EstimatedUmPerPx float64
}

// Load reads an image from disk.
func Load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	doc := &Document{Path: path, Image: img}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tiff" || ext == ".tif" {
		if dpi, err := extractTIFFDPI(path); err == nil && dpi > 0 {
			doc.EstimatedUmPerPx = umPerInch / dpi
		}
	}

	return doc, nil
}

// FromImage wraps already-decoded pixels, as returned by the image
// processing collaborator.
func FromImage(img image.Image, path string) *Document {
	return &Document{Path: path, Image: img}
}

// Width returns the image width in pixels.
func (d *Document) Width() int {
	if d.Image == nil {
		return 0
	}
	return d.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (d *Document) Height() int {
	if d.Image == nil {
		return 0
	}
	return d.Image.Bounds().Dy()
}

// Size returns the image dimensions.
func (d *Document) Size() geometry.Size {
	return geometry.NewSize(float64(d.Width()), float64(d.Height()))
}

// extractTIFFDPI reads the resolution tags from a TIFF header. Micrographs
// exported by acquisition software often carry the scanner resolution here.
func extractTIFFDPI(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	header := make([]byte, 8)
	if _, err := file.Read(header); err != nil {
		return 0, err
	}

	var byteOrder binary.ByteOrder
	if header[0] == 'I' && header[1] == 'I' {
		byteOrder = binary.LittleEndian
	} else if header[0] == 'M' && header[1] == 'M' {
		byteOrder = binary.BigEndian
	} else {
		return 0, fmt.Errorf("not a valid TIFF file")
	}

	ifdOffset := byteOrder.Uint32(header[4:8])
	if _, err := file.Seek(int64(ifdOffset), 0); err != nil {
		return 0, err
	}

	var numEntries uint16
	if err := binary.Read(file, byteOrder, &numEntries); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	var resUnit uint16 = 2 // inches unless stated otherwise

	for i := uint16(0); i < numEntries; i++ {
		entry := make([]byte, 12)
		if _, err := file.Read(entry); err != nil {
			return 0, err
		}

		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])
		valueOffset := byteOrder.Uint32(entry[8:12])

		switch tag {
		case 282: // XResolution
			if fieldType == 5 { // RATIONAL
				xRes = readTIFFRational(file, int64(valueOffset), byteOrder)
			}
		case 283: // YResolution
			if fieldType == 5 {
				yRes = readTIFFRational(file, int64(valueOffset), byteOrder)
			}
		case 296: // ResolutionUnit
			if fieldType == 3 { // SHORT
				resUnit = uint16(valueOffset)
			}
		}
	}

	if xRes == 0 && yRes == 0 {
		return 0, fmt.Errorf("no resolution tags found")
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if resUnit == 3 { // per centimeter
		dpi *= 2.54
	}
	if dpi == 0 {
		return 0, fmt.Errorf("DPI is zero")
	}
	return dpi, nil
}

// readTIFFRational reads a RATIONAL value (two uint32s) from a TIFF file.
func readTIFFRational(file *os.File, offset int64, byteOrder binary.ByteOrder) float64 {
	currentPos, _ := file.Seek(0, 1)
	defer file.Seek(currentPos, 0)

	file.Seek(offset, 0)
	var num, denom uint32
	binary.Read(file, byteOrder, &num)
	binary.Read(file, byteOrder, &denom)

	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
