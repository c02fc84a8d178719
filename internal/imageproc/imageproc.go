// Package imageproc mutates the micrograph pixels: crop, 90-degree
// rotation, and automated cropping to the scale region. It only touches
// pixels; the session is responsible for keeping annotation coordinates
// consistent with the result.
package imageproc

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/MikeWise2718/fish-scales-sub003/internal/viewport"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

// autocropMargin is the padding, in pixels, kept around the detected
// foreground region.
const autocropMargin = 12

// Crop extracts a rectangular region. The rectangle must lie within the
// image and have positive extents.
func Crop(img image.Image, rect geometry.RectInt) (image.Image, error) {
	bounds := img.Bounds()
	if rect.Width <= 0 || rect.Height <= 0 {
		return nil, fmt.Errorf("invalid crop region: width and height must be positive")
	}
	if rect.X < 0 || rect.Y < 0 ||
		rect.X+rect.Width > bounds.Dx() || rect.Y+rect.Height > bounds.Dy() {
		return nil, fmt.Errorf("crop region (%d,%d,%dx%d) outside image bounds %dx%d",
			rect.X, rect.Y, rect.Width, rect.Height, bounds.Dx(), bounds.Dy())
	}
	cropped := imaging.Crop(img, image.Rect(
		bounds.Min.X+rect.X,
		bounds.Min.Y+rect.Y,
		bounds.Min.X+rect.X+rect.Width,
		bounds.Min.Y+rect.Y+rect.Height,
	))
	return cropped, nil
}

// Rotate turns the image a quarter-turn in the given direction.
func Rotate(img image.Image, dir viewport.Direction) (image.Image, error) {
	switch dir {
	case viewport.RotateRight:
		// imaging rotates counter-clockwise; 270 CCW == 90 CW.
		return imaging.Rotate270(img), nil
	case viewport.RotateLeft:
		return imaging.Rotate90(img), nil
	default:
		return nil, fmt.Errorf("unknown rotate direction %q", dir)
	}
}

// Autocrop finds the scale region (assumed brighter than the slide
// background), pads it, and crops to it. Returns the cropped image and the
// region used, in the original image's coordinates.
func Autocrop(img image.Image) (image.Image, geometry.RectInt, error) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, geometry.RectInt{}, fmt.Errorf("empty image")
	}

	mask := segment.Threshold(img, meanLuminance(img))

	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	mb := mask.Bounds()
	for y := mb.Min.Y; y < mb.Max.Y; y++ {
		for x := mb.Min.X; x < mb.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if minX > maxX || minY > maxY {
		return nil, geometry.RectInt{}, fmt.Errorf("no foreground region found")
	}

	region := geometry.NewRect(
		float64(minX-bounds.Min.X-autocropMargin),
		float64(minY-bounds.Min.Y-autocropMargin),
		float64(maxX-minX+1+2*autocropMargin),
		float64(maxY-minY+1+2*autocropMargin),
	).ClampTo(float64(bounds.Dx()), float64(bounds.Dy())).ToInt()

	cropped, err := Crop(img, region)
	if err != nil {
		return nil, geometry.RectInt{}, err
	}
	return cropped, region, nil
}

// meanLuminance returns the average gray level, used as the foreground
// threshold.
func meanLuminance(img image.Image) uint8 {
	bounds := img.Bounds()
	var sum, count uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			sum += uint64(g.Y)
			count++
		}
	}
	if count == 0 {
		return 128
	}
	return uint8(sum / count)
}
