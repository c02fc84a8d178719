package canvas

import (
	"image"
	"image/color"

	"github.com/MikeWise2718/fish-scales-sub003/pkg/colorutil"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9, used for marker
// id labels. Each digit is 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// draw is the raster drawing function: base image first, overlay on top. It
// only reads canvas state; re-fitting on resize happens in the renderer's
// Layout via CheckResize.
func (ac *AnnotCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if ac.img != nil {
		ac.blitImage(output, w, h)
	}
	if ac.overlay != nil {
		ac.drawOverlay(output, ac.overlay)
	}
	return output
}

// blitImage scales the base image onto the output with nearest-neighbor
// sampling.
func (ac *AnnotCanvas) blitImage(output *image.RGBA, w, h int) {
	src := ac.img
	srcBounds := src.Bounds()
	zoom := ac.vp.Zoom()

	for y := 0; y < h; y++ {
		srcY := int(float64(y)/zoom) + srcBounds.Min.Y
		if srcY < srcBounds.Min.Y || srcY >= srcBounds.Max.Y {
			continue
		}
		for x := 0; x < w; x++ {
			srcX := int(float64(x)/zoom) + srcBounds.Min.X
			if srcX < srcBounds.Min.X || srcX >= srcBounds.Max.X {
				continue
			}
			output.Set(x, y, src.At(srcX, srcY))
		}
	}
}

func (ac *AnnotCanvas) drawOverlay(output *image.RGBA, overlay *Overlay) {
	zoom := ac.vp.Zoom()

	for _, line := range overlay.Lines {
		thickness := line.Thickness
		if thickness <= 0 {
			thickness = 2
		}
		ac.drawLine(output,
			int(line.From.X*zoom), int(line.From.Y*zoom),
			int(line.To.X*zoom), int(line.To.Y*zoom),
			line.Color, thickness)
	}

	for _, m := range overlay.Markers {
		col := m.Color
		if m.Selected {
			col = colorutil.Yellow
		}
		cx := m.Center.X * zoom
		cy := m.Center.Y * zoom
		r := m.RadiusPx * zoom
		if r < 3 {
			r = 3 // keep tiny markers clickable and visible
		}
		ac.drawRing(output, cx, cy, r, col)
		if m.Label != "" {
			ac.drawDigits(output, m.Label, int(cx+r)+4, int(cy-r)-4, col)
		}
	}

	if overlay.Preview != nil {
		rect := overlay.Preview.Rect
		ac.drawDashedRect(output,
			int(rect.X*zoom), int(rect.Y*zoom),
			int((rect.X+rect.Width)*zoom), int((rect.Y+rect.Height)*zoom),
			overlay.Preview.Color)
	}
}

// drawRing draws a 2 pixel circle outline.
func (ac *AnnotCanvas) drawRing(output *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := output.Bounds()
	minX, maxX := int(cx-r-1), int(cx+r+1)
	minY, maxY := int(cy-r-1), int(cy+r+1)
	r2 := r * r
	inner := r - 2
	if inner < 0 {
		inner = 0
	}
	innerR2 := inner * inner

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist2 := dx*dx + dy*dy
			if dist2 <= r2 && dist2 >= innerR2 {
				output.Set(x, y, col)
			}
		}
	}
}

// drawLine draws a thick line using Bresenham's algorithm.
func (ac *AnnotCanvas) drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.Set(px, py, col)
				}
			}
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawDashedRect draws a dashed rectangle outline (alternate pixel runs).
func (ac *AnnotCanvas) drawDashedRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()
	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			output.Set(x, y1, col)
		}
		if (x+y2)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y2 >= bounds.Min.Y && y2 < bounds.Max.Y {
			output.Set(x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 && x1 >= bounds.Min.X && x1 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x1, y, col)
		}
		if (x2+y)%4 < 2 && x2 >= bounds.Min.X && x2 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x2, y, col)
		}
	}
}

// drawDigits draws a numeric label with the 3x5 bitmap font, top-left at
// (startX, startY).
func (ac *AnnotCanvas) drawDigits(output *image.RGBA, label string, startX, startY int, col color.RGBA) {
	scale := int(ac.vp.Zoom() * 2)
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}
	charWidth := 3 * scale
	spacing := scale
	bounds := output.Bounds()

	for i, ch := range label {
		if ch < '0' || ch > '9' {
			continue
		}
		pattern := digitPatterns[ch-'0']
		charX := startX + i*(charWidth+spacing)
		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							output.Set(px, py, col)
						}
					}
				}
			}
		}
	}
}
