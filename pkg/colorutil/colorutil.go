// Package colorutil provides the shared overlay colors for the annotation UI.
package colorutil

import "image/color"

// Overlay colors. Markers and edges need to stay readable over both bright
// scale tissue and dark slide background.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Orange  = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

// WithAlpha returns the color with a different alpha.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
