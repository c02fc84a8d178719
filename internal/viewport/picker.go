package viewport

import (
	"errors"

	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

// MinCropSide is the minimum width and height, in image pixels, of an
// accepted crop selection.
const MinCropSide = 10

// ErrSelectionTooSmall rejects a crop selection below MinCropSide in either
// dimension. The picker resets to awaiting the first corner.
var ErrSelectionTooSmall = errors.New("viewport: selection smaller than minimum size")

// Phase is the state of a two-click interaction.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitFirst
	PhaseAwaitSecond
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitFirst:
		return "awaiting-first"
	case PhaseAwaitSecond:
		return "awaiting-second"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// RegionPicker is the crop-selection state machine. The first click records
// a corner, pointer movement updates a live rectangle, and the second click
// finalizes a normalized rectangle clamped to the image bounds. Escape
// (Cancel) discards in-progress state at any point.
type RegionPicker struct {
	phase   Phase
	first   geometry.Point2D
	preview geometry.Rect
	imageW  float64
	imageH  float64
}

// NewRegionPicker creates an idle picker for an image of the given size.
func NewRegionPicker(imageW, imageH float64) *RegionPicker {
	return &RegionPicker{phase: PhaseIdle, imageW: imageW, imageH: imageH}
}

// Phase returns the current state.
func (rp *RegionPicker) Phase() Phase {
	return rp.phase
}

// Begin arms the picker for the first corner click.
func (rp *RegionPicker) Begin() {
	rp.phase = PhaseAwaitFirst
	rp.preview = geometry.Rect{}
}

// Click feeds a click in image-pixel space. It returns the finalized
// rectangle with done=true on the completing click. A selection smaller than
// MinCropSide in either dimension returns ErrSelectionTooSmall and resets
// the machine to awaiting the first corner.
func (rp *RegionPicker) Click(p geometry.Point2D) (geometry.Rect, bool, error) {
	switch rp.phase {
	case PhaseAwaitFirst:
		rp.first = p
		rp.preview = geometry.RectFromCorners(p, p)
		rp.phase = PhaseAwaitSecond
		return geometry.Rect{}, false, nil
	case PhaseAwaitSecond:
		rect := geometry.RectFromCorners(rp.first, p).ClampTo(rp.imageW, rp.imageH)
		if rect.Width < MinCropSide || rect.Height < MinCropSide {
			rp.phase = PhaseAwaitFirst
			rp.preview = geometry.Rect{}
			return geometry.Rect{}, false, ErrSelectionTooSmall
		}
		rp.preview = rect
		rp.phase = PhaseComplete
		return rect, true, nil
	default:
		return geometry.Rect{}, false, nil
	}
}

// Move updates the live preview rectangle while awaiting the second corner.
func (rp *RegionPicker) Move(p geometry.Point2D) {
	if rp.phase == PhaseAwaitSecond {
		rp.preview = geometry.RectFromCorners(rp.first, p).ClampTo(rp.imageW, rp.imageH)
	}
}

// Preview returns the live rectangle; ok is false unless a first corner has
// been placed.
func (rp *RegionPicker) Preview() (geometry.Rect, bool) {
	return rp.preview, rp.phase == PhaseAwaitSecond || rp.phase == PhaseComplete
}

// Cancel discards in-progress state and returns the picker to idle.
func (rp *RegionPicker) Cancel() {
	rp.phase = PhaseIdle
	rp.preview = geometry.Rect{}
}

// LinePicker is the scale-bar measurement state machine: first click is the
// start point, second click the end point, producing a pixel distance to
// pair with a known physical length. Structurally identical to RegionPicker
// but finalizes a segment instead of a rectangle.
type LinePicker struct {
	phase Phase
	start geometry.Point2D
	end   geometry.Point2D
}

// NewLinePicker creates an idle measurement picker.
func NewLinePicker() *LinePicker {
	return &LinePicker{phase: PhaseIdle}
}

// Phase returns the current state.
func (lp *LinePicker) Phase() Phase {
	return lp.phase
}

// Begin arms the picker for the start-point click.
func (lp *LinePicker) Begin() {
	lp.phase = PhaseAwaitFirst
}

// Click feeds a click in image-pixel space; on the completing click it
// returns the measured pixel distance with done=true.
func (lp *LinePicker) Click(p geometry.Point2D) (float64, bool) {
	switch lp.phase {
	case PhaseAwaitFirst:
		lp.start = p
		lp.end = p
		lp.phase = PhaseAwaitSecond
		return 0, false
	case PhaseAwaitSecond:
		lp.end = p
		lp.phase = PhaseComplete
		return lp.start.Distance(lp.end), true
	default:
		return 0, false
	}
}

// Move updates the live end point while awaiting the second click.
func (lp *LinePicker) Move(p geometry.Point2D) {
	if lp.phase == PhaseAwaitSecond {
		lp.end = p
	}
}

// Segment returns the live measurement segment; ok is false until a start
// point has been placed.
func (lp *LinePicker) Segment() (start, end geometry.Point2D, ok bool) {
	return lp.start, lp.end, lp.phase == PhaseAwaitSecond || lp.phase == PhaseComplete
}

// Cancel discards in-progress state and returns the picker to idle.
func (lp *LinePicker) Cancel() {
	lp.phase = PhaseIdle
}
