package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/MikeWise2718/fish-scales-sub003/internal/viewport"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

// AnnotCanvas displays the micrograph with the annotation overlay. Wheel
// zooms around the pointer, the scroll container pans, and clicks are
// reported in image coordinates.
type AnnotCanvas struct {
	widget.BaseWidget

	img     image.Image
	overlay *Overlay
	vp      *viewport.Viewport

	raster  *fynecanvas.Raster
	content *clickableContent
	scroll  *zoomScroll
	imgSize fyne.Size

	fitToWindow    bool
	lastScrollSize fyne.Size

	onZoomChange func(zoom float64)
	onLeftClick  func(p geometry.Point2D)
	onRightClick func(p geometry.Point2D)
	onMouseMove  func(p geometry.Point2D)
}

// New creates an empty annotation canvas.
func New() *AnnotCanvas {
	ac := &AnnotCanvas{
		vp:      viewport.New(),
		imgSize: fyne.NewSize(400, 300),
	}
	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels
	ac.raster.SetMinSize(ac.imgSize)
	ac.content = newClickableContent(ac, ac.raster)
	ac.scroll = newZoomScroll(ac.content, ac)
	ac.ExtendBaseWidget(ac)
	return ac
}

// Container returns the canvas object for embedding in layouts.
func (ac *AnnotCanvas) Container() fyne.CanvasObject {
	return ac.scroll
}

// SetImage replaces the displayed image.
func (ac *AnnotCanvas) SetImage(img image.Image) {
	ac.img = img
	ac.updateContentSize()
}

// SetOverlay replaces the annotation overlay.
func (ac *AnnotCanvas) SetOverlay(overlay *Overlay) {
	ac.overlay = overlay
	ac.Refresh()
}

// Zoom returns the current zoom factor.
func (ac *AnnotCanvas) Zoom() float64 {
	return ac.vp.Zoom()
}

// SetZoom sets the zoom factor, clamped to the allowed range.
func (ac *AnnotCanvas) SetZoom(zoom float64) {
	ac.vp.SetZoom(zoom)
	ac.updateContentSize()
	if ac.onZoomChange != nil {
		ac.onZoomChange(ac.vp.Zoom())
	}
}

// ZoomIn zooms in one step around the view center.
func (ac *AnnotCanvas) ZoomIn() {
	ac.zoomAtViewCenter(true)
}

// ZoomOut zooms out one step around the view center.
func (ac *AnnotCanvas) ZoomOut() {
	ac.zoomAtViewCenter(false)
}

func (ac *AnnotCanvas) zoomAtViewCenter(in bool) {
	size := ac.scroll.Size()
	ac.zoomAt(fyne.NewPos(size.Width/2, size.Height/2), in)
}

// zoomAt zooms one step anchored at a viewport position so the image pixel
// under the pointer stays put.
func (ac *AnnotCanvas) zoomAt(pivot fyne.Position, in bool) {
	off := ac.scroll.Offset()
	ac.vp.SetScroll(geometry.NewPoint2D(float64(off.X), float64(off.Y)))
	p := geometry.NewPoint2D(float64(pivot.X), float64(pivot.Y))
	if in {
		ac.vp.ZoomInAt(p)
	} else {
		ac.vp.ZoomOutAt(p)
	}
	ac.updateContentSize()
	s := ac.vp.Scroll()
	ac.scroll.SetOffset(fyne.NewPos(float32(s.X), float32(s.Y)))
	if ac.onZoomChange != nil {
		ac.onZoomChange(ac.vp.Zoom())
	}
}

// FitToWindow adjusts the zoom so the whole image is visible.
func (ac *AnnotCanvas) FitToWindow() {
	if ac.img == nil {
		return
	}
	view := ac.scroll.Size()
	b := ac.img.Bounds()
	ac.vp.ZoomToFit(float64(view.Width), float64(view.Height), float64(b.Dx()), float64(b.Dy()))
	ac.updateContentSize()
	ac.scroll.SetOffset(fyne.NewPos(0, 0))
	if ac.onZoomChange != nil {
		ac.onZoomChange(ac.vp.Zoom())
	}
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ac *AnnotCanvas) SetFitToWindow(fit bool) {
	ac.fitToWindow = fit
	if fit {
		ac.FitToWindow()
	}
}

// GetFitToWindow returns the auto-fit state.
func (ac *AnnotCanvas) GetFitToWindow() bool {
	return ac.fitToWindow
}

// OnZoomChange registers a zoom-change callback.
func (ac *AnnotCanvas) OnZoomChange(fn func(zoom float64)) {
	ac.onZoomChange = fn
}

// OnLeftClick registers a left-click callback in image coordinates.
func (ac *AnnotCanvas) OnLeftClick(fn func(p geometry.Point2D)) {
	ac.onLeftClick = fn
}

// OnRightClick registers a right-click callback in image coordinates.
func (ac *AnnotCanvas) OnRightClick(fn func(p geometry.Point2D)) {
	ac.onRightClick = fn
}

// OnMouseMove registers a pointer-move callback in image coordinates, used
// for live picker previews.
func (ac *AnnotCanvas) OnMouseMove(fn func(p geometry.Point2D)) {
	ac.onMouseMove = fn
}

// toImage converts a content-relative position to image coordinates. Event
// positions on the content widget already include the scroll offset, so only
// the zoom divides out.
func (ac *AnnotCanvas) toImage(pos fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(pos.X)/ac.vp.Zoom(), float64(pos.Y)/ac.vp.Zoom())
}

// contentToView converts a content-relative position to a viewport position
// by removing the scroll offset the content position includes. zoomAt
// expects viewport positions; feeding it a content position would count the
// offset twice and the pixel under the cursor would drift.
func (ac *AnnotCanvas) contentToView(pos fyne.Position) fyne.Position {
	off := ac.scroll.Offset()
	return fyne.NewPos(pos.X-off.X, pos.Y-off.Y)
}

// Refresh redraws the canvas.
func (ac *AnnotCanvas) Refresh() {
	ac.raster.Refresh()
}

func (ac *AnnotCanvas) updateContentSize() {
	if ac.img == nil {
		ac.imgSize = fyne.NewSize(400, 300)
	} else {
		b := ac.img.Bounds()
		zoom := ac.vp.Zoom()
		ac.imgSize = fyne.NewSize(float32(float64(b.Dx())*zoom), float32(float64(b.Dy())*zoom))
	}
	ac.raster.SetMinSize(ac.imgSize)
	ac.raster.Resize(ac.imgSize)
	if ac.content != nil {
		ac.content.Resize(ac.imgSize)
		ac.content.Refresh()
	}
	ac.raster.Refresh()
	if ac.scroll != nil {
		ac.scroll.Refresh()
	}
}

// CheckResize re-fits the image when the scroll area changes size and
// auto-fit is on.
func (ac *AnnotCanvas) CheckResize(size fyne.Size) {
	if !ac.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != ac.lastScrollSize {
		ac.lastScrollSize = size
		ac.FitToWindow()
	}
}

// CreateRenderer implements fyne.Widget.
func (ac *AnnotCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &annotCanvasRenderer{canvas: ac}
}

type annotCanvasRenderer struct {
	canvas *AnnotCanvas
}

func (r *annotCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
	r.canvas.CheckResize(size)
}

func (r *annotCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *annotCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *annotCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *annotCanvasRenderer) Destroy() {}

// zoomScroll wraps a scroll container but routes the wheel to zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *AnnotCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *AnnotCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.zoomAt(ev.Position, true)
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.zoomAt(ev.Position, false)
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// SetOffset pans the scroll container.
func (zs *zoomScroll) SetOffset(pos fyne.Position) {
	zs.scroll.Offset = pos
	zs.scroll.Refresh()
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// clickableContent wraps the raster to handle mouse events.
type clickableContent struct {
	widget.BaseWidget
	canvas *AnnotCanvas
	raster *fynecanvas.Raster
}

func newClickableContent(ac *AnnotCanvas, raster *fynecanvas.Raster) *clickableContent {
	cc := &clickableContent{canvas: ac, raster: raster}
	cc.ExtendBaseWidget(cc)
	return cc
}

func (cc *clickableContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cc.raster)
}

func (cc *clickableContent) MinSize() fyne.Size {
	return cc.raster.MinSize()
}

func (cc *clickableContent) inBounds(pos fyne.Position) bool {
	size := cc.Size()
	return pos.X >= 0 && pos.Y >= 0 && pos.X <= size.Width && pos.Y <= size.Height
}

// Tapped reports left clicks in image coordinates.
func (cc *clickableContent) Tapped(ev *fyne.PointEvent) {
	if cc.canvas.onLeftClick == nil || !cc.inBounds(ev.Position) {
		return
	}
	cc.canvas.onLeftClick(cc.canvas.toImage(ev.Position))
}

// TappedSecondary reports right clicks in image coordinates.
func (cc *clickableContent) TappedSecondary(ev *fyne.PointEvent) {
	if cc.canvas.onRightClick == nil || !cc.inBounds(ev.Position) {
		return
	}
	cc.canvas.onRightClick(cc.canvas.toImage(ev.Position))
}

func (cc *clickableContent) Scrolled(ev *fyne.ScrollEvent) {
	pos := cc.canvas.contentToView(ev.Position)
	if ev.Scrolled.DY > 0 {
		cc.canvas.zoomAt(pos, true)
	} else if ev.Scrolled.DY < 0 {
		cc.canvas.zoomAt(pos, false)
	}
}

// MouseIn implements desktop.Hoverable.
func (cc *clickableContent) MouseIn(*desktop.MouseEvent) {}

// MouseMoved reports pointer movement for live picker previews.
func (cc *clickableContent) MouseMoved(ev *desktop.MouseEvent) {
	if cc.canvas.onMouseMove == nil {
		return
	}
	cc.canvas.onMouseMove(cc.canvas.toImage(ev.Position))
}

// MouseOut implements desktop.Hoverable.
func (cc *clickableContent) MouseOut() {}
