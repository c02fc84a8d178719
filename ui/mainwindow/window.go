// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/MikeWise2718/fish-scales-sub003/internal/annotation"
	"github.com/MikeWise2718/fish-scales-sub003/internal/annotfile"
	"github.com/MikeWise2718/fish-scales-sub003/internal/calibration"
	"github.com/MikeWise2718/fish-scales-sub003/internal/detect"
	"github.com/MikeWise2718/fish-scales-sub003/internal/scaleimage"
	"github.com/MikeWise2718/fish-scales-sub003/internal/session"
	"github.com/MikeWise2718/fish-scales-sub003/internal/version"
	"github.com/MikeWise2718/fish-scales-sub003/internal/viewport"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/colorutil"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
	"github.com/MikeWise2718/fish-scales-sub003/ui/canvas"
	"github.com/MikeWise2718/fish-scales-sub003/ui/prefs"
)

// defaultDiameterPx is the marker size for newly clicked tubercles before
// the user resizes them.
const defaultDiameterPx = 20.0

// mode is the active click tool.
type mode int

const (
	modeSelect mode = iota
	modeAddNode
	modeAddEdge
	modeDelete
	modeCrop
	modeCalibrate
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	sess   *session.Session
	prefs  *prefs.Prefs
	canvas *canvas.AnnotCanvas
	panel  *statsPanel

	statusBar  *widget.Label
	annotPath  string
	mode       mode
	selectedID int
	edgeFirst  int

	regionPicker *viewport.RegionPicker
	linePicker   *viewport.LinePicker

	fitToWindowItem *fyne.MenuItem
}

// New creates the main window around an existing session.
func New(fyneApp fyne.App, sess *session.Session, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Scale Annotator")

	mw := &MainWindow{
		Window:     win,
		app:        fyneApp,
		sess:       sess,
		prefs:      p,
		selectedID: -1,
		edgeFirst:  -1,
		linePicker: viewport.NewLinePicker(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	sess.Observe(mw)
	mw.restoreSession()

	return mw
}

// setupUI creates the main layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New()
	mw.canvas.OnLeftClick(mw.onLeftClick)
	mw.canvas.OnRightClick(mw.onRightClick)
	mw.canvas.OnMouseMove(mw.onMouseMove)

	mw.panel = newStatsPanel(mw.sess, mw.rebuildOverlay)
	mw.statusBar = widget.NewLabel("Ready")

	canvasArea := container.NewBorder(
		mw.createToolbar(),
		nil, nil, nil,
		mw.canvas.Container(),
	)

	split := container.NewHSplit(mw.panel.Container(), canvasArea)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

// createToolbar builds the tool and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Select", func() { mw.setMode(modeSelect) }),
		widget.NewButton("Add", func() { mw.setMode(modeAddNode) }),
		widget.NewButton("Connect", func() { mw.setMode(modeAddEdge) }),
		widget.NewButton("Delete", func() { mw.setMode(modeDelete) }),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", func() { mw.disableFitToWindow(); mw.canvas.ZoomOut() }),
		widget.NewButton("+", func() { mw.disableFitToWindow(); mw.canvas.ZoomIn() }),
		widget.NewButton("Fit", mw.onToggleFitToWindow),
		widget.NewButton("1:1", func() { mw.disableFitToWindow(); mw.canvas.SetZoom(1.0) }),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Import Detections...", mw.onImportDetections),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Annotations...", mw.onOpenAnnotations),
		fyne.NewMenuItem("Save Annotations", mw.onSaveAnnotations),
		fyne.NewMenuItem("Save Annotations As...", mw.onSaveAnnotationsAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.disableFitToWindow(); mw.canvas.ZoomIn() }),
		fyne.NewMenuItem("Zoom Out", func() { mw.disableFitToWindow(); mw.canvas.ZoomOut() }),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", func() { mw.disableFitToWindow(); mw.canvas.SetZoom(1.0) }),
	)

	imageMenu := fyne.NewMenu("Image",
		fyne.NewMenuItem("Rotate Left", func() { mw.rotate(viewport.RotateLeft) }),
		fyne.NewMenuItem("Rotate Right", func() { mw.rotate(viewport.RotateRight) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Crop Region", mw.onStartCrop),
		fyne.NewMenuItem("Auto Crop", mw.onAutocrop),
	)

	calMenu := fyne.NewMenu("Calibration",
		fyne.NewMenuItem("Measure Known Distance", mw.onStartCalibrate),
		fyne.NewMenuItem("Enter Scale Bar...", mw.onScaleBarDialog),
		fyne.NewMenuItem("Enter Factor...", mw.onFactorDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, imageMenu, calMenu, helpMenu))
}

// setupShortcuts wires Ctrl+Z/Ctrl+Y and Escape.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { mw.onUndo() })
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { mw.onRedo() })
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			mw.cancelPickers()
		}
	})
}

// --- session.Observer ---------------------------------------------------------

// ImageChanged syncs the canvas with the session's pixel data.
func (mw *MainWindow) ImageChanged() {
	mw.canvas.SetImage(mw.sess.Image())
	mw.canvas.FitToWindow()
	mw.rebuildOverlay()
}

// AnnotationsChanged refreshes the overlay and statistics.
func (mw *MainWindow) AnnotationsChanged() {
	mw.rebuildOverlay()
	mw.panel.Update()
}

// CalibrationChanged refreshes the panel and remembers the factor.
func (mw *MainWindow) CalibrationChanged() {
	mw.panel.Update()
	cal := mw.sess.Calibration()
	if cal.Calibrated() {
		mw.prefs.SetFloat(prefs.KeyUmPerPixel, cal.UmPerPixel())
		mw.prefs.SetString(prefs.KeyCalibMethod, string(cal.Method()))
		_ = mw.prefs.Save()
	}
}

// --- click handling -----------------------------------------------------------

func (mw *MainWindow) setMode(m mode) {
	mw.cancelPickers()
	mw.mode = m
	mw.edgeFirst = -1
	switch m {
	case modeSelect:
		mw.updateStatus("Select: click a tubercle")
	case modeAddNode:
		mw.updateStatus("Add: click to place a tubercle")
	case modeAddEdge:
		mw.updateStatus("Connect: click two tubercles")
	case modeDelete:
		mw.updateStatus("Delete: click a tubercle or edge endpoint pair")
	}
}

func (mw *MainWindow) activeSet() *annotation.Set {
	return mw.sess.Sets().Active()
}

func (mw *MainWindow) onLeftClick(p geometry.Point2D) {
	set := mw.activeSet()
	if set == nil {
		return
	}

	switch mw.mode {
	case modeCrop:
		mw.cropClick(p)
		return
	case modeCalibrate:
		mw.calibrateClick(p)
		return
	case modeAddNode:
		if _, err := set.AddNode(p, defaultDiameterPx, 0, false); err != nil {
			mw.updateStatus("Add failed: " + err.Error())
			return
		}
		mw.sess.NoteEdit("add_node", fmt.Sprintf("(%.0f, %.0f)", p.X, p.Y))
	case modeAddEdge:
		id, ok := set.HitNode(p)
		if !ok {
			return
		}
		if mw.edgeFirst < 0 {
			mw.edgeFirst = id
			mw.selectedID = id
			mw.rebuildOverlay()
			mw.updateStatus(fmt.Sprintf("Connect: tubercle %d selected, click its neighbor", id))
			return
		}
		first := mw.edgeFirst
		mw.edgeFirst = -1
		mw.selectedID = -1
		if _, err := set.AddEdge(first, id); err != nil {
			mw.updateStatus("Connect failed: " + err.Error())
			mw.rebuildOverlay()
			return
		}
		mw.sess.NoteEdit("add_edge", fmt.Sprintf("%d-%d", first, id))
	case modeDelete:
		id, ok := set.HitNode(p)
		if !ok {
			return
		}
		if _, err := set.DeleteNode(id); err != nil {
			mw.updateStatus("Delete failed: " + err.Error())
			return
		}
		mw.sess.NoteEdit("delete_node", strconv.Itoa(id))
	default:
		if id, ok := set.HitNode(p); ok {
			mw.selectedID = id
			if t, found := set.Node(id); found {
				mw.updateStatus(fmt.Sprintf("Tubercle %d: %.1f µm diameter at (%.0f, %.0f)",
					id, t.DiameterUm, t.Centroid.X, t.Centroid.Y))
			}
		} else {
			mw.selectedID = -1
		}
		mw.rebuildOverlay()
	}
}

// onRightClick deletes the tubercle under the pointer.
func (mw *MainWindow) onRightClick(p geometry.Point2D) {
	set := mw.activeSet()
	if set == nil || mw.mode == modeCrop || mw.mode == modeCalibrate {
		return
	}
	id, ok := set.HitNode(p)
	if !ok {
		return
	}
	if _, err := set.DeleteNode(id); err == nil {
		mw.sess.NoteEdit("delete_node", strconv.Itoa(id))
	}
}

func (mw *MainWindow) onMouseMove(p geometry.Point2D) {
	switch mw.mode {
	case modeCrop:
		if mw.regionPicker != nil {
			mw.regionPicker.Move(p)
			mw.rebuildOverlay()
		}
	case modeCalibrate:
		mw.linePicker.Move(p)
		mw.rebuildOverlay()
	}
}

// --- crop ----------------------------------------------------------------------

func (mw *MainWindow) onStartCrop() {
	doc := mw.sess.Document()
	if doc == nil {
		mw.updateStatus("Load an image first")
		return
	}
	mw.mode = modeCrop
	mw.regionPicker = viewport.NewRegionPicker(float64(doc.Width()), float64(doc.Height()))
	mw.regionPicker.Begin()
	mw.updateStatus("Crop: click two corners (Escape cancels)")
}

func (mw *MainWindow) cropClick(p geometry.Point2D) {
	rect, done, err := mw.regionPicker.Click(p)
	if err != nil {
		mw.updateStatus("Crop: " + err.Error() + ", click the first corner again")
		mw.rebuildOverlay()
		return
	}
	if !done {
		mw.updateStatus("Crop: click the opposite corner")
		return
	}
	mw.mode = modeSelect
	mw.regionPicker = nil
	if err := mw.sess.ApplyCrop(rect); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus("Cropped")
}

func (mw *MainWindow) onAutocrop() {
	if mw.sess.Document() == nil {
		mw.updateStatus("Load an image first")
		return
	}
	dialog.ShowConfirm("Auto Crop",
		"Automatic cropping discards all annotations. Continue?",
		func(ok bool) {
			if !ok {
				return
			}
			if _, err := mw.sess.ApplyAutocrop(); err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.updateStatus("Auto-cropped to scale region")
		}, mw.Window)
}

func (mw *MainWindow) rotate(dir viewport.Direction) {
	if err := mw.sess.ApplyRotate(dir); err != nil {
		mw.updateStatus("Rotate failed: " + err.Error())
	}
}

// --- calibration ----------------------------------------------------------------

func (mw *MainWindow) onStartCalibrate() {
	if mw.sess.Document() == nil {
		mw.updateStatus("Load an image first")
		return
	}
	mw.mode = modeCalibrate
	mw.linePicker.Begin()
	mw.updateStatus("Calibrate: click both ends of a feature of known length (Escape cancels)")
}

func (mw *MainWindow) calibrateClick(p geometry.Point2D) {
	distPx, done := mw.linePicker.Click(p)
	if !done {
		mw.updateStatus("Calibrate: click the other end")
		return
	}
	mw.mode = modeSelect
	mw.rebuildOverlay()

	entry := widget.NewEntry()
	entry.SetPlaceHolder("length in µm")
	dialog.ShowForm("Known Distance",
		"Apply", "Cancel",
		[]*widget.FormItem{widget.NewFormItem(fmt.Sprintf("%.1f px =", distPx), entry)},
		func(ok bool) {
			if !ok {
				return
			}
			um, err := strconv.ParseFloat(entry.Text, 64)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			if err := mw.sess.Calibration().SetFromMeasurement(distPx, um); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}, mw.Window)
}

func (mw *MainWindow) onScaleBarDialog() {
	umEntry := widget.NewEntry()
	pxEntry := widget.NewEntry()
	dialog.ShowForm("Scale Bar",
		"Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Bar length (µm)", umEntry),
			widget.NewFormItem("Bar length (px)", pxEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			um, err1 := strconv.ParseFloat(umEntry.Text, 64)
			px, err2 := strconv.ParseFloat(pxEntry.Text, 64)
			if err1 != nil || err2 != nil {
				mw.updateStatus("Scale bar: both lengths must be numbers")
				return
			}
			if err := mw.sess.Calibration().SetFromScaleBar(um, px); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}, mw.Window)
}

func (mw *MainWindow) onFactorDialog() {
	entry := widget.NewEntry()
	entry.SetText(fmt.Sprintf("%.4f", mw.sess.Calibration().UmPerPixel()))
	dialog.ShowForm("Calibration Factor",
		"Apply", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("µm per pixel", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			v, err := strconv.ParseFloat(entry.Text, 64)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			if err := mw.sess.Calibration().SetDirect(v); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}, mw.Window)
}

// cancelPickers aborts any in-progress two-click interaction.
func (mw *MainWindow) cancelPickers() {
	if mw.regionPicker != nil {
		mw.regionPicker.Cancel()
		mw.regionPicker = nil
	}
	mw.linePicker.Cancel()
	if mw.mode == modeCrop || mw.mode == modeCalibrate {
		mw.mode = modeSelect
		mw.updateStatus("Cancelled")
	}
	mw.edgeFirst = -1
	mw.rebuildOverlay()
}

// --- overlay --------------------------------------------------------------------

// rebuildOverlay regenerates the drawable overlay from the active set and any
// picker state.
func (mw *MainWindow) rebuildOverlay() {
	overlay := &canvas.Overlay{}
	if set := mw.activeSet(); set != nil {
		nodes := set.Nodes()
		byID := make(map[int]geometry.Point2D, len(nodes))
		for _, t := range nodes {
			byID[t.ID] = t.Centroid
			col := colorutil.Cyan
			if t.Boundary {
				col = colorutil.Orange
			}
			overlay.Markers = append(overlay.Markers, canvas.Marker{
				Center:   t.Centroid,
				RadiusPx: t.Radius(),
				Label:    strconv.Itoa(t.ID),
				Color:    col,
				Selected: t.ID == mw.selectedID || t.ID == mw.edgeFirst,
			})
		}
		for _, e := range set.Edges() {
			overlay.Lines = append(overlay.Lines, canvas.Line{
				From:  byID[e.ID1],
				To:    byID[e.ID2],
				Color: colorutil.Green,
			})
		}
	}
	if mw.regionPicker != nil {
		if rect, ok := mw.regionPicker.Preview(); ok {
			overlay.Preview = &canvas.PreviewRect{Rect: rect, Color: colorutil.WithAlpha(colorutil.Yellow, 255)}
		}
	}
	if start, end, ok := mw.linePicker.Segment(); ok {
		overlay.Lines = append(overlay.Lines, canvas.Line{From: start, To: end, Color: colorutil.Magenta})
	}
	mw.canvas.SetOverlay(overlay)
}

// --- file handling --------------------------------------------------------------

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
	_ = mw.prefs.Save()
}

// restoreSession reloads the previous image and calibration.
func (mw *MainWindow) restoreSession() {
	if um := mw.prefs.FloatWithFallback(prefs.KeyUmPerPixel, 0); um > 0 {
		method := calibration.Method(mw.prefs.String(prefs.KeyCalibMethod))
		_ = mw.sess.Calibration().Load(um, method)
	}
	if path := mw.prefs.String(prefs.KeyLastImage); path != "" {
		if err := mw.sess.LoadImage(path); err != nil {
			mw.updateStatus("Could not reload " + filepath.Base(path))
		}
	}
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.sess.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastImage, path)
		_ = mw.prefs.Save()
		mw.annotPath = ""
		mw.SetTitle("Scale Annotator - " + filepath.Base(path))
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(scaleimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onImportDetections() {
	set := mw.activeSet()
	if set == nil {
		mw.updateStatus("Load an image first")
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		n, err := detect.Import(path, set)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.sess.NoteEdit("import", fmt.Sprintf("%d detections from %s", n, filepath.Base(path)))
		mw.updateStatus(fmt.Sprintf("Imported %d tubercles", n))
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenAnnotations() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		f, err := annotfile.Load(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if err := f.Apply(mw.sess.Sets(), mw.sess.Calibration()); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.annotPath = path
		mw.sess.NoteEdit("open_annotations", path)
		mw.updateStatus("Annotations loaded")
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveAnnotations() {
	if mw.annotPath == "" {
		mw.onSaveAnnotationsAs()
		return
	}
	mw.saveAnnotationsTo(mw.annotPath)
}

func (mw *MainWindow) onSaveAnnotationsAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		mw.saveLastDir(path)
		mw.saveAnnotationsTo(path)
	}, mw.Window)
	fd.SetFileName("annotations.json")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) saveAnnotationsTo(path string) {
	imagePath := ""
	if doc := mw.sess.Document(); doc != nil {
		imagePath = doc.Path
	}
	if err := annotfile.Save(path, mw.sess.Sets(), mw.sess.Calibration(), imagePath); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.annotPath = path
	mw.updateStatus("Saved " + filepath.Base(path))
}

// --- misc ----------------------------------------------------------------------

func (mw *MainWindow) onUndo() {
	if op, ok := mw.sess.Undo(); ok {
		mw.updateStatus("Undid " + op.Kind.String())
	} else {
		mw.updateStatus("Nothing to undo")
	}
}

func (mw *MainWindow) onRedo() {
	if op, ok := mw.sess.Redo(); ok {
		mw.updateStatus("Redid " + op.Kind.String())
	} else {
		mw.updateStatus("Nothing to redo")
	}
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.canvas.GetFitToWindow()
	mw.canvas.SetFitToWindow(enabled)
	if enabled {
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	} else {
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.canvas.GetFitToWindow() {
		mw.canvas.SetFitToWindow(false)
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Scale Annotator",
		fmt.Sprintf("Scale Annotator v%s\n\n"+
			"Tubercle annotation and measurement for fish scale micrographs.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
