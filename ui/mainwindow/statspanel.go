package mainwindow

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/MikeWise2718/fish-scales-sub003/internal/session"
	"github.com/MikeWise2718/fish-scales-sub003/internal/stats"
)

// statsPanel shows the derived statistics for the active annotation set and
// lets the user switch between sets.
type statsPanel struct {
	sess *session.Session

	setSelect   *widget.Select
	counts      *widget.Label
	diameter    *widget.Label
	spacing     *widget.Label
	score       *widget.Label
	reliability *widget.Label
	calibration *widget.Label

	container fyne.CanvasObject
	onChange  func()
}

func newStatsPanel(sess *session.Session, onChange func()) *statsPanel {
	sp := &statsPanel{
		sess:        sess,
		counts:      widget.NewLabel(""),
		diameter:    widget.NewLabel(""),
		spacing:     widget.NewLabel(""),
		score:       widget.NewLabel(""),
		reliability: widget.NewLabel(""),
		calibration: widget.NewLabel(""),
		onChange:    onChange,
	}

	sp.setSelect = widget.NewSelect(nil, func(name string) {
		for _, s := range sess.Sets().Sets() {
			if s.Name == name {
				_ = sess.Sets().SetActive(s.ID)
				break
			}
		}
		sp.Update()
		if sp.onChange != nil {
			sp.onChange()
		}
	})

	newSetBtn := widget.NewButton("New Set", func() {
		n := len(sess.Sets().Sets()) + 1
		sess.Sets().NewSet(fmt.Sprintf("set %d", n))
		sp.Update()
		if sp.onChange != nil {
			sp.onChange()
		}
	})
	deleteSetBtn := widget.NewButton("Delete Set", func() {
		active := sess.Sets().Active()
		if active == nil {
			return
		}
		_ = sess.Sets().DeleteSet(active.ID)
		sp.Update()
		if sp.onChange != nil {
			sp.onChange()
		}
	})

	sp.container = container.NewVBox(
		widget.NewLabelWithStyle("Annotation Set", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sp.setSelect,
		container.NewHBox(newSetBtn, deleteSetBtn),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Statistics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sp.counts,
		sp.diameter,
		sp.spacing,
		sp.score,
		sp.reliability,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Calibration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sp.calibration,
	)
	sp.Update()
	return sp
}

// Container returns the panel's root object.
func (sp *statsPanel) Container() fyne.CanvasObject {
	return sp.container
}

// Update recomputes everything shown on the panel.
func (sp *statsPanel) Update() {
	names := make([]string, 0)
	var activeName string
	for _, s := range sp.sess.Sets().Sets() {
		names = append(names, s.Name)
	}
	if active := sp.sess.Sets().Active(); active != nil {
		activeName = active.Name
	}
	sp.setSelect.Options = names
	sp.setSelect.SetSelected(activeName)

	sum := sp.sess.Summary()
	sp.counts.SetText(fmt.Sprintf("Tubercles: %d (%d boundary)\nEdges: %d",
		sum.NodeCount, sum.BoundaryCount, sum.EdgeCount))
	sp.diameter.SetText(fmt.Sprintf("Diameter: %.2f ± %.2f µm",
		sum.MeanDiameterUm, sum.StdDiameterUm))
	sp.spacing.SetText(fmt.Sprintf("Spacing: %.2f ± %.2f µm\nGap: %.2f ± %.2f µm",
		sum.MeanCenterDistanceUm, sum.StdCenterDistanceUm,
		sum.MeanEdgeDistanceUm, sum.StdEdgeDistanceUm))
	sp.score.SetText(fmt.Sprintf("Hexagonalness: %.3f (%s)", sum.Hexagonalness, bandText(sum.Band)))
	sp.reliability.SetText("Reliability: " + string(sum.Reliability))

	cal := sp.sess.Calibration()
	marker := ""
	if !cal.Calibrated() {
		marker = " (estimate)"
	}
	sp.calibration.SetText(fmt.Sprintf("%.4f µm/px via %s%s", cal.UmPerPixel(), cal.Method(), marker))
}

func bandText(b stats.Band) string {
	switch b {
	case stats.BandGood:
		return "good"
	case stats.BandFair:
		return "fair"
	default:
		return "poor"
	}
}
