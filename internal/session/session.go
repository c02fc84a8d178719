// Package session wires the calibration model, annotation registry, image
// document, and statistics into one service object. All image-mutating
// operations go through the session so pixels and annotation coordinates
// change together. The GUI and the HTTP API share one session, so every
// method is safe for concurrent use; mutations hold the write lock and
// notify observers after releasing it.
package session

import (
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/MikeWise2718/fish-scales-sub003/internal/annotation"
	"github.com/MikeWise2718/fish-scales-sub003/internal/calibration"
	"github.com/MikeWise2718/fish-scales-sub003/internal/imageproc"
	"github.com/MikeWise2718/fish-scales-sub003/internal/scaleimage"
	"github.com/MikeWise2718/fish-scales-sub003/internal/stats"
	"github.com/MikeWise2718/fish-scales-sub003/internal/viewport"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

// Observer receives change notifications from the session. Implementations
// must be cheap; they run synchronously on the mutating call, outside the
// session lock, so they may call back into session accessors.
type Observer interface {
	// ImageChanged fires when the pixel data is replaced (load, crop,
	// rotate, autocrop).
	ImageChanged()
	// AnnotationsChanged fires when any set's content changes.
	AnnotationsChanged()
	// CalibrationChanged fires when the conversion factor changes.
	CalibrationChanged()
}

// Event is one entry in the session's action log.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Details   string    `json:"details"`
}

// Session owns the mutable state for one annotation working session.
type Session struct {
	mu sync.RWMutex

	cal   *calibration.Model
	sets  *annotation.Registry
	stats *stats.Aggregator
	doc   *scaleimage.Document

	observers []Observer
	events    []Event
}

// New creates an empty session with the default hexagonalness weights.
func New() *Session {
	s, err := NewWithWeights(stats.DefaultWeights)
	if err != nil {
		// The default weights are valid by construction.
		panic(err)
	}
	return s
}

// NewWithWeights creates an empty session with custom score weights.
func NewWithWeights(weights stats.Weights) (*Session, error) {
	agg, err := stats.New(weights)
	if err != nil {
		return nil, err
	}
	cal := calibration.New()
	s := &Session{
		cal:   cal,
		sets:  annotation.NewRegistry(cal),
		stats: agg,
	}
	cal.OnChange(func(m *calibration.Model) {
		s.mu.Lock()
		s.sets.RecomputeDerived()
		s.record("calibration", fmt.Sprintf("%.6f um/px via %s", m.UmPerPixel(), m.Method()))
		s.mu.Unlock()
		s.notifyCalibration()
		s.notifyAnnotations()
	})
	return s, nil
}

// Calibration returns the session's calibration model.
func (s *Session) Calibration() *calibration.Model {
	return s.cal
}

// Sets returns the annotation set registry.
func (s *Session) Sets() *annotation.Registry {
	return s.sets
}

// Document returns the loaded image, or nil before any load.
func (s *Session) Document() *scaleimage.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Observe registers an observer for session change notifications.
func (s *Session) Observe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// snapshotObservers copies the observer list so callbacks run unlocked.
func (s *Session) snapshotObservers() []Observer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

func (s *Session) notifyImage() {
	for _, o := range s.snapshotObservers() {
		o.ImageChanged()
	}
}

func (s *Session) notifyAnnotations() {
	for _, o := range s.snapshotObservers() {
		o.AnnotationsChanged()
	}
}

func (s *Session) notifyCalibration() {
	for _, o := range s.snapshotObservers() {
		o.CalibrationChanged()
	}
}

// record appends to the action log and mirrors it to the process log. The
// caller must hold the write lock.
func (s *Session) record(eventType, details string) {
	s.events = append(s.events, Event{
		Timestamp: time.Now(),
		EventType: eventType,
		Details:   details,
	})
	log.Printf("%s: %s", eventType, details)
}

// Events returns a copy of the action log, oldest first.
func (s *Session) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// LoadImage reads an image from disk and starts a fresh working session
// around it: all sets are discarded and one empty default set is created.
func (s *Session) LoadImage(path string) error {
	doc, err := scaleimage.Load(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = doc
	s.sets.Reset()
	s.sets.NewSet("default")
	if doc.EstimatedUmPerPx > 0 && !s.cal.Calibrated() {
		log.Printf("resolution metadata suggests %.4f um/px (estimate only)", doc.EstimatedUmPerPx)
	}
	s.record("load", path)
	s.mu.Unlock()
	s.notifyImage()
	s.notifyAnnotations()
	return nil
}

// SetDocument installs already-decoded pixels, starting a fresh working
// session the same way LoadImage does.
func (s *Session) SetDocument(doc *scaleimage.Document) {
	s.mu.Lock()
	s.doc = doc
	s.sets.Reset()
	s.sets.NewSet("default")
	s.record("load", doc.Path)
	s.mu.Unlock()
	s.notifyImage()
	s.notifyAnnotations()
}

// ApplyCrop replaces the image with the given region and translates every
// set's coordinates into the cropped frame. Tubercles outside the region are
// dropped and all operation logs are cleared. On error nothing changes.
func (s *Session) ApplyCrop(region geometry.Rect) error {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return fmt.Errorf("no image loaded")
	}
	if region.Width < viewport.MinCropSide || region.Height < viewport.MinCropSide {
		s.mu.Unlock()
		return fmt.Errorf("crop region must be at least %dx%d pixels", viewport.MinCropSide, viewport.MinCropSide)
	}
	ri := region.ToInt()
	cropped, err := imageproc.Crop(s.doc.Image, ri)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc.Image = cropped
	s.sets.ApplyCrop(geometry.NewRect(float64(ri.X), float64(ri.Y), float64(ri.Width), float64(ri.Height)))
	s.record("crop", fmt.Sprintf("%d,%d %dx%d", ri.X, ri.Y, ri.Width, ri.Height))
	s.mu.Unlock()
	s.notifyImage()
	s.notifyAnnotations()
	return nil
}

// ApplyRotate rotates the image a quarter-turn and remaps every set's
// coordinates with the matching rigid transform. No tubercle is lost, but
// the geometry change clears all operation logs.
func (s *Session) ApplyRotate(dir viewport.Direction) error {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return fmt.Errorf("no image loaded")
	}
	w, h := s.doc.Width(), s.doc.Height()
	rotated, err := imageproc.Rotate(s.doc.Image, dir)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc.Image = rotated
	s.sets.ApplyRemap(viewport.RotationRemap(dir, float64(w), float64(h)))
	s.record("rotate", string(dir))
	s.mu.Unlock()
	s.notifyImage()
	s.notifyAnnotations()
	return nil
}

// ApplyAutocrop crops the image to the detected scale region. The automated
// crop invalidates all prior annotation, so every set is emptied.
func (s *Session) ApplyAutocrop() (geometry.RectInt, error) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return geometry.RectInt{}, fmt.Errorf("no image loaded")
	}
	cropped, region, err := imageproc.Autocrop(s.doc.Image)
	if err != nil {
		s.mu.Unlock()
		return geometry.RectInt{}, err
	}
	s.doc.Image = cropped
	s.sets.ClearAllContent()
	s.record("autocrop", fmt.Sprintf("%d,%d %dx%d", region.X, region.Y, region.Width, region.Height))
	s.mu.Unlock()
	s.notifyImage()
	s.notifyAnnotations()
	return region, nil
}

// Undo reverts the latest edit on the active set.
func (s *Session) Undo() (annotation.Op, bool) {
	s.mu.Lock()
	op, _, ok := s.sets.Undo()
	if ok {
		s.record("undo", op.Kind.String())
	}
	s.mu.Unlock()
	if ok {
		s.notifyAnnotations()
	}
	return op, ok
}

// Redo re-applies the latest undone edit on the active set.
func (s *Session) Redo() (annotation.Op, bool) {
	s.mu.Lock()
	op, _, ok := s.sets.Redo()
	if ok {
		s.record("redo", op.Kind.String())
	}
	s.mu.Unlock()
	if ok {
		s.notifyAnnotations()
	}
	return op, ok
}

// NoteEdit records an edit made directly on a set and fans out the change
// notification. Call it after any Set mutation performed outside the session.
func (s *Session) NoteEdit(eventType, details string) {
	s.mu.Lock()
	s.record(eventType, details)
	s.mu.Unlock()
	s.notifyAnnotations()
}

// Summary computes the statistics for the active set; the zero Summary when
// there is none.
func (s *Session) Summary() stats.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := s.sets.Active()
	if active == nil {
		return stats.Summary{}
	}
	return s.stats.Summarize(active)
}

// SummaryFor computes the statistics for a specific set.
func (s *Session) SummaryFor(set *annotation.Set) stats.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.Summarize(set)
}

// Image returns the current pixel data, or nil before any load.
func (s *Session) Image() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil
	}
	return s.doc.Image
}
