package annotation

import (
	"errors"

	"github.com/MikeWise2718/fish-scales-sub003/internal/calibration"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

// ErrSetNotFound reports a reference to an unknown annotation set.
var ErrSetNotFound = errors.New("annotation: no such set")

// Registry owns the annotation sets for the current image, tracks which one
// is active, and routes undo/redo to the active set's log. Each set's
// history is fully isolated.
type Registry struct {
	cal      *calibration.Model
	sets     []*Set
	activeID int
	nextID   int
}

// NewRegistry creates an empty registry bound to the session calibration.
func NewRegistry(cal *calibration.Model) *Registry {
	return &Registry{cal: cal, activeID: -1}
}

// NewSet creates a set with the given name and makes it active.
func (r *Registry) NewSet(name string) *Set {
	s := NewSet(r.nextID, name, r.cal)
	r.nextID++
	r.sets = append(r.sets, s)
	r.activeID = s.ID
	return s
}

// RestoreSet adds a set with a fixed id while loading persisted annotation
// data. The id allocator is advanced past it so later NewSet calls never
// collide.
func (r *Registry) RestoreSet(id int, name string) *Set {
	s := NewSet(id, name, r.cal)
	r.sets = append(r.sets, s)
	if id >= r.nextID {
		r.nextID = id + 1
	}
	if r.activeID < 0 {
		r.activeID = id
	}
	return s
}

// Reset discards every set, including all histories.
func (r *Registry) Reset() {
	r.sets = nil
	r.activeID = -1
	r.nextID = 0
}

// Sets returns the sets in creation order.
func (r *Registry) Sets() []*Set {
	return r.sets
}

// Get returns the set with the given id.
func (r *Registry) Get(id int) (*Set, bool) {
	for _, s := range r.sets {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Active returns the active set, or nil when the registry is empty.
func (r *Registry) Active() *Set {
	s, _ := r.Get(r.activeID)
	return s
}

// SetActive switches which set undo/redo and edits operate on.
func (r *Registry) SetActive(id int) error {
	if _, ok := r.Get(id); !ok {
		return ErrSetNotFound
	}
	r.activeID = id
	return nil
}

// DeleteSet removes a set irreversibly; its operation log is discarded, not
// undoable. When the active set is deleted the first remaining set becomes
// active.
func (r *Registry) DeleteSet(id int) error {
	for i, s := range r.sets {
		if s.ID == id {
			r.sets = append(r.sets[:i], r.sets[i+1:]...)
			if r.activeID == id {
				if len(r.sets) > 0 {
					r.activeID = r.sets[0].ID
				} else {
					r.activeID = -1
				}
			}
			return nil
		}
	}
	return ErrSetNotFound
}

// Undo reverts the most recent edit of the active set. The returned set is
// the one the operation applied to; ok is false when there is no active set
// or nothing to undo.
func (r *Registry) Undo() (Op, *Set, bool) {
	s := r.Active()
	if s == nil {
		return Op{}, nil, false
	}
	op, ok := s.Undo()
	return op, s, ok
}

// Redo re-applies the most recently undone edit of the active set.
func (r *Registry) Redo() (Op, *Set, bool) {
	s := r.Active()
	if s == nil {
		return Op{}, nil, false
	}
	op, ok := s.Redo()
	return op, s, ok
}

// ApplyCrop translates every set's coordinates into the cropped frame,
// dropping tubercles that fall outside it. All operation logs are cleared.
func (r *Registry) ApplyCrop(crop geometry.Rect) {
	for _, s := range r.sets {
		s.Translate(-crop.X, -crop.Y, crop.Width, crop.Height)
	}
}

// ApplyRemap applies a rigid coordinate remapping to every set, clearing
// every log.
func (r *Registry) ApplyRemap(fn func(geometry.Point2D) geometry.Point2D) {
	for _, s := range r.sets {
		s.Remap(fn)
	}
}

// ClearAllContent empties every set; used after an automated server-side
// crop that invalidates all prior annotation.
func (r *Registry) ClearAllContent() {
	for _, s := range r.sets {
		s.ClearContent()
	}
}

// RecomputeDerived re-derives all physical-unit values in every set.
func (r *Registry) RecomputeDerived() {
	for _, s := range r.sets {
		s.RecomputeDerived()
	}
}
