package annotation

import (
	"errors"
	"math"
	"sort"

	"github.com/MikeWise2718/fish-scales-sub003/internal/calibration"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

var (
	// ErrDuplicateEdge rejects an edge whose unordered endpoint pair is
	// already connected.
	ErrDuplicateEdge = errors.New("annotation: edge already exists for this pair")
	// ErrNodeNotFound reports a reference to an unknown tubercle id.
	ErrNodeNotFound = errors.New("annotation: no such node")
	// ErrEdgeNotFound reports a reference to an unknown edge.
	ErrEdgeNotFound = errors.New("annotation: no such edge")
	// ErrSelfEdge rejects an edge with identical endpoints.
	ErrSelfEdge = errors.New("annotation: edge endpoints must differ")
	// ErrInvalidDiameter rejects a non-positive or non-finite diameter.
	ErrInvalidDiameter = errors.New("annotation: diameter must be positive and finite")
)

// Set is one named, independently undoable collection of tubercles and
// edges for the current image. All mutations go through the exported edit
// methods, which record their inverse in the set's operation log.
type Set struct {
	ID   int
	Name string

	nodes  map[int]Tubercle
	edges  map[pairKey]Edge
	nextID int
	dirty  bool
	log    *OperationLog
	cal    *calibration.Model
}

// NewSet creates an empty set bound to the session's calibration model.
func NewSet(id int, name string, cal *calibration.Model) *Set {
	return &Set{
		ID:    id,
		Name:  name,
		nodes: make(map[int]Tubercle),
		edges: make(map[pairKey]Edge),
		log:   NewOperationLog(),
		cal:   cal,
	}
}

// Log returns the set's operation log.
func (s *Set) Log() *OperationLog {
	return s.log
}

// Dirty reports whether the set has unsaved changes.
func (s *Set) Dirty() bool {
	return s.dirty
}

// MarkSaved clears the dirty flag after a successful save.
func (s *Set) MarkSaved() {
	s.dirty = false
}

// MarkDirty flags the set as changed. Exposed for geometry and calibration
// changes applied from outside the edit path.
func (s *Set) MarkDirty() {
	s.dirty = true
}

// NodeCount returns the number of tubercles.
func (s *Set) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of edges.
func (s *Set) EdgeCount() int {
	return len(s.edges)
}

// Node returns the tubercle with the given id.
func (s *Set) Node(id int) (Tubercle, bool) {
	t, ok := s.nodes[id]
	return t, ok
}

// Nodes returns all tubercles ordered by id.
func (s *Set) Nodes() []Tubercle {
	out := make([]Tubercle, 0, len(s.nodes))
	for _, t := range s.nodes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges ordered by endpoint pair.
func (s *Set) Edges() []Edge {
	out := make([]Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].key(), out[j].key()
		if a.lo != b.lo {
			return a.lo < b.lo
		}
		return a.hi < b.hi
	})
	return out
}

// EdgeBetween returns the edge connecting the two ids, in either order.
func (s *Set) EdgeBetween(id1, id2 int) (Edge, bool) {
	e, ok := s.edges[makePair(id1, id2)]
	return e, ok
}

// HitNode returns the id of the tubercle whose disc contains the given
// image-space point, preferring the smallest hit when markers overlap.
func (s *Set) HitNode(p geometry.Point2D) (int, bool) {
	bestID, bestR := 0, math.MaxFloat64
	found := false
	for id, t := range s.nodes {
		r := t.Radius()
		if r < 3 {
			r = 3 // minimum pick radius for tiny markers
		}
		if t.Centroid.Distance(p) <= r && r < bestR {
			bestID, bestR, found = id, r, true
		}
	}
	return bestID, found
}

// --- edit operations -------------------------------------------------------

// AddNode inserts a new tubercle and returns it. The id is assigned
// monotonically and never reused within the set's lifetime.
func (s *Set) AddNode(centroid geometry.Point2D, diameterPx, circularity float64, boundary bool) (Tubercle, error) {
	if !validDiameter(diameterPx) {
		return Tubercle{}, ErrInvalidDiameter
	}
	t := Tubercle{
		ID:          s.nextID,
		Centroid:    centroid,
		DiameterPx:  diameterPx,
		DiameterUm:  s.cal.ToPhysical(diameterPx),
		Circularity: circularity,
		Boundary:    boundary,
	}
	s.nextID++
	s.nodes[t.ID] = t
	s.log.Push(Op{Kind: OpAddNode, Node: t})
	s.dirty = true
	return t, nil
}

// DeleteNode removes a tubercle and cascade-deletes its incident edges as a
// single undoable operation. The incident edges are snapshotted before
// removal so undo restores them with identical field values.
func (s *Set) DeleteNode(id int) (Op, error) {
	t, ok := s.nodes[id]
	if !ok {
		return Op{}, ErrNodeNotFound
	}
	incident := s.incidentEdges(id)
	delete(s.nodes, id)
	for _, e := range incident {
		delete(s.edges, e.key())
	}
	op := Op{Kind: OpDeleteNode, Node: t, Edges: incident}
	s.log.Push(op)
	s.dirty = true
	return op, nil
}

// MoveNode sets a tubercle's centroid and recomputes its incident edges.
func (s *Set) MoveNode(id int, to geometry.Point2D) error {
	t, ok := s.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	op := Op{Kind: OpMoveNode, Node: t, From: t.Centroid, To: to}
	t.Centroid = to
	s.nodes[id] = t
	s.recomputeIncident(id)
	s.log.Push(op)
	s.dirty = true
	return nil
}

// ResizeNode sets a tubercle's pixel diameter, re-deriving its physical
// diameter and incident edge distances.
func (s *Set) ResizeNode(id int, diameterPx float64) error {
	if !validDiameter(diameterPx) {
		return ErrInvalidDiameter
	}
	t, ok := s.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	op := Op{Kind: OpResizeNode, Node: t, FromDiameterPx: t.DiameterPx, ToDiameterPx: diameterPx}
	t.DiameterPx = diameterPx
	t.DiameterUm = s.cal.ToPhysical(diameterPx)
	s.nodes[id] = t
	s.recomputeIncident(id)
	s.log.Push(op)
	s.dirty = true
	return nil
}

// AddEdge connects two tubercles. A set holds at most one edge per unordered
// pair; duplicates are rejected with ErrDuplicateEdge.
func (s *Set) AddEdge(id1, id2 int) (Edge, error) {
	if id1 == id2 {
		return Edge{}, ErrSelfEdge
	}
	if _, ok := s.nodes[id1]; !ok {
		return Edge{}, ErrNodeNotFound
	}
	if _, ok := s.nodes[id2]; !ok {
		return Edge{}, ErrNodeNotFound
	}
	key := makePair(id1, id2)
	if _, ok := s.edges[key]; ok {
		return Edge{}, ErrDuplicateEdge
	}
	e := s.computeEdge(key.lo, key.hi)
	s.edges[key] = e
	s.log.Push(Op{Kind: OpAddEdge, Edges: []Edge{e}})
	s.dirty = true
	return e, nil
}

// DeleteEdge removes the edge between the two ids.
func (s *Set) DeleteEdge(id1, id2 int) error {
	key := makePair(id1, id2)
	e, ok := s.edges[key]
	if !ok {
		return ErrEdgeNotFound
	}
	delete(s.edges, key)
	s.log.Push(Op{Kind: OpDeleteEdge, Edges: []Edge{e}})
	s.dirty = true
	return nil
}

// DeleteMulti atomically removes a selection of nodes and edges as one log
// entry. Edges incident to a deleted node are cascade-deleted even when not
// part of the selection. Nothing is applied if any reference is unknown.
func (s *Set) DeleteMulti(nodeIDs []int, edgePairs [][2]int) (Op, error) {
	nodeSet := make(map[int]Tubercle, len(nodeIDs))
	for _, id := range nodeIDs {
		t, ok := s.nodes[id]
		if !ok {
			return Op{}, ErrNodeNotFound
		}
		nodeSet[id] = t
	}
	edgeSet := make(map[pairKey]Edge)
	for _, pair := range edgePairs {
		key := makePair(pair[0], pair[1])
		e, ok := s.edges[key]
		if !ok {
			return Op{}, ErrEdgeNotFound
		}
		edgeSet[key] = e
	}
	// Cascade: edges touching a deleted node go too.
	for key, e := range s.edges {
		if _, ok := nodeSet[e.ID1]; ok {
			edgeSet[key] = e
			continue
		}
		if _, ok := nodeSet[e.ID2]; ok {
			edgeSet[key] = e
		}
	}

	nodes := make([]Tubercle, 0, len(nodeSet))
	for id, t := range nodeSet {
		nodes = append(nodes, t)
		delete(s.nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	edges := make([]Edge, 0, len(edgeSet))
	for key, e := range edgeSet {
		edges = append(edges, e)
		delete(s.edges, key)
	}
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i].key(), edges[j].key()
		if a.lo != b.lo {
			return a.lo < b.lo
		}
		return a.hi < b.hi
	})

	op := Op{Kind: OpDeleteMulti, Nodes: nodes, Edges: edges}
	s.log.Push(op)
	s.dirty = true
	return op, nil
}

// Undo reverts the most recent operation. The second return value is false
// when there is nothing to undo; that is a no-op, not an error.
func (s *Set) Undo() (Op, bool) {
	op, ok := s.log.PopUndo()
	if !ok {
		return Op{}, false
	}
	s.applyInverse(op)
	s.dirty = true
	return op, true
}

// Redo re-applies the most recently undone operation.
func (s *Set) Redo() (Op, bool) {
	op, ok := s.log.PopRedo()
	if !ok {
		return Op{}, false
	}
	s.applyForward(op)
	s.dirty = true
	return op, true
}

func (s *Set) applyInverse(op Op) {
	switch op.Kind {
	case OpAddNode:
		delete(s.nodes, op.Node.ID)
		for _, e := range s.incidentEdges(op.Node.ID) {
			delete(s.edges, e.key())
		}
	case OpDeleteNode:
		s.nodes[op.Node.ID] = op.Node
		for _, e := range op.Edges {
			s.edges[e.key()] = e
		}
	case OpMoveNode:
		if t, ok := s.nodes[op.Node.ID]; ok {
			t.Centroid = op.From
			s.nodes[op.Node.ID] = t
			s.recomputeIncident(op.Node.ID)
		}
	case OpResizeNode:
		if t, ok := s.nodes[op.Node.ID]; ok {
			t.DiameterPx = op.FromDiameterPx
			t.DiameterUm = s.cal.ToPhysical(op.FromDiameterPx)
			s.nodes[op.Node.ID] = t
			s.recomputeIncident(op.Node.ID)
		}
	case OpAddEdge:
		for _, e := range op.Edges {
			delete(s.edges, e.key())
		}
	case OpDeleteEdge, OpDeleteMulti:
		for _, t := range op.Nodes {
			s.nodes[t.ID] = t
		}
		for _, e := range op.Edges {
			s.edges[e.key()] = e
		}
	}
}

func (s *Set) applyForward(op Op) {
	switch op.Kind {
	case OpAddNode:
		s.nodes[op.Node.ID] = op.Node
		if op.Node.ID >= s.nextID {
			s.nextID = op.Node.ID + 1
		}
	case OpDeleteNode:
		delete(s.nodes, op.Node.ID)
		for _, e := range op.Edges {
			delete(s.edges, e.key())
		}
	case OpMoveNode:
		if t, ok := s.nodes[op.Node.ID]; ok {
			t.Centroid = op.To
			s.nodes[op.Node.ID] = t
			s.recomputeIncident(op.Node.ID)
		}
	case OpResizeNode:
		if t, ok := s.nodes[op.Node.ID]; ok {
			t.DiameterPx = op.ToDiameterPx
			t.DiameterUm = s.cal.ToPhysical(op.ToDiameterPx)
			s.nodes[op.Node.ID] = t
			s.recomputeIncident(op.Node.ID)
		}
	case OpAddEdge:
		for _, e := range op.Edges {
			s.edges[e.key()] = e
		}
	case OpDeleteEdge:
		for _, e := range op.Edges {
			delete(s.edges, e.key())
		}
	case OpDeleteMulti:
		for _, t := range op.Nodes {
			delete(s.nodes, t.ID)
		}
		for _, e := range op.Edges {
			delete(s.edges, e.key())
		}
	}
}

// --- geometry and calibration consequences ---------------------------------

// Translate shifts every centroid by (dx, dy) and drops tubercles falling
// outside the new image bounds, cascade-deleting their edges. This is the
// crop consequence: it is not undoable, so the operation log is cleared.
func (s *Set) Translate(dx, dy, newWidth, newHeight float64) {
	for id, t := range s.nodes {
		t.Centroid.X += dx
		t.Centroid.Y += dy
		if t.Centroid.X < 0 || t.Centroid.Y < 0 ||
			t.Centroid.X >= newWidth || t.Centroid.Y >= newHeight {
			delete(s.nodes, id)
			for _, e := range s.incidentEdges(id) {
				delete(s.edges, e.key())
			}
			continue
		}
		s.nodes[id] = t
	}
	s.recomputeAllEdges()
	s.log.Clear()
	s.dirty = true
}

// Remap applies a coordinate remapping (90-degree rotation) to every
// centroid. The transform is rigid so no tubercle is lost, but the change is
// still a geometry change: the log is cleared and the set marked dirty.
func (s *Set) Remap(fn func(geometry.Point2D) geometry.Point2D) {
	for id, t := range s.nodes {
		t.Centroid = fn(t.Centroid)
		s.nodes[id] = t
	}
	s.recomputeAllEdges()
	s.log.Clear()
	s.dirty = true
}

// ClearContent removes every tubercle and edge and discards the history.
// Used when the image is replaced by a server-side automated crop that
// invalidates all prior annotation.
func (s *Set) ClearContent() {
	s.nodes = make(map[int]Tubercle)
	s.edges = make(map[pairKey]Edge)
	s.log.Clear()
	s.dirty = true
}

// RecomputeDerived re-derives every physical-unit value from the current
// calibration. Called whenever the calibration model changes; derived values
// are never cached across a calibration change.
func (s *Set) RecomputeDerived() {
	for id, t := range s.nodes {
		t.DiameterUm = s.cal.ToPhysical(t.DiameterPx)
		s.nodes[id] = t
	}
	s.recomputeAllEdges()
	s.dirty = true
}

// Restore bulk-loads persisted or imported content without recording
// history. Derived fields are recomputed against the active calibration.
func (s *Set) Restore(nodes []Tubercle, edges []Edge) {
	s.nodes = make(map[int]Tubercle, len(nodes))
	s.edges = make(map[pairKey]Edge, len(edges))
	for _, t := range nodes {
		s.nodes[t.ID] = t
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	for _, e := range edges {
		if _, ok := s.nodes[e.ID1]; !ok {
			continue // skip edges referencing unknown nodes
		}
		if _, ok := s.nodes[e.ID2]; !ok {
			continue
		}
		s.edges[e.key()] = e
	}
	s.RecomputeDerived()
	s.log.Clear()
	s.dirty = false
}

// --- helpers ----------------------------------------------------------------

func (s *Set) incidentEdges(id int) []Edge {
	var out []Edge
	for _, e := range s.edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].key(), out[j].key()
		if a.lo != b.lo {
			return a.lo < b.lo
		}
		return a.hi < b.hi
	})
	return out
}

func (s *Set) computeEdge(id1, id2 int) Edge {
	a := s.nodes[id1]
	b := s.nodes[id2]
	centerPx := a.Centroid.Distance(b.Centroid)
	edgePx := centerPx - a.Radius() - b.Radius()
	return Edge{
		ID1:              id1,
		ID2:              id2,
		CenterDistanceUm: s.cal.ToPhysical(centerPx),
		EdgeDistanceUm:   s.cal.ToPhysical(edgePx),
	}
}

func (s *Set) recomputeIncident(id int) {
	for key, e := range s.edges {
		if e.Touches(id) {
			s.edges[key] = s.computeEdge(key.lo, key.hi)
		}
	}
}

func (s *Set) recomputeAllEdges() {
	for key := range s.edges {
		s.edges[key] = s.computeEdge(key.lo, key.hi)
	}
}

func validDiameter(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}
