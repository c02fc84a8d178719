package annotation

import "github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"

// MaxUndoDepth bounds each stack of an OperationLog. The oldest entry is
// evicted on overflow.
const MaxUndoDepth = 50

// OpKind tags a reversible edit operation.
type OpKind int

const (
	OpAddNode OpKind = iota
	OpDeleteNode
	OpMoveNode
	OpResizeNode
	OpAddEdge
	OpDeleteEdge
	OpDeleteMulti
)

func (k OpKind) String() string {
	switch k {
	case OpAddNode:
		return "add-node"
	case OpDeleteNode:
		return "delete-node"
	case OpMoveNode:
		return "move-node"
	case OpResizeNode:
		return "resize-node"
	case OpAddEdge:
		return "add-edge"
	case OpDeleteEdge:
		return "delete-edge"
	case OpDeleteMulti:
		return "delete-multi"
	default:
		return "unknown"
	}
}

// Op is one entry of an OperationLog. It carries both the forward data and
// the snapshots needed to invert the edit exactly. For delete operations the
// Edges slice holds the cascade-deleted edges captured before removal.
type Op struct {
	Kind OpKind

	// Node state. For add/delete this is the full node as inserted/removed;
	// for move/resize it identifies the node.
	Node  Tubercle
	Nodes []Tubercle // DeleteMulti only
	Edges []Edge     // added, deleted, or cascade-deleted edges

	// MoveNode
	From geometry.Point2D
	To   geometry.Point2D

	// ResizeNode (pixel diameters; physical values are re-derived)
	FromDiameterPx float64
	ToDiameterPx   float64
}

// OperationLog is a bounded two-stack undo/redo history scoped to one
// annotation set.
type OperationLog struct {
	undo []Op
	redo []Op
}

// NewOperationLog returns an empty log.
func NewOperationLog() *OperationLog {
	return &OperationLog{}
}

// Push records a freshly applied operation. The redo stack is cleared
// unconditionally: there is no branching history.
func (l *OperationLog) Push(op Op) {
	l.undo = append(l.undo, op)
	if len(l.undo) > MaxUndoDepth {
		l.undo = l.undo[1:]
	}
	l.redo = l.redo[:0]
}

// PopUndo removes and returns the most recent operation, moving it to the
// redo stack. Returns false when there is nothing to undo.
func (l *OperationLog) PopUndo() (Op, bool) {
	if len(l.undo) == 0 {
		return Op{}, false
	}
	op := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, op)
	if len(l.redo) > MaxUndoDepth {
		l.redo = l.redo[1:]
	}
	return op, true
}

// PopRedo removes and returns the most recently undone operation, moving it
// back to the undo stack. Returns false when there is nothing to redo.
func (l *OperationLog) PopRedo() (Op, bool) {
	if len(l.redo) == 0 {
		return Op{}, false
	}
	op := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, op)
	if len(l.undo) > MaxUndoDepth {
		l.undo = l.undo[1:]
	}
	return op, true
}

// Clear discards both stacks. Geometry changes are not undoable edits.
func (l *OperationLog) Clear() {
	l.undo = l.undo[:0]
	l.redo = l.redo[:0]
}

// UndoDepth returns the number of undoable entries.
func (l *OperationLog) UndoDepth() int {
	return len(l.undo)
}

// RedoDepth returns the number of redoable entries.
func (l *OperationLog) RedoDepth() int {
	return len(l.redo)
}
