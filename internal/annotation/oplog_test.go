package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushEvictsOldest(t *testing.T) {
	l := NewOperationLog()
	for i := 0; i < MaxUndoDepth+10; i++ {
		l.Push(Op{Kind: OpAddNode, Node: Tubercle{ID: i}})
	}
	assert.Equal(t, MaxUndoDepth, l.UndoDepth())

	// The oldest surviving entry is number 10.
	for l.UndoDepth() > 1 {
		l.PopUndo()
	}
	op, ok := l.PopUndo()
	assert.True(t, ok)
	assert.Equal(t, 10, op.Node.ID)
}

func TestPushClearsRedo(t *testing.T) {
	l := NewOperationLog()
	l.Push(Op{Kind: OpAddNode})
	l.Push(Op{Kind: OpMoveNode})

	_, ok := l.PopUndo()
	assert.True(t, ok)
	assert.Equal(t, 1, l.RedoDepth())

	l.Push(Op{Kind: OpResizeNode})
	assert.Zero(t, l.RedoDepth())

	_, ok = l.PopRedo()
	assert.False(t, ok)
}

func TestPopEmpty(t *testing.T) {
	l := NewOperationLog()
	_, ok := l.PopUndo()
	assert.False(t, ok)
	_, ok = l.PopRedo()
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	l := NewOperationLog()
	l.Push(Op{Kind: OpAddNode})
	l.PopUndo()
	l.Push(Op{Kind: OpAddEdge})
	l.Clear()
	assert.Zero(t, l.UndoDepth())
	assert.Zero(t, l.RedoDepth())
}
