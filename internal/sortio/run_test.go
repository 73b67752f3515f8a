package sortio

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestRunHeapPopsSmallestLineCountFirst(t *testing.T) {
	h := NewRunHeap()
	h.Push(SortedRun{Path: "c", LineCount: 30})
	h.Push(SortedRun{Path: "a", LineCount: 10})
	h.Push(SortedRun{Path: "b", LineCount: 20})

	assert.Equal(t, h.Pop().Path, "a")
	assert.Equal(t, h.Pop().Path, "b")
	assert.Equal(t, h.Pop().Path, "c")
	assert.Equal(t, h.Len(), 0)
}

func TestRunHeapDrainEmptiesHeap(t *testing.T) {
	h := NewRunHeap()
	h.Push(SortedRun{Path: "x", LineCount: 1})
	h.Push(SortedRun{Path: "y", LineCount: 2})

	drained := h.Drain()
	assert.Equal(t, len(drained), 2)
	assert.Equal(t, h.Len(), 0)
}

func TestMergeHeapEmptyReaderSortsLast(t *testing.T) {
	cfg := newTestConfig(t)
	full := writeRunFile(t, cfg, "apple", "banana")
	single := writeRunFile(t, cfg, "only")

	fullReader, err := OpenUnmergedRun(full, cfg.Fields, cfg.FieldSeparator, cfg.LineTerminator, cfg.Order)
	assert.NilError(t, err)
	defer fullReader.Close()

	emptyReader, err := OpenUnmergedRun(single, cfg.Fields, cfg.FieldSeparator, cfg.LineTerminator, cfg.Order)
	assert.NilError(t, err)
	defer emptyReader.Close()
	assert.NilError(t, emptyReader.Advance()) // exhaust it
	assert.Assert(t, emptyReader.Empty())

	h := mergeHeap{emptyReader, fullReader}
	// An empty reader must never sort before a non-empty one.
	assert.Assert(t, !h.Less(0, 1))
	assert.Assert(t, h.Less(1, 0))
}
