package sortio

import (
	"bufio"
	"container/heap"
	"io"
	"os"

	"github.com/xsort/xsort/internal/fsutil"
)

// SortedRun is a persisted, already-sorted chunk. Scheduling for
// premerge/merge orders runs by line count only (OQ2 in SPEC_FULL.md
// keeps file size as a noted-but-unimplemented variation), so smaller
// runs are merged first and premerge work stays balanced.
type SortedRun struct {
	Path      string
	LineCount int
}

// runHeap is a container/heap min-heap of SortedRun keyed by LineCount,
// used as a worker's local pool of runs awaiting premerge or collection.
type runHeap []SortedRun

func (h runHeap) Len() int            { return len(h) }
func (h runHeap) Less(i, j int) bool  { return h[i].LineCount < h[j].LineCount }
func (h runHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *runHeap) Push(x interface{}) { *h = append(*h, x.(SortedRun)) }
func (h *runHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// RunHeap is the exported, ready-to-use wrapper a worker keeps as its
// local-only state (never shared across goroutines).
type RunHeap struct {
	h runHeap
}

// NewRunHeap returns an empty heap.
func NewRunHeap() *RunHeap {
	rh := &RunHeap{}
	heap.Init(&rh.h)
	return rh
}

// Push adds a run.
func (rh *RunHeap) Push(r SortedRun) { heap.Push(&rh.h, r) }

// Pop removes and returns the smallest run.
func (rh *RunHeap) Pop() SortedRun { return heap.Pop(&rh.h).(SortedRun) }

// Len reports how many runs are currently held.
func (rh *RunHeap) Len() int { return rh.h.Len() }

// Drain removes and returns every run, leaving the heap empty. Order is
// not guaranteed; callers that need sorted order should Pop in a loop.
func (rh *RunHeap) Drain() []SortedRun {
	out := make([]SortedRun, 0, rh.h.Len())
	for rh.h.Len() > 0 {
		out = append(out, rh.Pop())
	}
	return out
}

// UnmergedRun is a streaming, lazily-advanced view over a sorted run
// file: its path, a buffered reader, and the lookahead head record (nil
// when the run is exhausted). It is the heap element used during k-way
// merge.
type UnmergedRun struct {
	Path string

	file   *os.File
	reader *bufio.Reader
	head   *Record

	fields     []Field
	separator  byte
	terminator byte
	order      Order
}

// OpenUnmergedRun opens path and primes its head record.
func OpenUnmergedRun(path string, fields []Field, separator, terminator byte, order Order) (*UnmergedRun, error) {
	f, err := fsutil.Open(path)
	if err != nil {
		return nil, &IoError{Path: path, Op: "open", Err: err}
	}

	u := &UnmergedRun{
		Path:       path,
		file:       f,
		reader:     bufio.NewReader(f),
		fields:     fields,
		separator:  separator,
		terminator: terminator,
		order:      order,
	}
	if err := u.advance(); err != nil {
		f.Close()
		return nil, err
	}
	return u, nil
}

// Empty reports whether the run has been fully consumed.
func (u *UnmergedRun) Empty() bool { return u.head == nil }

// Head returns the current lookahead record, or nil if Empty.
func (u *UnmergedRun) Head() *Record { return u.head }

// Advance discards the current head and reads the next record into its
// place, setting head to nil once the run is exhausted.
func (u *UnmergedRun) Advance() error {
	return u.advance()
}

func (u *UnmergedRun) advance() error {
	line, err := u.reader.ReadString(u.terminator)
	if err != nil {
		if err == io.EOF {
			if line == "" {
				u.head = nil
				return nil
			}
			// final line without a trailing terminator
		} else {
			return &IoError{Path: u.Path, Op: "read", Err: err}
		}
	}

	rec, err := NewRecord(line, u.fields, u.separator, u.terminator, u.order)
	if err != nil {
		return err
	}
	u.head = rec
	return nil
}

// Close releases the underlying file handle.
func (u *UnmergedRun) Close() error {
	return u.file.Close()
}

// mergeHeap orders UnmergedRuns so the smallest non-empty head is always
// at the top and an empty run sorts strictly after every non-empty one —
// the invariant that lets the merge loop's "only one left" branch fire
// only once every other run is exhausted.
type mergeHeap []*UnmergedRun

func (h mergeHeap) Len() int { return len(h) }

func (h mergeHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	switch {
	case a.Empty() && b.Empty():
		return false
	case a.Empty():
		return false
	case b.Empty():
		return true
	default:
		return a.head.Compare(b.head) < 0
	}
}

func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(*UnmergedRun)) }

func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
