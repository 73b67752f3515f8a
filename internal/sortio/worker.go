package sortio

import (
	"sort"

	"github.com/xsort/xsort/log/stat"
)

// WorkerState is the Go analog of the reference implementation's
// thread-local Config/heap/capacity-hint statics (§9 "Thread-local
// configuration & heaps"): one instance lives on each worker goroutine,
// is never touched by any other goroutine, and is passed explicitly into
// every task/broadcast closure rather than stored in a package-level
// global.
type WorkerState struct {
	cfg *Config

	heap *RunHeap

	lineCapacityHint   int
	recordCapacityHint int
}

// NewWorkerState returns a fresh, empty per-worker state bound to cfg.
func NewWorkerState(cfg *Config) *WorkerState {
	return &WorkerState{
		cfg:                cfg,
		heap:               NewRunHeap(),
		lineCapacityHint:   256,
		recordCapacityHint: 64,
	}
}

// HandleChunk runs the sort task for one chunk end to end: read, filter,
// parse, sort, and write a run, applying the premerge back-pressure
// trigger first when the worker's local run count has already reached
// max_runs/tasks (SPEC_FULL.md OQ1: premerge-before-write, matching the
// reference implementation's literal ordering).
func (w *WorkerState) HandleChunk(chunk Chunk) error {
	records, err := readChunkRecords(chunk, w.cfg, w.lineCapacityHint, w.recordCapacityHint)
	if err != nil {
		return err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Compare(records[j]) < 0
	})
	w.updateCapacityHints(records)

	if w.heap.Len() >= w.cfg.maxRunsPerWorker() {
		if err := w.premergeOnce(); err != nil {
			return err
		}
	}

	run, err := writeRun(records, w.cfg)
	if err != nil {
		return err
	}
	w.heap.Push(run)
	return nil
}

func (w *WorkerState) updateCapacityHints(records []*Record) {
	for _, r := range records {
		if len(r.Line) > w.lineCapacityHint {
			w.lineCapacityHint = len(r.Line)
		}
	}
	if len(records) > w.recordCapacityHint {
		w.recordCapacityHint = len(records)
	}
}

// premergeOnce pops the two smallest runs and fuses them into one via the
// merge engine, with removal enabled and no affixes, then pushes the
// result back. A no-op if fewer than two runs are held.
func (w *WorkerState) premergeOnce() error {
	if w.heap.Len() < 2 {
		return nil
	}
	a := w.heap.Pop()
	b := w.heap.Pop()

	merged, err := MergeRuns([]string{a.Path, b.Path}, w.cfg, true, false)
	if err != nil {
		return err
	}
	w.heap.Push(merged)
	stat.Add("runs_premerged", 1)
	return nil
}

// CollapseToOne merges every run this worker currently holds into a
// single run, with removal enabled and no affixes — the action broadcast
// to every worker when concurrent_merge is enabled (§4.5(f)).
func (w *WorkerState) CollapseToOne() error {
	if w.heap.Len() <= 1 {
		return nil
	}
	runs := w.heap.Drain()
	paths := make([]string, len(runs))
	for i, r := range runs {
		paths[i] = r.Path
	}

	merged, err := MergeRuns(paths, w.cfg, true, false)
	if err != nil {
		return err
	}
	w.heap.Push(merged)
	return nil
}

// Runs removes and returns every run currently held, leaving the worker's
// heap empty, for the collection phase.
func (w *WorkerState) Runs() []SortedRun {
	return w.heap.Drain()
}
