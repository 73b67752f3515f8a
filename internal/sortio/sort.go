package sortio

import (
	"sync"

	"github.com/xsort/xsort/internal/fsutil"
	"github.com/xsort/xsort/internal/workerpool"
	"github.com/xsort/xsort/log"
	"github.com/xsort/xsort/log/stat"
	"github.com/xsort/xsort/parallel/fdlimit"
)

// Sort runs a full external sort job end to end (§4.5): validate cfg,
// raise the open-file soft limit, fan every input's chunks out across a
// worker pool, optionally collapse each worker's local runs once
// concurrently, collect every surviving run, merge them into the final
// output (with affixes), and atomically rename into place.
func Sort(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	previous, raised, err := fdlimit.Raise(uint64(cfg.MaxRuns + 256))
	if err != nil {
		return &ResourceError{Err: err}
	}
	if raised {
		defer func() {
			if err := fdlimit.Restore(previous); err != nil {
				log.Error(&log.ErrorMessage{Operation: "sort", Command: "fdlimit-restore", Err: err.Error()})
			}
		}()
	}

	tasks := cfg.resolvedTasks()
	pool := workerpool.New(tasks, cfg.QueueSize, func(i int) interface{} {
		return NewWorkerState(cfg)
	})

	cfg.Progress.InitializeProgressBar()
	defer cfg.Progress.Finish()

	var chunks []Chunk
	for _, input := range cfg.Inputs {
		cs, err := EnumerateChunks(input, cfg.ChunkSizeBytes, cfg.LineTerminator)
		if err != nil {
			return err
		}
		chunks = append(chunks, cs...)
		stat.Add("chunks_enumerated", int64(len(cs)))
		for _, c := range cs {
			stat.Add("bytes_processed", c.Length)
		}
	}

	for _, c := range chunks {
		cfg.Progress.IncrementTotalChunks()
		cfg.Progress.AddTotalBytes(c.Length)
	}

	// submitted tracks every chunk task still in flight. BroadcastToAllWorkers
	// below runs against each worker's own goroutine the moment that worker
	// reaches its select loop, with no guarantee it has drained every chunk
	// already handed to it via Submit — without this barrier, a chunk
	// dequeued after a worker's CollapseToOne/collection broadcast has
	// already run would produce a run nobody ever collects.
	var submitted sync.WaitGroup
	submitted.Add(len(chunks))
	for _, chunk := range chunks {
		chunk := chunk
		pool.Submit(func(state interface{}) error {
			defer submitted.Done()
			ws := state.(*WorkerState)
			if err := ws.HandleChunk(chunk); err != nil {
				return err
			}
			cfg.Progress.IncrementCompletedChunks()
			cfg.Progress.AddCompletedBytes(int(chunk.Length))
			stat.Add("sort_tasks_run", 1)
			return nil
		})
	}
	submitted.Wait()

	if cfg.ConcurrentMerge {
		if err := pool.BroadcastToAllWorkers(func(state interface{}) error {
			return state.(*WorkerState).CollapseToOne()
		}); err != nil {
			pool.Shutdown(workerpool.CompletePending)
			pool.Join()
			return err
		}
	}

	var mu sync.Mutex
	var allRuns []SortedRun
	collectErr := pool.BroadcastToAllWorkers(func(state interface{}) error {
		runs := state.(*WorkerState).Runs()
		mu.Lock()
		allRuns = append(allRuns, runs...)
		mu.Unlock()
		return nil
	})

	pool.Shutdown(workerpool.CompletePending)
	if joinErr := pool.Join(); joinErr != nil {
		return &PoolError{Err: joinErr}
	}
	if collectErr != nil {
		return collectErr
	}

	paths := make([]string, len(allRuns))
	for i, r := range allRuns {
		paths[i] = r.Path
	}
	stat.Add("final_merge_fanin", int64(len(paths)))

	final, err := MergeRuns(paths, cfg, true, true)
	if err != nil {
		return err
	}
	stat.Add("lines_written", int64(final.LineCount))

	if err := fsutil.Rename(final.Path, cfg.Output); err != nil {
		return &IoError{Path: final.Path, Op: "rename", Err: err}
	}
	return nil
}

// Merge is the standalone merge entry point (§4.7): cfg.Inputs are
// treated as already-sorted shards (never chunked or re-sorted) and
// fused directly via the merge engine, with affixes, then renamed into
// place.
func Merge(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	previous, raised, err := fdlimit.Raise(uint64(len(cfg.Inputs) + 256))
	if err != nil {
		return &ResourceError{Err: err}
	}
	if raised {
		defer func() {
			if err := fdlimit.Restore(previous); err != nil {
				log.Error(&log.ErrorMessage{Operation: "merge", Command: "fdlimit-restore", Err: err.Error()})
			}
		}()
	}

	cfg.Progress.InitializeProgressBar()
	for range cfg.Inputs {
		cfg.Progress.IncrementTotalChunks()
	}

	final, err := MergeRuns(cfg.Inputs, cfg, false, true)
	if err != nil {
		cfg.Progress.Finish()
		return err
	}
	stat.Add("lines_written", int64(final.LineCount))

	for range cfg.Inputs {
		cfg.Progress.IncrementCompletedChunks()
	}
	cfg.Progress.Finish()

	if err := fsutil.Rename(final.Path, cfg.Output); err != nil {
		return &IoError{Path: final.Path, Op: "rename", Err: err}
	}
	return nil
}
