package sortio

import (
	"bufio"
	"container/heap"
	"io"

	"github.com/xsort/xsort/internal/fsutil"
)

// MergeRuns is the merge engine (§4.4): it fuses the sorted runs at paths
// into one new sorted run. When remove is set, every consumed input run
// is deleted. When affix is set, cfg.Prefix is written first and
// cfg.Suffix last, verbatim, never parsed or compared.
func MergeRuns(paths []string, cfg *Config, remove, affix bool) (SortedRun, error) {
	out, err := fsutil.CreateTemp(cfg.TmpDir, tmpFilePrefix+"*"+tmpFileSuffix)
	if err != nil {
		return SortedRun{}, &IoError{Path: cfg.TmpDir, Op: "create", Err: err}
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	lineCount := 0

	writeAffixLine := func(line string) error {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if len(line) == 0 || line[len(line)-1] != cfg.LineTerminator {
			if err := w.WriteByte(cfg.LineTerminator); err != nil {
				return err
			}
		}
		lineCount++
		return nil
	}

	if affix {
		for _, line := range cfg.Prefix {
			if err := writeAffixLine(line); err != nil {
				return SortedRun{}, &IoError{Path: out.Name(), Op: "write", Err: err}
			}
		}
	}

	switch len(paths) {
	case 0:
		// nothing to merge; affixes (if any) already written above.
	case 1:
		n, err := streamSingleRun(paths[0], cfg.LineTerminator, w)
		if err != nil {
			return SortedRun{}, err
		}
		lineCount += n
		if remove {
			if err := fsutil.Remove(paths[0]); err != nil {
				return SortedRun{}, &IoError{Path: paths[0], Op: "remove", Err: err}
			}
		}
	default:
		n, err := kWayMerge(paths, cfg, remove, w)
		if err != nil {
			return SortedRun{}, err
		}
		lineCount += n
	}

	if affix {
		for _, line := range cfg.Suffix {
			if err := writeAffixLine(line); err != nil {
				return SortedRun{}, &IoError{Path: out.Name(), Op: "write", Err: err}
			}
		}
	}

	if err := w.Flush(); err != nil {
		return SortedRun{}, &IoError{Path: out.Name(), Op: "write", Err: err}
	}

	return SortedRun{Path: out.Name(), LineCount: lineCount}, nil
}

// streamSingleRun is the merge engine's single-input fast path: the
// lone run is already fully sorted, so it is copied through line-by-line
// rather than routed through a heap. terminator is the configured line
// terminator byte, never assumed to be LF.
func streamSingleRun(path string, terminator byte, w *bufio.Writer) (int, error) {
	f, err := fsutil.Open(path)
	if err != nil {
		return 0, &IoError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	r := bufio.NewReader(f)
	count := 0
	for {
		line, err := r.ReadString(terminator)
		if len(line) > 0 {
			if _, werr := w.WriteString(line); werr != nil {
				return count, &IoError{Path: path, Op: "write", Err: werr}
			}
			count++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, &IoError{Path: path, Op: "read", Err: err}
		}
	}
	return count, nil
}

// kWayMerge drives the heap-based multi-way merge described in §4.4: pop
// the reader with the smallest head, then keep emitting and advancing it
// while its head stays <= the new heap top (the "batch-while" loop, which
// amortizes heap churn across ascending runs from the same source). The
// heap's empty-sorts-last invariant (run.go's mergeHeap) guarantees the
// single-survivor drain only triggers once every other run is exhausted.
func kWayMerge(paths []string, cfg *Config, remove bool, w *bufio.Writer) (int, error) {
	h := make(mergeHeap, 0, len(paths))
	opened := make([]*UnmergedRun, 0, len(paths))
	defer func() {
		for _, u := range opened {
			u.Close()
		}
	}()

	for _, p := range paths {
		u, err := OpenUnmergedRun(p, cfg.Fields, cfg.FieldSeparator, cfg.LineTerminator, cfg.Order)
		if err != nil {
			return 0, err
		}
		opened = append(opened, u)
		h = append(h, u)
	}
	heap.Init(&h)

	count := 0
	emit := func(u *UnmergedRun) error {
		if _, err := w.WriteString(u.Head().Line); err != nil {
			return &IoError{Path: u.Path, Op: "write", Err: err}
		}
		count++
		return nil
	}

	closeDone := func(u *UnmergedRun) error {
		u.Close()
		if remove {
			if err := fsutil.Remove(u.Path); err != nil {
				return &IoError{Path: u.Path, Op: "remove", Err: err}
			}
		}
		return nil
	}

	for h.Len() >= 1 {
		if h.Len() == 1 {
			last := heap.Pop(&h).(*UnmergedRun)
			for !last.Empty() {
				if err := emit(last); err != nil {
					return count, err
				}
				if err := last.Advance(); err != nil {
					return count, err
				}
			}
			if err := closeDone(last); err != nil {
				return count, err
			}
			break
		}

		cur := heap.Pop(&h).(*UnmergedRun)
		for {
			if err := emit(cur); err != nil {
				return count, err
			}
			if err := cur.Advance(); err != nil {
				return count, err
			}
			if cur.Empty() {
				if err := closeDone(cur); err != nil {
					return count, err
				}
				break
			}
			if h.Len() == 0 {
				break
			}
			next := h[0]
			if !cur.Head().LessOrEqual(next.Head()) {
				break
			}
		}
		if !cur.Empty() {
			heap.Push(&h, cur)
		}
	}

	return count, nil
}
