package sortio

import (
	"bufio"
	"io"

	"github.com/xsort/xsort/internal/fsutil"
)

// Check streams every input in cfg (never chunking, never writing a run
// file) and reports whether the configured key order holds across every
// adjacent pair of surviving lines, both within a file and across the
// boundary between consecutive inputs — the is-sorted verifier named in
// §4.6. It stops at the first out-of-order line and returns false; the
// position of that line is not reported.
func Check(cfg *Config) (bool, error) {
	if err := cfg.Validate(); err != nil {
		return false, err
	}

	var prev *Record
	for _, input := range cfg.Inputs {
		ok, err := checkOneFile(input, cfg, &prev)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func checkOneFile(path string, cfg *Config, prev **Record) (bool, error) {
	f, err := fsutil.Open(path)
	if err != nil {
		return false, &IoError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	r := bufio.NewReader(f)
	lineNo := 0
	for {
		line, err := r.ReadString(cfg.LineTerminator)
		if len(line) == 0 && err != nil {
			if err == io.EOF {
				break
			}
			return false, &IoError{Path: path, Op: "read", Err: err}
		}
		lineNo++

		if shouldSkip(line, cfg) {
			if err == io.EOF {
				break
			}
			continue
		}

		rec, perr := NewRecord(line, cfg.Fields, cfg.FieldSeparator, cfg.LineTerminator, cfg.Order)
		if perr != nil {
			return false, &ParseError{Path: path, ChunkOffset: 0, LineInChunk: lineNo, Err: perr}
		}

		if *prev != nil && !(*prev).LessOrEqual(rec) {
			return false, nil
		}
		*prev = rec

		if err == io.EOF {
			break
		}
	}
	return true, nil
}
