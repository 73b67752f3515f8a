package sortio

import (
	"bufio"
	"io"
	"strings"

	"github.com/xsort/xsort/internal/fsutil"
	"github.com/xsort/xsort/log/stat"
)

// readChunkRecords reads exactly chunk.Length bytes at chunk.Offset,
// drops lines excluded by ignore_empty/ignore_lines, and parses the
// survivors into Records.
func readChunkRecords(chunk Chunk, cfg *Config, lineCapHint, recordCapHint int) ([]*Record, error) {
	f, err := fsutil.Open(chunk.Path)
	if err != nil {
		return nil, &IoError{Path: chunk.Path, Op: "open", Err: err}
	}
	defer f.Close()

	if _, err := f.Seek(chunk.Offset, 0); err != nil {
		return nil, &IoError{Path: chunk.Path, Op: "seek", Err: err}
	}

	buf := make([]byte, chunk.Length)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, &IoError{Path: chunk.Path, Op: "read", Err: err}
	}

	records := make([]*Record, 0, recordCapHint)

	r := bufio.NewReaderSize(strings.NewReader(string(buf)), max(lineCapHint, 4096))
	lineNo := 0
	for {
		line, err := r.ReadString(cfg.LineTerminator)
		if len(line) == 0 && err != nil {
			break
		}
		lineNo++

		if shouldSkip(line, cfg) {
			if err != nil {
				break
			}
			continue
		}

		rec, perr := NewRecord(line, cfg.Fields, cfg.FieldSeparator, cfg.LineTerminator, cfg.Order)
		if perr != nil {
			return nil, &ParseError{Path: chunk.Path, ChunkOffset: chunk.Offset, LineInChunk: lineNo, Err: perr}
		}
		records = append(records, rec)

		if err != nil {
			break
		}
	}

	return records, nil
}

func shouldSkip(line string, cfg *Config) bool {
	trimmed := strings.TrimSpace(strings.TrimRight(line, string(cfg.LineTerminator)))
	if cfg.IgnoreEmpty && trimmed == "" {
		return true
	}
	if cfg.IgnoreLines != nil && cfg.IgnoreLines.MatchString(trimmed) {
		return true
	}
	return false
}

// writeRun writes records, in their current order, to a freshly created
// temp file inside cfg.TmpDir, named part-{random}.unmerged, and promotes
// it to a SortedRun carrying its line count.
func writeRun(records []*Record, cfg *Config) (SortedRun, error) {
	f, err := fsutil.CreateTemp(cfg.TmpDir, tmpFilePrefix+"*"+tmpFileSuffix)
	if err != nil {
		return SortedRun{}, &IoError{Path: cfg.TmpDir, Op: "create", Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range records {
		if _, err := w.WriteString(r.Line); err != nil {
			return SortedRun{}, &IoError{Path: f.Name(), Op: "write", Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return SortedRun{}, &IoError{Path: f.Name(), Op: "write", Err: err}
	}

	stat.Add("runs_written", 1)
	return SortedRun{Path: f.Name(), LineCount: len(records)}, nil
}
