package sortio

import (
	"bufio"
	"io"
	"os"

	"github.com/xsort/xsort/internal/fsutil"
)

// Chunk is a contiguous, line-aligned byte range of one input file.
type Chunk struct {
	Path   string
	Offset int64
	Length int64
}

// EnumerateChunks walks path and yields chunks whose lengths are
// approximately targetBytes but extended to the next terminator, so every
// chunk holds whole lines and the union of all chunks covers the file
// exactly with no overlap.
//
// Algorithm (mirrors the reference chunk iterator): track pos and
// remaining = size - pos. If remaining <= targetBytes, emit the final
// chunk (pos, remaining) and stop. Otherwise seek forward targetBytes
// bytes from pos, read forward to (and including) the next terminator,
// call that position next, emit (pos, next-pos), and set pos = next.
//
// An empty file yields no chunks. A target at or beyond the file size
// yields one chunk spanning the whole file. A final line missing its
// terminator is still included in the last chunk.
func EnumerateChunks(path string, targetBytes int64, terminator byte) ([]Chunk, error) {
	f, err := fsutil.Open(path)
	if err != nil {
		return nil, &IoError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &IoError{Path: path, Op: "stat", Err: err}
	}
	size := info.Size()
	if size == 0 {
		return nil, nil
	}
	if targetBytes <= 0 {
		targetBytes = size
	}

	var chunks []Chunk
	pos := int64(0)
	for {
		remaining := size - pos
		if remaining == 0 {
			// A prior iteration's forward seek already ran past the
			// final terminator-less line to EOF; nothing left to emit.
			break
		}
		if remaining <= targetBytes {
			chunks = append(chunks, Chunk{Path: path, Offset: pos, Length: remaining})
			break
		}

		next, err := seekNextTerminator(f, pos+targetBytes, terminator, size)
		if err != nil {
			return nil, &IoError{Path: path, Op: "read", Err: err}
		}
		chunks = append(chunks, Chunk{Path: path, Offset: pos, Length: next - pos})
		pos = next
	}
	return chunks, nil
}

// seekNextTerminator returns the offset immediately after the first
// terminator at or after from, or size if none is found before EOF.
func seekNextTerminator(f *os.File, from int64, terminator byte, size int64) (int64, error) {
	if from >= size {
		return size, nil
	}
	if _, err := f.Seek(from, io.SeekStart); err != nil {
		return 0, err
	}

	r := bufio.NewReader(f)
	pos := from
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			return size, nil
		}
		if err != nil {
			return 0, err
		}
		pos++
		if b == terminator {
			return pos, nil
		}
	}
}
