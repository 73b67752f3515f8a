package sortio

import (
	"fmt"
	"strings"
)

// Record owns one raw input line (including its trailing terminator, if
// the source had one) plus the vector of keys extracted from it and the
// direction the job sorts in. The line text is never mutated after
// construction; only the keys participate in comparison.
type Record struct {
	Line  string
	Keys  []Key
	Order Order
}

// NewRecord builds a Record from one line of input. fields must not mix
// index 0 (whole line) with any other index — that invariant is enforced
// once at Config-validation time, not per record. Construction fails if a
// configured field index exceeds the number of separator-delimited parts
// on the line, or if a typed field fails to parse. terminator is the
// configured line terminator byte (Config.LineTerminator) and is trimmed
// from the end of the line before key extraction, never assumed to be LF.
func NewRecord(line string, fields []Field, separator byte, terminator byte, order Order) (*Record, error) {
	body := strings.TrimSuffix(line, string(terminator))

	wholeLine := len(fields) == 1 && fields[0].Index == 0

	var parts []string
	if !wholeLine {
		parts = strings.Split(body, string(separator))
	}

	keys := make([]Key, len(fields))
	for i, f := range fields {
		var raw string
		if f.Index == 0 {
			raw = body
		} else {
			if f.Index > len(parts) {
				return nil, fmt.Errorf("field index %d exceeds %d part(s) on line %q", f.Index, len(parts), body)
			}
			raw = parts[f.Index-1]
		}

		k, err := NewKey(f, raw)
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", f.Index, f.Type, err)
		}
		keys[i] = k
	}

	return &Record{Line: line, Keys: keys, Order: order}, nil
}

// Compare returns -1, 0, or 1 comparing r to other lexicographically
// across the positional key vector, flipping the result when Order is
// Desc. Both records must have been built with the same field list and
// order, which holds for every pair compared within one sort job.
func (r *Record) Compare(other *Record) int {
	for i := range r.Keys {
		c := r.Keys[i].Compare(other.Keys[i])
		if c != 0 {
			if r.Order == Desc {
				return -c
			}
			return c
		}
	}
	return 0
}

// LessOrEqual reports whether r sorts at or before other under the
// configured order — the predicate the merge loop's batching condition
// and the is-sorted verifier both use.
func (r *Record) LessOrEqual(other *Record) bool {
	return r.Compare(other) <= 0
}
