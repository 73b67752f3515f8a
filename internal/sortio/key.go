package sortio

import (
	"crypto/rand"
	"encoding/hex"
	"math"
	mathrand "math/rand"
	"strconv"
	"strings"
)

// Key is a tagged comparable value extracted from one Field. Within a
// single sort job every Record's key vector has identical arity and
// positional types, so Compare is only ever called between same-typed
// keys at a given position.
type Key struct {
	Type FieldType
	Str  string
	Int  int64
	Num  float64
}

// NewKey builds the Key at field f's position from raw, the already
// separator-extracted (or whole-line, for index 0) field text.
func NewKey(f Field, raw string) (Key, error) {
	if f.Random {
		return randomKey(f.Type), nil
	}

	if f.IgnoreBlanks {
		raw = strings.TrimSpace(raw)
	}

	switch f.Type {
	case String:
		if f.IgnoreCase {
			raw = strings.ToUpper(raw)
		}
		return Key{Type: String, Str: raw}, nil
	case Integer:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Key{}, err
		}
		return Key{Type: Integer, Int: v}, nil
	case Number:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Key{}, err
		}
		return Key{Type: Number, Num: v}, nil
	default:
		return Key{}, errUnknownFieldType
	}
}

var errUnknownFieldType = &ConfigError{Reason: "unknown field type"}

func randomKey(t FieldType) Key {
	switch t {
	case Integer:
		return Key{Type: Integer, Int: mathrand.Int63()}
	case Number:
		return Key{Type: Number, Num: mathrand.Float64()}
	default:
		var b [16]byte
		_, _ = rand.Read(b[:])
		return Key{Type: String, Str: hex.EncodeToString(b[:])}
	}
}

// Compare returns -1, 0, or 1 comparing a to b. Both must share the same
// Type. Number comparison uses a total-order extension for NaN: NaN == NaN
// and NaN is greater than every non-NaN value, which keeps Number safe as
// a heap/sort key (ordinary IEEE-754 comparisons would break the heap
// invariant since NaN compares false against everything).
func (a Key) Compare(b Key) int {
	switch a.Type {
	case String:
		return strings.Compare(a.Str, b.Str)
	case Integer:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	case Number:
		return compareNumber(a.Num, b.Num)
	default:
		return 0
	}
}

func compareNumber(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
