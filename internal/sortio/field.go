package sortio

// Field is a user-declared key extractor: a 1-based index into the
// separator-delimited parts of a line (0 meaning "the whole line"), its
// typed interpretation, and normalization/randomization flags. A Field is
// immutable once a Config has been built from it.
type Field struct {
	Index        int
	Type         FieldType
	IgnoreBlanks bool
	IgnoreCase   bool
	Random       bool
}

// NewField declares a field extractor at the given 1-based index (0 means
// the whole line) with the given type.
func NewField(index int, t FieldType) Field {
	return Field{Index: index, Type: t}
}

// WithIgnoreBlanks returns a copy of f with leading/trailing whitespace
// trimmed before typed parsing or comparison. Meaningful for String keys;
// harmless no-op for Integer/Number, which are trimmed implicitly by
// their numeric parsers.
func (f Field) WithIgnoreBlanks(v bool) Field {
	f.IgnoreBlanks = v
	return f
}

// WithIgnoreCase returns a copy of f with String comparison performed
// case-insensitively (by uppercasing before comparison).
func (f Field) WithIgnoreCase(v bool) Field {
	f.IgnoreCase = v
	return f
}

// WithRandom returns a copy of f whose extracted value is discarded in
// favor of a freshly generated same-typed random value at key-construction
// time. Using random on any field turns the whole sort into a uniform
// shuffle.
func (f Field) WithRandom(v bool) Field {
	f.Random = v
	return f
}
