package sortio

import (
	"os"
	"regexp"
	"runtime"

	"github.com/xsort/xsort/progressbar"
)

const (
	defaultTasks           = 0 // 0 means "all cores"
	defaultQueueSize       = 4096
	defaultChunkSizeBytes  = 10_000_000
	defaultMaxRuns         = 1024
	defaultFieldSeparator  = '\t'
	defaultLineTerminator  = '\n'
	tmpFilePrefix          = "part-"
	tmpFileSuffix          = ".unmerged"
)

var defaultIgnoreLines = regexp.MustCompile(`^#`)

// Config is the fluent builder surface for a sort job, grounded on the
// reference crate's Sort builder (with*/add* mutators rather than Go's
// more common functional-options style, preserved because callers outside
// this module treat Config as an external collaborator with its own
// contract).
type Config struct {
	Inputs []string
	Output string

	TmpDir string

	Tasks     int
	QueueSize int

	FieldSeparator  byte
	LineTerminator  byte
	IgnoreEmpty     bool
	IgnoreLines     *regexp.Regexp
	ConcurrentMerge bool

	ChunkSizeBytes int64
	MaxRuns        int

	Fields []Field
	Order  Order

	Prefix []string
	Suffix []string

	// Progress reports chunk/byte throughput to the CLI's --progress
	// flag (SPEC_FULL §B). Defaults to a no-op so callers that never
	// touch it pay nothing.
	Progress progressbar.ProgressBar
}

// NewConfig returns a Config with the reference crate's defaults: tasks=0
// (all cores), queue size 4096, chunk size 10MB, max_runs 1024, field
// separator TAB, line terminator LF, ignore_lines `^#`, concurrent_merge
// enabled, and a single whole-line String field in ascending order.
func NewConfig(inputs []string, output string) *Config {
	return &Config{
		Inputs:          inputs,
		Output:          output,
		TmpDir:          os.TempDir(),
		Tasks:           defaultTasks,
		QueueSize:       defaultQueueSize,
		FieldSeparator:  defaultFieldSeparator,
		LineTerminator:  defaultLineTerminator,
		IgnoreLines:     defaultIgnoreLines,
		ConcurrentMerge: true,
		ChunkSizeBytes:  defaultChunkSizeBytes,
		MaxRuns:         defaultMaxRuns,
		Fields:          []Field{NewField(0, String)},
		Order:           Asc,
		Progress:        &progressbar.MockProgressBar{},
	}
}

func (c *Config) WithTasks(n int) *Config { c.Tasks = n; return c }

func (c *Config) WithTmpDir(dir string) *Config { c.TmpDir = dir; return c }

func (c *Config) WithFieldSeparator(sep byte) *Config { c.FieldSeparator = sep; return c }

func (c *Config) WithLineTerminator(term byte) *Config { c.LineTerminator = term; return c }

func (c *Config) WithIgnoreEmpty(v bool) *Config { c.IgnoreEmpty = v; return c }

func (c *Config) WithIgnoreLines(re *regexp.Regexp) *Config { c.IgnoreLines = re; return c }

func (c *Config) WithConcurrentMerge(v bool) *Config { c.ConcurrentMerge = v; return c }

func (c *Config) WithChunkSizeBytes(n int64) *Config { c.ChunkSizeBytes = n; return c }

// WithChunkSizeMB is the megabyte convenience form of WithChunkSizeBytes,
// restored from the reference crate's with_chunk_size_mb.
func (c *Config) WithChunkSizeMB(mb int64) *Config { return c.WithChunkSizeBytes(mb * 1_000_000) }

func (c *Config) WithMaxRuns(n int) *Config { c.MaxRuns = n; return c }

func (c *Config) AddField(f Field) *Config { c.Fields = append(c.Fields, f); return c }

func (c *Config) WithFields(fs []Field) *Config { c.Fields = fs; return c }

func (c *Config) WithOrder(o Order) *Config { c.Order = o; return c }

func (c *Config) AddPrefixLine(line string) *Config { c.Prefix = append(c.Prefix, line); return c }

func (c *Config) WithPrefixLines(lines []string) *Config { c.Prefix = lines; return c }

func (c *Config) AddSuffixLine(line string) *Config { c.Suffix = append(c.Suffix, line); return c }

func (c *Config) WithSuffixLines(lines []string) *Config { c.Suffix = lines; return c }

// WithProgress swaps in a live progress bar (cheggaaa/pb/v3-backed) when
// v is true, or a no-op reporter when false, mirroring the teacher's own
// --progress/NoOp toggle.
func (c *Config) WithProgress(v bool) *Config {
	if v {
		c.Progress = &progressbar.CommandProgressBar{}
	} else {
		c.Progress = &progressbar.MockProgressBar{}
	}
	return c
}

// resolvedTasks returns Tasks, substituting the logical CPU count for the
// "all cores" sentinel of 0.
func (c *Config) resolvedTasks() int {
	if c.Tasks <= 0 {
		return runtime.NumCPU()
	}
	return c.Tasks
}

// Validate checks the invariants the reference crate enforces before a
// job starts: a non-empty input list, every input existing, index 0 never
// mixed with any other field index, and max_runs respecting its lower
// bound of tasks*2 (raised silently rather than rejected, since tasks is
// itself resolved lazily from "all cores").
func (c *Config) Validate() error {
	if len(c.Fields) == 0 {
		c.Fields = []Field{NewField(0, String)}
	}
	if len(c.Inputs) == 0 {
		return &ConfigError{Reason: "input list must not be empty"}
	}
	for _, in := range c.Inputs {
		if _, err := os.Stat(in); err != nil {
			return &ConfigError{Reason: "input does not exist: " + in}
		}
	}

	hasWholeLine := false
	hasOther := false
	for _, f := range c.Fields {
		if f.Index == 0 {
			hasWholeLine = true
		} else {
			hasOther = true
		}
	}
	if hasWholeLine && hasOther {
		return &ConfigError{Reason: "field index 0 (whole line) cannot be combined with other field indexes"}
	}

	if c.QueueSize <= 0 {
		c.QueueSize = defaultQueueSize
	}
	if c.ChunkSizeBytes <= 0 {
		c.ChunkSizeBytes = defaultChunkSizeBytes
	}
	if c.FieldSeparator == 0 {
		c.FieldSeparator = defaultFieldSeparator
	}
	if c.LineTerminator == 0 {
		c.LineTerminator = defaultLineTerminator
	}
	if c.TmpDir == "" {
		c.TmpDir = os.TempDir()
	}
	if c.Progress == nil {
		c.Progress = &progressbar.MockProgressBar{}
	}

	minRuns := c.resolvedTasks() * 2
	if c.MaxRuns < minRuns {
		c.MaxRuns = minRuns
	}

	return nil
}

// maxRunsPerWorker is the per-worker premerge threshold named in §4.3:
// max_runs / tasks.
func (c *Config) maxRunsPerWorker() int {
	tasks := c.resolvedTasks()
	if tasks <= 0 {
		tasks = 1
	}
	n := c.MaxRuns / tasks
	if n < 1 {
		n = 1
	}
	return n
}
