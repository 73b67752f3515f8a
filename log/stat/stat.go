// Package stat collects and renders summary counters for a sort job,
// surfaced through the --stat flag.
package stat

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/xsort/xsort/strutil"
)

var (
	enabled bool
	mu      sync.Mutex
	counts  map[string]int64
	started time.Time
)

// InitStat enables statistics collection for the running job.
func InitStat() {
	enabled = true
	mu.Lock()
	counts = map[string]int64{}
	started = time.Now()
	mu.Unlock()
}

// Add increments a named counter by delta. It is a no-op unless InitStat
// was called, so callers may unconditionally instrument hot paths.
func Add(name string, delta int64) {
	if !enabled {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	counts[name] += delta
}

// Stat is a single named counter in the job summary.
type Stat struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Stats implements log.Message so it can be routed through the logger.
type Stats []Stat

// labelize turns a snake_case counter name into a title-cased column
// label ("chunks_enumerated" -> "Chunks Enumerated"), the same per-word
// capitalization the teacher's own renderers apply to status strings
// (strutil.CapitalizeFirstRune).
func labelize(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		words[i] = strutil.CapitalizeFirstRune(w)
	}
	return strings.Join(words, " ")
}

func (s Stats) String() string {
	b := bytes.Buffer{}
	w := tabwriter.NewWriter(&b, 5, 0, 5, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "\n%s\t%s\t\n", "Metric", "Value")
	for _, stat := range s {
		value := fmt.Sprintf("%v", stat.Value)
		if stat.Name == "bytes_processed" {
			value = strutil.HumanizeBytes(stat.Value)
		}
		fmt.Fprintf(w, "%s\t%s\t\n", labelize(stat.Name), value)
	}
	w.Flush()
	return b.String()
}

func (s Stats) JSON() string {
	builder := strings.Builder{}
	for _, stat := range s {
		builder.WriteString(strutil.JSON(stat) + "\n")
	}
	return builder.String()
}

// Statistics snapshots the counters collected so far, in a stable order,
// plus the elapsed wall time since InitStat.
func Statistics() Stats {
	if !enabled {
		return Stats{}
	}

	mu.Lock()
	defer mu.Unlock()

	order := []string{
		"chunks_enumerated",
		"bytes_processed",
		"sort_tasks_run",
		"runs_written",
		"runs_premerged",
		"final_merge_fanin",
		"lines_written",
	}

	result := make(Stats, 0, len(order)+1)
	for _, name := range order {
		if v, ok := counts[name]; ok {
			result = append(result, Stat{Name: name, Value: v})
		}
	}
	result = append(result, Stat{Name: "elapsed_ms", Value: time.Since(started).Milliseconds()})
	return result
}
