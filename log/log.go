package log

import (
	"fmt"
	"log"
	"os"

	"github.com/xsort/xsort/log/stat"
)

// outputCh synchronizes writes to standard output. Multi-line logging is
// not possible if the orchestrator and its workers print at the same time.
var outputCh = make(chan output, 10000)

var logger *leveledLogger

type output struct {
	text string
}

type logLevel int

const (
	levelTrace logLevel = iota
	levelDebug
	levelInfo
	levelError
)

func (l logLevel) String() string {
	switch l {
	case levelTrace:
		return "TRACE"
	case levelDebug:
		return "DEBUG"
	case levelInfo:
		return "#"
	case levelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LevelFromString maps a CLI-provided level name to a logLevel, defaulting
// to info on an unrecognized value.
func LevelFromString(s string) int {
	return int(levelFromString(s))
}

func levelFromString(s string) logLevel {
	switch s {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

type leveledLogger struct {
	donech chan struct{}
	impl   *log.Logger
	level  logLevel
	json   bool
}

// Init starts the package-level logger. It must be paired with Close.
func Init(level string, json bool) {
	logger = &leveledLogger{
		donech: make(chan struct{}),
		impl:   log.New(os.Stdout, "", 0),
		level:  levelFromString(level),
		json:   json,
	}
	go logger.drain()
}

func (l *leveledLogger) render(level logLevel, msg Message) string {
	if l.json {
		return msg.JSON()
	}
	return fmt.Sprintf("%5v %v", level, msg.String())
}

func (l *leveledLogger) printf(level logLevel, msg Message) {
	if level < l.level {
		return
	}
	outputCh <- output{text: l.render(level, msg)}
}

func (l *leveledLogger) drain() {
	defer close(l.donech)
	for o := range outputCh {
		l.impl.Println(o.text)
	}
}

// Trace logs a trace-level message, used for per-chunk/per-run detail.
func Trace(msg Message) {
	if logger == nil {
		return
	}
	logger.printf(levelTrace, msg)
}

// Debug logs a debug-level message.
func Debug(msg Message) {
	if logger == nil {
		return
	}
	logger.printf(levelDebug, msg)
}

// Info logs an info-level message.
func Info(msg Message) {
	if logger == nil {
		return
	}
	logger.printf(levelInfo, msg)
}

// Error logs an error-level message.
func Error(msg Message) {
	if logger == nil {
		return
	}
	logger.printf(levelError, msg)
}

// Stat prints the end-of-job statistics table, bypassing the level filter.
func Stat(s stat.Stats) {
	if logger == nil {
		return
	}
	if logger.json {
		outputCh <- output{text: s.JSON()}
		return
	}
	outputCh <- output{text: s.String()}
}

// Close drains the output channel and waits for pending writes to flush.
func Close() {
	if logger == nil {
		return
	}
	close(outputCh)
	<-logger.donech
	logger = nil
	outputCh = make(chan output, 10000)
}
