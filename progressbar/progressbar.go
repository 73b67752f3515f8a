package progressbar

import (
	"fmt"
	"sync"

	"github.com/cheggaaa/pb/v3"
)

// ProgressBar reports chunk/run throughput for a running sort or merge job.
type ProgressBar interface {
	InitializeProgressBar()
	Finish()
	IncrementCompletedChunks()
	IncrementTotalChunks()
	AddCompletedBytes(bytes int)
	AddTotalBytes(bytes int64)
}

// MockProgressBar discards every update; used when --progress isn't set.
type MockProgressBar struct{}

func (pb *MockProgressBar) InitializeProgressBar() {}

func (pb *MockProgressBar) Finish() {}

func (pb *MockProgressBar) IncrementCompletedChunks() {}

func (pb *MockProgressBar) IncrementTotalChunks() {}

func (pb *MockProgressBar) AddCompletedBytes(bytes int) {}

func (pb *MockProgressBar) AddTotalBytes(bytes int64) {}

// CommandProgressBar renders a live bar tracking bytes processed out of
// the total input size, annotated with a (completed/total) chunk counter.
type CommandProgressBar struct {
	totalChunks     int64
	completedChunks int64
	totalBytes      int64
	completedBytes  int64
	mu              sync.RWMutex
	progressbar     *pb.ProgressBar
}

const progressbarTemplate = `{{percent . | green}} {{bar . " " "━" "━" "─" " " | green}} {{counters . | green}} {{speed . "(%s/s)" | red}} {{rtime . "%s left" | blue}} {{ string . "chunks" | yellow}}`

func (cp *CommandProgressBar) InitializeProgressBar() {
	cp.progressbar = pb.New64(0)
	cp.progressbar.Set(pb.Bytes, true)
	cp.progressbar.Set(pb.SIBytesPrefix, true)
	cp.progressbar.SetWidth(128)
	cp.progressbar.SetTemplateString(progressbarTemplate)
	cp.progressbar.Set("chunks", fmt.Sprintf("(%d/%d)", 0, 0))
	cp.progressbar.Start()
}

func (cp *CommandProgressBar) Finish() {
	cp.progressbar.Finish()
}

func (cp *CommandProgressBar) IncrementCompletedChunks() {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.completedChunks++
	cp.progressbar.Set("chunks", fmt.Sprintf("(%d/%d)", cp.completedChunks, cp.totalChunks))
}

func (cp *CommandProgressBar) IncrementTotalChunks() {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.totalChunks++
	cp.progressbar.Set("chunks", fmt.Sprintf("(%d/%d)", cp.completedChunks, cp.totalChunks))
}

func (cp *CommandProgressBar) AddCompletedBytes(bytes int) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.completedBytes += int64(bytes)
	cp.progressbar.Add(bytes)
}

func (cp *CommandProgressBar) AddTotalBytes(bytes int64) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.totalBytes += bytes
	cp.progressbar.SetTotal(cp.totalBytes)
}
