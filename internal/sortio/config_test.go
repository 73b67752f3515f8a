package sortio

import (
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestConfigValidateDefaultsFields(t *testing.T) {
	dir := t.TempDir()
	path := writeLines(t, dir, "in.txt", []string{"a"})
	cfg := &Config{Inputs: []string{path}}
	assert.NilError(t, cfg.Validate())
	assert.Equal(t, len(cfg.Fields), 1)
	assert.Equal(t, cfg.Fields[0].Index, 0)
}

func TestConfigValidateRejectsEmptyInputs(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	assert.ErrorContains(t, err, "input list must not be empty")
}

func TestConfigValidateRejectsMissingInput(t *testing.T) {
	cfg := &Config{Inputs: []string{filepath.Join(t.TempDir(), "does-not-exist.txt")}}
	err := cfg.Validate()
	assert.ErrorContains(t, err, "does not exist")
}

func TestConfigValidateRejectsMixedFieldIndexZero(t *testing.T) {
	dir := t.TempDir()
	path := writeLines(t, dir, "in.txt", []string{"a"})
	cfg := &Config{
		Inputs: []string{path},
		Fields: []Field{NewField(0, String), NewField(1, String)},
	}
	err := cfg.Validate()
	assert.ErrorContains(t, err, "cannot be combined")
}

func TestConfigValidateRaisesMaxRunsToTasksFloor(t *testing.T) {
	dir := t.TempDir()
	path := writeLines(t, dir, "in.txt", []string{"a"})
	cfg := &Config{Inputs: []string{path}, Tasks: 10, MaxRuns: 5}
	assert.NilError(t, cfg.Validate())
	assert.Equal(t, cfg.MaxRuns, 20)
}

func TestConfigValidateFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeLines(t, dir, "in.txt", []string{"a"})
	cfg := &Config{Inputs: []string{path}}
	assert.NilError(t, cfg.Validate())
	assert.Equal(t, cfg.QueueSize, defaultQueueSize)
	assert.Equal(t, cfg.ChunkSizeBytes, int64(defaultChunkSizeBytes))
	assert.Equal(t, cfg.FieldSeparator, byte(defaultFieldSeparator))
	assert.Equal(t, cfg.LineTerminator, byte(defaultLineTerminator))
	assert.Assert(t, cfg.Progress != nil)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig([]string{"a"}, "b")
	assert.Equal(t, cfg.Order, Asc)
	assert.Equal(t, cfg.ConcurrentMerge, true)
	assert.Equal(t, cfg.MaxRuns, defaultMaxRuns)
	assert.Equal(t, cfg.ChunkSizeBytes, int64(defaultChunkSizeBytes))
}

func TestWithChunkSizeMBConvertsToBytes(t *testing.T) {
	cfg := NewConfig([]string{"a"}, "b").WithChunkSizeMB(5)
	assert.Equal(t, cfg.ChunkSizeBytes, int64(5_000_000))
}

func TestMaxRunsPerWorkerFloorsAtOne(t *testing.T) {
	cfg := NewConfig([]string{"a"}, "b")
	cfg.MaxRuns = 1
	cfg.Tasks = 100
	assert.Equal(t, cfg.maxRunsPerWorker(), 1)
}
