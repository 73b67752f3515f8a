package sortio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func writeLines(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	assert.NilError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func sortedLines(n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = fmt.Sprintf("line-%05d", i)
	}
	return out
}

func TestSortProducesOrderedOutput(t *testing.T) {
	dir := t.TempDir()
	lines := []string{"banana", "apple", "cherry", "date"}
	input := writeLines(t, dir, "in.txt", lines)
	output := filepath.Join(dir, "out.txt")

	cfg := NewConfig([]string{input}, output).WithTmpDir(dir).WithTasks(2)
	assert.NilError(t, Sort(cfg))

	got := readLines(t, output)
	want := append([]string(nil), lines...)
	sort.Strings(want)
	assert.DeepEqual(t, got, want)
}

func TestSortIsAPermutationOfInput(t *testing.T) {
	dir := t.TempDir()
	lines := sortedLines(500)
	shuffled := append([]string(nil), lines...)
	sort.Sort(sort.Reverse(sort.StringSlice(shuffled)))
	input := writeLines(t, dir, "in.txt", shuffled)
	output := filepath.Join(dir, "out.txt")

	cfg := NewConfig([]string{input}, output).WithTmpDir(dir).WithTasks(4).WithChunkSizeBytes(512)
	assert.NilError(t, Sort(cfg))

	got := readLines(t, output)
	gotCopy := append([]string(nil), got...)
	sort.Strings(gotCopy)
	wantCopy := append([]string(nil), lines...)
	sort.Strings(wantCopy)
	assert.DeepEqual(t, gotCopy, wantCopy)
	assert.Equal(t, len(got), len(lines))
}

func TestSortAscendingVsDescendingAreReverses(t *testing.T) {
	dir := t.TempDir()
	lines := sortedLines(200)
	input := writeLines(t, dir, "in.txt", lines)

	ascOut := filepath.Join(dir, "asc.txt")
	cfgAsc := NewConfig([]string{input}, ascOut).WithTmpDir(dir).WithOrder(Asc)
	assert.NilError(t, Sort(cfgAsc))

	descOut := filepath.Join(dir, "desc.txt")
	cfgDesc := NewConfig([]string{input}, descOut).WithTmpDir(dir).WithOrder(Desc)
	assert.NilError(t, Sort(cfgDesc))

	asc := readLines(t, ascOut)
	desc := readLines(t, descOut)
	assert.Equal(t, len(asc), len(desc))
	assert.Equal(t, asc[0], desc[len(desc)-1])
	assert.Equal(t, asc[len(asc)-1], desc[0])
}

func TestSortWithAffixes(t *testing.T) {
	dir := t.TempDir()
	lines := sortedLines(1000)
	shuffled := append([]string(nil), lines...)
	sort.Sort(sort.Reverse(sort.StringSlice(shuffled)))
	input := writeLines(t, dir, "in.txt", shuffled)
	output := filepath.Join(dir, "out.txt")

	cfg := NewConfig([]string{input}, output).
		WithTmpDir(dir).
		WithPrefixLines([]string{"first line", "second line"}).
		WithSuffixLines([]string{"penultimate line", "last line"})
	assert.NilError(t, Sort(cfg))

	got := readLines(t, output)
	assert.Equal(t, len(got), 1004)
	assert.DeepEqual(t, got[0:2], []string{"first line", "second line"})
	assert.DeepEqual(t, got[1002:1004], []string{"penultimate line", "last line"})
	assert.DeepEqual(t, got[2:1002], lines)
}

func TestSortIdempotentOnAlreadySortedInput(t *testing.T) {
	dir := t.TempDir()
	lines := sortedLines(300)
	input := writeLines(t, dir, "in.txt", lines)
	output := filepath.Join(dir, "out.txt")

	cfg := NewConfig([]string{input}, output).WithTmpDir(dir).WithChunkSizeBytes(256)
	assert.NilError(t, Sort(cfg))

	got, err := os.ReadFile(output)
	assert.NilError(t, err)
	want, err := os.ReadFile(input)
	assert.NilError(t, err)
	assert.Equal(t, string(got), string(want))
}

func TestSortTaskCountDoesNotAffectResult(t *testing.T) {
	dir := t.TempDir()
	lines := sortedLines(2000)
	shuffled := append([]string(nil), lines...)
	sort.Sort(sort.Reverse(sort.StringSlice(shuffled)))
	input := writeLines(t, dir, "in.txt", shuffled)

	out1 := filepath.Join(dir, "out1.txt")
	cfg1 := NewConfig([]string{input}, out1).WithTmpDir(dir).WithTasks(1).WithChunkSizeBytes(4000)
	assert.NilError(t, Sort(cfg1))

	out8 := filepath.Join(dir, "out8.txt")
	cfg8 := NewConfig([]string{input}, out8).WithTmpDir(dir).WithTasks(8).WithChunkSizeBytes(4000)
	assert.NilError(t, Sort(cfg8))

	b1, err := os.ReadFile(out1)
	assert.NilError(t, err)
	b8, err := os.ReadFile(out8)
	assert.NilError(t, err)
	assert.Equal(t, string(b1), string(b8))
}

// TestSortManyChunksWithTinyQueueLosesNoRecords drives far more chunks
// than the submission queue can hold at once, with concurrent-merge
// collapse enabled, so most chunk tasks are still queued or in flight
// when Sort reaches the collapse/collection broadcasts. Every line must
// still survive to the output (§1's permutation guarantee) regardless
// of how the pool interleaves queued Submits against those broadcasts.
func TestSortManyChunksWithTinyQueueLosesNoRecords(t *testing.T) {
	dir := t.TempDir()
	lines := sortedLines(5000)
	shuffled := append([]string(nil), lines...)
	sort.Sort(sort.Reverse(sort.StringSlice(shuffled)))
	input := writeLines(t, dir, "in.txt", shuffled)
	output := filepath.Join(dir, "out.txt")

	cfg := NewConfig([]string{input}, output).
		WithTmpDir(dir).
		WithTasks(4).
		WithChunkSizeBytes(128). // forces hundreds of tiny chunks
		WithConcurrentMerge(true)
	cfg.QueueSize = 4 // far smaller than the resulting chunk count
	assert.NilError(t, Sort(cfg))

	got := readLines(t, output)
	assert.Equal(t, len(got), len(lines))
	gotCopy := append([]string(nil), got...)
	sort.Strings(gotCopy)
	wantCopy := append([]string(nil), lines...)
	sort.Strings(wantCopy)
	assert.DeepEqual(t, gotCopy, wantCopy)
}

func TestSortCleansUpTempArtifacts(t *testing.T) {
	dir := t.TempDir()
	lines := sortedLines(400)
	shuffled := append([]string(nil), lines...)
	sort.Sort(sort.Reverse(sort.StringSlice(shuffled)))
	input := writeLines(t, dir, "in.txt", shuffled)
	output := filepath.Join(dir, "out.txt")

	cfg := NewConfig([]string{input}, output).WithTmpDir(dir).WithChunkSizeBytes(512)
	assert.NilError(t, Sort(cfg))

	entries, err := os.ReadDir(dir)
	assert.NilError(t, err)
	for _, e := range entries {
		assert.Assert(t, !strings.HasPrefix(e.Name(), tmpFilePrefix))
	}
}

func TestSortIgnoreEmptyAndIgnoreLines(t *testing.T) {
	dir := t.TempDir()
	input := writeLines(t, dir, "in.txt", []string{"banana", "", "# comment", "apple", "  "})
	output := filepath.Join(dir, "out.txt")

	cfg := NewConfig([]string{input}, output).WithTmpDir(dir).WithIgnoreEmpty(true)
	assert.NilError(t, Sort(cfg))

	got := readLines(t, output)
	assert.DeepEqual(t, got, []string{"apple", "banana"})
}

func TestSortRejectsEmptyInputList(t *testing.T) {
	cfg := NewConfig(nil, "/tmp/out.txt")
	err := Sort(cfg)
	assert.ErrorContains(t, err, "input list must not be empty")
}

func TestSortRejectsMixedFieldIndexZero(t *testing.T) {
	dir := t.TempDir()
	input := writeLines(t, dir, "in.txt", []string{"a\tb"})
	cfg := NewConfig([]string{input}, filepath.Join(dir, "out.txt")).
		WithFields([]Field{NewField(0, String), NewField(1, String)})

	err := Sort(cfg)
	assert.ErrorContains(t, err, "cannot be combined")
}

func TestSortConcurrentMergeDisabledStillOrders(t *testing.T) {
	dir := t.TempDir()
	lines := sortedLines(600)
	shuffled := append([]string(nil), lines...)
	sort.Sort(sort.Reverse(sort.StringSlice(shuffled)))
	input := writeLines(t, dir, "in.txt", shuffled)
	output := filepath.Join(dir, "out.txt")

	cfg := NewConfig([]string{input}, output).
		WithTmpDir(dir).
		WithChunkSizeBytes(512).
		WithConcurrentMerge(false)
	assert.NilError(t, Sort(cfg))

	got := readLines(t, output)
	assert.DeepEqual(t, got, lines)
}

func TestMergeStandaloneEntryPoint(t *testing.T) {
	dir := t.TempDir()
	shard1 := writeLines(t, dir, "shard1.txt", []string{"apple", "cherry"})
	shard2 := writeLines(t, dir, "shard2.txt", []string{"banana", "date"})
	output := filepath.Join(dir, "out.txt")

	cfg := NewConfig([]string{shard1, shard2}, output).WithTmpDir(dir)
	assert.NilError(t, Merge(cfg))

	got := readLines(t, output)
	assert.DeepEqual(t, got, []string{"apple", "banana", "cherry", "date"})
}

// TestSortWithNonDefaultLineTerminatorStripsTerminatorFromKeys guards
// against NewRecord/streamSingleRun hardcoding '\n': with a NUL line
// terminator configured, every record's whole-line key must come out
// with no trailing terminator byte, and the single-input merge fast
// path must still split the run into the right number of lines.
func TestSortWithNonDefaultLineTerminatorStripsTerminatorFromKeys(t *testing.T) {
	dir := t.TempDir()
	lines := []string{"banana", "apple", "cherry"}
	input := filepath.Join(dir, "in.txt")
	content := strings.Join(lines, "\x00") + "\x00"
	assert.NilError(t, os.WriteFile(input, []byte(content), 0o644))
	output := filepath.Join(dir, "out.txt")

	cfg := NewConfig([]string{input}, output).WithTmpDir(dir).WithTasks(1).WithLineTerminator('\x00')
	assert.NilError(t, Sort(cfg))

	b, err := os.ReadFile(output)
	assert.NilError(t, err)
	got := strings.Split(strings.TrimSuffix(string(b), "\x00"), "\x00")
	assert.DeepEqual(t, got, []string{"apple", "banana", "cherry"})
	for _, l := range got {
		assert.Assert(t, !strings.Contains(l, "\x00"))
	}
}
