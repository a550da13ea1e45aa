package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/refrain/internal/input"
	"github.com/ppiankov/refrain/internal/model"
)

// MockAnalyzer implements Analyzer
type MockAnalyzer struct {
	ShouldError bool
	calls       atomic.Int32
}

func (m *MockAnalyzer) Analyze(ctx context.Context, src input.Source) (*model.Report, bool, error) {
	m.calls.Add(1)
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, false, errors.New("analyze error")
	}
	return &model.Report{
		Source: src.Name,
		Totals: model.Totals{Tokens: len(strings.Fields(src.Text))},
	}, false, nil
}

func writeSongs(t *testing.T, texts ...string) []string {
	t.Helper()
	dir := t.TempDir()

	paths := make([]string, len(texts))
	for i, text := range texts {
		paths[i] = filepath.Join(dir, string(rune('a'+i))+".txt")
		if err := os.WriteFile(paths[i], []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	analyzer := &MockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2, model.RateLimitingConfig{})

	paths := writeSongs(t, "one", "two two", "three three three")
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
			continue
		}
		if res.Path != paths[i] {
			t.Errorf("result %d: expected path %s, got %s", i, paths[i], res.Path)
		}
		if res.Report.Source != paths[i] {
			t.Errorf("result %d: expected source %s, got %s", i, paths[i], res.Report.Source)
		}
		if res.Report.Totals.Tokens != i+1 {
			t.Errorf("result %d: expected %d tokens, got %d", i, i+1, res.Report.Totals.Tokens)
		}
	}
}

func TestBatchProcessor_ProcessPaths_Error(t *testing.T) {
	analyzer := &MockAnalyzer{ShouldError: true}
	processor := NewBatchProcessor(analyzer, 2, model.RateLimitingConfig{})

	results := processor.ProcessPaths(context.Background(), writeSongs(t, "la la"))

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Report != nil {
		t.Error("expected nil report on error")
	}
}

func TestBatchProcessor_ProcessPaths_MissingFileDoesNotStopOthers(t *testing.T) {
	analyzer := &MockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2, model.RateLimitingConfig{})

	paths := writeSongs(t, "la la")
	paths = append([]string{filepath.Join(t.TempDir(), "missing.txt")}, paths...)

	results := processor.ProcessPaths(context.Background(), paths)

	if results[0].Error == nil {
		t.Error("expected error for missing file")
	}
	if results[1].Error != nil {
		t.Errorf("unexpected error: %v", results[1].Error)
	}
	if analyzer.calls.Load() != 1 {
		t.Errorf("expected 1 analysis, got %d", analyzer.calls.Load())
	}
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2, model.RateLimitingConfig{})

	results := processor.ProcessPaths(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessPaths_Canceled(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 1, model.RateLimitingConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths := writeSongs(t, "a", "b", "c")
	results := processor.ProcessPaths(ctx, paths)

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res == nil {
			t.Fatalf("result %d is nil", i)
		}
		if res.Path != paths[i] {
			t.Errorf("result %d: expected path %s, got %s", i, paths[i], res.Path)
		}
	}
}

func TestBatchProcessor_Throttled(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2, model.RateLimitingConfig{FilesPerSecond: 1000, BurstSize: 1})
	if processor.limiter == nil {
		t.Fatal("expected limiter")
	}

	results := processor.ProcessPaths(context.Background(), writeSongs(t, "a", "b"))
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error: %v", res.Error)
		}
	}
}

func TestBatchProcessor_DirectoryOverrideEnablesLimiter(t *testing.T) {
	paths := writeSongs(t, "a", "b")
	limits := model.RateLimitingConfig{
		Directories: []model.DirRateConfig{{Path: filepath.Dir(paths[0]), FilesPerSecond: 0.001, BurstSize: 1}},
	}
	processor := NewBatchProcessor(&MockAnalyzer{}, 1, limits)
	if processor.limiter == nil {
		t.Fatal("expected limiter for a directory override")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// The second read in the slow directory would wait far past the deadline
	results := processor.ProcessPaths(ctx, paths)
	if results[0].Error != nil {
		t.Errorf("first read: unexpected error: %v", results[0].Error)
	}
	if results[1].Error == nil || !strings.Contains(results[1].Error.Error(), "rate limit") {
		t.Errorf("second read: expected rate limit error, got %v", results[1].Error)
	}
}

func TestReadPathsFromFile(t *testing.T) {
	list := writeList(t, "songs/a.txt\n# comment\nsongs/b.html\n   \n songs/c.txt   ")

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{"songs/a.txt", "songs/b.html", "songs/c.txt"}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d", len(expected), len(paths))
	}
	for i, p := range paths {
		if p != expected[i] {
			t.Errorf("expected path %s at index %d, got %s", expected[i], i, p)
		}
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	_, err := ReadPathsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadPathsFromFile_Deduplication(t *testing.T) {
	paths, err := ReadPathsFromFile(writeList(t, "a.txt\na.txt"))
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	if len(paths) != 1 {
		t.Errorf("expected 1 path after deduplication, got %d", len(paths))
	}
}

func TestFileResult_GetError(t *testing.T) {
	r1 := &FileResult{Path: "a.txt"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("analyze failed")
	r2 := &FileResult{Path: "a.txt", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	paths := writeSongs(t, "a", "b", "c")
	list := writeList(t, paths[0]+"\n"+paths[1]+"\n# comment\n\n"+paths[2]+"\n")

	processor := NewBatchProcessor(&MockAnalyzer{}, 2, model.RateLimitingConfig{})

	results, err := processor.ProcessFile(context.Background(), list)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2, model.RateLimitingConfig{})

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2, model.RateLimitingConfig{})

	results, err := processor.ProcessFile(context.Background(), writeList(t, ""))
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}
