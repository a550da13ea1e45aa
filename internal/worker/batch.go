package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/refrain/internal/input"
	"github.com/ppiankov/refrain/internal/model"
)

// Analyzer builds the report for one loaded text. The bool reports whether
// the report came from a cache.
type Analyzer interface {
	Analyze(ctx context.Context, src input.Source) (*model.Report, bool, error)
}

// FileResult represents the analysis of one file
type FileResult struct {
	Path   string
	Report *model.Report
	Cached bool
	Error  error
}

// GetError returns the error from the file result
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many files concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter // nil when unthrottled
}

// NewBatchProcessor creates a new batch processor. Reads are throttled
// only when limits names a default rate or a directory override.
func NewBatchProcessor(analyzer Analyzer, concurrency int, limits model.RateLimitingConfig) *BatchProcessor {
	var limiter *Limiter
	if limits.Enabled() {
		limiter = NewLimiter(limits)
	}

	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessPaths analyzes files concurrently. Results are in the order of
// paths; a file that fails carries its error without stopping the others.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	results := make([]*FileResult, len(paths))
	tasks := make([]Task[*FileResult], len(paths))
	for i, path := range paths {
		tasks[i] = func(ctx context.Context) *FileResult {
			results[i] = b.process(ctx, path)
			return results[i]
		}
	}

	Run(ctx, b.concurrency, tasks)

	// Tasks never started because of cancellation
	for i, r := range results {
		if r == nil {
			results[i] = &FileResult{Path: paths[i], Error: context.Cause(ctx)}
		}
	}

	return results
}

func (b *BatchProcessor) process(ctx context.Context, path string) *FileResult {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx, path); err != nil {
			return &FileResult{Path: path, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	src, err := input.Load(path)
	if err != nil {
		return &FileResult{Path: path, Error: err}
	}

	report, cached, err := b.analyzer.Analyze(ctx, src)
	if err != nil {
		return &FileResult{Path: path, Error: fmt.Errorf("analyze %s: %w", path, err)}
	}

	return &FileResult{Path: path, Report: report, Cached: cached}
}

// ProcessFile reads paths from a list file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*FileResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads file paths from a list file (one per line).
// Blank lines and # comments are skipped, duplicates are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
