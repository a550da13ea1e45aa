package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppiankov/refrain/internal/cache"
	"github.com/ppiankov/refrain/internal/graph"
	"github.com/ppiankov/refrain/internal/input"
	"github.com/ppiankov/refrain/internal/logger"
	"github.com/ppiankov/refrain/internal/model"
	"github.com/ppiankov/refrain/internal/score"
	"github.com/ppiankov/refrain/internal/segment"
	"github.com/ppiankov/refrain/internal/stats"
	"github.com/ppiankov/refrain/internal/tokenize"
)

// Build runs the engine on text and returns the phrase graph. It is pure:
// no cache, no logging, same text in, same graph out.
func Build(text string) model.Graph {
	segments := tokenize.Document(text)
	seg := segment.New(stats.Build(segments))

	b := graph.NewBuilder()
	for _, s := range segments {
		b.Add(seg.Split(s))
	}
	return b.Graph()
}

// Pipeline orchestrates the complete analysis
type Pipeline struct {
	config   *model.Config
	memo     *cache.Memo // nil when caching is disabled
	scorer   *score.Scorer
	renderer *Renderer
	logger   *slog.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	log := logger.WithComponent("pipeline")

	var memo *cache.Memo
	if cfg.Cache.Enabled {
		memo = cache.NewMemo(cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval), log)
	}

	return &Pipeline{
		config:   cfg,
		memo:     memo,
		scorer:   score.NewScorer(),
		renderer: NewRenderer(cfg.Output.IncludeFooter, cfg.Output.Top),
		logger:   log,
	}
}

// AnalyzeResult contains the report for one source
type AnalyzeResult struct {
	Report *model.Report
	Cached bool // Served from the cache
}

// Analyze builds the report for src. Leading and trailing whitespace of the
// text is ignored.
func (p *Pipeline) Analyze(ctx context.Context, src input.Source) (*AnalyzeResult, error) {
	text := strings.TrimSpace(src.Text)
	trace := p.config.Output.Trace

	if p.memo == nil {
		report, err := p.analyze(ctx, text, trace)
		if err != nil {
			return nil, err
		}
		report.Source = src.Name
		return &AnalyzeResult{Report: report}, nil
	}

	data, hit, err := p.memo.GetOrCompute(cache.Key(text, trace), func() ([]byte, error) {
		report, err := p.analyze(ctx, text, trace)
		if err != nil {
			return nil, err
		}
		return json.Marshal(report)
	})
	if err != nil {
		return nil, err
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	report.Source = src.Name

	return &AnalyzeResult{Report: &report, Cached: hit}, nil
}

// analyze runs the four stages. Statistics cover the whole document before
// the first segment is split.
func (p *Pipeline) analyze(ctx context.Context, text string, trace bool) (*model.Report, error) {
	segments := tokenize.Document(text)

	idx, err := stats.BuildConcurrent(ctx, segments, p.config.Concurrency.StatsWorkers)
	if err != nil {
		return nil, fmt.Errorf("build stats: %w", err)
	}

	seg := segment.New(idx)
	b := graph.NewBuilder()

	var (
		chosen int
		traces []model.SegmentTrace
	)
	for i, s := range segments {
		var phrases []string
		if trace {
			decisions := seg.Trace(s)
			for _, d := range decisions {
				phrases = append(phrases, d.Chosen.Phrase)
			}
			traces = append(traces, model.SegmentTrace{
				Segment: i,
				Tokens:  s,
				Steps:   traceSteps(decisions),
			})
		} else {
			phrases = seg.Split(s)
		}
		chosen += len(phrases)
		b.Add(phrases)
	}

	g := b.Graph()
	tokens := tokenize.CountTokens(segments)
	report := &model.Report{
		Totals: model.Totals{
			Lines:          countLines(text),
			Segments:       len(segments),
			Tokens:         tokens,
			IndexedPhrases: idx.Phrases(),
			ChosenPhrases:  chosen,
			Nodes:          len(g.Nodes),
			Edges:          len(g.Edges),
		},
		Graph: g,
		Score: p.scorer.Calculate(g, tokens),
		Trace: traces,
	}

	p.logger.Debug("analyzed text",
		"segments", report.Totals.Segments,
		"tokens", report.Totals.Tokens,
		"nodes", report.Totals.Nodes,
		"edges", report.Totals.Edges,
		"index", report.Score.Index,
	)

	return report, nil
}

// traceSteps turns segmenter decisions into report steps with transparent
// scoring data
func traceSteps(decisions []segment.Decision) []model.TraceStep {
	steps := make([]model.TraceStep, 0, len(decisions))
	for _, d := range decisions {
		c := d.Chosen
		data := map[string]interface{}{
			"count":         c.Count,
			"continuations": c.Continuations,
		}
		if c.Baseline {
			data["formula"] = "count (1 if unseen)"
		} else {
			data["count_bonus"] = c.CountBonus
			data["length_bonus"] = c.LengthBonus
			data["branching"] = c.Branching
			data["repeat"] = c.Repeat
			data["formula"] = segment.Formula
		}

		var skipped []string
		for _, cand := range d.Candidates {
			if cand.PureRepeat {
				skipped = append(skipped, cand.Phrase)
			}
		}

		steps = append(steps, model.TraceStep{
			Start:   d.Start,
			Phrase:  c.Phrase,
			Length:  c.Length,
			Score:   c.Score,
			Data:    data,
			Skipped: skipped,
		})
	}
	return steps
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}

// RenderReport renders the report to the specified outputs. Empty paths are
// skipped.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, graphPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			p.logger.Info("wrote report", "path", jsonPath)
		}
	}

	if graphPath != "" {
		if err := p.renderer.RenderGraphJSON(report.Graph, graphPath); err != nil {
			return fmt.Errorf("render graph: %w", err)
		}
		if verbose {
			p.logger.Info("wrote graph", "path", graphPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			p.logger.Info("wrote markdown", "path", mdPath)
		}
	}

	return nil
}

// CacheStats returns cache hits and misses; both are zero when caching is
// disabled
func (p *Pipeline) CacheStats() (hits, misses int64) {
	if p.memo == nil {
		return 0, 0
	}
	return p.memo.Stats()
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
