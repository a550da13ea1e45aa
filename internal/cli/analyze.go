package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/refrain/internal/input"
	"github.com/ppiankov/refrain/internal/model"
	"github.com/ppiankov/refrain/internal/pipeline"
	"github.com/ppiankov/refrain/internal/share"
)

var (
	outJSON      string
	outGraph     string
	outMD        string
	link         string
	useSample    bool
	trace        bool
	top          int
	statsWorkers int
	timeout      time.Duration
	noCache      bool
	noFooter     bool
	printLink    bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Build the phrase graph of one song",
	Long: `Analyze reads one song text and:
- Splits it into lines and punctuation-free segments of lowercase words
- Counts every contiguous word window across the whole text
- Greedily cuts each segment into the best-scoring phrases
- Links consecutive phrases into a weighted phrase graph

The text comes from a file ("-" for stdin), a shareable link, or the
built-in sample. .html and .htm files are reduced to their visible text.

Example:
  refrain analyze lyrics.txt
  refrain analyze lyrics.txt --graph graph.json --md report.md
  refrain analyze --sample --trace --json -
  refrain analyze --link 'https://example.com/?t=VHdpbmtsZQ=='`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output report JSON path (\"-\" for stdout)")
	analyzeCmd.Flags().StringVar(&outGraph, "graph", "", "output graph JSON path (\"-\" for stdout)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (\"-\" for stdout)")
	analyzeCmd.Flags().BoolVar(&trace, "trace", false, "attach per-segment scoring decisions to the report")
	analyzeCmd.Flags().IntVar(&top, "top", 15, "rows in Markdown tables (0 for all)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&printLink, "share", false, "print a shareable link for the analyzed text")

	// Input flags
	analyzeCmd.Flags().StringVar(&link, "link", "", "analyze the text carried by a shareable link")
	analyzeCmd.Flags().BoolVar(&useSample, "sample", false, "analyze the built-in sample")

	// Engine flags
	analyzeCmd.Flags().IntVar(&statsWorkers, "stats-workers", 1, "workers counting phrase statistics")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cmd, cfg)

	src, err := resolveSource(args, link, useSample)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", src.Name)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintf(os.Stderr, "Stats workers: %d\n", cfg.Concurrency.StatsWorkers)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.Analyze(ctx, src)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if err := p.RenderReport(result.Report, outJSON, outGraph, outMD, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	// Keep stdout clean when a document was written there
	var summary io.Writer = os.Stdout
	if outJSON == "-" || outGraph == "-" || outMD == "-" {
		summary = os.Stderr
	}
	p.Renderer().RenderSummary(summary, result.Report)

	if printLink {
		u, err := share.URL(cfg.Share.BaseURL, src.Text)
		if err != nil {
			return fmt.Errorf("share link: %w", err)
		}
		fmt.Fprintln(summary, u)
	}

	return nil
}

// applyAnalyzeFlags lets explicitly set flags override file and env config
func applyAnalyzeFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("trace") {
		cfg.Output.Trace = trace
	}
	if flags.Changed("top") {
		cfg.Output.Top = top
	}
	if flags.Changed("stats-workers") {
		cfg.Concurrency.StatsWorkers = statsWorkers
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
}

// resolveSource picks the text to analyze: a link first, then a path, then
// the sample. A link that fails to decode falls back to the sample.
func resolveSource(args []string, link string, sample bool) (input.Source, error) {
	switch {
	case link != "":
		src, ok := input.FromLink(link, share.DefaultSample)
		if !ok {
			fmt.Fprintf(os.Stderr, "Warning: link could not be decoded, using the sample text\n")
		}
		return src, nil
	case len(args) == 1:
		return input.Load(args[0])
	case sample:
		return input.Sample(), nil
	default:
		return input.Source{}, fmt.Errorf("%w: pass a file, \"-\" for stdin, --link or --sample", input.ErrNoInput)
	}
}
