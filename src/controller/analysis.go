package controller

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"marklint/src/config"
	"marklint/src/model"
	"marklint/src/service/baseline"
	"marklint/src/service/debt"
	"marklint/src/service/evaluator"
	"marklint/src/service/index"
	"marklint/src/service/scanner"
	"marklint/src/util"
)

// AnalysisController orchestrates the full analysis pipeline
type AnalysisController struct {
	cfg      *config.Config
	registry *evaluator.Registry
	symbols  *index.SymbolIndex
}

// NewAnalysisController creates a new analysis controller over a populated
// plugin registry and shared symbol index
func NewAnalysisController(cfg *config.Config, registry *evaluator.Registry, symbols *index.SymbolIndex) *AnalysisController {
	return &AnalysisController{cfg: cfg, registry: registry, symbols: symbols}
}

// AnalyzeRequest represents a request to analyze a project directory
type AnalyzeRequest struct {
	Path string
	// NoBaseline skips baseline suppression even when a baseline exists
	NoBaseline bool
}

// Analyze scans the project, filters diagnostics through inline suppression
// and the baseline, and aggregates the remainder into a report.
func (c *AnalysisController) Analyze(ctx context.Context, req AnalyzeRequest) (*model.AnalysisReport, error) {
	startTime := time.Now()
	util.Info("Starting analysis of %s", req.Path)

	eval := evaluator.New(c.registry, c.cfg.Evaluator)
	exclusions := util.NewExclusionMatcher(c.cfg.Exclusions)
	scan := scanner.New(c.registry, eval, c.symbols, exclusions, c.cfg.Concurrency)

	results, err := scan.Scan(ctx, req.Path)
	if err != nil {
		util.Error("Scan failed: %v", err)
		return nil, err
	}

	var (
		diags      []model.Diagnostic
		failures   []model.ParseFailure
		suppressed int
		totalLines int
	)

	for _, r := range results {
		totalLines += r.Lines
		if r.Failure != nil {
			failures = append(failures, *r.Failure)
			continue
		}

		kept, dropped := filterSuppressed(r)
		suppressed += dropped
		diags = append(diags, kept...)
	}

	baselined := 0
	if !req.NoBaseline && c.cfg.Baseline.Enabled {
		diags, baselined = c.applyBaseline(diags, req.Path)
	}

	report := &model.AnalysisReport{
		RunID:         uuid.NewString(),
		Path:          req.Path,
		GeneratedAt:   time.Now().UTC(),
		Diagnostics:   diags,
		ParseFailures: failures,
		Suppressed:    suppressed,
		Baselined:     baselined,
		Stats:         eval.Stats(),
		Summary:       c.buildSummary(diags),
		Debt:          debt.Aggregate(diags, totalLines),
		LinesOfCode:   totalLines,
	}

	util.Info("Analysis complete: %d issues (%d suppressed, %d baselined) in %v",
		len(diags), suppressed, baselined, time.Since(startTime))
	return report, nil
}

// filterSuppressed drops diagnostics covered by the file's inline
// suppression directives and returns the kept ones plus the dropped count.
// This and the baseline are the only paths allowed to discard diagnostics.
func filterSuppressed(r scanner.FileResult) ([]model.Diagnostic, int) {
	sup := r.Document.Suppressions
	kept := make([]model.Diagnostic, 0, len(r.Diagnostics))
	dropped := 0

	for _, d := range r.Diagnostics {
		if sup.IsRuleDisabledForFile(d.RuleID) || sup.IsRuleDisabled(d.RuleID, d.Location.Line) {
			if reason := sup.DisableReason(d.RuleID, d.Location.Line); reason != "" {
				util.Debug("Suppressed %s at %s:%d (%s)", d.RuleID, d.Location.File, d.Location.Line, reason)
			}
			dropped++
			continue
		}
		kept = append(kept, d)
	}
	return kept, dropped
}

func (c *AnalysisController) applyBaseline(diags []model.Diagnostic, basePath string) ([]model.Diagnostic, int) {
	var (
		bl  *baseline.Baseline
		err error
	)
	if c.cfg.Baseline.Path != "" {
		bl, err = baseline.Load(c.cfg.Baseline.Path)
	} else {
		bl, err = baseline.FindAndLoad(basePath)
	}
	if err != nil {
		util.Warn("Baseline could not be loaded: %v", err)
		return diags, 0
	}
	if bl == nil {
		return diags, 0
	}

	kept, removed := baseline.Filter(diags, bl, basePath)
	return kept, removed
}

func (c *AnalysisController) buildSummary(diags []model.Diagnostic) model.Summary {
	summary := model.Summary{
		Total:      len(diags),
		BySeverity: map[model.Severity]int{},
		ByType:     map[model.IssueType]int{},
		ByRule:     map[string]int{},
	}

	byFile := map[string]int{}
	for _, d := range diags {
		summary.BySeverity[d.Severity]++
		summary.ByType[d.IssueType]++
		summary.ByRule[d.RuleID]++
		byFile[d.Location.File]++
	}

	type fileCount struct {
		path  string
		count int
	}
	files := make([]fileCount, 0, len(byFile))
	for path, count := range byFile {
		files = append(files, fileCount{path, count})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].count != files[j].count {
			return files[i].count > files[j].count
		}
		return files[i].path < files[j].path
	})

	topN := c.cfg.Output.HotspotsTopN
	if topN > len(files) {
		topN = len(files)
	}
	for _, fc := range files[:topN] {
		summary.HotspotFiles = append(summary.HotspotFiles, model.FileHotspot{
			File:  fc.path,
			Count: fc.count,
		})
	}

	return summary
}
