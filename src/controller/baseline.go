package controller

import (
	"context"
	"path/filepath"

	"marklint/src/config"
	"marklint/src/service/baseline"
	"marklint/src/util"
)

// BaselineController snapshots the current diagnostics into a baseline file
type BaselineController struct {
	cfg      *config.Config
	analysis *AnalysisController
}

// NewBaselineController creates a new baseline controller
func NewBaselineController(cfg *config.Config, analysis *AnalysisController) *BaselineController {
	return &BaselineController{cfg: cfg, analysis: analysis}
}

// Create runs an analysis without baseline suppression and persists every
// current diagnostic as an accepted issue. Returns the written path and the
// number of snapshotted issues.
func (c *BaselineController) Create(ctx context.Context, path, description string) (string, int, error) {
	report, err := c.analysis.Analyze(ctx, AnalyzeRequest{Path: path, NoBaseline: true})
	if err != nil {
		return "", 0, err
	}

	b := baseline.Create(report.Diagnostics, path, c.cfg.Tool.Version, description)

	outPath := c.cfg.Baseline.Path
	if outPath == "" {
		outPath = filepath.Join(path, baseline.FileName)
	}
	if err := baseline.Save(b, outPath); err != nil {
		return "", 0, err
	}

	util.Info("Baselined %d issues", len(b.Issues))
	return outPath, len(b.Issues), nil
}
