package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marklint/src/config"
	"marklint/src/model"
)

func sampleReport() *model.AnalysisReport {
	return &model.AnalysisReport{
		RunID:       "run-1",
		Path:        "fixtures",
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Diagnostics: []model.Diagnostic{
			{
				RuleID:    "WIX-001",
				Severity:  model.SeverityHigh,
				IssueType: model.IssueTypeBug,
				Category:  "correctness",
				Message:   "Component 'C1' has no Guid attribute",
				Location:  model.Location{File: "fixtures/a.wxs", Line: 3, Column: 5},
				Help:      "Every Component needs a Guid.",
			},
			{
				RuleID:    "WIX-002",
				Severity:  model.SeverityLow,
				IssueType: model.IssueTypeCodeSmell,
				Category:  "maintainability",
				Message:   "Component 'C2' relies on an auto-generated Guid",
				Location:  model.Location{File: "fixtures/a.wxs", Line: 4, Column: 5},
			},
		},
		Suppressed: 1,
		Summary: model.Summary{
			Total: 2,
			BySeverity: map[model.Severity]int{
				model.SeverityHigh: 1,
				model.SeverityLow:  1,
			},
		},
		Debt: model.TechnicalDebt{TotalMinutes: 50, Ratio: 12.5, Rating: "C"},
	}
}

func TestGenerateText(t *testing.T) {
	g := NewGenerator(config.OutputConfig{IncludeHelp: true})
	out, err := g.Generate(sampleReport(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "fixtures/a.wxs:3:5: high: Component 'C1' has no Guid attribute [WIX-001]")
	assert.Contains(t, out, "help: Every Component needs a Guid.")
	assert.Contains(t, out, "2 issue(s) found, 1 suppressed")
	assert.Contains(t, out, "rating C")
}

func TestGenerateMarkdown(t *testing.T) {
	g := NewGenerator(config.OutputConfig{})
	out, err := g.Generate(sampleReport(), "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# Static Analysis Report")
	assert.Contains(t, out, "| high | 1 |")
	assert.Contains(t, out, "`WIX-001`")
	// Help is omitted unless enabled
	assert.NotContains(t, out, "Every Component needs a Guid.")
}

func TestGenerateSARIF(t *testing.T) {
	g := NewGenerator(config.OutputConfig{})
	out, err := g.Generate(sampleReport(), "sarif")
	require.NoError(t, err)

	var sarif map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &sarif))
	assert.Equal(t, "2.1.0", sarif["version"])

	runs := sarif["runs"].([]any)
	require.Len(t, runs, 1)
	results := runs[0].(map[string]any)["results"].([]any)
	require.Len(t, results, 2)

	first := results[0].(map[string]any)
	assert.Equal(t, "WIX-001", first["ruleId"])
	assert.Equal(t, "error", first["level"])
}

func TestGenerateJSONRoundTrip(t *testing.T) {
	g := NewGenerator(config.OutputConfig{})
	out, err := g.Generate(sampleReport(), "json")
	require.NoError(t, err)

	var decoded model.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Len(t, decoded.Diagnostics, 2)
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	g := NewGenerator(config.OutputConfig{})
	_, err := g.Generate(sampleReport(), "xml")
	assert.Error(t, err)
}
