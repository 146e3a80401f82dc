package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"marklint/src/config"
	"marklint/src/model"
	"marklint/src/service/debt"
	"marklint/src/util"
)

// Generator renders analysis reports in various formats
type Generator struct {
	cfg config.OutputConfig
}

// NewGenerator creates a new report generator
func NewGenerator(cfg config.OutputConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Generate renders a report in the specified format
func (g *Generator) Generate(report *model.AnalysisReport, format string) (string, error) {
	util.Debug("Generating report in %s format (%d diagnostics)", format, len(report.Diagnostics))
	switch format {
	case "json":
		return g.generateJSON(report)
	case "markdown", "md":
		return g.generateMarkdown(report)
	case "sarif":
		return g.generateSARIF(report)
	case "text":
		return g.generateText(report)
	default:
		util.Warn("Unsupported report format requested: %s", format)
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (g *Generator) generateJSON(report *model.AnalysisReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) generateText(report *model.AnalysisReport) (string, error) {
	var sb strings.Builder

	for _, d := range report.Diagnostics {
		sb.WriteString(fmt.Sprintf("%s:%d:%d: %s: %s [%s]\n",
			d.Location.File, d.Location.Line, d.Location.Column,
			d.Severity, d.Message, d.RuleID))
		if g.cfg.IncludeHelp && d.Help != "" {
			sb.WriteString(fmt.Sprintf("    help: %s\n", d.Help))
		}
		if g.cfg.IncludeFixes && d.Fix != nil {
			sb.WriteString(fmt.Sprintf("    fix: %s\n", d.Fix.Description))
		}
	}

	for _, pf := range report.ParseFailures {
		sb.WriteString(fmt.Sprintf("%s:%d: error: %s\n", pf.File, pf.Line, pf.Message))
	}

	sb.WriteString(fmt.Sprintf("\n%d issue(s) found", report.Summary.Total))
	if report.Suppressed > 0 {
		sb.WriteString(fmt.Sprintf(", %d suppressed", report.Suppressed))
	}
	if report.Baselined > 0 {
		sb.WriteString(fmt.Sprintf(", %d baselined", report.Baselined))
	}
	sb.WriteString(fmt.Sprintf("\nTechnical debt: %s (ratio %.1f%%, rating %s)\n",
		debt.FormatDuration(report.Debt.TotalMinutes), report.Debt.Ratio, report.Debt.Rating))

	return sb.String(), nil
}

func (g *Generator) generateMarkdown(report *model.AnalysisReport) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Static Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("**Path:** %s\n", report.Path))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))
	sb.WriteString(fmt.Sprintf("**Run:** %s\n\n", report.RunID))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total Issues:** %d\n", report.Summary.Total))
	sb.WriteString(fmt.Sprintf("- **Suppressed:** %d inline, %d baselined\n", report.Suppressed, report.Baselined))
	sb.WriteString(fmt.Sprintf("- **Technical Debt:** %s (ratio %.1f%%, rating %s)\n\n",
		debt.FormatDuration(report.Debt.TotalMinutes), report.Debt.Ratio, report.Debt.Rating))

	sb.WriteString("### Issues by Severity\n\n")
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, sev := range []model.Severity{
		model.SeverityBlocker, model.SeverityHigh, model.SeverityMedium,
		model.SeverityLow, model.SeverityInfo,
	} {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", sev, report.Summary.BySeverity[sev]))
	}
	sb.WriteString("\n")

	if len(report.Summary.HotspotFiles) > 0 {
		sb.WriteString("### Hotspot Files\n\n")
		sb.WriteString("| File | Issue Count |\n")
		sb.WriteString("|------|-------------|\n")
		for _, hs := range report.Summary.HotspotFiles {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", hs.File, hs.Count))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Issues\n\n")
	for _, d := range report.Diagnostics {
		sb.WriteString(fmt.Sprintf("#### %s `%s`\n\n", severityEmoji(d.Severity), d.RuleID))
		sb.WriteString(fmt.Sprintf("- **File:** `%s:%d:%d`\n", d.Location.File, d.Location.Line, d.Location.Column))
		sb.WriteString(fmt.Sprintf("- **Severity:** %s\n", d.Severity))
		sb.WriteString(fmt.Sprintf("- **Type:** %s\n", d.IssueType))
		sb.WriteString(fmt.Sprintf("- **Message:** %s\n", d.Message))

		if g.cfg.IncludeHelp && d.Help != "" {
			sb.WriteString(fmt.Sprintf("- **Help:** %s\n", d.Help))
		}
		if g.cfg.IncludeFixes && d.Fix != nil {
			sb.WriteString(fmt.Sprintf("- **Fix:** %s\n", d.Fix.Description))
		}
		sb.WriteString("\n")
	}

	if len(report.ParseFailures) > 0 {
		sb.WriteString("## Files That Failed To Parse\n\n")
		for _, pf := range report.ParseFailures {
			sb.WriteString(fmt.Sprintf("- `%s:%d`: %s\n", pf.File, pf.Line, pf.Message))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (g *Generator) generateSARIF(report *model.AnalysisReport) (string, error) {
	sarif := map[string]any{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":    "marklint",
						"version": "1.0.0",
						"rules":   g.buildSARIFRules(report.Diagnostics),
					},
				},
				"results": g.buildSARIFResults(report.Diagnostics),
			},
		},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) buildSARIFRules(diags []model.Diagnostic) []map[string]any {
	seen := map[string]bool{}
	var rules []map[string]any

	for _, d := range diags {
		if seen[d.RuleID] {
			continue
		}
		seen[d.RuleID] = true

		entry := map[string]any{
			"id": d.RuleID,
			"properties": map[string]any{
				"category":   d.Category,
				"issue_type": string(d.IssueType),
			},
		}
		if d.Help != "" {
			entry["help"] = map[string]any{"text": d.Help}
		}
		rules = append(rules, entry)
	}
	return rules
}

func (g *Generator) buildSARIFResults(diags []model.Diagnostic) []map[string]any {
	results := make([]map[string]any, 0, len(diags))
	for _, d := range diags {
		results = append(results, map[string]any{
			"ruleId":  d.RuleID,
			"level":   sarifLevel(d.Severity),
			"message": map[string]any{"text": d.Message},
			"locations": []map[string]any{
				{
					"physicalLocation": map[string]any{
						"artifactLocation": map[string]any{"uri": d.Location.File},
						"region": map[string]any{
							"startLine":   d.Location.Line,
							"startColumn": d.Location.Column,
						},
					},
				},
			},
		})
	}
	return results
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityBlocker, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func severityEmoji(s model.Severity) string {
	switch s {
	case model.SeverityBlocker:
		return "🔴"
	case model.SeverityHigh:
		return "🟠"
	case model.SeverityMedium:
		return "🟡"
	case model.SeverityLow:
		return "🔵"
	default:
		return "⚪"
	}
}
