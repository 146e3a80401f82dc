package model

import "time"

// ParseFailure records a file that could not be parsed during a scan
type ParseFailure struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// EvaluationStats contains counters accumulated during rule evaluation
type EvaluationStats struct {
	FilesAnalyzed  int              `json:"files_analyzed"`
	RulesEvaluated int              `json:"rules_evaluated"`
	NodesChecked   int              `json:"nodes_checked"`
	BySeverity     map[Severity]int `json:"by_severity"`
	ByRule         map[string]int   `json:"by_rule"`
	Elapsed        time.Duration    `json:"elapsed_ns"`
}

// TechnicalDebt contains aggregated remediation effort metrics
type TechnicalDebt struct {
	TotalMinutes   int               `json:"total_minutes"`
	ByType         map[IssueType]int `json:"by_type"`
	BySeverity     map[Severity]int  `json:"by_severity"`
	DevTimeMinutes int               `json:"dev_time_minutes"`
	Ratio          float64           `json:"ratio"`
	Rating         string            `json:"rating"`
}

// FileHotspot represents a file with many diagnostics
type FileHotspot struct {
	File  string `json:"file"`
	Count int    `json:"count"`
}

// Summary contains aggregated statistics for one analysis run
type Summary struct {
	Total        int               `json:"total"`
	BySeverity   map[Severity]int  `json:"by_severity"`
	ByType       map[IssueType]int `json:"by_type"`
	ByRule       map[string]int    `json:"by_rule"`
	HotspotFiles []FileHotspot     `json:"hotspot_files,omitempty"`
}

// AnalysisReport represents the complete output of one project analysis
type AnalysisReport struct {
	RunID         string          `json:"run_id"`
	Path          string          `json:"path"`
	GeneratedAt   time.Time       `json:"generated_at"`
	Diagnostics   []Diagnostic    `json:"diagnostics"`
	ParseFailures []ParseFailure  `json:"parse_failures,omitempty"`
	Suppressed    int             `json:"suppressed"`
	Baselined     int             `json:"baselined"`
	Stats         EvaluationStats `json:"stats"`
	Summary       Summary         `json:"summary"`
	Debt          TechnicalDebt   `json:"debt"`
	LinesOfCode   int             `json:"lines_of_code"`
}
