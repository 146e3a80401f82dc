package config

// Config is the root configuration structure
type Config struct {
	Tool        ToolConfig        `yaml:"tool"`
	Evaluator   EvaluatorConfig   `yaml:"evaluator"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Baseline    BaselineConfig    `yaml:"baseline"`
	QualityGate QualityGateConfig `yaml:"quality_gate"`
	Exclusions  ExclusionsConfig  `yaml:"exclusions"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ToolConfig contains tool metadata
type ToolConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// EvaluatorConfig controls which rules run and how many diagnostics are produced
type EvaluatorConfig struct {
	MinSeverity    string   `yaml:"min_severity"`
	EnabledRules   []string `yaml:"enabled_rules"`
	DisabledRules  []string `yaml:"disabled_rules"`
	Categories     []string `yaml:"categories"`
	Tags           []string `yaml:"tags"`
	MaxDiagnostics int      `yaml:"max_diagnostics"`
}

// ConcurrencyConfig contains project-scan concurrency settings
type ConcurrencyConfig struct {
	MaxParallelFiles int `yaml:"max_parallel_files"`
}

// BaselineConfig contains baseline suppression settings
type BaselineConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// QualityGateConfig contains quality gate thresholds
type QualityGateConfig struct {
	Enabled       bool    `yaml:"enabled"`
	MaxDebtRatio  float64 `yaml:"max_debt_ratio"`
	MinRating     string  `yaml:"min_rating"`
	FailOnBlocker bool    `yaml:"fail_on_blocker"`
	FailOnHigh    bool    `yaml:"fail_on_high"`
}

// ExclusionsConfig contains path exclusion patterns for project scans
type ExclusionsConfig struct {
	FilePatterns []string `yaml:"file_patterns"`
	Files        []string `yaml:"files"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	Formats      []string `yaml:"formats"`
	OutputDir    string   `yaml:"output_dir"`
	IncludeHelp  bool     `yaml:"include_help"`
	IncludeFixes bool     `yaml:"include_fixes"`
	HotspotsTopN int      `yaml:"hotspots_top_n"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `yaml:"level"`
	File             string `yaml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp"`
}
