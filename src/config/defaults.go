package config

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Tool: ToolConfig{
			Name:        "marklint",
			Version:     "1.0.0",
			Description: "Static analysis engine for installer authoring XML",
		},
		Evaluator: EvaluatorConfig{
			MinSeverity:    "info",
			MaxDiagnostics: 0,
		},
		Concurrency: ConcurrencyConfig{
			MaxParallelFiles: 8,
		},
		Baseline: BaselineConfig{
			Enabled: true,
		},
		QualityGate: QualityGateConfig{
			Enabled:       false,
			MaxDebtRatio:  20,
			MinRating:     "C",
			FailOnBlocker: true,
			FailOnHigh:    false,
		},
		Exclusions: ExclusionsConfig{
			FilePatterns: []string{
				"**/obj/**", "**/bin/**", "**/generated/**",
			},
		},
		Output: OutputConfig{
			Formats:      []string{"text"},
			OutputDir:    ".",
			IncludeHelp:  true,
			IncludeFixes: false,
			HotspotsTopN: 10,
		},
		Logging: LoggingConfig{
			Level:            "info",
			IncludeTimestamp: true,
		},
	}
}
