package util

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"marklint/src/config"
)

// ExclusionMatcher matches file paths against exclusion patterns
type ExclusionMatcher struct {
	filePatterns []string
	files        []string
}

// NewExclusionMatcher creates a new exclusion matcher from config
func NewExclusionMatcher(cfg config.ExclusionsConfig) *ExclusionMatcher {
	return &ExclusionMatcher{
		filePatterns: cfg.FilePatterns,
		files:        cfg.Files,
	}
}

// Matches checks if a file path should be excluded from analysis
func (m *ExclusionMatcher) Matches(filePath string) bool {
	normalized := filepath.ToSlash(filePath)

	for _, f := range m.files {
		if normalized == filepath.ToSlash(f) {
			return true
		}
	}

	for _, pattern := range m.filePatterns {
		if matched, _ := doublestar.Match(pattern, normalized); matched {
			return true
		}
	}

	return false
}
