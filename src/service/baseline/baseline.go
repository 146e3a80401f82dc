package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"marklint/src/model"
	"marklint/src/util"
)

// FileName is the fixed baseline filename searched for by FindAndLoad
const FileName = ".marklint-baseline.json"

// MaxSupportedVersion is the newest baseline format this engine can load
const MaxSupportedVersion = 1

// Baseline error kinds, distinguished so callers can react per cause.
var (
	ErrRead               = errors.New("baseline read error")
	ErrWrite              = errors.New("baseline write error")
	ErrParse              = errors.New("baseline parse error")
	ErrSerialize          = errors.New("baseline serialize error")
	ErrUnsupportedVersion = errors.New("baseline version not supported")
)

// Issue is one accepted diagnostic snapshot inside a baseline
type Issue struct {
	Fingerprint string `json:"fingerprint"`
	RuleID      string `json:"rule_id"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	MessageHash string `json:"message_hash"`
}

// Baseline is a persisted set of accepted issues. Diagnostics whose
// fingerprint appears here are suppressed on later runs.
type Baseline struct {
	Version     int     `json:"version"`
	Created     string  `json:"created"`
	ToolVersion string  `json:"tool_version"`
	Description string  `json:"description,omitempty"`
	Issues      []Issue `json:"issues"`
}

// Create snapshots the given diagnostics into a new baseline
func Create(diags []model.Diagnostic, basePath, toolVersion, description string) *Baseline {
	b := &Baseline{
		Version:     MaxSupportedVersion,
		Created:     time.Now().UTC().Format(time.RFC3339),
		ToolVersion: toolVersion,
		Description: description,
		Issues:      make([]Issue, 0, len(diags)),
	}
	for _, d := range diags {
		b.Issues = append(b.Issues, Issue{
			Fingerprint: Fingerprint(d, basePath),
			RuleID:      d.RuleID,
			File:        filepath.ToSlash(d.Location.File),
			Line:        d.Location.Line,
			MessageHash: MessageHash(d.Message),
		})
	}
	return b
}

// Save writes the baseline as indented JSON
func Save(b *Baseline, path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	util.Info("Baseline with %d issues written to %s", len(b.Issues), path)
	return nil
}

// Load reads a baseline file. Versions newer than MaxSupportedVersion are
// rejected.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if b.Version > MaxSupportedVersion {
		return nil, fmt.Errorf("%w: version %d exceeds maximum %d",
			ErrUnsupportedVersion, b.Version, MaxSupportedVersion)
	}

	return &b, nil
}

// FindAndLoad walks upward from startDir through its ancestors looking for
// the fixed baseline filename and loads the first one found. Absence is
// normal and returns (nil, nil).
func FindAndLoad(startDir string) (*Baseline, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			util.Debug("Baseline found at %s", candidate)
			return Load(candidate)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Filter removes every diagnostic whose recomputed fingerprint appears in
// the baseline and returns the kept diagnostics plus the removed count.
// Kept diagnostics stay untouched and in their original order.
func Filter(diags []model.Diagnostic, b *Baseline, basePath string) ([]model.Diagnostic, int) {
	if b == nil || len(b.Issues) == 0 {
		return diags, 0
	}

	known := make(map[string]bool, len(b.Issues))
	for _, issue := range b.Issues {
		known[issue.Fingerprint] = true
	}

	kept := diags[:0]
	removed := 0
	for _, d := range diags {
		if known[Fingerprint(d, basePath)] {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	return kept, removed
}
