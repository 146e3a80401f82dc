package rule

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"marklint/src/model"
)

// ruleFile is the on-disk shape of a YAML rule set
type ruleFile struct {
	Rules []DataRule `yaml:"rules"`
}

// LoadDataRules parses a YAML rule set and validates every rule.
// Misconfigured rules (missing id, duplicate id, unknown severity or
// condition, invalid pattern) are rejected here so a scan never trips
// over them later.
func LoadDataRules(data []byte) ([]DataRule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rule file: %w", err)
	}

	seen := map[string]bool{}
	for i := range file.Rules {
		r := &file.Rules[i]
		if err := validateDataRule(r); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.ID, err)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
	}

	return file.Rules, nil
}

func validateDataRule(r *DataRule) error {
	if r.ID == "" {
		return fmt.Errorf("missing id")
	}
	if r.Message == "" {
		return fmt.Errorf("missing message")
	}
	if r.Severity.Rank() < 0 {
		return fmt.Errorf("unknown severity %q", r.Severity)
	}
	if r.IssueType == "" {
		r.IssueType = model.IssueTypeCodeSmell
	}
	if r.Stability == "" {
		r.Stability = StabilityStable
	}
	if err := r.Condition.Compile(); err != nil {
		return err
	}
	return nil
}
