package rule

import (
	"marklint/src/model"
	"marklint/src/service/document"
)

// Stability marks how settled a rule's behavior is
type Stability string

const (
	StabilityStable     Stability = "stable"
	StabilityPreview    Stability = "preview"
	StabilityDeprecated Stability = "deprecated"
)

// DataRule is a declarative rule: a condition evaluated per candidate node
// plus a message template expanded for each match.
type DataRule struct {
	ID            string          `yaml:"id"`
	Name          string          `yaml:"name"`
	Severity      model.Severity  `yaml:"severity"`
	IssueType     model.IssueType `yaml:"issue_type"`
	Category      string          `yaml:"category"`
	Stability     Stability       `yaml:"stability"`
	Enabled       bool            `yaml:"enabled"`
	TargetElement string          `yaml:"target_element,omitempty"`
	Condition     Condition       `yaml:"condition"`
	Message       string          `yaml:"message"`
	FixTemplate   string          `yaml:"fix,omitempty"`
	Help          string          `yaml:"help,omitempty"`
	Tags          []string        `yaml:"tags,omitempty"`
	// Contexts scopes the rule to embedded sub-languages (e.g. shell
	// snippets carried inside the document); empty means the host language.
	Contexts []string `yaml:"contexts,omitempty"`
}

// CodeRule is a procedural whole-document rule, used when multi-node logic
// exceeds what the condition DSL can express.
type CodeRule struct {
	ID        string
	Name      string
	Severity  model.Severity
	IssueType model.IssueType
	Category  string
	Stability Stability
	Enabled   bool
	Tags      []string
	Check     func(doc *document.Document) []model.Diagnostic
}

// Impl is the sum of the two rule kinds, consumed uniformly by the
// evaluator. Exactly one of Data and Code is non-nil.
type Impl struct {
	Data *DataRule
	Code *CodeRule
}

// ID returns the rule id of whichever variant is present
func (r Impl) ID() string {
	if r.Data != nil {
		return r.Data.ID
	}
	return r.Code.ID
}

// Severity returns the rule's severity
func (r Impl) Severity() model.Severity {
	if r.Data != nil {
		return r.Data.Severity
	}
	return r.Code.Severity
}

// Category returns the rule's category
func (r Impl) Category() string {
	if r.Data != nil {
		return r.Data.Category
	}
	return r.Code.Category
}

// Enabled returns the rule's default-enabled flag
func (r Impl) Enabled() bool {
	if r.Data != nil {
		return r.Data.Enabled
	}
	return r.Code.Enabled
}

// Tags returns the rule's tags
func (r Impl) Tags() []string {
	if r.Data != nil {
		return r.Data.Tags
	}
	return r.Code.Tags
}

// FromData wraps a DataRule as an Impl
func FromData(d *DataRule) Impl {
	return Impl{Data: d}
}

// FromCode wraps a CodeRule as an Impl
func FromCode(c *CodeRule) Impl {
	return Impl{Code: c}
}
