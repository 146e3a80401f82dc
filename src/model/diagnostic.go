package model

// Severity represents the severity level of a diagnostic
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
	SeverityBlocker Severity = "blocker"
)

// severityOrder lists severities from least to most severe
var severityOrder = []Severity{
	SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityBlocker,
}

// Rank returns the numeric rank of a severity for ordering comparisons.
// Unknown severities rank below info.
func (s Severity) Rank() int {
	for i, known := range severityOrder {
		if s == known {
			return i
		}
	}
	return -1
}

// AtLeast reports whether s is at least as severe as min
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// IssueType classifies what kind of problem a diagnostic reports
type IssueType string

const (
	IssueTypeBug             IssueType = "bug"
	IssueTypeVulnerability   IssueType = "vulnerability"
	IssueTypeCodeSmell       IssueType = "code_smell"
	IssueTypeSecurityHotspot IssueType = "security_hotspot"
	IssueTypeSecret          IssueType = "secret"
)

// Location identifies a source range within one file
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Length int    `json:"length,omitempty"`
}

// TextEdit is a single replacement applied to a source file
type TextEdit struct {
	Location Location `json:"location"`
	NewText  string   `json:"new_text"`
}

// Fix describes an automated remediation for a diagnostic
type Fix struct {
	Description string     `json:"description"`
	Edits       []TextEdit `json:"edits,omitempty"`
}

// RelatedLocation points at an additional source range that explains a diagnostic
type RelatedLocation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// Diagnostic represents a single rule violation instance.
// It is immutable once created; the message has all placeholders substituted.
type Diagnostic struct {
	RuleID        string            `json:"rule_id"`
	Severity      Severity          `json:"severity"`
	IssueType     IssueType         `json:"issue_type"`
	Category      string            `json:"category,omitempty"`
	Message       string            `json:"message"`
	Location      Location          `json:"location"`
	Help          string            `json:"help,omitempty"`
	Fix           *Fix              `json:"fix,omitempty"`
	Related       []RelatedLocation `json:"related,omitempty"`
	EffortMinutes int               `json:"effort_minutes,omitempty"`
}
