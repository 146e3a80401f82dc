package document

import (
	"regexp"
	"strings"
)

// WildcardRule disables every rule when used as the RULE_ID of a directive
const WildcardRule = "all"

// fileScopeLine is the sentinel line under which file-wide reasons are stored
const fileScopeLine = 0

// directivePattern matches the three suppression comment forms:
//
//	<!-- disable RULE_ID -->
//	<!-- disable-next-line RULE_ID -->
//	<!-- disable-file RULE_ID -->
//
// An optional reason follows the rule id after ":" or " -- ".
// Keywords are matched case-insensitively and tolerate surrounding whitespace.
var directivePattern = regexp.MustCompile(`(?i)<!--\s*disable(-next-line|-file)?\s+([^>]*?)\s*-->`)

// Suppressions holds the inline suppression directives extracted from one file
type Suppressions struct {
	disabledLines     map[string]map[int]bool
	disabledFileRules map[string]bool
	disableReasons    map[string]map[int]string
}

// ScanSuppressions extracts suppression directives by scanning raw source
// lines, independently of tree parsing.
func ScanSuppressions(content []byte) *Suppressions {
	s := &Suppressions{
		disabledLines:     map[string]map[int]bool{},
		disabledFileRules: map[string]bool{},
		disableReasons:    map[string]map[int]string{},
	}

	for i, line := range strings.Split(string(content), "\n") {
		lineNo := i + 1
		for _, match := range directivePattern.FindAllStringSubmatch(line, -1) {
			scope := strings.ToLower(match[1])
			ruleIDs, reason := splitPayload(match[2])

			for _, ruleID := range ruleIDs {
				switch scope {
				case "-file":
					s.disabledFileRules[ruleID] = true
					s.setReason(ruleID, fileScopeLine, reason)
				case "-next-line":
					s.disableAt(ruleID, lineNo+1, reason)
				default:
					s.disableAt(ruleID, lineNo, reason)
				}
			}
		}
	}

	return s
}

// splitPayload separates the rule id list from the optional trailing reason
func splitPayload(payload string) ([]string, string) {
	reason := ""
	if idx := strings.Index(payload, " -- "); idx >= 0 {
		reason = strings.TrimSpace(payload[idx+4:])
		payload = payload[:idx]
	} else if idx := strings.Index(payload, ":"); idx >= 0 {
		reason = strings.TrimSpace(payload[idx+1:])
		payload = payload[:idx]
	}

	var ids []string
	for _, id := range strings.FieldsFunc(payload, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		if strings.EqualFold(id, WildcardRule) {
			id = WildcardRule
		}
		ids = append(ids, id)
	}
	return ids, reason
}

func (s *Suppressions) disableAt(ruleID string, line int, reason string) {
	if s.disabledLines[ruleID] == nil {
		s.disabledLines[ruleID] = map[int]bool{}
	}
	s.disabledLines[ruleID][line] = true
	s.setReason(ruleID, line, reason)
}

func (s *Suppressions) setReason(ruleID string, line int, reason string) {
	if reason == "" {
		return
	}
	if s.disableReasons[ruleID] == nil {
		s.disableReasons[ruleID] = map[int]string{}
	}
	s.disableReasons[ruleID][line] = reason
}

// IsRuleDisabled reports whether the rule is suppressed on the given line,
// either by its own id or by the "all" wildcard.
func (s *Suppressions) IsRuleDisabled(ruleID string, line int) bool {
	return s.disabledLines[WildcardRule][line] || s.disabledLines[ruleID][line]
}

// IsRuleDisabledForFile reports whether the rule is suppressed for the whole file
func (s *Suppressions) IsRuleDisabledForFile(ruleID string) bool {
	return s.disabledFileRules[WildcardRule] || s.disabledFileRules[ruleID]
}

// DisableReason returns the reason attached to the suppression that covers
// the rule at the given line. The specific rule is consulted first (line,
// then file scope), then the wildcard the same way. Returns "" when no
// reason was recorded.
func (s *Suppressions) DisableReason(ruleID string, line int) string {
	for _, id := range []string{ruleID, WildcardRule} {
		if reason, ok := s.disableReasons[id][line]; ok {
			return reason
		}
		if reason, ok := s.disableReasons[id][fileScopeLine]; ok {
			return reason
		}
	}
	return ""
}
