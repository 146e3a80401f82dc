package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisableOnSameLine(t *testing.T) {
	source := "<Root>\n" +
		"  <Item Bad=\"1\"/> <!-- disable RULE-001: known legacy -->\n" +
		"  <Item Bad=\"2\"/>\n" +
		"</Root>\n"

	s := ScanSuppressions([]byte(source))

	assert.True(t, s.IsRuleDisabled("RULE-001", 2))
	assert.False(t, s.IsRuleDisabled("RULE-001", 3))
	assert.False(t, s.IsRuleDisabled("RULE-002", 2))
	assert.Equal(t, "known legacy", s.DisableReason("RULE-001", 2))
}

func TestDisableNextLine(t *testing.T) {
	source := "<Root>\n" +
		"  <!-- disable-next-line RULE-001 -- migrating soon -->\n" +
		"  <Item Bad=\"1\"/>\n" +
		"</Root>\n"

	s := ScanSuppressions([]byte(source))

	// The directive on line 2 disables the rule on line 3, not line 2
	assert.False(t, s.IsRuleDisabled("RULE-001", 2))
	assert.True(t, s.IsRuleDisabled("RULE-001", 3))
	assert.Equal(t, "migrating soon", s.DisableReason("RULE-001", 3))
}

func TestDisableFile(t *testing.T) {
	source := "<!-- disable-file RULE-001: vendored file -->\n<Root/>\n"

	s := ScanSuppressions([]byte(source))

	assert.True(t, s.IsRuleDisabledForFile("RULE-001"))
	assert.False(t, s.IsRuleDisabledForFile("RULE-002"))
	assert.Equal(t, "vendored file", s.DisableReason("RULE-001", 17))
}

func TestDisableAllWildcard(t *testing.T) {
	source := "<!-- disable-file all -->\n<Root>\n  <Item/>\n</Root>\n"

	s := ScanSuppressions([]byte(source))

	for _, rule := range []string{"RULE-001", "RULE-002", "ANY-999"} {
		assert.True(t, s.IsRuleDisabledForFile(rule), rule)
	}
}

func TestWildcardOnLine(t *testing.T) {
	source := "<Root>\n  <Item/> <!-- disable all -->\n</Root>\n"

	s := ScanSuppressions([]byte(source))

	assert.True(t, s.IsRuleDisabled("RULE-001", 2))
	assert.True(t, s.IsRuleDisabled("OTHER-123", 2))
	assert.False(t, s.IsRuleDisabled("RULE-001", 3))
}

func TestReasonPrecedence(t *testing.T) {
	source := "<!-- disable-file all: file fallback -->\n" +
		"<Root>\n" +
		"  <Item/> <!-- disable RULE-001: specific reason -->\n" +
		"</Root>\n"

	s := ScanSuppressions([]byte(source))

	// Specific rule at the line wins over the wildcard's file-level reason
	assert.Equal(t, "specific reason", s.DisableReason("RULE-001", 3))
	// Other lines fall back to the wildcard file reason
	assert.Equal(t, "file fallback", s.DisableReason("RULE-001", 2))
	assert.Equal(t, "file fallback", s.DisableReason("RULE-999", 4))
}

func TestDirectiveToleratesCaseAndWhitespace(t *testing.T) {
	source := "<Root>\n  <Item/> <!--   DISABLE   RULE-001   -->\n</Root>\n"

	s := ScanSuppressions([]byte(source))

	assert.True(t, s.IsRuleDisabled("RULE-001", 2))
}

func TestMultipleRuleIDs(t *testing.T) {
	source := "<Root>\n  <Item/> <!-- disable RULE-001, RULE-002 -->\n</Root>\n"

	s := ScanSuppressions([]byte(source))

	assert.True(t, s.IsRuleDisabled("RULE-001", 2))
	assert.True(t, s.IsRuleDisabled("RULE-002", 2))
	assert.False(t, s.IsRuleDisabled("RULE-003", 2))
}

func TestNoDirectives(t *testing.T) {
	s := ScanSuppressions([]byte("<Root>\n  <Item/>\n</Root>\n"))

	assert.False(t, s.IsRuleDisabled("RULE-001", 1))
	assert.False(t, s.IsRuleDisabledForFile("RULE-001"))
	assert.Equal(t, "", s.DisableReason("RULE-001", 1))
}
