package wix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marklint/src/config"
	"marklint/src/model"
	"marklint/src/service/document"
	"marklint/src/service/evaluator"
	"marklint/src/service/index"
)

func newEngine(t *testing.T) (*evaluator.Evaluator, *index.SymbolIndex, *Plugin) {
	t.Helper()
	symbols := index.NewSymbolIndex()
	plugin, err := New(symbols)
	require.NoError(t, err)

	registry := evaluator.NewRegistry()
	require.NoError(t, registry.Register(plugin))

	return evaluator.New(registry, config.EvaluatorConfig{MinSeverity: "info"}), symbols, plugin
}

func ruleIDs(diags []model.Diagnostic) []string {
	var ids []string
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	return ids
}

func TestRulesLoadFromEmbeddedYAML(t *testing.T) {
	plugin, err := New(index.NewSymbolIndex())
	require.NoError(t, err)
	assert.Greater(t, len(plugin.Rules()), 4)
}

func TestMissingGuidRule(t *testing.T) {
	eval, _, _ := newEngine(t)

	doc, err := document.Parse("p.wxs", []byte(`<Wix><Component Id="C1"/></Wix>`))
	require.NoError(t, err)

	diags := eval.Evaluate(doc)
	assert.Contains(t, ruleIDs(diags), "WIX-001")
	for _, d := range diags {
		if d.RuleID == "WIX-001" {
			assert.Equal(t, "Component 'C1' has no Guid attribute", d.Message)
		}
	}
}

func TestMalformedGuidRule(t *testing.T) {
	eval, _, _ := newEngine(t)

	doc, err := document.Parse("p.wxs", []byte(
		`<Wix><Component Id="C1" Guid="not-a-guid"/></Wix>`))
	require.NoError(t, err)

	ids := ruleIDs(eval.Evaluate(doc))
	assert.Contains(t, ids, "WIX-003")
	assert.NotContains(t, ids, "WIX-001")
}

func TestWellFormedGuidPasses(t *testing.T) {
	eval, _, _ := newEngine(t)

	doc, err := document.Parse("p.wxs", []byte(
		`<Wix><Component Id="C1" Guid="12345678-ABCD-ef01-2345-678901234567"/></Wix>`))
	require.NoError(t, err)

	ids := ruleIDs(eval.Evaluate(doc))
	assert.NotContains(t, ids, "WIX-001")
	assert.NotContains(t, ids, "WIX-002")
	assert.NotContains(t, ids, "WIX-003")
}

func TestFileOutsideComponent(t *testing.T) {
	eval, _, _ := newEngine(t)

	doc, err := document.Parse("p.wxs", []byte(
		`<Wix><Directory Id="D1"><File Id="F1" Source="a.exe"/></Directory></Wix>`))
	require.NoError(t, err)

	var found bool
	for _, d := range eval.Evaluate(doc) {
		if d.RuleID == "WIX-010" {
			found = true
			assert.Contains(t, d.Message, "found under Directory")
		}
	}
	assert.True(t, found)
}

func TestUnresolvedReference(t *testing.T) {
	eval, symbols, plugin := newEngine(t)

	defs := []byte(`<Wix><Component Id="Present" Guid="12345678-ABCD-ef01-2345-678901234567"/></Wix>`)
	require.NoError(t, symbols.IndexSource(defs, "defs.wxs", plugin.ReferenceKinds()))

	doc, err := document.Parse("refs.wxs", []byte(
		`<Wix><Feature Id="Main"><ComponentRef Id="Present"/><ComponentRef Id="Absent"/></Feature></Wix>`))
	require.NoError(t, err)

	var unresolved []model.Diagnostic
	for _, d := range eval.Evaluate(doc) {
		if d.RuleID == "WIX-100" {
			unresolved = append(unresolved, d)
		}
	}
	require.Len(t, unresolved, 1)
	assert.Contains(t, unresolved[0].Message, "'Absent'")
	assert.Equal(t, model.SeverityHigh, unresolved[0].Severity)
}
