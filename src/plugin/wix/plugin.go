// Package wix supplies the installer-authoring XML vocabulary to the
// engine: file extensions, reference kinds for the symbol index, and the
// rule set shipped as data in rules.yaml.
package wix

import (
	_ "embed"
	"fmt"

	"marklint/src/model"
	"marklint/src/service/document"
	"marklint/src/service/evaluator"
	"marklint/src/service/index"
	"marklint/src/service/rule"
)

//go:embed rules.yaml
var rulesYAML []byte

// Plugin is the installer XML vocabulary plugin
type Plugin struct {
	rules   []rule.Impl
	symbols *index.SymbolIndex
}

// New creates the plugin. The symbol index is shared with the scanner so
// the reference-validity rule sees symbols from the whole project.
func New(symbols *index.SymbolIndex) (*Plugin, error) {
	dataRules, err := rule.LoadDataRules(rulesYAML)
	if err != nil {
		return nil, fmt.Errorf("loading wix rules: %w", err)
	}

	p := &Plugin{symbols: symbols}
	for i := range dataRules {
		p.rules = append(p.rules, rule.FromData(&dataRules[i]))
	}
	p.rules = append(p.rules, rule.FromCode(&rule.CodeRule{
		ID:        "WIX-100",
		Name:      "unresolved-reference",
		Severity:  model.SeverityHigh,
		IssueType: model.IssueTypeBug,
		Category:  "correctness",
		Stability: rule.StabilityStable,
		Enabled:   true,
		Tags:      []string{"reference"},
		Check:     p.checkUnresolvedReferences,
	}))
	return p, nil
}

func (p *Plugin) ID() string      { return "wix" }
func (p *Plugin) Name() string    { return "Installer XML" }
func (p *Plugin) Version() string { return "1.0.0" }

// Extensions lists the file extensions this plugin handles
func (p *Plugin) Extensions() []string {
	return []string{".wxs", ".wxi", ".wxl"}
}

// Rules returns the plugin's rule set
func (p *Plugin) Rules() []rule.Impl {
	return p.rules
}

// Capabilities reports that the plugin populates the symbol index
func (p *Plugin) Capabilities() evaluator.Capabilities {
	return evaluator.Capabilities{Indexing: true}
}

// ReferenceKinds maps the vocabulary's element names onto the generic
// definition/reference space of the symbol index.
func (p *Plugin) ReferenceKinds() index.ReferenceKinds {
	return index.ReferenceKinds{
		Definitions: map[string]string{
			"Component":      "Id",
			"ComponentGroup": "Id",
			"Directory":      "Id",
			"Feature":        "Id",
			"Property":       "Id",
		},
		References: map[string]index.ReferenceTarget{
			"ComponentRef":      {ElementType: "Component", IDAttribute: "Id"},
			"ComponentGroupRef": {ElementType: "ComponentGroup", IDAttribute: "Id"},
			"DirectoryRef":      {ElementType: "Directory", IDAttribute: "Id"},
			"FeatureRef":        {ElementType: "Feature", IDAttribute: "Id"},
		},
	}
}

// refElements mirrors ReferenceKinds().References for the code rule below
var refElements = map[string]string{
	"ComponentRef":      "Component",
	"ComponentGroupRef": "ComponentGroup",
	"DirectoryRef":      "Directory",
	"FeatureRef":        "Feature",
}

// checkUnresolvedReferences reports every *Ref element whose target id has
// no definition anywhere in the indexed project. Whole-project logic like
// this exceeds the per-node condition DSL, hence a code rule.
func (p *Plugin) checkUnresolvedReferences(doc *document.Document) []model.Diagnostic {
	var diags []model.Diagnostic

	for _, idx := range doc.PreOrder() {
		n := doc.Node(idx)
		if n.Kind != document.KindElement {
			continue
		}
		target, ok := refElements[n.Name]
		if !ok {
			continue
		}
		id, ok := n.Attribute("Id")
		if !ok || id == "" {
			continue
		}
		if p.symbols.HasDefinition(target, id) {
			continue
		}
		diags = append(diags, model.Diagnostic{
			RuleID:    "WIX-100",
			Severity:  model.SeverityHigh,
			IssueType: model.IssueTypeBug,
			Category:  "correctness",
			Message:   fmt.Sprintf("%s '%s' does not resolve to any %s", n.Name, id, target),
			Location:  n.Location,
			Help:      fmt.Sprintf("Declare a %s with Id=\"%s\" or fix the reference.", target, id),
		})
	}

	return diags
}
