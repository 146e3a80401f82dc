package evaluator

import (
	"sync"
	"time"

	"marklint/src/config"
	"marklint/src/model"
	"marklint/src/service/document"
	"marklint/src/service/rule"
	"marklint/src/util"
)

// Evaluator runs the rules of registered plugins against parsed documents
// and accumulates statistics across calls. Safe for concurrent use: project
// scans evaluate files from multiple workers against one shared Evaluator.
type Evaluator struct {
	registry *Registry
	cfg      config.EvaluatorConfig

	mu    sync.Mutex
	stats model.EvaluationStats
}

// New creates an evaluator over a plugin registry
func New(registry *Registry, cfg config.EvaluatorConfig) *Evaluator {
	e := &Evaluator{registry: registry, cfg: cfg}
	e.ResetStats()
	return e
}

// Evaluate runs every applicable rule against one document and returns the
// diagnostics in deterministic order: plugins in registration order, rules
// in declaration order, candidate nodes in pre-order document order.
//
// The max_diagnostics cutoff is enforced per call, with a counter local to
// the evaluation, so concurrent calls over different documents never race
// for the remaining budget. The project-wide cutoff is applied by the
// scanner once, in sorted path order.
func (e *Evaluator) Evaluate(doc *document.Document) []model.Diagnostic {
	start := time.Now()
	var diags []model.Diagnostic
	emitted := 0

	e.bump(func(stats *model.EvaluationStats) { stats.FilesAnalyzed++ })

	for _, p := range e.registry.Plugins() {
		if !CanHandle(p, doc.Path) {
			continue
		}
		for _, impl := range p.Rules() {
			if e.capped(emitted) {
				break
			}
			if !e.shouldEvaluateRule(impl) {
				continue
			}
			e.bump(func(stats *model.EvaluationStats) { stats.RulesEvaluated++ })

			switch {
			case impl.Data != nil:
				diags = append(diags, e.evaluateDataRule(impl.Data, doc, &emitted)...)
			case impl.Code != nil:
				diags = append(diags, e.record(impl.Code.Check(doc), &emitted)...)
			}
		}
	}

	e.bump(func(stats *model.EvaluationStats) { stats.Elapsed += time.Since(start) })
	return diags
}

// MaxDiagnostics returns the configured hard diagnostic limit (0 = unlimited)
func (e *Evaluator) MaxDiagnostics() int {
	return e.cfg.MaxDiagnostics
}

func (e *Evaluator) bump(update func(*model.EvaluationStats)) {
	e.mu.Lock()
	update(&e.stats)
	e.mu.Unlock()
}

// shouldEvaluateRule applies the configured rule filters. The explicit
// disable list short-circuits; an explicit non-empty enable list is then
// authoritative; otherwise the rule must clear the minimum severity, the
// category filter and its own default-enabled flag.
func (e *Evaluator) shouldEvaluateRule(impl rule.Impl) bool {
	id := impl.ID()

	for _, disabled := range e.cfg.DisabledRules {
		if disabled == id {
			return false
		}
	}

	if len(e.cfg.EnabledRules) > 0 {
		for _, enabled := range e.cfg.EnabledRules {
			if enabled == id {
				return true
			}
		}
		return false
	}

	if !impl.Severity().AtLeast(model.Severity(e.cfg.MinSeverity)) {
		return false
	}

	if len(e.cfg.Categories) > 0 && !contains(e.cfg.Categories, impl.Category()) {
		return false
	}

	if len(e.cfg.Tags) > 0 && !containsAny(e.cfg.Tags, impl.Tags()) {
		return false
	}

	return impl.Enabled()
}

func (e *Evaluator) evaluateDataRule(r *rule.DataRule, doc *document.Document, emitted *int) []model.Diagnostic {
	var candidates []int
	if r.TargetElement != "" {
		candidates = doc.Elements(r.TargetElement)
	} else {
		candidates = doc.PreOrder()
	}

	var diags []model.Diagnostic
	for _, nodeIdx := range candidates {
		if e.capped(*emitted) {
			break
		}
		e.bump(func(stats *model.EvaluationStats) { stats.NodesChecked++ })

		if !r.Condition.Evaluate(doc, nodeIdx) {
			continue
		}

		node := doc.Node(nodeIdx)
		d := model.Diagnostic{
			RuleID:    r.ID,
			Severity:  r.Severity,
			IssueType: r.IssueType,
			Category:  r.Category,
			Message:   rule.ExpandMessage(r.Message, doc, nodeIdx),
			Location:  node.Location,
			Help:      r.Help,
		}
		if r.FixTemplate != "" {
			d.Fix = &model.Fix{Description: rule.ExpandMessage(r.FixTemplate, doc, nodeIdx)}
		}
		diags = append(diags, e.record([]model.Diagnostic{d}, emitted)...)
	}
	return diags
}

// record counts diagnostics into the stats and enforces the per-evaluation
// max_diagnostics cutoff (0 = unlimited). The emitted counter belongs to
// one Evaluate call; only the stats need the lock.
func (e *Evaluator) record(diags []model.Diagnostic, emitted *int) []model.Diagnostic {
	e.mu.Lock()
	defer e.mu.Unlock()

	var kept []model.Diagnostic
	for _, d := range diags {
		if e.capped(*emitted) {
			util.Warn("Diagnostic limit of %d reached, stopping evaluation", e.cfg.MaxDiagnostics)
			break
		}
		*emitted++
		e.stats.BySeverity[d.Severity]++
		e.stats.ByRule[d.RuleID]++
		kept = append(kept, d)
	}
	return kept
}

func (e *Evaluator) capped(emitted int) bool {
	return e.cfg.MaxDiagnostics > 0 && emitted >= e.cfg.MaxDiagnostics
}

// Stats returns a copy of the accumulated statistics
func (e *Evaluator) Stats() model.EvaluationStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	stats := e.stats
	stats.BySeverity = copyMap(e.stats.BySeverity)
	stats.ByRule = copyMap(e.stats.ByRule)
	return stats
}

// ResetStats zeroes all accumulated statistics
func (e *Evaluator) ResetStats() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats = model.EvaluationStats{
		BySeverity: map[model.Severity]int{},
		ByRule:     map[string]int{},
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsAny(haystack, needles []string) bool {
	for _, n := range needles {
		if contains(haystack, n) {
			return true
		}
	}
	return false
}

func copyMap[K comparable](m map[K]int) map[K]int {
	out := make(map[K]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
