package evaluator

import (
	"fmt"
	"path/filepath"
	"strings"

	"marklint/src/service/document"
	"marklint/src/service/index"
	"marklint/src/service/rule"
	"marklint/src/util"
)

// Capabilities describes what a plugin can do beyond rule evaluation
type Capabilities struct {
	Indexing bool
	Fixes    bool
}

// Plugin supplies a markup vocabulary to the engine: how to recognize its
// files, the rules that apply to them, and how its element names map onto
// the generic symbol space.
type Plugin interface {
	ID() string
	Name() string
	Version() string
	Extensions() []string
	Rules() []rule.Impl
	ReferenceKinds() index.ReferenceKinds
	Capabilities() Capabilities
}

// CanHandle reports whether the plugin recognizes the file path by extension
func CanHandle(p Plugin, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range p.Extensions() {
		if ext == strings.ToLower(known) {
			return true
		}
	}
	return false
}

// Registry holds the registered plugins. Rule misconfiguration is rejected
// at registration time; once Register succeeds, every rule id is unique
// across the registry.
type Registry struct {
	plugins []Plugin
	ruleIDs map[string]string
}

// NewRegistry creates an empty plugin registry
func NewRegistry() *Registry {
	return &Registry{ruleIDs: map[string]string{}}
}

// Register adds a plugin after validating its rule set
func (r *Registry) Register(p Plugin) error {
	for _, impl := range p.Rules() {
		id := impl.ID()
		if id == "" {
			return fmt.Errorf("plugin %s: rule with empty id", p.ID())
		}
		if owner, exists := r.ruleIDs[id]; exists {
			return fmt.Errorf("plugin %s: duplicate rule id %q (already registered by %s)", p.ID(), id, owner)
		}
		if impl.Data != nil {
			if err := impl.Data.Condition.Compile(); err != nil {
				return fmt.Errorf("plugin %s: rule %q: %w", p.ID(), id, err)
			}
		}
	}

	for _, impl := range p.Rules() {
		r.ruleIDs[impl.ID()] = p.ID()
	}
	r.plugins = append(r.plugins, p)
	util.Debug("Registered plugin %s %s (%d rules)", p.ID(), p.Version(), len(p.Rules()))
	return nil
}

// Plugins returns all registered plugins in registration order
func (r *Registry) Plugins() []Plugin {
	return r.plugins
}

// PluginFor returns the first registered plugin that handles the path
func (r *Registry) PluginFor(path string) (Plugin, bool) {
	for _, p := range r.plugins {
		if CanHandle(p, path) {
			return p, true
		}
	}
	return nil, false
}

// ParseResult is what a plugin-driven parse produces for one file
type ParseResult struct {
	Document *document.Document
	Err      *document.ParseError
}
