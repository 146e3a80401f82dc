package index

import (
	"sync"

	"github.com/minio/highwayhash"

	"marklint/src/model"
	"marklint/src/service/document"
	"marklint/src/util"
)

var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

func contentHash(data []byte) uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0
	}
	h.Write(data)
	return h.Sum64()
}

// Definition is a named entity declared in a document
type Definition struct {
	ID          string         `json:"id"`
	ElementType string         `json:"element_type"`
	Location    model.Location `json:"location"`
	Detail      string         `json:"detail,omitempty"`
}

// Reference is a use-site of a named entity
type Reference struct {
	ID          string         `json:"id"`
	ElementType string         `json:"element_type"`
	Location    model.Location `json:"location"`
}

// ReferenceKinds maps a concrete markup vocabulary onto the generic
// (definition element-type, id attribute) space, keeping the index itself
// vocabulary-agnostic. Plugins supply one.
type ReferenceKinds struct {
	// Definitions maps defining element name -> attribute holding the id
	Definitions map[string]string
	// References maps referencing element name -> (target element name, id attribute)
	References map[string]ReferenceTarget
}

// ReferenceTarget names the element type a reference points at and the
// attribute carrying the referenced id.
type ReferenceTarget struct {
	ElementType string
	IDAttribute string
}

type defKey struct {
	elementType string
	id          string
}

type pathEntry struct {
	hash       uint64
	defKeys    []defKey
	references []Reference
}

// SymbolIndex is the project-wide table of definitions and references.
// It is the only shared mutable state during a project scan; all access
// is serialized through an RWMutex.
type SymbolIndex struct {
	mu          sync.RWMutex
	definitions map[defKey]Definition
	references  []Reference
	byPath      map[string]*pathEntry
}

// NewSymbolIndex creates an empty symbol index
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{
		definitions: map[defKey]Definition{},
		byPath:      map[string]*pathEntry{},
	}
}

// IndexSource parses one file's definitions and references and atomically
// replaces any previously indexed entries for that exact path. Repeated
// edits of one file therefore never accumulate stale or duplicate symbols.
// Unchanged content (by hash) is skipped entirely.
func (s *SymbolIndex) IndexSource(content []byte, path string, kinds ReferenceKinds) error {
	hash := contentHash(content)

	s.mu.RLock()
	prev, seen := s.byPath[path]
	s.mu.RUnlock()
	if seen && prev.hash == hash {
		util.Debug("Index: %s unchanged, skipping re-index", path)
		return nil
	}

	doc, err := document.Parse(path, content)
	if err != nil {
		return err
	}

	entry := &pathEntry{hash: hash}
	var defs []Definition

	for _, idx := range doc.PreOrder() {
		n := doc.Node(idx)
		if n.Kind != document.KindElement {
			continue
		}

		if idAttr, ok := kinds.Definitions[n.Name]; ok {
			if id, ok := n.Attribute(idAttr); ok && id != "" {
				defs = append(defs, Definition{
					ID:          id,
					ElementType: n.Name,
					Location:    n.Location,
					Detail:      n.Attributes["Name"],
				})
			}
		}

		if target, ok := kinds.References[n.Name]; ok {
			if id, ok := n.Attribute(target.IDAttribute); ok && id != "" {
				entry.references = append(entry.references, Reference{
					ID:          id,
					ElementType: target.ElementType,
					Location:    n.Location,
				})
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removePathLocked(path)

	for _, def := range defs {
		key := defKey{elementType: def.ElementType, id: def.ID}
		s.definitions[key] = def
		entry.defKeys = append(entry.defKeys, key)
	}
	s.references = append(s.references, entry.references...)
	s.byPath[path] = entry

	util.Debug("Index: %s indexed (%d definitions, %d references)",
		path, len(entry.defKeys), len(entry.references))
	return nil
}

// RemovePath drops every definition and reference indexed for the path
func (s *SymbolIndex) RemovePath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removePathLocked(path)
}

func (s *SymbolIndex) removePathLocked(path string) {
	prev, ok := s.byPath[path]
	if !ok {
		return
	}

	for _, key := range prev.defKeys {
		delete(s.definitions, key)
	}

	if len(prev.references) > 0 {
		kept := s.references[:0]
		for _, ref := range s.references {
			if ref.Location.File != path {
				kept = append(kept, ref)
			}
		}
		s.references = kept
	}

	delete(s.byPath, path)
}

// HasDefinition reports whether a definition exists for the element type and id
func (s *SymbolIndex) HasDefinition(elementType, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.definitions[defKey{elementType: elementType, id: id}]
	return ok
}

// GetDefinition returns the definition for the element type and id, if any
func (s *SymbolIndex) GetDefinition(elementType, id string) (Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.definitions[defKey{elementType: elementType, id: id}]
	return def, ok
}

// FindReferences returns every indexed reference resolving to the definition,
// across all indexed files.
func (s *SymbolIndex) FindReferences(def Definition) []Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Reference
	for _, ref := range s.references {
		if ref.ElementType == def.ElementType && ref.ID == def.ID {
			out = append(out, ref)
		}
	}
	return out
}

// References returns a snapshot of all indexed references
func (s *SymbolIndex) References() []Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Reference, len(s.references))
	copy(out, s.references)
	return out
}

// Stats returns the current definition and reference counts
func (s *SymbolIndex) Stats() (definitions, references int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.definitions), len(s.references)
}
