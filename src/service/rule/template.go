package rule

import (
	"strings"

	"marklint/src/service/document"
)

const (
	rootMarker    = "(root)"
	unnamedMarker = "(unnamed)"
)

// ExpandMessage substitutes the fixed message placeholders against one node
// in a single left-to-right pass. Supported placeholders:
//
//	{{kind}}        node kind (element name)
//	{{parent}}      parent kind, or the root marker for top-level nodes
//	{{id}}          Id attribute, else Name attribute, else the unnamed marker
//	{{attribute.X}} literal value of attribute X
//
// Substitution is literal, never recursive: placeholder-like text produced
// by a substitution is left alone.
func ExpandMessage(template string, doc *document.Document, nodeIdx int) string {
	node := doc.Node(nodeIdx)

	var sb strings.Builder
	rest := template
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		end := strings.Index(rest[open:], "}}")
		if end < 0 {
			sb.WriteString(rest)
			break
		}

		sb.WriteString(rest[:open])
		placeholder := rest[open+2 : open+end]
		sb.WriteString(resolvePlaceholder(placeholder, doc, nodeIdx, node))
		rest = rest[open+end+2:]
	}
	return sb.String()
}

func resolvePlaceholder(name string, doc *document.Document, nodeIdx int, node *document.Node) string {
	switch {
	case name == "kind":
		return node.Name
	case name == "parent":
		if parent, ok := doc.ParentName(nodeIdx); ok {
			return parent
		}
		return rootMarker
	case name == "id":
		if id, ok := node.Attribute("Id"); ok {
			return id
		}
		if n, ok := node.Attribute("Name"); ok {
			return n
		}
		return unnamedMarker
	case strings.HasPrefix(name, "attribute."):
		value, _ := node.Attribute(strings.TrimPrefix(name, "attribute."))
		return value
	}
	// Unknown placeholders pass through untouched
	return "{{" + name + "}}"
}
