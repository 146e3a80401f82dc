package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"marklint/src/model"
)

// ParseError reports a malformed document. It is local to one file: a project
// scan records it and continues with the remaining files.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Parse builds a positioned node tree from raw source text.
// The decoder is driven as a token stream with an explicit stack of open
// node indices; children are linked into their parent once fully built.
// Empty input yields a document with an empty node list.
func Parse(path string, content []byte) (*Document, error) {
	doc := &Document{
		Path:         path,
		Lines:        splitLines(content),
		Suppressions: ScanSuppressions(content),
	}

	lineStarts := lineStartOffsets(content)
	decoder := xml.NewDecoder(bytes.NewReader(content))

	// Indices of currently open elements, innermost last.
	var stack []int

	for {
		start := decoder.InputOffset()
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, toParseError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			idx := len(doc.nodes)
			doc.nodes = append(doc.nodes, Node{
				Kind:       KindElement,
				Name:       t.Name.Local,
				Attributes: convertAttrs(t.Attr),
				Parent:     NoParent,
				Location:   locationAt(path, lineStarts, start, decoder.InputOffset()),
			})
			if len(stack) > 0 {
				doc.nodes[idx].Parent = stack[len(stack)-1]
			} else {
				doc.roots = append(doc.roots, idx)
			}
			stack = append(stack, idx)

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if parent := doc.nodes[idx].Parent; parent != NoParent {
				doc.nodes[parent].Children = append(doc.nodes[parent].Children, idx)
			}

		case xml.CharData:
			text := string(t)
			if strings.TrimSpace(text) == "" || len(stack) == 0 {
				continue
			}
			doc.attachLeaf(Node{
				Kind:     KindText,
				Parent:   stack[len(stack)-1],
				Text:     text,
				Location: locationAt(path, lineStarts, start, decoder.InputOffset()),
			})

		case xml.Comment:
			parent := NoParent
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			doc.attachLeaf(Node{
				Kind:     KindComment,
				Parent:   parent,
				Text:     string(t),
				Location: locationAt(path, lineStarts, start, decoder.InputOffset()),
			})
		}
	}

	if len(stack) > 0 {
		open := &doc.nodes[stack[len(stack)-1]]
		return nil, &ParseError{
			Line:    open.Location.Line,
			Message: fmt.Sprintf("element %q is never closed", open.Name),
		}
	}

	return doc, nil
}

// attachLeaf appends a node that is complete on creation and links it into
// its parent immediately. Top-level leaves become additional roots.
func (d *Document) attachLeaf(n Node) {
	idx := len(d.nodes)
	d.nodes = append(d.nodes, n)
	if n.Parent != NoParent {
		d.nodes[n.Parent].Children = append(d.nodes[n.Parent].Children, idx)
	} else {
		d.roots = append(d.roots, idx)
	}
}

func toParseError(err error) *ParseError {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		return &ParseError{Line: syntax.Line, Message: syntax.Msg}
	}
	return &ParseError{Message: err.Error()}
}

func convertAttrs(attrs []xml.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		out[a.Name.Local] = a.Value
	}
	return out
}

// lineStartOffsets returns the byte offset of the first character of every
// line, sorted ascending. Offset zero is always present.
func lineStartOffsets(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// locationAt converts a byte offset to a 1-based line/column location via a
// partition-point search over the line-start table.
func locationAt(path string, lineStarts []int, start, end int64) model.Location {
	offset := int(start)
	idx := sort.Search(len(lineStarts), func(i int) bool {
		return lineStarts[i] > offset
	}) - 1
	length := int(end - start)
	return model.Location{
		File:   path,
		Line:   idx + 1,
		Column: offset - lineStarts[idx] + 1,
		Length: length,
	}
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}
