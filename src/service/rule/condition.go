package rule

import (
	"fmt"
	"regexp"

	"marklint/src/service/document"
)

// ConditionOp names a condition variant
type ConditionOp string

const (
	OpAlways           ConditionOp = "always"
	OpAttributeMissing ConditionOp = "attribute_missing"
	OpAttributeEquals  ConditionOp = "attribute_equals"
	OpAttributeMatches ConditionOp = "attribute_matches"
	OpParentKindEquals ConditionOp = "parent_kind_equals"
	OpAnd              ConditionOp = "and"
	OpOr               ConditionOp = "or"
	OpNot              ConditionOp = "not"
)

// Condition is a closed predicate expression over a single node. It is a
// pure function of the node's name, attributes and parent; no embedded
// scripting, no external state.
type Condition struct {
	Op       ConditionOp `yaml:"op"`
	Name     string      `yaml:"name,omitempty"`
	Value    string      `yaml:"value,omitempty"`
	Pattern  string      `yaml:"pattern,omitempty"`
	Kind     string      `yaml:"kind,omitempty"`
	Operands []Condition `yaml:"operands,omitempty"`

	compiled *regexp.Regexp
}

// Compile validates the condition tree and compiles any regex patterns.
// Invalid conditions are rejected here, at rule-load time, never mid-scan.
func (c *Condition) Compile() error {
	switch c.Op {
	case OpAlways:
		return nil
	case OpAttributeMissing:
		if c.Name == "" {
			return fmt.Errorf("attribute_missing requires a name")
		}
	case OpAttributeEquals:
		if c.Name == "" {
			return fmt.Errorf("attribute_equals requires a name")
		}
	case OpAttributeMatches:
		if c.Name == "" {
			return fmt.Errorf("attribute_matches requires a name")
		}
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return fmt.Errorf("attribute_matches pattern %q: %w", c.Pattern, err)
		}
		c.compiled = re
	case OpParentKindEquals:
		if c.Kind == "" {
			return fmt.Errorf("parent_kind_equals requires a kind")
		}
	case OpAnd, OpOr:
		if len(c.Operands) == 0 {
			return fmt.Errorf("%s requires at least one operand", c.Op)
		}
		for i := range c.Operands {
			if err := c.Operands[i].Compile(); err != nil {
				return err
			}
		}
	case OpNot:
		if len(c.Operands) != 1 {
			return fmt.Errorf("not requires exactly one operand")
		}
		return c.Operands[0].Compile()
	default:
		return fmt.Errorf("unknown condition op %q", c.Op)
	}
	return nil
}

// Evaluate applies the condition to one node. It is total: every variant
// produces a boolean and recursion only descends into finite operand lists.
func (c *Condition) Evaluate(doc *document.Document, nodeIdx int) bool {
	node := doc.Node(nodeIdx)

	switch c.Op {
	case OpAlways:
		return true
	case OpAttributeMissing:
		_, ok := node.Attribute(c.Name)
		return !ok
	case OpAttributeEquals:
		v, ok := node.Attribute(c.Name)
		return ok && v == c.Value
	case OpAttributeMatches:
		v, ok := node.Attribute(c.Name)
		return ok && c.compiled != nil && c.compiled.MatchString(v)
	case OpParentKindEquals:
		parent, ok := doc.ParentName(nodeIdx)
		return ok && parent == c.Kind
	case OpAnd:
		for i := range c.Operands {
			if !c.Operands[i].Evaluate(doc, nodeIdx) {
				return false
			}
		}
		return true
	case OpOr:
		for i := range c.Operands {
			if c.Operands[i].Evaluate(doc, nodeIdx) {
				return true
			}
		}
		return false
	case OpNot:
		return !c.Operands[0].Evaluate(doc, nodeIdx)
	}
	return false
}

// Always is the condition that matches every node
func Always() Condition {
	return Condition{Op: OpAlways}
}

// AttributeMissing matches nodes lacking the named attribute
func AttributeMissing(name string) Condition {
	return Condition{Op: OpAttributeMissing, Name: name}
}

// AttributeEquals matches nodes whose named attribute equals value
func AttributeEquals(name, value string) Condition {
	return Condition{Op: OpAttributeEquals, Name: name, Value: value}
}

// AttributeMatches matches nodes whose named attribute matches the pattern
func AttributeMatches(name, pattern string) Condition {
	return Condition{Op: OpAttributeMatches, Name: name, Pattern: pattern}
}

// ParentKindEquals matches nodes whose parent element has the given name
func ParentKindEquals(kind string) Condition {
	return Condition{Op: OpParentKindEquals, Kind: kind}
}

// And matches when every operand matches
func And(operands ...Condition) Condition {
	return Condition{Op: OpAnd, Operands: operands}
}

// Or matches when any operand matches
func Or(operands ...Condition) Condition {
	return Condition{Op: OpOr, Operands: operands}
}

// Not inverts its operand
func Not(operand Condition) Condition {
	return Condition{Op: OpNot, Operands: []Condition{operand}}
}
