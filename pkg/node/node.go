// Package node defines the tree representation that object graphs are
// serialized into before they are written as text.
//
// A [Node] is a named element with an ordered list of attributes and an
// ordered list of child nodes. Attributes hold scalar values; children hold
// composite values. Reference-marker nodes additionally carry a short text
// payload (the numeric reference id).
//
// Nodes are transient: a tree is built by one serialize call and consumed by
// one write, or produced by one read and consumed by one deserialize call.
// They are not safe for concurrent mutation.
package node

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Attr is a single name/value attribute of a node.
type Attr struct {
	Name  string
	Value string
}

// Node is a named tree element.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// New creates a node with the given element name.
func New(name string) *Node {
	return &Node{Name: name}
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// SetAttr sets an attribute, replacing the value in place if it already
// exists so that attribute order stays stable.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Add appends children and returns n for chaining.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Child returns the first child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// First returns the first child, or nil for a leaf.
func (n *Node) First() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Walk visits n and its descendants depth-first in document order. If fn
// returns false the children of that node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Equal reports whether two trees have identical names, attributes (in
// order), text and children.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Text != b.Text || len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i] != b.Attrs[i] {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Separator replaces characters that may not appear in an element name.
const Separator = "."

// ElementName normalizes s into a valid XML element name. Characters that are
// not letters, digits, '_', '-' or '.' collapse into [Separator]; a leading
// character that cannot start a name is prefixed with '_'.
func ElementName(s string) string {
	var b strings.Builder
	lastSep := false
	for _, r := range s {
		if isNameRune(r) {
			b.WriteRune(r)
			lastSep = r == '.'
			continue
		}
		if !lastSep && b.Len() > 0 {
			b.WriteString(Separator)
			lastSep = true
		}
	}
	name := strings.Trim(b.String(), Separator)
	if name == "" {
		return "_"
	}
	if r, _ := utf8.DecodeRuneInString(name); !unicode.IsLetter(r) && r != '_' {
		name = "_" + name
	}
	return name
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}

// ValidText reports whether s is valid UTF-8 made only of characters an XML
// document can carry. Attribute values and text outside this set cannot be
// written without loss.
func ValidText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !isCharRune(r) {
			return false
		}
	}
	return true
}

// isCharRune implements the XML Char production.
func isCharRune(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
