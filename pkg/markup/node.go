package markup

import (
	"fmt"
	"strings"
)

// Kind distinguishes leaf node types.
type Kind uint8

const (
	KindText         Kind = iota // literal text
	KindKeybind                  // client key binding, Content is the key
	KindTranslatable             // translation, Content is the key and Args its arguments
)

var kindNames = map[Kind]string{
	KindText:         "text",
	KindKeybind:      "keybind",
	KindTranslatable: "translatable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is a styled text node. A leaf carries Content and no Children; a
// branch carries Children and no Content. A branch's Style applies beneath
// the style of each child.
type Node struct {
	Kind     Kind    `json:"kind" yaml:"kind"`
	Content  string  `json:"content,omitempty" yaml:"content,omitempty"`
	Args     []*Node `json:"args,omitempty" yaml:"args,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Style    Style   `json:"style,omitzero" yaml:"style,omitempty"`
}

// Text returns a text leaf.
func Text(content string, style Style) *Node {
	return &Node{Kind: KindText, Content: content, Style: style}
}

// Keybind returns a keybind leaf.
func Keybind(key string, style Style) *Node {
	return &Node{Kind: KindKeybind, Content: key, Style: style}
}

// Translatable returns a translatable leaf with positional arguments.
func Translatable(key string, style Style, args ...*Node) *Node {
	return &Node{Kind: KindTranslatable, Content: key, Args: args, Style: style}
}

// Branch returns an unstyled node grouping children.
func Branch(children ...*Node) *Node {
	return &Node{Kind: KindText, Children: children}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Args = cloneNodes(n.Args)
	c.Children = cloneNodes(n.Children)
	return &c
}

func cloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Leaves returns the leaves of n in order, each with the styles of its
// ancestors merged beneath its own.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.collectLeaves(Style{}, &out)
	return out
}

func (n *Node) collectLeaves(inherited Style, out *[]*Node) {
	style := inherited.Merge(n.Style)
	if n.IsLeaf() {
		leaf := *n
		leaf.Style = style
		*out = append(*out, &leaf)
		return
	}
	for _, child := range n.Children {
		child.collectLeaves(style, out)
	}
}

// PlainText flattens n to unstyled text. Keybinds and translatables render
// as their keys.
func (n *Node) PlainText() string {
	var sb strings.Builder
	n.writePlain(&sb)
	return sb.String()
}

func (n *Node) writePlain(sb *strings.Builder) {
	sb.WriteString(n.Content)
	for _, child := range n.Children {
		child.writePlain(sb)
	}
}
