package doc

import (
	"slices"

	"github.com/devlooped/nudoq/pkg/metadata"
)

// Element is any node of the document tree. The set of implementations is
// closed to this package.
type Element interface {
	Kind() Kind
	// Elements returns a copy of the ordered children
	Elements() []Element
	// Accept calls the visitor method matching the concrete variant and
	// returns the visitor it was given or the one the method returned.
	Accept(v Visitor) Visitor

	children() []Element
}

// Attr is one attribute of a content element, kept in source order
type Attr struct {
	Name  string
	Value string
}

type node struct {
	kind  Kind
	nodes []Element
}

func newNode(kind Kind, children []Element) node {
	return node{kind: mustKind(kind), nodes: children}
}

func (n *node) Kind() Kind { return n.kind }

func (n *node) Elements() []Element { return slices.Clone(n.nodes) }

func (n *node) children() []Element { return n.nodes }

// Inspect walks the tree rooted at e in source order, calling fn for each
// element. Children are skipped when fn returns false.
func Inspect(e Element, fn func(Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.children() {
		Inspect(c, fn)
	}
}

// Member is a documented symbol
type Member interface {
	Element
	ID() string
	Namespace() string
	// Metadata returns the matched descriptor, nil for degraded nodes
	Metadata() *metadata.Descriptor
}

// MemberInfo carries the fields every member variant shares
type MemberInfo struct {
	ID        string
	Namespace string
	Metadata  *metadata.Descriptor
}

type member struct {
	node
	info MemberInfo
}

func newMember(kind Kind, info MemberInfo, children []Element) member {
	return member{node: newNode(kind, children), info: info}
}

func (m *member) ID() string                     { return m.info.ID }
func (m *member) Namespace() string              { return m.info.Namespace }
func (m *member) Metadata() *metadata.Descriptor { return m.info.Metadata }

// SummaryOf returns the first summary section of a member, or nil
func SummaryOf(m Member) *Summary {
	for _, c := range m.children() {
		if s, ok := c.(*Summary); ok {
			return s
		}
	}
	return nil
}
