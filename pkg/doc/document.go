package doc

import (
	"slices"
	"sort"
)

// Document is the root of a parsed documentation file
type Document struct {
	node
	assembly string
	members  []Member
	byID     map[string]Member
}

// NewDocument builds a document from members in document order. When several
// members share an id, Lookup returns the first.
func NewDocument(assembly string, members []Member) *Document {
	nodes := make([]Element, len(members))
	byID := make(map[string]Member, len(members))
	for i, m := range members {
		nodes[i] = m
		if _, dup := byID[m.ID()]; !dup {
			byID[m.ID()] = m
		}
	}
	return &Document{
		node:     newNode(KindDocument, nodes),
		assembly: assembly,
		members:  slices.Clone(members),
		byID:     byID,
	}
}

func (d *Document) Assembly() string { return d.assembly }

// Members returns the members in document order
func (d *Document) Members() []Member { return slices.Clone(d.members) }

// Len returns the number of members
func (d *Document) Len() int { return len(d.members) }

// Lookup resolves a member id, including weak references such as
// NestedType.DeclaringTypeID or a See cref
func (d *Document) Lookup(id string) (Member, bool) {
	m, ok := d.byID[id]
	return m, ok
}

// NamespaceGroup is the set of members sharing a namespace
type NamespaceGroup struct {
	Name    string
	Members []Member
}

// Namespaces groups members by namespace, sorted by name. Members keep
// document order inside a group. The global namespace has an empty name.
func (d *Document) Namespaces() []NamespaceGroup {
	index := make(map[string]int)
	var groups []NamespaceGroup
	for _, m := range d.members {
		i, ok := index[m.Namespace()]
		if !ok {
			i = len(groups)
			index[m.Namespace()] = i
			groups = append(groups, NamespaceGroup{Name: m.Namespace()})
		}
		groups[i].Members = append(groups[i].Members, m)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

func (d *Document) Accept(v Visitor) Visitor { return v.VisitDocument(d) }
