package metadata

import (
	"errors"
	"strconv"
	"sync"
)

// Kind is the semantic capability a descriptor reports
type Kind string

const (
	KindClass     Kind = "class"
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindEnum      Kind = "enum"
	KindMethod    Kind = "method"
	KindProperty  Kind = "property"
	KindField     Kind = "field"
	KindEvent     Kind = "event"
)

// IsType reports whether the kind describes a type declaration
func (k Kind) IsType() bool {
	switch k {
	case KindClass, KindStruct, KindInterface, KindEnum:
		return true
	default:
		return false
	}
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindClass, KindStruct, KindInterface, KindEnum,
		KindMethod, KindProperty, KindField, KindEvent:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	ErrUnknownFormat     = errors.New("unknown metadata format")
)

// Descriptor describes one symbol of the documented program
type Descriptor struct {
	// Lookup key. Path carries arity markers on every segment but the last,
	// whose arity is Arity: "N.Outer`1.Inner" + 2 for T:N.Outer`1.Inner`2.
	Path  string `yaml:"path" json:"path" validate:"required"`
	Arity int    `yaml:"arity,omitempty" json:"arity,omitempty" validate:"gte=0"`
	Kind  Kind   `yaml:"kind" json:"kind" validate:"required,oneof=class struct interface enum method property field event"`

	// Optional member id reported for this symbol
	ID string `yaml:"id,omitempty" json:"id,omitempty"`

	// Optional id of the enclosing type for nested types and members
	DeclaringType string `yaml:"declaring_type,omitempty" json:"declaring_type,omitempty"`

	Static         bool        `yaml:"static,omitempty" json:"static,omitempty"`
	TypeParameters []string    `yaml:"type_parameters,omitempty" json:"type_parameters,omitempty"`
	Parameters     []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty" validate:"dive"`
}

// Parameter is one entry of a method or indexer parameter list
type Parameter struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Structural type in member id encoding, e.g. "System.String", "`0",
	// "System.Int32[]" or a type parameter name such as "T"
	Type string `yaml:"type" json:"type" validate:"required"`

	// Receiver marks the first parameter of an extension method
	Receiver bool `yaml:"receiver,omitempty" json:"receiver,omitempty"`
}

// IsExtension reports whether the descriptor is a static method whose first
// parameter is marked as the extension receiver
func (d *Descriptor) IsExtension() bool {
	return d.Kind == KindMethod && d.Static && len(d.Parameters) > 0 && d.Parameters[0].Receiver
}

// Index is a read-only lookup of descriptors by path and arity.
// Implementations must be safe for concurrent readers.
type Index interface {
	Lookup(path string, arity int) []*Descriptor
}

// MemoryIndex is an in-memory Index. It is safe for concurrent use.
type MemoryIndex struct {
	mu    sync.RWMutex
	items map[string][]*Descriptor
	count int
}

// NewMemoryIndex creates an index holding the given descriptors
func NewMemoryIndex(descriptors ...*Descriptor) *MemoryIndex {
	idx := &MemoryIndex{items: make(map[string][]*Descriptor)}
	for _, d := range descriptors {
		idx.Add(d)
	}
	return idx
}

// Add registers a descriptor. Add must not race with readers of a snapshot in use.
func (m *MemoryIndex) Add(d *Descriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(d.Path, d.Arity)
	m.items[k] = append(m.items[k], d)
	m.count++
}

// Lookup returns the candidates registered at path and arity
func (m *MemoryIndex) Lookup(path string, arity int) []*Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found := m.items[key(path, arity)]
	if len(found) == 0 {
		return nil
	}
	out := make([]*Descriptor, len(found))
	copy(out, found)
	return out
}

// Len returns the number of descriptors
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count
}

func key(path string, arity int) string {
	return path + "`" + strconv.Itoa(arity)
}
