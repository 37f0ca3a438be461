package memberid

import (
	"strconv"
	"strings"
)

// Prefix is the kind letter that starts every member id
type Prefix byte

const (
	PrefixNamespace Prefix = 'N'
	PrefixType      Prefix = 'T'
	PrefixMethod    Prefix = 'M'
	PrefixProperty  Prefix = 'P'
	PrefixField     Prefix = 'F'
	PrefixEvent     Prefix = 'E'
)

// Reserved final path segments
const (
	Constructor       = "#ctor"
	StaticConstructor = "#cctor"
	OperatorPrefix    = "op_"
)

// Valid reports whether p is one of the recognized kind letters
func (p Prefix) Valid() bool {
	switch p {
	case PrefixNamespace, PrefixType, PrefixMethod, PrefixProperty, PrefixField, PrefixEvent:
		return true
	default:
		return false
	}
}

func (p Prefix) String() string {
	switch p {
	case PrefixNamespace:
		return "namespace"
	case PrefixType:
		return "type"
	case PrefixMethod:
		return "method"
	case PrefixProperty:
		return "property"
	case PrefixField:
		return "field"
	case PrefixEvent:
		return "event"
	default:
		return "unknown(" + string(rune(p)) + ")"
	}
}

// Segment is one dot-separated component of a member path
type Segment struct {
	Name        string
	Arity       int  // generic parameters introduced at this segment
	MethodArity bool // arity written with a double backtick
}

func (s Segment) String() string {
	if s.Arity == 0 && !s.MethodArity {
		return s.Name
	}
	tick := "`"
	if s.MethodArity {
		tick = "``"
	}
	return s.Name + tick + strconv.Itoa(s.Arity)
}

// Reference is the structured form of a member id. It is transient: the
// resolver consumes it and only the original id string survives in the tree.
type Reference struct {
	ID        string
	Prefix    Prefix
	Segments  []Segment
	Params    []TypeRef
	HasParams bool     // a parenthesized list was present, possibly empty
	Return    *TypeRef // conversion operators only
}

// Name returns the final path segment name
func (r *Reference) Name() string {
	return r.Segments[len(r.Segments)-1].Name
}

// Arity returns the generic arity introduced by the final segment
func (r *Reference) Arity() int {
	return r.Segments[len(r.Segments)-1].Arity
}

// Path returns the metadata lookup path: every segment with its arity marker,
// except the final one whose arity is reported by Arity.
func (r *Reference) Path() string {
	return Path(r.Segments)
}

// Parent returns the lookup path and arity of the immediately enclosing segment
func (r *Reference) Parent() (path string, arity int, ok bool) {
	if len(r.Segments) < 2 {
		return "", 0, false
	}
	parent := r.Segments[:len(r.Segments)-1]
	return Path(parent), parent[len(parent)-1].Arity, true
}

// ParentTypeID returns the type id of the enclosing segment, e.g. "T:N.T" for "M:N.T.M"
func (r *Reference) ParentTypeID() string {
	if len(r.Segments) < 2 {
		return ""
	}
	return TypeID(r.Segments[:len(r.Segments)-1])
}

// Namespace returns the path minus the final segment, or minus the final two
// for non-type members. Nested types are not told apart here.
func (r *Reference) Namespace() string {
	n := len(r.Segments) - 1
	switch r.Prefix {
	case PrefixNamespace:
		n = len(r.Segments)
	case PrefixType:
	default:
		n--
	}
	if n <= 0 {
		return ""
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = r.Segments[i].Name
	}
	return strings.Join(names, ".")
}

// IsConstructor reports whether the final segment is a constructor marker
func (r *Reference) IsConstructor() bool {
	name := r.Name()
	return name == Constructor || name == StaticConstructor
}

// IsOperator reports whether the final segment is an operator name
func (r *Reference) IsOperator() bool {
	return strings.HasPrefix(r.Name(), OperatorPrefix)
}

// String returns the canonical id text
func (r *Reference) String() string {
	var sb strings.Builder
	sb.WriteByte(byte(r.Prefix))
	sb.WriteByte(':')
	for i, seg := range r.Segments {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.String())
	}
	if r.HasParams {
		sb.WriteByte('(')
		for i, p := range r.Params {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(p.String())
		}
		sb.WriteByte(')')
	}
	if r.Return != nil {
		sb.WriteByte('~')
		sb.WriteString(r.Return.String())
	}
	return sb.String()
}

// Path joins segments with their arity markers, leaving off the final marker
func Path(segs []Segment) string {
	var sb strings.Builder
	for i, seg := range segs {
		if i > 0 {
			sb.WriteByte('.')
		}
		if i == len(segs)-1 {
			sb.WriteString(seg.Name)
		} else {
			sb.WriteString(seg.String())
		}
	}
	return sb.String()
}

// TypeID returns the "T:" id for a type path
func TypeID(segs []Segment) string {
	var sb strings.Builder
	sb.WriteString("T:")
	for i, seg := range segs {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.String())
	}
	return sb.String()
}
