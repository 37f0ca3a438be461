package memberid

import (
	"strconv"
	"strings"
)

// TypeRef is a structural type reference as it appears in parameter lists
type TypeRef struct {
	// Named type path; empty for generic parameter placeholders
	Segments []TypeSegment

	// Generic parameter placeholder: `N (enclosing type) or ``N (method)
	IsGenericParam bool
	MethodParam    bool
	Position       int

	Suffixes []Suffix // array and pointer modifiers, in source order
	ByRef    bool
}

// TypeSegment is one component of a named type
type TypeSegment struct {
	Name  string
	Arity int       // unbound generic arity written with a backtick
	Args  []TypeRef // bound generic arguments written in braces
}

// Suffix is an array or pointer modifier
type Suffix struct {
	Rank int // array rank, zero for a pointer
}

// IsPointer reports whether the suffix is a pointer
func (s Suffix) IsPointer() bool {
	return s.Rank == 0
}

// GenericParam returns a placeholder reference for a generic parameter position
func GenericParam(position int, method bool) TypeRef {
	return TypeRef{IsGenericParam: true, MethodParam: method, Position: position}
}

// Named returns a reference to a plain named type such as "System.String"
func Named(name string) TypeRef {
	parts := strings.Split(name, ".")
	segs := make([]TypeSegment, len(parts))
	for i, p := range parts {
		segs[i] = TypeSegment{Name: p}
	}
	return TypeRef{Segments: segs}
}

// Equal reports structural equality
func (t TypeRef) Equal(o TypeRef) bool {
	if t.IsGenericParam != o.IsGenericParam || t.ByRef != o.ByRef {
		return false
	}
	if t.IsGenericParam && (t.MethodParam != o.MethodParam || t.Position != o.Position) {
		return false
	}
	if len(t.Segments) != len(o.Segments) || len(t.Suffixes) != len(o.Suffixes) {
		return false
	}
	for i := range t.Suffixes {
		if t.Suffixes[i] != o.Suffixes[i] {
			return false
		}
	}
	for i := range t.Segments {
		a, b := t.Segments[i], o.Segments[i]
		if a.Name != b.Name || a.Arity != b.Arity || len(a.Args) != len(b.Args) {
			return false
		}
		for j := range a.Args {
			if !a.Args[j].Equal(b.Args[j]) {
				return false
			}
		}
	}
	return true
}

// Substitute replaces single-segment named types for which fn returns a
// replacement, recursing into generic arguments. Modifiers are kept.
func (t TypeRef) Substitute(fn func(name string) (TypeRef, bool)) TypeRef {
	if t.IsGenericParam {
		return t
	}
	if len(t.Segments) == 1 && t.Segments[0].Arity == 0 && len(t.Segments[0].Args) == 0 {
		if repl, ok := fn(t.Segments[0].Name); ok {
			repl.Suffixes = append(append([]Suffix(nil), repl.Suffixes...), t.Suffixes...)
			repl.ByRef = repl.ByRef || t.ByRef
			return repl
		}
	}
	out := t
	out.Segments = make([]TypeSegment, len(t.Segments))
	for i, seg := range t.Segments {
		out.Segments[i] = TypeSegment{Name: seg.Name, Arity: seg.Arity}
		if len(seg.Args) > 0 {
			out.Segments[i].Args = make([]TypeRef, len(seg.Args))
			for j, arg := range seg.Args {
				out.Segments[i].Args[j] = arg.Substitute(fn)
			}
		}
	}
	return out
}

// TypeID returns the "T:" id of the referenced type. Generic arguments collapse
// to an arity marker and by-reference is dropped; generic parameters have no id.
func (t TypeRef) TypeID() string {
	if t.IsGenericParam {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("T:")
	for i, seg := range t.Segments {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.Name)
		switch {
		case len(seg.Args) > 0:
			sb.WriteString("`" + strconv.Itoa(len(seg.Args)))
		case seg.Arity > 0:
			sb.WriteString("`" + strconv.Itoa(seg.Arity))
		}
	}
	writeSuffixes(&sb, t.Suffixes)
	return sb.String()
}

// String returns the canonical parameter text
func (t TypeRef) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t TypeRef) write(sb *strings.Builder) {
	if t.IsGenericParam {
		sb.WriteByte('`')
		if t.MethodParam {
			sb.WriteByte('`')
		}
		sb.WriteString(strconv.Itoa(t.Position))
	}
	for i, seg := range t.Segments {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.Name)
		if seg.Arity > 0 {
			sb.WriteString("`" + strconv.Itoa(seg.Arity))
		}
		if len(seg.Args) > 0 {
			sb.WriteByte('{')
			for j, arg := range seg.Args {
				if j > 0 {
					sb.WriteByte(',')
				}
				arg.write(sb)
			}
			sb.WriteByte('}')
		}
	}
	writeSuffixes(sb, t.Suffixes)
	if t.ByRef {
		sb.WriteByte('@')
	}
}

func writeSuffixes(sb *strings.Builder, suffixes []Suffix) {
	for _, s := range suffixes {
		switch {
		case s.IsPointer():
			sb.WriteByte('*')
		case s.Rank == 1:
			sb.WriteString("[]")
		default:
			sb.WriteString("[0:")
			sb.WriteString(strings.Repeat(",0:", s.Rank-1))
			sb.WriteByte(']')
		}
	}
}
