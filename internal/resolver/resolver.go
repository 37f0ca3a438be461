package resolver

import (
	"fmt"
	"strings"

	"github.com/devlooped/nudoq/pkg/doc"
	"github.com/devlooped/nudoq/pkg/memberid"
	"github.com/devlooped/nudoq/pkg/metadata"
	"github.com/devlooped/nudoq/pkg/types"
)

// Resolver classifies parsed member ids against a metadata index.
// It holds no per-document state and is safe for concurrent use when the
// index is.
type Resolver struct {
	index metadata.Index
}

// New creates a resolver. A nil index yields plain prefix-derived nodes.
func New(index metadata.Index) *Resolver {
	return &Resolver{index: index}
}

// Resolve builds the member node for ref with the given documentation
// children. The node is always returned; the diagnostic is non-nil when
// metadata had no unique match.
func (r *Resolver) Resolve(ref *memberid.Reference, children []doc.Element) (doc.Member, *types.Diagnostic) {
	if ref.Prefix == memberid.PrefixNamespace {
		return doc.NewNamespace(doc.MemberInfo{ID: ref.ID, Namespace: ref.Namespace()}, children), nil
	}
	if r.index == nil {
		return degraded(ref, ref.Namespace(), children), nil
	}

	ns := r.namespace(ref)

	var matches []*metadata.Descriptor
	for _, d := range r.index.Lookup(ref.Path(), ref.Arity()) {
		if r.matches(ref, d) {
			matches = append(matches, d)
		}
	}

	switch len(matches) {
	case 1:
		return r.augment(ref, ns, matches[0], children), nil
	case 0:
		diag := types.NewDiagnostic(types.CodeUnresolvedMember, ref.ID,
			fmt.Sprintf("no %s named %s in metadata", ref.Prefix, ref.Path()))
		return degraded(ref, ns, children), &diag
	default:
		diag := types.NewDiagnostic(types.CodeAmbiguousOverload, ref.ID,
			fmt.Sprintf("%d metadata candidates match %s", len(matches), ref.Path()))
		return degraded(ref, ns, children), &diag
	}
}

func degraded(ref *memberid.Reference, ns string, children []doc.Element) doc.Member {
	info := doc.MemberInfo{ID: ref.ID, Namespace: ns}
	switch ref.Prefix {
	case memberid.PrefixType:
		return doc.NewTypeDeclaration(info, children)
	case memberid.PrefixProperty:
		return doc.NewProperty(info, children)
	case memberid.PrefixField:
		return doc.NewField(info, children)
	case memberid.PrefixEvent:
		return doc.NewEvent(info, children)
	default:
		return doc.NewMethod(info, children)
	}
}

func (r *Resolver) augment(ref *memberid.Reference, ns string, d *metadata.Descriptor, children []doc.Element) doc.Member {
	info := doc.MemberInfo{ID: ref.ID, Namespace: ns, Metadata: d}

	switch d.Kind {
	case metadata.KindClass, metadata.KindStruct, metadata.KindInterface, metadata.KindEnum:
		if declaring, ok := r.declaringType(ref, d); ok {
			return doc.NewNestedType(info, declaring, flavor(d.Kind), children)
		}
		switch d.Kind {
		case metadata.KindStruct:
			return doc.NewStruct(info, children)
		case metadata.KindInterface:
			return doc.NewInterface(info, children)
		case metadata.KindEnum:
			return doc.NewEnum(info, children)
		default:
			return doc.NewClass(info, children)
		}
	case metadata.KindMethod:
		if d.IsExtension() && len(ref.Params) > 0 {
			return doc.NewExtensionMethod(info, ref.Params[0].TypeID(), children)
		}
		return doc.NewMethod(info, children)
	case metadata.KindProperty:
		return doc.NewProperty(info, children)
	case metadata.KindField:
		return doc.NewField(info, children)
	default:
		return doc.NewEvent(info, children)
	}
}

func flavor(k metadata.Kind) doc.Kind {
	switch k {
	case metadata.KindStruct:
		return doc.KindStruct
	case metadata.KindInterface:
		return doc.KindInterface
	case metadata.KindEnum:
		return doc.KindEnum
	default:
		return doc.KindClass
	}
}

// declaringType reports the enclosing type id of a nested type, taken from
// the descriptor or from metadata knowing the enclosing path as a type
func (r *Resolver) declaringType(ref *memberid.Reference, d *metadata.Descriptor) (string, bool) {
	if d.DeclaringType != "" {
		return d.DeclaringType, true
	}
	if len(ref.Segments) < 2 {
		return "", false
	}
	if r.isType(ref.Segments[:len(ref.Segments)-1]) {
		return ref.ParentTypeID(), true
	}
	return "", false
}

func (r *Resolver) matches(ref *memberid.Reference, d *metadata.Descriptor) bool {
	switch ref.Prefix {
	case memberid.PrefixType:
		return d.Kind.IsType()
	case memberid.PrefixMethod:
		return d.Kind == metadata.KindMethod && r.paramsMatch(ref, d)
	case memberid.PrefixProperty:
		return d.Kind == metadata.KindProperty && r.paramsMatch(ref, d)
	case memberid.PrefixField:
		return d.Kind == metadata.KindField
	case memberid.PrefixEvent:
		return d.Kind == metadata.KindEvent
	default:
		return false
	}
}

// paramsMatch compares parameter lists structurally after mapping named
// generic parameters onto their positional placeholders
func (r *Resolver) paramsMatch(ref *memberid.Reference, d *metadata.Descriptor) bool {
	if len(ref.Params) != len(d.Parameters) {
		return false
	}
	if len(d.Parameters) == 0 {
		return true
	}

	generics := r.genericNames(ref, d)
	subst := func(name string) (memberid.TypeRef, bool) {
		t, ok := generics[name]
		return t, ok
	}

	for i, p := range d.Parameters {
		t, err := memberid.ParseType(p.Type)
		if err != nil {
			return false
		}
		if !t.Substitute(subst).Equal(ref.Params[i]) {
			return false
		}
	}
	return true
}

// genericNames maps type parameter names in scope of a member to placeholders:
// the member's own as ``i, the enclosing types' cumulatively as `i
func (r *Resolver) genericNames(ref *memberid.Reference, d *metadata.Descriptor) map[string]memberid.TypeRef {
	names := make(map[string]memberid.TypeRef)

	pos := 0
	for n := 1; n < len(ref.Segments); n++ {
		seg := ref.Segments[n-1]
		if seg.Arity == 0 {
			continue
		}
		var params []string
		for _, c := range r.index.Lookup(memberid.Path(ref.Segments[:n]), seg.Arity) {
			if c.Kind.IsType() && len(c.TypeParameters) > 0 {
				params = c.TypeParameters
				break
			}
		}
		for i := 0; i < min(seg.Arity, len(params)); i++ {
			names[params[i]] = memberid.GenericParam(pos+i, false)
		}
		pos += seg.Arity
	}

	// method parameters shadow type parameters
	for i, name := range d.TypeParameters {
		names[name] = memberid.GenericParam(i, true)
	}
	return names
}

// namespace drops the member name, its declaring type and any enclosing
// types metadata knows about
func (r *Resolver) namespace(ref *memberid.Reference) string {
	n := len(ref.Segments) - 1
	if ref.Prefix != memberid.PrefixType {
		n--
	}
	for n > 0 && r.isType(ref.Segments[:n]) {
		n--
	}
	if n <= 0 {
		return ""
	}
	names := make([]string, n)
	for i := range names {
		names[i] = ref.Segments[i].Name
	}
	return strings.Join(names, ".")
}

func (r *Resolver) isType(segs []memberid.Segment) bool {
	for _, c := range r.index.Lookup(memberid.Path(segs), segs[len(segs)-1].Arity) {
		if c.Kind.IsType() {
			return true
		}
	}
	return false
}
