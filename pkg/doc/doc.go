// Package doc is the immutable document tree produced by reading a
// documentation file, and the double-dispatch traversal over it.
//
// Every node is an Element with a Kind bitset that carries a broad category
// flag plus the specific flag of its variant:
//
//	KindMember|KindType|KindNestedType|KindStruct   a struct nested in a type
//	KindMember|KindMethod|KindExtensionMethod       an extension method
//	KindContent|KindPara                            a paragraph
//	KindUnknown                                     markup the parser does not model
//
// Symbol nodes (Member) own their documentation content as children. Links
// between symbols such as NestedType.DeclaringTypeID, ExtensionMethod.ExtendedTypeID
// and See.Cref are plain member ids resolved through Document.Lookup.
//
// Nodes are created with the New* constructors, usually fed by a Builder while
// markup is parsed, and never change afterwards.
//
// # Traversal
//
// Accept calls the Visitor method matching the node's concrete type. Embed
// BaseVisitor to get source-order recursion for everything not overridden:
//
//	type paramNames struct {
//	    doc.BaseVisitor
//	    names []string
//	}
//
//	func (p *paramNames) VisitParam(n *doc.Param) doc.Visitor {
//	    p.names = append(p.names, n.Name())
//	    return p
//	}
//
// Inspect offers the same walk with a callback for code that does not care
// about the variant.
package doc
