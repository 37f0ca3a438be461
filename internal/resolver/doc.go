// Package resolver decides the semantic variant of each documented symbol.
//
// A member id only says "type" or "method"; the metadata index says whether
// the type is a class, struct, interface or enum, whether it is nested, and
// whether a method is an extension method. Candidates are looked up by path
// and arity and narrowed by kind and by structural parameter equality after
// generic parameter names are replaced by their positional placeholders.
//
// A unique match augments the node. No match yields an UnresolvedMember
// diagnostic and several matches an AmbiguousOverload diagnostic; both still
// produce a plain node carrying the documentation content.
package resolver
