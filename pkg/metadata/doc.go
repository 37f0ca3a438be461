// Package metadata defines the read-only metadata index the resolver consults
// to decide what kind of symbol a member id names.
//
// The index is an external collaborator: something that has loaded a compiled
// program produces descriptors, this package only defines their shape and
// offers an in-memory implementation plus a YAML/JSON loader.
//
//	idx := metadata.NewMemoryIndex(
//	    &metadata.Descriptor{Path: "N.T", Kind: metadata.KindClass},
//	    &metadata.Descriptor{Path: "N.T.Inner", Kind: metadata.KindStruct, DeclaringType: "T:N.T"},
//	)
//
// # File format
//
//	assembly: Sample
//	descriptors:
//	  - path: N.Extensions.Shout
//	    kind: method
//	    static: true
//	    parameters:
//	      - name: value
//	        type: N.T
//	        receiver: true
//
// Lookup keys pair a dotted path with the generic arity of the final segment.
// Arity markers of enclosing segments stay in the path, so the generic type
// T:N.Outer`1.Inner`2 is found at ("N.Outer`1.Inner", 2).
package metadata
