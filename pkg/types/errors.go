package types

import "errors"

// Sentinel errors for the diagnostic taxonomy. Every Diagnostic unwraps to one of these.
var (
	// Identifier errors: the member is skipped, the document parse continues
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrUnsupportedPrefix   = errors.New("unsupported identifier prefix")

	// Resolution outcomes: the member is still emitted, unaugmented
	ErrAmbiguousOverload = errors.New("ambiguous overload")
	ErrUnresolvedMember  = errors.New("unresolved member")

	// Content errors: the member body degrades to an opaque fragment
	ErrMarkup = errors.New("malformed member markup")

	// Cross-reference targets missing from the parsed member set
	ErrUnresolvedCrossReference = errors.New("unresolved cross-reference")

	// Fatal: the root document itself is not well-formed
	ErrMalformedDocument = errors.New("malformed document")
)
