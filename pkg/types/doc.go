// Package types provides the diagnostic taxonomy shared by every stage of the reader.
//
// Reading a documentation file never fails because of a single member. Problems are
// collected as Diagnostic values, in document order, next to the produced tree:
//
//	result, err := r.Read(data)
//	if err != nil {
//	    // only a malformed root document ends up here
//	    log.Fatal(err)
//	}
//	for _, d := range result.Diagnostics {
//	    fmt.Println(d.Severity, d.Code, d.MemberID, d.Message)
//	}
//
// # Codes
//
//	MalformedIdentifier      bad member id syntax, member skipped
//	UnsupportedPrefix        unknown kind letter, member skipped
//	AmbiguousOverload        several metadata matches, member emitted unaugmented
//	UnresolvedMember         no metadata match, member emitted unaugmented
//	MarkupError              malformed body, remainder kept as an opaque fragment
//	UnresolvedCrossReference see/seealso target not among the parsed members
//
// Every Diagnostic unwraps to a sentinel error, so errors.Is works on them:
//
//	errors.Is(&d, types.ErrAmbiguousOverload)
package types
