// Package reader reads documentation files into doc trees.
//
// A read runs in four steps:
//
//  1. The envelope (root, assembly name, members list) is located on the raw
//     bytes and decoded with the member bodies cut out. A malformed envelope
//     is the only fatal failure and is reported as a *DocumentError.
//  2. Each member name is parsed as a member id. Malformed ids and unknown
//     kind prefixes skip that member with a diagnostic.
//  3. Each body is parsed as markup and the member is resolved against the
//     metadata index. Malformed markup degrades into an opaque fragment.
//  4. see and seealso targets missing from the document are reported.
//
// Diagnostics come back in document order. Results are cached by the SHA-256
// of the input, so reading the same bytes twice returns the same *Result.
//
// Usage:
//
//	idx, err := metadata.Load("Sample.meta.yaml")
//	if err != nil {
//	    return err
//	}
//	r := reader.New(idx, reader.WithLogger(logger))
//	res, err := r.ReadFile("Sample.xml")
//	if err != nil {
//	    return err // malformed document
//	}
//	for _, d := range res.Diagnostics {
//	    logger.Info("diagnostic", zap.String("code", string(d.Code)), zap.String("member", d.MemberID))
//	}
package reader
