package memberid

import (
	"fmt"
	"strconv"

	"github.com/devlooped/nudoq/pkg/types"
)

// SyntaxError reports why a member id could not be parsed
type SyntaxError struct {
	ID       string
	Offset   int    // byte offset of the offending text within ID
	Fragment string // the offending text
	Msg      string
	Err      error // types.ErrMalformedIdentifier or types.ErrUnsupportedPrefix
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %q at offset %d (%q): %s", e.Err, e.ID, e.Offset, e.Fragment, e.Msg)
}

// Unwrap returns the sentinel error
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Parse parses a member id of the form prefix ':' path ['(' params ')'] ['~' return]
func Parse(id string) (*Reference, error) {
	if len(id) < 2 || id[1] != ':' {
		return nil, malformed(id, 0, "missing kind prefix")
	}

	prefix := Prefix(id[0])
	if !prefix.Valid() {
		return nil, &SyntaxError{
			ID:       id,
			Offset:   0,
			Fragment: id[:1],
			Msg:      "kind letter must be one of N, T, M, P, F, E",
			Err:      types.ErrUnsupportedPrefix,
		}
	}

	s := &scanner{id: id, pos: 2}
	ref := &Reference{ID: id, Prefix: prefix}

	if s.eof() {
		return nil, s.fail("empty path")
	}

	for {
		seg, err := s.pathSegment()
		if err != nil {
			return nil, err
		}
		ref.Segments = append(ref.Segments, seg)
		if s.peek() != '.' {
			break
		}
		s.pos++
	}

	if s.peek() == '(' {
		if prefix != PrefixMethod && prefix != PrefixProperty {
			return nil, s.fail("parameter list is only allowed on methods and properties")
		}
		s.pos++
		params, err := s.typeList(')')
		if err != nil {
			return nil, err
		}
		ref.Params = params
		ref.HasParams = true
	}

	if s.peek() == '~' {
		if prefix != PrefixMethod {
			return nil, s.fail("return type is only allowed on conversion operators")
		}
		s.pos++
		ret, err := s.typeRef()
		if err != nil {
			return nil, err
		}
		ref.Return = &ret
	}

	if !s.eof() {
		if s.peek() == ')' {
			return nil, s.fail("unbalanced parentheses")
		}
		return nil, s.fail("unexpected character")
	}

	return ref, nil
}

// ParseType parses a single structural type reference such as a parameter type
func ParseType(text string) (TypeRef, error) {
	s := &scanner{id: text}
	t, err := s.typeRef()
	if err != nil {
		return TypeRef{}, err
	}
	if !s.eof() {
		return TypeRef{}, s.fail("unexpected character")
	}
	return t, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(id string) *Reference {
	ref, err := Parse(id)
	if err != nil {
		panic(err)
	}
	return ref
}

func malformed(id string, offset int, msg string) *SyntaxError {
	return &SyntaxError{
		ID:       id,
		Offset:   offset,
		Fragment: id[offset:],
		Msg:      msg,
		Err:      types.ErrMalformedIdentifier,
	}
}

// scanner walks an id string byte by byte
type scanner struct {
	id  string
	pos int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.id)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.id[s.pos]
}

func (s *scanner) fail(msg string) *SyntaxError {
	pos := s.pos
	if pos > len(s.id) {
		pos = len(s.id)
	}
	return malformed(s.id, pos, msg)
}

// pathSegment reads a name with an optional arity marker. Braces inside a
// name (explicit interface implementations) are kept as part of the name.
func (s *scanner) pathSegment() (Segment, error) {
	start := s.pos
	depth := 0
	for !s.eof() {
		c := s.peek()
		if depth == 0 && (c == '.' || c == '(' || c == ')' || c == '`' || c == '~') {
			break
		}
		switch c {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return Segment{}, s.fail("unbalanced braces")
			}
			depth--
		}
		s.pos++
	}
	if depth != 0 {
		return Segment{}, malformed(s.id, start, "unbalanced braces")
	}
	if s.pos == start {
		return Segment{}, s.fail("empty path segment")
	}

	seg := Segment{Name: s.id[start:s.pos]}
	if s.peek() == '`' {
		ticks, n, err := s.arity()
		if err != nil {
			return Segment{}, err
		}
		seg.Arity = n
		seg.MethodArity = ticks == 2
	}
	return seg, nil
}

// arity reads one or two backticks followed by a decimal integer
func (s *scanner) arity() (ticks, n int, err error) {
	for s.peek() == '`' && ticks < 2 {
		s.pos++
		ticks++
	}
	start := s.pos
	for !s.eof() && s.peek() >= '0' && s.peek() <= '9' {
		s.pos++
	}
	if s.pos == start {
		return 0, 0, s.fail("expected generic arity digits")
	}
	n, err = strconv.Atoi(s.id[start:s.pos])
	if err != nil {
		return 0, 0, malformed(s.id, start, "invalid generic arity")
	}
	return ticks, n, nil
}

// typeList reads comma-separated type references up to the closing delimiter
func (s *scanner) typeList(closing byte) ([]TypeRef, error) {
	list := make([]TypeRef, 0)
	if s.peek() == closing {
		s.pos++
		return list, nil
	}
	for {
		t, err := s.typeRef()
		if err != nil {
			return nil, err
		}
		list = append(list, t)

		switch s.peek() {
		case ',':
			s.pos++
		case closing:
			s.pos++
			return list, nil
		case 0:
			if closing == ')' {
				return nil, s.fail("unbalanced parentheses")
			}
			return nil, s.fail("unbalanced braces")
		default:
			return nil, s.fail("unexpected character in type list")
		}
	}
}

// typeRef reads a named type or generic placeholder followed by its modifiers
func (s *scanner) typeRef() (TypeRef, error) {
	var t TypeRef

	if s.peek() == '`' {
		ticks, n, err := s.arity()
		if err != nil {
			return TypeRef{}, err
		}
		t = GenericParam(n, ticks == 2)
	} else {
		for {
			seg, err := s.typeSegment()
			if err != nil {
				return TypeRef{}, err
			}
			t.Segments = append(t.Segments, seg)
			if s.peek() != '.' {
				break
			}
			s.pos++
		}
	}

	for {
		switch s.peek() {
		case '[':
			rank, err := s.arrayRank()
			if err != nil {
				return TypeRef{}, err
			}
			t.Suffixes = append(t.Suffixes, Suffix{Rank: rank})
			continue
		case '*':
			s.pos++
			t.Suffixes = append(t.Suffixes, Suffix{})
			continue
		case '@':
			s.pos++
			t.ByRef = true
		}
		return t, nil
	}
}

func (s *scanner) typeSegment() (TypeSegment, error) {
	start := s.pos
	for !s.eof() && !isTypeDelimiter(s.peek()) {
		s.pos++
	}
	if s.pos == start {
		return TypeSegment{}, s.fail("expected type name")
	}

	seg := TypeSegment{Name: s.id[start:s.pos]}
	if s.peek() == '`' {
		_, n, err := s.arity()
		if err != nil {
			return TypeSegment{}, err
		}
		seg.Arity = n
	}
	if s.peek() == '{' {
		s.pos++
		args, err := s.typeList('}')
		if err != nil {
			return TypeSegment{}, err
		}
		if len(args) == 0 {
			return TypeSegment{}, s.fail("empty generic argument list")
		}
		seg.Args = args
	}
	return seg, nil
}

// arrayRank reads "[]" or a bounds list such as "[0:,0:]"
func (s *scanner) arrayRank() (int, error) {
	start := s.pos
	s.pos++ // '['
	rank := 1
	for !s.eof() {
		c := s.peek()
		switch {
		case c == ']':
			s.pos++
			return rank, nil
		case c == ',':
			rank++
		case c == ':' || c == ' ' || (c >= '0' && c <= '9'):
		default:
			return 0, s.fail("invalid array bounds")
		}
		s.pos++
	}
	return 0, malformed(s.id, start, "unterminated array bounds")
}

func isTypeDelimiter(c byte) bool {
	switch c {
	case '.', ',', '{', '}', '(', ')', '[', ']', '`', '@', '*', '~':
		return true
	default:
		return false
	}
}
