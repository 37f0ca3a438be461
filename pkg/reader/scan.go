package reader

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/devlooped/nudoq/pkg/types"
)

// DocumentError is the only fatal read failure: the file is not a
// well-formed documentation document, so no tree is produced.
type DocumentError struct {
	Path string // empty for in-memory reads
	Line int
	Msg  string
	Err  error
}

func (e *DocumentError) Error() string {
	where := "document"
	if e.Path != "" {
		where = e.Path
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: malformed document at line %d: %s", where, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: malformed document: %s", where, e.Msg)
}

func (e *DocumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{types.ErrMalformedDocument}
	}
	return []error{types.ErrMalformedDocument, e.Err}
}

// entry locates one member element in the raw document
type entry struct {
	name      string
	offset    int // start of the member tag
	line      int // line of the member tag
	column    int
	bodyStart int
	bodyEnd   int
	bodyLine  int
	bodyCol   int
}

type envelope struct {
	assembly string
	entries  []entry
}

// skeleton is the document shape with member bodies cut out
type skeleton struct {
	XMLName  xml.Name
	Assembly struct {
		Name string `xml:"name"`
	} `xml:"assembly"`
	Members []struct {
		Name string `xml:"name,attr"`
	} `xml:"members>member"`
}

var (
	memberOpen  = []byte("<member")
	memberClose = []byte("</member")
)

// scanEnvelope splits data into the envelope and the raw member bodies.
// Bodies are located on the raw bytes so that a malformed body only affects
// its own member; the rest of the document must be well-formed.
func scanEnvelope(data []byte) (*envelope, error) {
	var (
		entries []entry
		cut     bytes.Buffer
		last    int
		lines   = newLineIndex(data)
	)

	pos := 0
	for pos < len(data) {
		i := bytes.IndexByte(data[pos:], '<')
		if i < 0 {
			break
		}
		i += pos

		if next, ok, err := skipMarkup(data, i); err != nil {
			return nil, malformedAt(lines, i, err.Error())
		} else if ok {
			pos = next
			continue
		}

		if !isTag(data[i:], memberOpen) {
			pos = i + 1
			continue
		}

		tagEnd, err := endOfTag(data, i)
		if err != nil {
			return nil, malformedAt(lines, i, err.Error())
		}

		e := entry{offset: i}
		e.line, e.column = lines.position(i)
		if data[tagEnd-1] == '/' {
			e.bodyStart, e.bodyEnd = tagEnd+1, tagEnd+1
			e.bodyLine, e.bodyCol = lines.position(e.bodyStart)
			entries = append(entries, e)
			pos = tagEnd + 1
			continue
		}

		e.bodyStart = tagEnd + 1
		e.bodyLine, e.bodyCol = lines.position(e.bodyStart)
		closeAt, err := findClose(data, e.bodyStart)
		if err != nil {
			return nil, malformedAt(lines, i, err.Error())
		}
		e.bodyEnd = closeAt
		entries = append(entries, e)

		cut.Write(data[last:e.bodyStart])
		last = closeAt
		pos = closeAt
	}
	cut.Write(data[last:])

	var sk skeleton
	if err := decodeSkeleton(cut.Bytes(), &sk); err != nil {
		de := &DocumentError{Msg: err.Error(), Err: err}
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			de.Msg = syn.Msg
		}
		return nil, de
	}
	if len(sk.Members) != len(entries) {
		return nil, &DocumentError{Msg: fmt.Sprintf("found %d member elements, %d inside members", len(entries), len(sk.Members))}
	}

	for i := range entries {
		entries[i].name = sk.Members[i].Name
	}
	return &envelope{assembly: sk.Assembly.Name, entries: entries}, nil
}

// decodeSkeleton decodes the root element and rejects anything but
// whitespace, comments and processing instructions after it
func decodeSkeleton(data []byte, sk *skeleton) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(sk); err != nil {
		if err == io.EOF {
			return errors.New("no root element")
		}
		return err
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("text after root element")
			}
		case xml.StartElement:
			return fmt.Errorf("second root element <%s>", t.Name.Local)
		}
	}
}

// skipMarkup steps over comments, CDATA sections, processing instructions
// and declarations starting at i
func skipMarkup(data []byte, i int) (next int, ok bool, err error) {
	rest := data[i:]
	var open, end string
	switch {
	case bytes.HasPrefix(rest, []byte("<!--")):
		open, end = "<!--", "-->"
	case bytes.HasPrefix(rest, []byte("<![CDATA[")):
		open, end = "<![CDATA[", "]]>"
	case bytes.HasPrefix(rest, []byte("<?")):
		open, end = "<?", "?>"
	case bytes.HasPrefix(rest, []byte("<!")):
		open, end = "<!", ">"
	default:
		return 0, false, nil
	}
	j := bytes.Index(rest[len(open):], []byte(end))
	if j < 0 {
		return 0, false, fmt.Errorf("unterminated %s", open)
	}
	return i + len(open) + j + len(end), true, nil
}

// isTag reports whether b starts with the tag name followed by a delimiter
func isTag(b, name []byte) bool {
	if !bytes.HasPrefix(b, name) {
		return false
	}
	if len(b) == len(name) {
		return true
	}
	switch b[len(name)] {
	case ' ', '\t', '\r', '\n', '>', '/':
		return true
	default:
		return false
	}
}

// endOfTag returns the index of the '>' closing the tag that starts at i
func endOfTag(data []byte, i int) (int, error) {
	var quote byte
	for j := i + 1; j < len(data); j++ {
		c := data[j]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return j, nil
		case c == '<':
			return 0, errors.New("unexpected < inside member tag")
		}
	}
	return 0, errors.New("unterminated member tag")
}

// findClose returns the offset of the </member> tag closing a body.
// Member elements nested inside the body are matched first.
func findClose(data []byte, from int) (int, error) {
	pos := from
	depth := 0
	for pos < len(data) {
		i := bytes.IndexByte(data[pos:], '<')
		if i < 0 {
			break
		}
		i += pos

		if next, ok, err := skipMarkup(data, i); err != nil {
			return 0, err
		} else if ok {
			pos = next
			continue
		}
		if isTag(data[i:], memberOpen) {
			if end, err := endOfTag(data, i); err == nil && data[end-1] != '/' {
				depth++
				pos = end + 1
				continue
			}
		}
		if isTag(data[i:], memberClose) {
			if depth == 0 {
				return i, nil
			}
			depth--
		}
		pos = i + 1
	}
	return 0, errors.New("member element is not closed")
}

func malformedAt(lines lineIndex, offset int, msg string) *DocumentError {
	line, _ := lines.position(offset)
	return &DocumentError{Line: line, Msg: msg}
}

// lineIndex maps byte offsets to 1-based line and column
type lineIndex []int

func newLineIndex(data []byte) lineIndex {
	starts := lineIndex{0}
	for i, c := range data {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (l lineIndex) position(offset int) (line, column int) {
	lo, hi := 0, len(l)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - l[lo] + 1
}
