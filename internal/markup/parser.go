package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/devlooped/nudoq/pkg/doc"
	"github.com/devlooped/nudoq/pkg/types"
)

// Error reports malformed markup. Offset, Line and Column are relative to
// the parsed body, Line and Column 1-based.
type Error struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("malformed markup at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func (e *Error) Unwrap() error {
	return types.ErrMarkup
}

// Parse turns the inner markup of one member into elements.
//
// Malformed markup does not discard what came before it: the elements
// parsed up to the offending top-level node are returned, followed by an
// opaque doc.Unknown holding the rest of the body verbatim, together with
// an *Error.
func Parse(body string) ([]doc.Element, error) {
	p := &parser{dec: xml.NewDecoder(strings.NewReader(body))}
	p.dec.Strict = true

	var b doc.Builder
	for {
		off := int(p.dec.InputOffset())
		tok, err := p.dec.RawToken()
		if err == io.EOF {
			break
		}
		if err == nil {
			err = p.node(tok, &b)
		}
		if err != nil {
			b.Append(doc.NewRaw(body[off:]))
			return dropBlank(b.Finish()), p.fail(body, err)
		}
	}

	return dropBlank(b.Finish()), nil
}

type parser struct {
	dec *xml.Decoder
}

func (p *parser) node(tok xml.Token, b *doc.Builder) error {
	switch t := tok.(type) {
	case xml.StartElement:
		e, err := p.element(t)
		if err != nil {
			return err
		}
		b.Append(e)
	case xml.CharData:
		b.AppendText(string(t))
	case xml.EndElement:
		return fmt.Errorf("unexpected end element </%s>", qualified(t.Name))
	}
	// comments, processing instructions and directives carry no content
	return nil
}

func (p *parser) element(start xml.StartElement) (doc.Element, error) {
	var b doc.Builder
	for {
		tok, err := p.dec.RawToken()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		if end, ok := tok.(xml.EndElement); ok {
			if qualified(end.Name) != qualified(start.Name) {
				return nil, fmt.Errorf("element <%s> closed by </%s>", qualified(start.Name), qualified(end.Name))
			}
			return build(start, b.Finish()), nil
		}
		if err := p.node(tok, &b); err != nil {
			return nil, err
		}
	}
}

func (p *parser) fail(body string, err error) *Error {
	off := int(p.dec.InputOffset())
	if off > len(body) {
		off = len(body)
	}

	msg := err.Error()
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		msg = syn.Msg
	}

	line := 1 + strings.Count(body[:off], "\n")
	col := off - strings.LastIndexByte(body[:off], '\n')
	return &Error{Offset: off, Line: line, Column: col, Msg: msg}
}

func build(start xml.StartElement, children []doc.Element) doc.Element {
	tag := qualified(start.Name)

	var attrs []doc.Attr
	for _, a := range start.Attr {
		attrs = append(attrs, doc.Attr{Name: qualified(a.Name), Value: a.Value})
	}

	switch tag {
	case "list", "listheader":
		children = dropBlank(children)
	case "item":
		if hasTermOrDescription(children) {
			children = dropBlank(children)
		}
	}

	return doc.NewContent(tag, attrs, children)
}

// qualified returns the name as written. RawToken leaves the prefix, not
// a namespace URL, in Space.
func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func hasTermOrDescription(children []doc.Element) bool {
	for _, c := range children {
		switch c.(type) {
		case *doc.Term, *doc.Description:
			return true
		}
	}
	return false
}

// dropBlank removes whitespace-only text runs
func dropBlank(children []doc.Element) []doc.Element {
	out := children[:0]
	for _, c := range children {
		if t, ok := c.(*doc.Text); ok && strings.TrimSpace(t.Value()) == "" {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
