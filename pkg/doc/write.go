package doc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Write serializes d in the documentation file schema. Reading the output
// back yields a tree equal to d.
func Write(w io.Writer, d *Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	ww := &writer{w: w, enc: xml.NewEncoder(w)}
	ww.start("doc")
	if d.assembly != "" {
		ww.text("\n    ")
		ww.start("assembly")
		ww.text("\n        ")
		ww.start("name")
		ww.text(d.assembly)
		ww.end("name")
		ww.text("\n    ")
		ww.end("assembly")
	}
	ww.text("\n    ")
	ww.start("members")
	for _, m := range d.members {
		ww.text("\n        ")
		ww.start("member", Attr{Name: "name", Value: m.ID()})
		for _, c := range m.children() {
			ww.element(c)
		}
		ww.end("member")
	}
	ww.text("\n    ")
	ww.end("members")
	ww.text("\n")
	ww.end("doc")
	ww.text("\n")

	if ww.err != nil {
		return fmt.Errorf("failed to write document: %w", ww.err)
	}
	if err := ww.enc.Flush(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Marshal returns the serialized form of d
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type writer struct {
	w   io.Writer
	enc *xml.Encoder
	err error
}

func (ww *writer) token(t xml.Token) {
	if ww.err == nil {
		ww.err = ww.enc.EncodeToken(t)
	}
}

func (ww *writer) start(name string, attrs ...Attr) {
	se := xml.StartElement{Name: xml.Name{Local: name}}
	for _, a := range attrs {
		se.Attr = append(se.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	ww.token(se)
}

func (ww *writer) end(name string) {
	ww.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (ww *writer) text(s string) {
	ww.token(xml.CharData(s))
}

func (ww *writer) raw(s string) {
	if ww.err != nil {
		return
	}
	if ww.err = ww.enc.Flush(); ww.err != nil {
		return
	}
	_, ww.err = io.WriteString(ww.w, s)
}

func (ww *writer) element(e Element) {
	switch n := e.(type) {
	case *Text:
		ww.text(n.value)
		return
	case *Unknown:
		if n.raw != "" {
			ww.raw(n.raw)
			return
		}
	}

	tagged, ok := e.(interface{ base() *content })
	if !ok || tagged.base().tag == "" {
		for _, c := range e.children() {
			ww.element(c)
		}
		return
	}

	c := tagged.base()
	ww.start(c.tag, c.attrs...)
	for _, child := range c.nodes {
		ww.element(child)
	}
	ww.end(c.tag)
}

// MarshalContent serializes the children of e without e's own tag
func MarshalContent(e Element) (string, error) {
	var buf bytes.Buffer
	ww := &writer{w: &buf, enc: xml.NewEncoder(&buf)}
	for _, c := range e.children() {
		ww.element(c)
	}
	if ww.err == nil {
		ww.err = ww.enc.Flush()
	}
	if ww.err != nil {
		return "", fmt.Errorf("failed to write content: %w", ww.err)
	}
	return buf.String(), nil
}
