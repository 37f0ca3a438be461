package doc

import (
	"slices"
	"strings"
)

// Text is a run of character data
type Text struct {
	node
	value string
}

func NewText(value string) *Text {
	return &Text{node: newNode(KindContent|KindText, nil), value: value}
}

func (t *Text) Value() string { return t.value }

type content struct {
	node
	tag   string
	attrs []Attr
}

// Tag returns the markup element name
func (c *content) Tag() string { return c.tag }

// Attrs returns a copy of the attributes in source order
func (c *content) Attrs() []Attr { return slices.Clone(c.attrs) }

// Attr returns the value of the named attribute
func (c *content) Attr(name string) (string, bool) {
	for _, a := range c.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (c *content) attr(name string) string {
	v, _ := c.Attr(name)
	return v
}

type (
	Summary     struct{ content }
	Remarks     struct{ content }
	Example     struct{ content }
	Para        struct{ content }
	ListHeader  struct{ content }
	Term        struct{ content }
	Description struct{ content }
	Returns     struct{ content }
	Value       struct{ content }

	// Code is a code block
	Code struct{ content }
	// C is an inline code span
	C struct{ content }

	List struct{ content }
	Item struct{ content }

	Param        struct{ content }
	TypeParam    struct{ content }
	ParamRef     struct{ content }
	TypeParamRef struct{ content }
	Exception    struct{ content }
	See          struct{ content }
	SeeAlso      struct{ content }
)

// Unknown preserves markup the parser does not model. When Raw is set the
// element is an opaque fragment left over from malformed markup.
type Unknown struct {
	content
	raw string
}

// Raw returns the verbatim fragment, empty for well-formed unknown elements
func (u *Unknown) Raw() string { return u.raw }

// NewRaw wraps an unparsable markup fragment
func NewRaw(raw string) *Unknown {
	return &Unknown{content: content{node: newNode(KindUnknown, nil)}, raw: raw}
}

var contentKinds = map[string]Kind{
	"summary":      KindSummary,
	"remarks":      KindRemarks,
	"example":      KindExample,
	"para":         KindPara,
	"code":         KindCode,
	"c":            KindC,
	"list":         KindList,
	"listheader":   KindListHeader,
	"item":         KindItem,
	"term":         KindTerm,
	"description":  KindDescription,
	"param":        KindParam,
	"typeparam":    KindTypeParam,
	"paramref":     KindParamRef,
	"typeparamref": KindTypeParamRef,
	"returns":      KindReturns,
	"value":        KindValue,
	"exception":    KindException,
	"see":          KindSee,
	"seealso":      KindSeeAlso,
}

// NewContent builds the typed element for a markup tag. Unrecognized tags
// become Unknown elements that keep their name, attributes and children.
func NewContent(tag string, attrs []Attr, children []Element) Element {
	kind, ok := contentKinds[tag]
	if !ok {
		return &Unknown{content: content{node: newNode(KindUnknown, children), tag: tag, attrs: attrs}}
	}

	c := content{node: newNode(KindContent|kind, children), tag: tag, attrs: attrs}
	switch kind {
	case KindSummary:
		return &Summary{c}
	case KindRemarks:
		return &Remarks{c}
	case KindExample:
		return &Example{c}
	case KindPara:
		return &Para{c}
	case KindCode:
		return &Code{c}
	case KindC:
		return &C{c}
	case KindList:
		return &List{c}
	case KindListHeader:
		return &ListHeader{c}
	case KindItem:
		return &Item{c}
	case KindTerm:
		return &Term{c}
	case KindDescription:
		return &Description{c}
	case KindParam:
		return &Param{c}
	case KindTypeParam:
		return &TypeParam{c}
	case KindParamRef:
		return &ParamRef{c}
	case KindTypeParamRef:
		return &TypeParamRef{c}
	case KindReturns:
		return &Returns{c}
	case KindValue:
		return &Value{c}
	case KindException:
		return &Exception{c}
	case KindSee:
		return &See{c}
	default:
		return &SeeAlso{c}
	}
}

// Content returns the code text
func (c *Code) Content() string { return concatText(c.nodes) }

// Content returns the code text
func (c *C) Content() string { return concatText(c.nodes) }

// Type returns the list style: bullet, number or table
func (l *List) Type() string { return l.attr("type") }

// Header returns the list header, or nil
func (l *List) Header() *ListHeader {
	for _, c := range l.nodes {
		if h, ok := c.(*ListHeader); ok {
			return h
		}
	}
	return nil
}

// Items returns the list items in source order
func (l *List) Items() []*Item {
	var items []*Item
	for _, c := range l.nodes {
		if it, ok := c.(*Item); ok {
			items = append(items, it)
		}
	}
	return items
}

// Rows returns the header, if any, followed by the items, in source order
func (l *List) Rows() []Element {
	var rows []Element
	for _, c := range l.nodes {
		switch c.(type) {
		case *ListHeader, *Item:
			rows = append(rows, c)
		}
	}
	return rows
}

func (h *ListHeader) Term() *Term               { return firstOf[*Term](h.nodes) }
func (h *ListHeader) Description() *Description { return firstOf[*Description](h.nodes) }
func (i *Item) Term() *Term                     { return firstOf[*Term](i.nodes) }
func (i *Item) Description() *Description       { return firstOf[*Description](i.nodes) }

func (p *Param) Name() string        { return p.attr("name") }
func (p *TypeParam) Name() string    { return p.attr("name") }
func (p *ParamRef) Name() string     { return p.attr("name") }
func (p *TypeParamRef) Name() string { return p.attr("name") }
func (e *Exception) Cref() string    { return e.attr("cref") }
func (s *See) Cref() string          { return s.attr("cref") }
func (s *SeeAlso) Cref() string      { return s.attr("cref") }

// Name returns the element name of an unknown tag
func (u *Unknown) Name() string { return u.tag }

func firstOf[T Element](nodes []Element) T {
	var zero T
	for _, c := range nodes {
		if t, ok := c.(T); ok {
			return t
		}
	}
	return zero
}

func concatText(nodes []Element) string {
	var sb strings.Builder
	for _, n := range nodes {
		Inspect(n, func(e Element) bool {
			if t, ok := e.(*Text); ok {
				sb.WriteString(t.value)
			}
			return true
		})
	}
	return sb.String()
}

func (n *Text) Accept(v Visitor) Visitor         { return v.VisitText(n) }
func (n *Summary) Accept(v Visitor) Visitor      { return v.VisitSummary(n) }
func (n *Remarks) Accept(v Visitor) Visitor      { return v.VisitRemarks(n) }
func (n *Example) Accept(v Visitor) Visitor      { return v.VisitExample(n) }
func (n *Para) Accept(v Visitor) Visitor         { return v.VisitPara(n) }
func (n *Code) Accept(v Visitor) Visitor         { return v.VisitCode(n) }
func (n *C) Accept(v Visitor) Visitor            { return v.VisitC(n) }
func (n *List) Accept(v Visitor) Visitor         { return v.VisitList(n) }
func (n *ListHeader) Accept(v Visitor) Visitor   { return v.VisitListHeader(n) }
func (n *Item) Accept(v Visitor) Visitor         { return v.VisitItem(n) }
func (n *Term) Accept(v Visitor) Visitor         { return v.VisitTerm(n) }
func (n *Description) Accept(v Visitor) Visitor  { return v.VisitDescription(n) }
func (n *Param) Accept(v Visitor) Visitor        { return v.VisitParam(n) }
func (n *TypeParam) Accept(v Visitor) Visitor    { return v.VisitTypeParam(n) }
func (n *ParamRef) Accept(v Visitor) Visitor     { return v.VisitParamRef(n) }
func (n *TypeParamRef) Accept(v Visitor) Visitor { return v.VisitTypeParamRef(n) }
func (n *Returns) Accept(v Visitor) Visitor      { return v.VisitReturns(n) }
func (n *Value) Accept(v Visitor) Visitor        { return v.VisitValue(n) }
func (n *Exception) Accept(v Visitor) Visitor    { return v.VisitException(n) }
func (n *See) Accept(v Visitor) Visitor          { return v.VisitSee(n) }
func (n *SeeAlso) Accept(v Visitor) Visitor      { return v.VisitSeeAlso(n) }
func (n *Unknown) Accept(v Visitor) Visitor      { return v.VisitUnknown(n) }

func (c *content) base() *content { return c }
