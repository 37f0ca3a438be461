package doc

import (
	"strings"
)

// PlainText flattens the readable text under e with runs of white space collapsed.
// Cross-references without inner text contribute their target without the
// kind prefix, parameter references their name.
func PlainText(e Element) string {
	var sb strings.Builder
	Inspect(e, func(n Element) bool {
		switch t := n.(type) {
		case *Text:
			sb.WriteString(t.value)
		case *See:
			if len(t.nodes) == 0 {
				writeRef(&sb, t.Cref())
			}
		case *SeeAlso:
			if len(t.nodes) == 0 {
				writeRef(&sb, t.Cref())
			}
		case *ParamRef:
			sb.WriteString(t.Name())
		case *TypeParamRef:
			sb.WriteString(t.Name())
		case *Unknown:
			return t.raw == ""
		}
		return true
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func writeRef(sb *strings.Builder, cref string) {
	if len(cref) > 2 && cref[1] == ':' {
		cref = cref[2:]
	}
	sb.WriteString(cref)
}
