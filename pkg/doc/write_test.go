package doc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	d := NewDocument("Sample", []Member{
		NewMethod(MemberInfo{ID: "M:N.T.Run(System.Int32)"}, []Element{
			NewContent("summary", nil, []Element{
				NewText("a < b & c"),
				NewContent("see", []Attr{{Name: "cref", Value: "T:N.T"}}, nil),
			}),
			NewRaw("<para>broken"),
		}),
	})

	out, err := Marshal(d)
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, "<assembly>\n        <name>Sample</name>\n    </assembly>")
	assert.Contains(t, s, `<member name="M:N.T.Run(System.Int32)"><summary>a &lt; b &amp; c<see cref="T:N.T"></see></summary><para>broken</member>`)
	assert.True(t, strings.HasSuffix(s, "</doc>\n"))
}

func TestMarshal_NoAssembly(t *testing.T) {
	out, err := Marshal(NewDocument("", nil))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<assembly>")
	assert.Contains(t, string(out), "<members>")
}

func TestMarshalContent(t *testing.T) {
	m := NewClass(MemberInfo{ID: "T:N.T"}, []Element{
		NewContent("summary", nil, []Element{NewText("Hi")}),
		NewContent("remarks", nil, []Element{NewContent("para", nil, []Element{NewText("x")})}),
	})

	s, err := MarshalContent(m)
	require.NoError(t, err)
	assert.Equal(t, "<summary>Hi</summary><remarks><para>x</para></remarks>", s)
}

func TestMarshalContent_PrefixedNames(t *testing.T) {
	m := NewClass(MemberInfo{ID: "T:N.T"}, []Element{
		NewContent("summary", nil, []Element{
			NewContent("x:b", []Attr{{Name: "xml:lang", Value: "en"}}, []Element{NewText("t")}),
		}),
	})

	s, err := MarshalContent(m)
	require.NoError(t, err)
	assert.Equal(t, `<summary><x:b xml:lang="en">t</x:b></summary>`, s)
}
