package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlooped/nudoq/internal/metrics"
	"github.com/devlooped/nudoq/pkg/doc"
	"github.com/devlooped/nudoq/pkg/metadata"
	"github.com/devlooped/nudoq/pkg/types"
)

const sampleXML = `<?xml version="1.0"?>
<doc>
    <assembly>
        <name>Sample</name>
    </assembly>
    <members>
        <member name="T:N.T">
            <summary>
            A sample type. See <see cref="M:N.T.Run(System.String,System.Int32)"/>.
            </summary>
            <remarks>
              <list type="table">
                <listheader><term>Name</term><description>Meaning</description></listheader>
                <item><term>A</term><description>first</description></item>
                <item><term>B</term><description>second</description></item>
              </list>
            </remarks>
        </member>
        <member name="T:N.T.Inner">
            <summary>Nested &amp; small.</summary>
        </member>
        <member name="M:N.T.Run(System.String,System.Int32)">
            <summary>Runs <paramref name="count"/> times.</summary>
            <param name="name">The name.</param>
            <param name="count">How many.</param>
            <exception cref="T:System.ArgumentException">Bad input.</exception>
            <example><code lang="csharp">
var t = new T();
t.Run("x", 1);
</code></example>
        </member>
        <member name="M:N.Extensions.Shout(N.T)">
            <summary>Shouts. <custom kind="x">kept</custom></summary>
            <seealso cref="T:N.Missing"/>
        </member>
        <!-- a comment between members -->
        <member name="F:N.T.count"/>
        <member name="N:N">
            <summary>The namespace.</summary>
        </member>
    </members>
</doc>
`

func sampleIndex() *metadata.MemoryIndex {
	return metadata.NewMemoryIndex(
		&metadata.Descriptor{Path: "N.T", Kind: metadata.KindClass},
		&metadata.Descriptor{Path: "N.T.Inner", Kind: metadata.KindStruct},
		&metadata.Descriptor{Path: "N.T.Run", Kind: metadata.KindMethod, Parameters: []metadata.Parameter{
			{Name: "name", Type: "System.String"},
			{Name: "count", Type: "System.Int32"},
		}},
		&metadata.Descriptor{Path: "N.Extensions.Shout", Kind: metadata.KindMethod, Static: true, Parameters: []metadata.Parameter{
			{Name: "value", Type: "N.T", Receiver: true},
		}},
		&metadata.Descriptor{Path: "N.T.count", Kind: metadata.KindField},
	)
}

func ids(members []doc.Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.ID()
	}
	return out
}

func TestRead_Sample(t *testing.T) {
	r := New(sampleIndex())

	res, err := r.Read([]byte(sampleXML))
	require.NoError(t, err)

	d := res.Document
	assert.Equal(t, "Sample", d.Assembly())
	assert.Equal(t, []string{
		"T:N.T",
		"T:N.T.Inner",
		"M:N.T.Run(System.String,System.Int32)",
		"M:N.Extensions.Shout(N.T)",
		"F:N.T.count",
		"N:N",
	}, ids(d.Members()))

	members := d.Members()
	assert.IsType(t, &doc.Class{}, members[0])
	nested := members[1].(*doc.NestedType)
	assert.Equal(t, "T:N.T", nested.DeclaringTypeID())
	assert.Equal(t, "Nested & small.", doc.PlainText(doc.SummaryOf(nested)))

	ext := members[3].(*doc.ExtensionMethod)
	assert.Equal(t, "T:N.T", ext.ExtendedTypeID())
	assert.IsType(t, &doc.Field{}, members[4])
	assert.Empty(t, members[4].Elements())

	// only the seealso to a missing member is reported
	require.Len(t, res.Diagnostics, 1)
	diag := res.Diagnostics[0]
	assert.Equal(t, types.CodeUnresolvedCrossReference, diag.Code)
	assert.Equal(t, "M:N.Extensions.Shout(N.T)", diag.MemberID)
	assert.Equal(t, 32, diag.Line)
	assert.False(t, res.Diagnostics.HasErrors())

	groups := d.Namespaces()
	require.Len(t, groups, 1)
	assert.Equal(t, "N", groups[0].Name)
	assert.Len(t, groups[0].Members, 6)
}

func TestRead_Table(t *testing.T) {
	res, err := New(nil).Read([]byte(sampleXML))
	require.NoError(t, err)

	var list *doc.List
	doc.Inspect(res.Document, func(e doc.Element) bool {
		if l, ok := e.(*doc.List); ok {
			list = l
		}
		return true
	})
	require.NotNil(t, list)

	rows := list.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", doc.PlainText(rows[0].(*doc.ListHeader).Term()))
	assert.Equal(t, "A", doc.PlainText(rows[1].(*doc.Item).Term()))
	assert.Equal(t, "first", doc.PlainText(rows[1].(*doc.Item).Description()))
	assert.Equal(t, "B", doc.PlainText(rows[2].(*doc.Item).Term()))
	assert.Equal(t, "second", doc.PlainText(rows[2].(*doc.Item).Description()))
}

func TestRead_RoundTrip(t *testing.T) {
	input := sampleXML[:len(sampleXML)-len("    </members>\n</doc>\n")] +
		`        <member name="T:N.Broken"><summary>ok</summary><para>never closed</member>
    </members>
</doc>
`
	r := New(sampleIndex(), WithCacheSize(0))

	first, err := r.Read([]byte(input))
	require.NoError(t, err)
	require.NotEmpty(t, first.Diagnostics.ByCode(types.CodeMarkupError))

	out, err := doc.Marshal(first.Document)
	require.NoError(t, err)

	second, err := r.Read(out)
	require.NoError(t, err)

	assert.Equal(t, first.Document, second.Document)

	again, err := doc.Marshal(second.Document)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestRead_RoundTripPrefixedMarkup(t *testing.T) {
	input := `<doc><members><member name="T:N.A"><summary>a <x:b xmlns:x="u" xml:lang="en">t</x:b></summary></member></members></doc>`
	r := New(nil, WithCacheSize(0))

	first, err := r.Read([]byte(input))
	require.NoError(t, err)
	require.Empty(t, first.Diagnostics)

	out, err := doc.Marshal(first.Document)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<summary>a <x:b xmlns:x="u" xml:lang="en">t</x:b></summary>`)

	second, err := r.Read(out)
	require.NoError(t, err)
	assert.Equal(t, first.Document, second.Document)
}

func TestRead_UnsupportedPrefixSkipsOnlyThatMember(t *testing.T) {
	input := `<doc><members>
<member name="T:N.A"><summary>a</summary></member>
<member name="X:Foo"><summary>x</summary></member>
<member name="T:N.B"><summary>b</summary></member>
</members></doc>`

	res, err := New(nil).Read([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"T:N.A", "T:N.B"}, ids(res.Document.Members()))
	require.Len(t, res.Diagnostics, 1)

	diag := res.Diagnostics[0]
	assert.Equal(t, types.CodeUnsupportedPrefix, diag.Code)
	assert.ErrorIs(t, &diag, types.ErrUnsupportedPrefix)
	assert.Equal(t, "X:Foo", diag.MemberID)
	assert.Equal(t, 3, diag.Line)
	assert.True(t, res.Diagnostics.HasErrors())
}

func TestRead_MemberElementInsideBody(t *testing.T) {
	input := `<doc><members>
<member name="T:N.A"><summary>Use <member name="x">inner</member> here</summary></member>
<member name="T:N.B"><summary>b</summary></member>
</members></doc>`

	res, err := New(nil).Read([]byte(input))
	require.NoError(t, err)

	members := res.Document.Members()
	assert.Equal(t, []string{"T:N.A", "T:N.B"}, ids(members))
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, "Use inner here", doc.PlainText(doc.SummaryOf(members[0])))

	var inner *doc.Unknown
	doc.Inspect(members[0], func(e doc.Element) bool {
		if u, ok := e.(*doc.Unknown); ok {
			inner = u
		}
		return true
	})
	require.NotNil(t, inner)
	assert.Equal(t, "member", inner.Name())
}

func TestRead_MalformedIdentifier(t *testing.T) {
	input := `<doc><members>
<member name="M:N.T.Run(System.Int32"/>
<member><summary>no name</summary></member>
<member name="T:N.T"/>
</members></doc>`

	res, err := New(nil).Read([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"T:N.T"}, ids(res.Document.Members()))
	malformed := res.Diagnostics.ByCode(types.CodeMalformedIdentifier)
	require.Len(t, malformed, 2)
	assert.Equal(t, 2, malformed[0].Line)
	assert.Equal(t, 3, malformed[1].Line)
}

func TestRead_MarkupErrorIsolated(t *testing.T) {
	input := `<doc><members>
<member name="T:N.A">
  <summary>fine</summary>
  <remarks>
    <para>broken</remarks>
</member>
<member name="T:N.B"><summary>also fine</summary></member>
</members></doc>`

	res, err := New(nil).Read([]byte(input))
	require.NoError(t, err)

	members := res.Document.Members()
	require.Len(t, members, 2)

	a := members[0].Elements()
	require.Len(t, a, 2)
	assert.Equal(t, "fine", doc.PlainText(a[0]))
	raw, ok := a[1].(*doc.Unknown)
	require.True(t, ok)
	assert.Equal(t, "<remarks>\n    <para>broken</remarks>\n", raw.Raw())

	assert.Equal(t, "also fine", doc.PlainText(doc.SummaryOf(members[1])))

	require.Len(t, res.Diagnostics, 1)
	diag := res.Diagnostics[0]
	assert.Equal(t, types.CodeMarkupError, diag.Code)
	assert.Equal(t, types.SeverityError, diag.Severity)
	assert.Equal(t, "T:N.A", diag.MemberID)
	assert.Equal(t, 5, diag.Line)
}

func TestRead_MalformedDocument(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not xml", input: "hello"},
		{name: "unclosed root", input: "<doc><members></members>"},
		{name: "unclosed member", input: `<doc><members><member name="T:A"><summary>x</summary></members></doc>`},
		{name: "mismatched envelope", input: "<doc><members></doc></members>"},
		{name: "second root", input: "<doc/><doc/>"},
		{name: "member outside members", input: `<doc><member name="T:A"/><members/></doc>`},
		{name: "unterminated comment", input: "<doc><!-- <members/></doc>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(nil).Read([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, types.ErrMalformedDocument))

			var de *DocumentError
			assert.ErrorAs(t, err, &de)
		})
	}
}

func TestRead_AmbiguousOverloadStillEmitsMember(t *testing.T) {
	idx := metadata.NewMemoryIndex(
		&metadata.Descriptor{Path: "N.T.M", Kind: metadata.KindMethod, Parameters: []metadata.Parameter{{Type: "System.String"}}},
		&metadata.Descriptor{Path: "N.T.M", Kind: metadata.KindMethod, Parameters: []metadata.Parameter{{Type: "System.String"}}},
	)
	input := `<doc><members><member name="M:N.T.M(System.String)"><summary>text</summary></member></members></doc>`

	res, err := New(idx).Read([]byte(input))
	require.NoError(t, err)

	require.Equal(t, 1, res.Document.Len())
	m := res.Document.Members()[0]
	assert.Nil(t, m.Metadata())
	assert.Equal(t, "text", doc.PlainText(m))

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, types.CodeAmbiguousOverload, res.Diagnostics[0].Code)
}

func TestRead_Cache(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(nil, WithMetrics(metrics.New(reg)))

	first, err := r.Read([]byte(sampleXML))
	require.NoError(t, err)
	second, err := r.Read([]byte(sampleXML))
	require.NoError(t, err)
	assert.Same(t, first, second)

	uncached := New(nil, WithCacheSize(0))
	a, err := uncached.Read([]byte(sampleXML))
	require.NoError(t, err)
	b, err := uncached.Read([]byte(sampleXML))
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, a.Hash, b.Hash)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.xml")
	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(good, []byte(sampleXML), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("<doc>"), 0o600))

	r := New(nil)

	res, err := r.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Document.Len())

	_, err = r.ReadFile(bad)
	var de *DocumentError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, bad, de.Path)
	assert.Contains(t, err.Error(), bad)

	_, err = r.ReadFile(filepath.Join(dir, "missing.xml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadAll(t *testing.T) {
	inputs := []Input{
		{Name: "a", Data: []byte(`<doc><members><member name="T:A"/></members></doc>`)},
		{Name: "broken", Data: []byte(`<doc>`)},
		{Name: "b", Data: []byte(`<doc><members><member name="T:B"/><member name="T:C"/></members></doc>`)},
	}

	r := New(nil, WithWorkers(2))
	results, err := r.ReadAll(context.Background(), inputs)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMalformedDocument)
	assert.Contains(t, err.Error(), "broken")

	require.Len(t, results, 3)
	assert.Equal(t, []string{"T:A"}, ids(results[0].Document.Members()))
	assert.Nil(t, results[1])
	assert.Equal(t, []string{"T:B", "T:C"}, ids(results[2].Document.Members()))
}

func TestReadAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(nil).ReadAll(ctx, []Input{{Name: "a", Data: []byte(sampleXML)}})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Nil(t, results[0])
}
