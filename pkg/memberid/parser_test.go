package memberid

import (
	"errors"
	"testing"

	"github.com/devlooped/nudoq/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MethodWithParameters(t *testing.T) {
	ref, err := Parse("M:N.T.Method(System.String,System.Int32)")
	require.NoError(t, err)

	assert.Equal(t, PrefixMethod, ref.Prefix)
	assert.Equal(t, "Method", ref.Name())
	assert.True(t, ref.HasParams)
	require.Len(t, ref.Params, 2)
	assert.Equal(t, "System.String", ref.Params[0].String())
	assert.Equal(t, "System.Int32", ref.Params[1].String())
	assert.True(t, ref.Params[0].Equal(Named("System.String")))
	assert.True(t, ref.Params[1].Equal(Named("System.Int32")))
}

func TestParse_Prefixes(t *testing.T) {
	tests := []struct {
		id     string
		prefix Prefix
		path   string
	}{
		{"N:System.Collections", PrefixNamespace, "System.Collections"},
		{"T:N.T", PrefixType, "N.T"},
		{"M:N.T.Run", PrefixMethod, "N.T.Run"},
		{"P:N.T.Name", PrefixProperty, "N.T.Name"},
		{"F:N.T.count", PrefixField, "N.T.count"},
		{"E:N.T.Changed", PrefixEvent, "N.T.Changed"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			ref, err := Parse(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, ref.Prefix)
			assert.Equal(t, tt.path, ref.Path())
			assert.False(t, ref.HasParams)
			assert.Equal(t, tt.id, ref.String())
		})
	}
}

func TestParse_GenericArity(t *testing.T) {
	ref, err := Parse("T:N.Outer`1.Inner`2")
	require.NoError(t, err)

	require.Len(t, ref.Segments, 3)
	assert.Equal(t, Segment{Name: "Outer", Arity: 1}, ref.Segments[1])
	assert.Equal(t, Segment{Name: "Inner", Arity: 2}, ref.Segments[2])
	assert.Equal(t, "N.Outer`1.Inner", ref.Path())
	assert.Equal(t, 2, ref.Arity())

	path, arity, ok := ref.Parent()
	require.True(t, ok)
	assert.Equal(t, "N.Outer", path)
	assert.Equal(t, 1, arity)
	assert.Equal(t, "T:N.Outer`1", ref.ParentTypeID())
}

func TestParse_GenericMethodPlaceholders(t *testing.T) {
	ref, err := Parse("M:N.T`1.Convert``1(`0,``0[],System.Collections.Generic.List{``0}@)")
	require.NoError(t, err)

	last := ref.Segments[len(ref.Segments)-1]
	assert.Equal(t, "Convert", last.Name)
	assert.Equal(t, 1, last.Arity)
	assert.True(t, last.MethodArity)

	require.Len(t, ref.Params, 3)
	assert.True(t, ref.Params[0].Equal(GenericParam(0, false)))

	assert.True(t, ref.Params[1].IsGenericParam)
	assert.True(t, ref.Params[1].MethodParam)
	assert.Equal(t, []Suffix{{Rank: 1}}, ref.Params[1].Suffixes)

	list := ref.Params[2]
	assert.True(t, list.ByRef)
	require.Len(t, list.Segments, 4)
	require.Len(t, list.Segments[3].Args, 1)
	assert.True(t, list.Segments[3].Args[0].Equal(GenericParam(0, true)))
	assert.Equal(t, "T:System.Collections.Generic.List`1", list.TypeID())

	assert.Equal(t, "M:N.T`1.Convert``1(`0,``0[],System.Collections.Generic.List{``0}@)", ref.String())
}

func TestParse_ArraysAndPointers(t *testing.T) {
	ref, err := Parse("M:N.T.Fill(System.Int32[0:,0:],System.Byte*,System.String[][])")
	require.NoError(t, err)

	require.Len(t, ref.Params, 3)
	assert.Equal(t, []Suffix{{Rank: 2}}, ref.Params[0].Suffixes)
	assert.True(t, ref.Params[1].Suffixes[0].IsPointer())
	assert.Equal(t, []Suffix{{Rank: 1}, {Rank: 1}}, ref.Params[2].Suffixes)
	assert.Equal(t, "M:N.T.Fill(System.Int32[0:,0:],System.Byte*,System.String[][])", ref.String())
}

func TestParse_ReservedSegments(t *testing.T) {
	ctor, err := Parse("M:N.T.#ctor(System.Int32)")
	require.NoError(t, err)
	assert.True(t, ctor.IsConstructor())
	assert.False(t, ctor.IsOperator())

	cctor, err := Parse("M:N.T.#cctor")
	require.NoError(t, err)
	assert.True(t, cctor.IsConstructor())

	op, err := Parse("M:N.T.op_Implicit(N.T)~System.String")
	require.NoError(t, err)
	assert.True(t, op.IsOperator())
	require.NotNil(t, op.Return)
	assert.Equal(t, "System.String", op.Return.String())
	assert.Equal(t, "M:N.T.op_Implicit(N.T)~System.String", op.String())
}

func TestParse_ExplicitInterfaceImplementation(t *testing.T) {
	id := "M:N.C.System#Collections#Generic#IEnumerable{System#Int32}#GetEnumerator"
	ref, err := Parse(id)
	require.NoError(t, err)

	assert.Equal(t, "System#Collections#Generic#IEnumerable{System#Int32}#GetEnumerator", ref.Name())
	assert.Equal(t, id, ref.String())
}

func TestParse_EmptyParameterList(t *testing.T) {
	ref, err := Parse("M:N.T.Run()")
	require.NoError(t, err)
	assert.True(t, ref.HasParams)
	assert.Empty(t, ref.Params)
}

func TestParse_Indexer(t *testing.T) {
	ref, err := Parse("P:N.T.Item(System.Int32)")
	require.NoError(t, err)
	assert.Equal(t, PrefixProperty, ref.Prefix)
	require.Len(t, ref.Params, 1)
}

func TestParse_Namespace(t *testing.T) {
	assert.Equal(t, "System.Collections", MustParse("N:System.Collections").Namespace())
	assert.Equal(t, "N", MustParse("T:N.T").Namespace())
	assert.Equal(t, "N", MustParse("M:N.T.Run").Namespace())
	assert.Equal(t, "", MustParse("T:Global").Namespace())
}

func TestParse_UnsupportedPrefix(t *testing.T) {
	_, err := Parse("X:Foo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnsupportedPrefix))

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "X", syntaxErr.Fragment)
	assert.Equal(t, 0, syntaxErr.Offset)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		offset int
	}{
		{"empty", "", 0},
		{"no prefix", "Foo.Bar", 0},
		{"long prefix", "TT:Foo", 0},
		{"empty path", "T:", 2},
		{"empty segment", "T:A..B", 4},
		{"trailing dot", "T:A.", 4},
		{"unclosed parameters", "M:A.B(System.Int32", 18},
		{"stray close paren", "M:A.B)", 5},
		{"params on type", "T:A(B)", 3},
		{"missing arity digits", "T:A`", 4},
		{"unclosed generic args", "M:A.B(List{System.Int32)", 23},
		{"empty generic args", "M:A.B(List{})", 12},
		{"garbage after params", "M:A.B(C)D", 8},
		{"bad array bounds", "M:A.B(C[x])", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.id)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrMalformedIdentifier))

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.offset, syntaxErr.Offset)
			assert.Equal(t, tt.id[tt.offset:], syntaxErr.Fragment)
		})
	}
}

func TestParseType(t *testing.T) {
	ref, err := ParseType("System.Collections.Generic.Dictionary{System.String,System.Int32[]}")
	require.NoError(t, err)
	require.Len(t, ref.Segments, 4)
	assert.Len(t, ref.Segments[3].Args, 2)
	assert.Equal(t, "T:System.Collections.Generic.Dictionary`2", ref.TypeID())

	_, err = ParseType("System.String)")
	assert.True(t, errors.Is(err, types.ErrMalformedIdentifier))
}

func TestTypeRef_Substitute(t *testing.T) {
	ref, err := ParseType("System.Collections.Generic.IEnumerable{T}")
	require.NoError(t, err)

	sub := ref.Substitute(func(name string) (TypeRef, bool) {
		if name == "T" {
			return GenericParam(0, true), true
		}
		return TypeRef{}, false
	})
	assert.Equal(t, "System.Collections.Generic.IEnumerable{``0}", sub.String())
	assert.Equal(t, "System.Collections.Generic.IEnumerable{T}", ref.String())

	arr, err := ParseType("T[]@")
	require.NoError(t, err)
	sub = arr.Substitute(func(string) (TypeRef, bool) { return GenericParam(1, false), true })
	assert.Equal(t, "`1[]@", sub.String())
}
