package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_Lookup(t *testing.T) {
	idx := NewMemoryIndex(
		&Descriptor{Path: "N.T", Kind: KindClass},
		&Descriptor{Path: "N.T", Arity: 1, Kind: KindInterface},
		&Descriptor{Path: "N.T.Run", Kind: KindMethod},
		&Descriptor{Path: "N.T.Run", Kind: KindMethod, Parameters: []Parameter{{Type: "System.Int32"}}},
	)

	assert.Equal(t, 4, idx.Len())

	got := idx.Lookup("N.T", 0)
	require.Len(t, got, 1)
	assert.Equal(t, KindClass, got[0].Kind)

	got = idx.Lookup("N.T", 1)
	require.Len(t, got, 1)
	assert.Equal(t, KindInterface, got[0].Kind)

	assert.Len(t, idx.Lookup("N.T.Run", 0), 2)
	assert.Nil(t, idx.Lookup("N.Missing", 0))
}

func TestMemoryIndex_LookupReturnsCopy(t *testing.T) {
	idx := NewMemoryIndex(&Descriptor{Path: "N.T", Kind: KindClass})

	got := idx.Lookup("N.T", 0)
	got[0] = nil

	again := idx.Lookup("N.T", 0)
	require.Len(t, again, 1)
	assert.NotNil(t, again[0])
}

func TestDescriptor_IsExtension(t *testing.T) {
	ext := &Descriptor{
		Kind:       KindMethod,
		Static:     true,
		Parameters: []Parameter{{Name: "s", Type: "N.T", Receiver: true}},
	}
	assert.True(t, ext.IsExtension())

	ext.Static = false
	assert.False(t, ext.IsExtension())

	assert.False(t, (&Descriptor{Kind: KindMethod, Static: true}).IsExtension())
}

func TestKind(t *testing.T) {
	assert.True(t, KindClass.IsType())
	assert.True(t, KindEnum.IsType())
	assert.False(t, KindMethod.IsType())
	assert.True(t, KindEvent.Valid())
	assert.False(t, Kind("delegate").Valid())
}

const sampleYAML = `
assembly: Sample
descriptors:
  - path: N.T
    kind: class
    type_parameters: [T]
  - path: N.Extensions.Shout
    kind: method
    static: true
    parameters:
      - name: value
        type: N.T
        receiver: true
`

func TestDecode_YAML(t *testing.T) {
	idx, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	got := idx.Lookup("N.Extensions.Shout", 0)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsExtension())
	assert.Equal(t, "value", got[0].Parameters[0].Name)

	types := idx.Lookup("N.T", 0)
	require.Len(t, types, 1)
	assert.Equal(t, []string{"T"}, types[0].TypeParameters)
}

func TestDecode_JSON(t *testing.T) {
	input := `{"descriptors":[{"path":"N.E","kind":"enum"}]}`

	idx, err := Decode(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)

	got := idx.Lookup("N.E", 0)
	require.Len(t, got, 1)
	assert.Equal(t, KindEnum, got[0].Kind)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing path", input: "descriptors:\n  - kind: class\n"},
		{name: "unknown kind", input: "descriptors:\n  - path: N.T\n    kind: delegate\n"},
		{name: "negative arity", input: "descriptors:\n  - path: N.T\n    kind: class\n    arity: -1\n"},
		{name: "parameter without type", input: "descriptors:\n  - path: N.T.M\n    kind: method\n    parameters:\n      - name: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), FormatYAML)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestDecode_UnknownFormat(t *testing.T) {
	_, err := Decode(strings.NewReader(""), Format("toml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "meta.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o600))

	idx, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	jsonPath := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"descriptors":[{"path":"N.S","kind":"struct"}]}`), 0o600))

	idx, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Len(t, idx.Lookup("N.S", 0), 1)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
