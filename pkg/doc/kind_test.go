package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Valid(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want bool
	}{
		{name: "empty", kind: 0, want: false},
		{name: "document", kind: KindDocument, want: true},
		{name: "unknown markup", kind: KindUnknown, want: true},
		{name: "class", kind: KindMember | KindType | KindClass, want: true},
		{name: "class without type", kind: KindMember | KindClass, want: false},
		{name: "extension method", kind: KindMember | KindMethod | KindExtensionMethod, want: true},
		{name: "extension without method", kind: KindMember | KindExtensionMethod, want: false},
		{name: "para", kind: KindContent | KindPara, want: true},
		{name: "para without content", kind: KindPara, want: false},
		{name: "out of range", kind: kindEnd, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Valid())
		})
	}
}

func TestKind_EveryContentFlagImpliesContent(t *testing.T) {
	for k := KindText; k < kindEnd; k <<= 1 {
		assert.False(t, k.Valid(), k.String())
		assert.True(t, (k | KindContent).Valid(), k.String())
	}
}

func TestKind_HasAndString(t *testing.T) {
	k := KindMember | KindType | KindNestedType | KindStruct

	assert.True(t, k.Has(KindType))
	assert.True(t, k.Has(KindNestedType|KindStruct))
	assert.False(t, k.Has(KindClass))
	assert.False(t, k.Has(0))
	assert.Equal(t, "Member|Type|Struct|NestedType", k.String())
	assert.Equal(t, "None", Kind(0).String())
}

func TestConstructors_PanicOnInvalidNestedFlavor(t *testing.T) {
	assert.Panics(t, func() {
		NewNestedType(MemberInfo{ID: "T:N.T.I"}, "T:N.T", KindMethod, nil)
	})
	assert.NotPanics(t, func() {
		NewNestedType(MemberInfo{ID: "T:N.T.I"}, "T:N.T", 0, nil)
	})
}
