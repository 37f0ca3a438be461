package doc

import (
	"fmt"
	"math/bits"
	"strings"
)

// Kind is a bitset of capability flags. A valid Kind always carries the
// category flags implied by its specific flags.
type Kind uint64

// Categories
const (
	KindDocument Kind = 1 << iota
	KindMember
	KindType
	KindMethod
	KindContent
	KindUnknown

	// Symbol specifics
	KindNamespace
	KindClass
	KindStruct
	KindInterface
	KindEnum
	KindNestedType
	KindExtensionMethod
	KindProperty
	KindField
	KindEvent

	// Content specifics
	KindText
	KindSummary
	KindRemarks
	KindExample
	KindPara
	KindCode
	KindC
	KindList
	KindListHeader
	KindItem
	KindTerm
	KindDescription
	KindParam
	KindTypeParam
	KindParamRef
	KindTypeParamRef
	KindReturns
	KindValue
	KindException
	KindSee
	KindSeeAlso

	kindEnd
)

var kindNames = [...]string{
	"Document", "Member", "Type", "Method", "Content", "Unknown",
	"Namespace", "Class", "Struct", "Interface", "Enum", "NestedType", "ExtensionMethod",
	"Property", "Field", "Event",
	"Text", "Summary", "Remarks", "Example", "Para", "Code", "C", "List", "ListHeader",
	"Item", "Term", "Description", "Param", "TypeParam", "ParamRef", "TypeParamRef",
	"Returns", "Value", "Exception", "See", "SeeAlso",
}

// implied maps a flag to the flags it requires
var implied = map[Kind]Kind{
	KindType:            KindMember,
	KindMethod:          KindMember,
	KindNamespace:       KindMember,
	KindProperty:        KindMember,
	KindField:           KindMember,
	KindEvent:           KindMember,
	KindClass:           KindType | KindMember,
	KindStruct:          KindType | KindMember,
	KindInterface:       KindType | KindMember,
	KindEnum:            KindType | KindMember,
	KindNestedType:      KindType | KindMember,
	KindExtensionMethod: KindMethod | KindMember,
}

func init() {
	for k := KindText; k < kindEnd; k <<= 1 {
		implied[k] = KindContent
	}
}

// Has reports whether every flag in f is set
func (k Kind) Has(f Kind) bool {
	return f != 0 && k&f == f
}

// Valid reports whether k is non-empty and closed under implication
func (k Kind) Valid() bool {
	if k == 0 || k >= kindEnd {
		return false
	}
	for f := Kind(1); f < kindEnd; f <<= 1 {
		if k&f != 0 && k&implied[f] != implied[f] {
			return false
		}
	}
	return true
}

func (k Kind) String() string {
	if k == 0 {
		return "None"
	}
	var names []string
	for rest := uint64(k); rest != 0; rest &= rest - 1 {
		i := bits.TrailingZeros64(rest)
		if i < len(kindNames) {
			names = append(names, kindNames[i])
		} else {
			names = append(names, fmt.Sprintf("Kind(1<<%d)", i))
		}
	}
	return strings.Join(names, "|")
}

func mustKind(k Kind) Kind {
	if !k.Valid() {
		panic(fmt.Sprintf("doc: invalid kind %s", k))
	}
	return k
}
