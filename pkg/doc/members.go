package doc

import "fmt"

// Namespace documents an N: id
type Namespace struct{ member }

// TypeDeclaration is a T: id that metadata could not classify
type TypeDeclaration struct{ member }

type Class struct{ member }
type Struct struct{ member }
type Interface struct{ member }
type Enum struct{ member }

// NestedType is a type declared inside another type. Its kind also carries
// the class/struct/interface/enum flag of the nested declaration.
type NestedType struct {
	member
	declaringTypeID string
}

// DeclaringTypeID is the id of the enclosing type, resolved through Document.Lookup
func (n *NestedType) DeclaringTypeID() string { return n.declaringTypeID }

// Method documents an M: id, including constructors and operators and any
// method metadata could not match uniquely.
type Method struct{ member }

// ExtensionMethod is a static method documented as a member of its receiver type
type ExtensionMethod struct {
	member
	extendedTypeID string
}

// ExtendedTypeID is the id of the receiver type, empty when the receiver is a
// generic parameter
func (m *ExtensionMethod) ExtendedTypeID() string { return m.extendedTypeID }

type Property struct{ member }
type Field struct{ member }
type Event struct{ member }

func NewNamespace(info MemberInfo, children []Element) *Namespace {
	return &Namespace{newMember(KindMember|KindNamespace, info, children)}
}

func NewTypeDeclaration(info MemberInfo, children []Element) *TypeDeclaration {
	return &TypeDeclaration{newMember(KindMember|KindType, info, children)}
}

func NewClass(info MemberInfo, children []Element) *Class {
	return &Class{newMember(KindMember|KindType|KindClass, info, children)}
}

func NewStruct(info MemberInfo, children []Element) *Struct {
	return &Struct{newMember(KindMember|KindType|KindStruct, info, children)}
}

func NewInterface(info MemberInfo, children []Element) *Interface {
	return &Interface{newMember(KindMember|KindType|KindInterface, info, children)}
}

func NewEnum(info MemberInfo, children []Element) *Enum {
	return &Enum{newMember(KindMember|KindType|KindEnum, info, children)}
}

// NewNestedType builds a nested type. flavor is one of KindClass, KindStruct,
// KindInterface, KindEnum, or zero when unknown.
func NewNestedType(info MemberInfo, declaringTypeID string, flavor Kind, children []Element) *NestedType {
	switch flavor {
	case 0, KindClass, KindStruct, KindInterface, KindEnum:
	default:
		panic(fmt.Sprintf("doc: invalid nested type flavor %s", flavor))
	}
	return &NestedType{
		member:          newMember(KindMember|KindType|KindNestedType|flavor, info, children),
		declaringTypeID: declaringTypeID,
	}
}

func NewMethod(info MemberInfo, children []Element) *Method {
	return &Method{newMember(KindMember|KindMethod, info, children)}
}

func NewExtensionMethod(info MemberInfo, extendedTypeID string, children []Element) *ExtensionMethod {
	return &ExtensionMethod{
		member:         newMember(KindMember|KindMethod|KindExtensionMethod, info, children),
		extendedTypeID: extendedTypeID,
	}
}

func NewProperty(info MemberInfo, children []Element) *Property {
	return &Property{newMember(KindMember|KindProperty, info, children)}
}

func NewField(info MemberInfo, children []Element) *Field {
	return &Field{newMember(KindMember|KindField, info, children)}
}

func NewEvent(info MemberInfo, children []Element) *Event {
	return &Event{newMember(KindMember|KindEvent, info, children)}
}

func (n *Namespace) Accept(v Visitor) Visitor       { return v.VisitNamespace(n) }
func (n *TypeDeclaration) Accept(v Visitor) Visitor { return v.VisitTypeDeclaration(n) }
func (n *Class) Accept(v Visitor) Visitor           { return v.VisitClass(n) }
func (n *Struct) Accept(v Visitor) Visitor          { return v.VisitStruct(n) }
func (n *Interface) Accept(v Visitor) Visitor       { return v.VisitInterface(n) }
func (n *Enum) Accept(v Visitor) Visitor            { return v.VisitEnum(n) }
func (n *NestedType) Accept(v Visitor) Visitor      { return v.VisitNestedType(n) }
func (n *Method) Accept(v Visitor) Visitor          { return v.VisitMethod(n) }
func (n *ExtensionMethod) Accept(v Visitor) Visitor { return v.VisitExtensionMethod(n) }
func (n *Property) Accept(v Visitor) Visitor        { return v.VisitProperty(n) }
func (n *Field) Accept(v Visitor) Visitor           { return v.VisitField(n) }
func (n *Event) Accept(v Visitor) Visitor           { return v.VisitEvent(n) }
