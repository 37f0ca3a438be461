package doc

// Visitor has one method per concrete element variant. Each method returns
// the visitor to continue with, usually its receiver.
type Visitor interface {
	VisitDocument(*Document) Visitor
	VisitNamespace(*Namespace) Visitor
	VisitTypeDeclaration(*TypeDeclaration) Visitor
	VisitClass(*Class) Visitor
	VisitStruct(*Struct) Visitor
	VisitInterface(*Interface) Visitor
	VisitEnum(*Enum) Visitor
	VisitNestedType(*NestedType) Visitor
	VisitMethod(*Method) Visitor
	VisitExtensionMethod(*ExtensionMethod) Visitor
	VisitProperty(*Property) Visitor
	VisitField(*Field) Visitor
	VisitEvent(*Event) Visitor
	VisitText(*Text) Visitor
	VisitSummary(*Summary) Visitor
	VisitRemarks(*Remarks) Visitor
	VisitExample(*Example) Visitor
	VisitPara(*Para) Visitor
	VisitCode(*Code) Visitor
	VisitC(*C) Visitor
	VisitList(*List) Visitor
	VisitListHeader(*ListHeader) Visitor
	VisitItem(*Item) Visitor
	VisitTerm(*Term) Visitor
	VisitDescription(*Description) Visitor
	VisitParam(*Param) Visitor
	VisitTypeParam(*TypeParam) Visitor
	VisitParamRef(*ParamRef) Visitor
	VisitTypeParamRef(*TypeParamRef) Visitor
	VisitReturns(*Returns) Visitor
	VisitValue(*Value) Visitor
	VisitException(*Exception) Visitor
	VisitSee(*See) Visitor
	VisitSeeAlso(*SeeAlso) Visitor
	VisitUnknown(*Unknown) Visitor
}

// BaseVisitor recurses into every child in source order. Embed it and set
// Self to the embedding visitor so overridden methods are dispatched to:
//
//	type counter struct {
//	    doc.BaseVisitor
//	    paras int
//	}
//
//	c := &counter{}
//	c.Self = c
//	d.Accept(c)
//
// An override cuts traversal of a subtree by returning without calling
// VisitChildren.
type BaseVisitor struct {
	Self Visitor
}

func (b *BaseVisitor) self() Visitor {
	if b.Self != nil {
		return b.Self
	}
	return b
}

// VisitChildren dispatches every child of e to the visitor in order. A
// handler returning nil leaves the current visitor in place.
func (b *BaseVisitor) VisitChildren(e Element) Visitor {
	v := b.self()
	for _, c := range e.children() {
		if next := c.Accept(v); next != nil {
			v = next
		}
	}
	return v
}

func (b *BaseVisitor) VisitDocument(n *Document) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitNamespace(n *Namespace) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitTypeDeclaration(n *TypeDeclaration) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitClass(n *Class) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitStruct(n *Struct) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitInterface(n *Interface) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitEnum(n *Enum) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitNestedType(n *NestedType) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitMethod(n *Method) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitExtensionMethod(n *ExtensionMethod) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitProperty(n *Property) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitField(n *Field) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitEvent(n *Event) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitText(n *Text) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitSummary(n *Summary) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitRemarks(n *Remarks) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitExample(n *Example) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitPara(n *Para) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitCode(n *Code) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitC(n *C) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitList(n *List) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitListHeader(n *ListHeader) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitItem(n *Item) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitTerm(n *Term) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitDescription(n *Description) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitParam(n *Param) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitTypeParam(n *TypeParam) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitParamRef(n *ParamRef) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitTypeParamRef(n *TypeParamRef) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitReturns(n *Returns) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitValue(n *Value) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitException(n *Exception) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitSee(n *See) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitSeeAlso(n *SeeAlso) Visitor { return b.VisitChildren(n) }
func (b *BaseVisitor) VisitUnknown(n *Unknown) Visitor { return b.VisitChildren(n) }
