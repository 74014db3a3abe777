package solidity

import (
	"github.com/dhamidi/sol/solidity/parser"
)

// StructVariable is one declared struct property.
type StructVariable struct {
	code
	typ    *DeclarationType
	parent *Struct
}

func newStructVariable(node *parser.Node, document *Document, contract *Contract, parent *Struct) *StructVariable {
	v := &StructVariable{parent: parent}
	v.init(node, []parser.NodeKind{parser.KindStructMember}, document, contract)
	v.typ = declaredType(node, document, contract)
	return v
}

func (v *StructVariable) Kind() string { return "Struct Property" }

func (v *StructVariable) Type() *DeclarationType { return v.typ }

// Struct returns the struct declaring this property.
func (v *StructVariable) Struct() *Struct { return v.parent }

// IsCurrentElementSelected reports whether offset lies inside the property.
func (v *StructVariable) IsCurrentElementSelected(offset int) bool {
	return v.IsSelected(offset)
}

func (v *StructVariable) SelectedItem(offset int) (Code, bool) {
	if !v.IsSelected(offset) {
		return nil, false
	}
	return v, true
}

func (v *StructVariable) SelectedTypeReference(offset int) TypeReference {
	return variableTypeReference(v, offset)
}

func (v *StructVariable) ReferencesToSelected(offset int, documents []*Document) []Location {
	return variableReferencesToSelected(v, offset, documents)
}

// ReferencesToThis returns the property's own location followed by every
// member access resolving to it in documents.
func (v *StructVariable) ReferencesToThis(documents []*Document) []Location {
	return referencesTo(v, documents)
}

func (v *StructVariable) Symbol() Symbol {
	return Symbol{
		Name:           v.DisplayName(),
		Detail:         v.typeInfo(),
		Kind:           SymbolKindField,
		Range:          v.Range(),
		SelectionRange: v.selectionRange(),
	}
}

func (v *StructVariable) CompletionItem() *CompletionItem {
	return v.completion.get(func() *CompletionItem {
		return &CompletionItem{
			Label:         v.DisplayName(),
			Kind:          CompletionKindField,
			Detail:        v.typeInfo(),
			InsertText:    v.name,
			Documentation: v.Info(),
		}
	})
}

func (v *StructVariable) typeInfo() string {
	if v.typ == nil {
		return ""
	}
	return v.typ.SimpleInfo()
}

// SimpleInfo renders "name: type".
func (v *StructVariable) SimpleInfo() string {
	return v.DisplayName() + ": " + v.typeInfo()
}

func (v *StructVariable) Info() string {
	return "### " + v.Kind() + ": " + v.DisplayName() + "\n" +
		"#### Struct: " + v.parent.DisplayName() + "\n" +
		"#### " + v.contractNameOrGlobal() + "\n" +
		"\t" + variableSignature(v.typ, v.DisplayName()) + "\n" +
		v.comment()
}
