package solidity

import (
	"strings"

	"github.com/dhamidi/sol/solidity/parser"
)

type Enum struct {
	code
	values []*EnumValue
}

func newEnum(node *parser.Node, document *Document, contract *Contract) *Enum {
	e := &Enum{}
	e.init(node, []parser.NodeKind{parser.KindEnum}, document, contract)
	for _, child := range node.ChildrenOfKind(parser.KindEnumValue) {
		e.values = append(e.values, newEnumValue(child, document, contract, e))
	}
	return e
}

func (e *Enum) Kind() string { return "Enum" }

func (e *Enum) Values() []*EnumValue { return e.values }

// Value returns the first value called name.
func (e *Enum) Value(name string) (*EnumValue, bool) {
	for _, v := range e.values {
		if v.name == name {
			return v, true
		}
	}
	return nil, false
}

func (e *Enum) SelectedItem(offset int) (Code, bool) {
	if !e.IsSelected(offset) {
		return nil, false
	}
	if item, ok := selectFirst(offset, e.values); ok {
		return item, true
	}
	return e, true
}

func (e *Enum) SelectedTypeReference(offset int) TypeReference {
	if !e.IsSelected(offset) {
		return notSelected()
	}
	return selectedNoReference()
}

func (e *Enum) ReferencesToSelected(offset int, documents []*Document) []Location {
	if !e.IsSelected(offset) {
		return nil
	}
	if locations, ok := referencesToSelectedFirst(offset, documents, e.values); ok {
		return locations
	}
	return e.ReferencesToThis(documents)
}

func (e *Enum) ReferencesToThis(documents []*Document) []Location {
	return referencesTo(e, documents)
}

func (e *Enum) Symbol() Symbol {
	return Symbol{
		Name:           e.DisplayName(),
		Detail:         e.SimpleInfo(),
		Kind:           SymbolKindEnum,
		Range:          e.Range(),
		SelectionRange: e.selectionRange(),
		Children:       symbolsOf(e.values),
	}
}

func (e *Enum) CompletionItem() *CompletionItem {
	return e.completion.get(func() *CompletionItem {
		return &CompletionItem{
			Label:         e.DisplayName(),
			Kind:          CompletionKindEnum,
			Detail:        e.SimpleInfo(),
			InsertText:    e.name,
			Documentation: e.Info(),
		}
	})
}

func (e *Enum) InnerMembers() []Code { return codes(e.values) }

func (e *Enum) InnerCompletionItems() []*CompletionItem {
	return completionItemsOf(e.values)
}

// SimpleInfo renders "Enum Name { A, B }".
func (e *Enum) SimpleInfo() string {
	names := make([]string, 0, len(e.values))
	for _, v := range e.values {
		names = append(names, v.DisplayName())
	}
	return "Enum " + e.DisplayName() + " { " + strings.Join(names, ", ") + " }"
}

func (e *Enum) Info() string {
	return infoHeader(e.Kind(), e.DisplayName(), e.contractNameOrGlobal()) + e.comment()
}

type EnumValue struct {
	code
	enum *Enum
}

func newEnumValue(node *parser.Node, document *Document, contract *Contract, enum *Enum) *EnumValue {
	v := &EnumValue{enum: enum}
	v.init(node, []parser.NodeKind{parser.KindEnumValue}, document, contract)
	return v
}

func (v *EnumValue) Kind() string { return "Enum Value" }

func (v *EnumValue) Enum() *Enum { return v.enum }

func (v *EnumValue) SelectedItem(offset int) (Code, bool) {
	if !v.IsSelected(offset) {
		return nil, false
	}
	return v, true
}

func (v *EnumValue) SelectedTypeReference(offset int) TypeReference {
	if !v.IsSelected(offset) {
		return notSelected()
	}
	return selectedNoReference()
}

func (v *EnumValue) ReferencesToSelected(offset int, documents []*Document) []Location {
	if !v.IsSelected(offset) {
		return nil
	}
	return v.ReferencesToThis(documents)
}

func (v *EnumValue) ReferencesToThis(documents []*Document) []Location {
	return referencesTo(v, documents)
}

func (v *EnumValue) Symbol() Symbol {
	return Symbol{
		Name:           v.DisplayName(),
		Kind:           SymbolKindEnumMember,
		Range:          v.Range(),
		SelectionRange: v.selectionRange(),
	}
}

func (v *EnumValue) CompletionItem() *CompletionItem {
	return v.completion.get(func() *CompletionItem {
		return &CompletionItem{
			Label:         v.DisplayName(),
			Kind:          CompletionKindEnumMember,
			Detail:        v.SimpleInfo(),
			InsertText:    v.name,
			Documentation: v.Info(),
		}
	})
}

func (v *EnumValue) SimpleInfo() string {
	return v.enum.DisplayName() + "." + v.DisplayName()
}

func (v *EnumValue) Info() string {
	return infoHeader(v.Kind(), v.DisplayName(), "Enum: "+v.enum.DisplayName()) + v.comment()
}
