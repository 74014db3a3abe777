package solidity

import (
	"strings"

	"github.com/dhamidi/sol/solidity/parser"
)

// Struct is a struct declaration. Properties are kept in declaration order;
// duplicate names are allowed and lookups return the first match.
type Struct struct {
	code
	properties []*StructVariable
}

// newStruct builds a struct from its raw declaration. Body entries that are
// not member declarations are ignored. A nil contract means the struct is
// declared at file level.
func newStruct(node *parser.Node, document *Document, contract *Contract) *Struct {
	s := &Struct{}
	s.init(node, []parser.NodeKind{parser.KindStruct}, document, contract)
	for _, entry := range node.Children {
		if entry.Kind != parser.KindStructMember {
			continue
		}
		s.properties = append(s.properties, newStructVariable(entry, document, contract, s))
	}
	return s
}

func (s *Struct) Kind() string { return "Struct" }

func (s *Struct) Properties() []*StructVariable { return s.properties }

// Property returns the first property called name.
func (s *Struct) Property(name string) (*StructVariable, bool) {
	for _, p := range s.properties {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

func (s *Struct) Symbol() Symbol {
	return Symbol{
		Name:           s.DisplayName(),
		Detail:         s.SimpleInfo(),
		Kind:           SymbolKindStruct,
		Range:          s.Range(),
		SelectionRange: s.selectionRange(),
		Children:       symbolsOf(s.properties),
	}
}

// SimpleInfo renders "Struct Name { a: T, b: U }".
func (s *Struct) SimpleInfo() string {
	props := make([]string, 0, len(s.properties))
	for _, p := range s.properties {
		props = append(props, p.SimpleInfo())
	}
	return "Struct " + s.DisplayName() + " { " + strings.Join(props, ", ") + " }"
}

func (s *Struct) InnerMembers() []Code {
	return codes(s.properties)
}

// VariableSelected returns the first property whose range contains offset.
func (s *Struct) VariableSelected(offset int) (*StructVariable, bool) {
	return firstSelected(offset, s.properties)
}

// SelectedProperty is the property lookup used by reference searches. It
// shares VariableSelected's first-match rule.
func (s *Struct) SelectedProperty(offset int) (*StructVariable, bool) {
	return s.VariableSelected(offset)
}

func (s *Struct) SelectedItem(offset int) (Code, bool) {
	if !s.IsSelected(offset) {
		return nil, false
	}
	if v, ok := s.VariableSelected(offset); ok {
		return v, true
	}
	return s, true
}

// SelectedTypeReference delegates to the selected property. Selecting the
// struct outside every property yields SelectedNoReference.
func (s *Struct) SelectedTypeReference(offset int) TypeReference {
	if !s.IsSelected(offset) {
		return notSelected()
	}
	if v, ok := s.VariableSelected(offset); ok {
		return v.SelectedTypeReference(offset)
	}
	return selectedNoReference()
}

func (s *Struct) ReferencesToSelected(offset int, documents []*Document) []Location {
	if !s.IsSelected(offset) {
		return nil
	}
	if p, ok := s.SelectedProperty(offset); ok {
		return p.ReferencesToThis(documents)
	}
	return s.ReferencesToThis(documents)
}

func (s *Struct) ReferencesToThis(documents []*Document) []Location {
	return referencesTo(s, documents)
}

func (s *Struct) CompletionItem() *CompletionItem {
	return s.completion.get(func() *CompletionItem {
		return &CompletionItem{
			Label:         s.DisplayName(),
			Kind:          CompletionKindStruct,
			Detail:        s.SimpleInfo(),
			InsertText:    s.name,
			Documentation: s.Info(),
		}
	})
}

func (s *Struct) InnerCompletionItems() []*CompletionItem {
	return completionItemsOf(s.properties)
}

func (s *Struct) Info() string {
	return infoHeader(s.Kind(), s.DisplayName(), s.contractNameOrGlobal()) + s.comment()
}
