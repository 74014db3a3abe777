package solidity

import (
	"strings"

	"github.com/dhamidi/sol/solidity/parser"
)

var typeNodeKinds = []parser.NodeKind{
	parser.KindElementaryType,
	parser.KindUserDefinedType,
	parser.KindMapping,
	parser.KindArrayType,
}

// DeclarationType is a type mention: the type of a variable, a mapping's
// key or value, an array's element or a contract's base. User-defined
// mentions resolve to the struct, enum or contract they name.
type DeclarationType struct {
	code
	key   *DeclarationType
	value *DeclarationType
	// size is the text between an array type's brackets.
	size string
	// global types resolve from document scope only. Inheritance lists use
	// it so that a contract's base is not looked up among its own members.
	global bool
}

func newDeclarationType(node *parser.Node, document *Document, contract *Contract) *DeclarationType {
	t := &DeclarationType{}
	t.init(node, typeNodeKinds, document, contract)
	switch node.Kind {
	case parser.KindMapping:
		if len(node.Children) == 2 {
			t.key = newDeclarationType(node.Children[0], document, contract)
			t.value = newDeclarationType(node.Children[1], document, contract)
		}
	case parser.KindArrayType:
		t.size = node.Name
		if len(node.Children) == 1 {
			t.value = newDeclarationType(node.Children[0], document, contract)
		}
	case parser.KindUserDefinedType:
		document.addMention(t)
	}
	if t.IsMapping() || t.IsArray() {
		t.name = t.SimpleInfo()
	}
	return t
}

func (t *DeclarationType) Kind() string { return "Type" }

func (t *DeclarationType) IsMapping() bool { return t.node.Kind == parser.KindMapping }
func (t *DeclarationType) IsArray() bool   { return t.node.Kind == parser.KindArrayType }

func (t *DeclarationType) IsElementary() bool {
	return t.node.Kind == parser.KindElementaryType
}

// Key returns a mapping's key type.
func (t *DeclarationType) Key() *DeclarationType { return t.key }

// Value returns a mapping's value type or an array's element type.
func (t *DeclarationType) Value() *DeclarationType { return t.value }

// Resolve returns the declaration a user-defined type names. For mappings
// and arrays it resolves the value or element type. It returns nil for
// elementary types and unknown names.
func (t *DeclarationType) Resolve() Code {
	switch t.node.Kind {
	case parser.KindMapping, parser.KindArrayType:
		if t.value == nil {
			return nil
		}
		return t.value.Resolve()
	case parser.KindUserDefinedType:
		return t.resolvePath(strings.Split(t.name, "."))
	}
	return nil
}

func (t *DeclarationType) resolvePath(parts []string) Code {
	var current Code
	if t.contract != nil && !t.global {
		current = t.contract.FindMember(parts[0])
	}
	if !isTypeDeclaration(current) {
		current = t.document.FindGlobal(parts[0])
	}
	for _, part := range parts[1:] {
		contract, ok := current.(*Contract)
		if !ok {
			return nil
		}
		current = contract.FindMember(part)
	}
	if !isTypeDeclaration(current) {
		return nil
	}
	return current
}

func isTypeDeclaration(c Code) bool {
	switch c.(type) {
	case *Struct, *Enum, *Contract:
		return true
	}
	return false
}

func (t *DeclarationType) SelectedItem(offset int) (Code, bool) {
	if !t.IsSelected(offset) {
		return nil, false
	}
	for _, inner := range []*DeclarationType{t.key, t.value} {
		if inner == nil {
			continue
		}
		if item, ok := inner.SelectedItem(offset); ok {
			return item, true
		}
	}
	return t, true
}

func (t *DeclarationType) SelectedTypeReference(offset int) TypeReference {
	if !t.IsSelected(offset) {
		return notSelected()
	}
	for _, inner := range []*DeclarationType{t.key, t.value} {
		if inner == nil {
			continue
		}
		if ref := inner.SelectedTypeReference(offset); ref.Selected() {
			return ref
		}
	}
	return resolvedTo(t.Resolve())
}

func (t *DeclarationType) ReferencesToSelected(offset int, documents []*Document) []Location {
	item, ok := t.SelectedItem(offset)
	if !ok {
		return nil
	}
	return item.ReferencesToThis(documents)
}

// ReferencesToThis lists the references of the declaration this type
// resolves to; an unresolved type has none.
func (t *DeclarationType) ReferencesToThis(documents []*Document) []Location {
	target := t.Resolve()
	if target == nil {
		return nil
	}
	return target.ReferencesToThis(documents)
}

func (t *DeclarationType) CompletionItem() *CompletionItem {
	return t.completion.get(func() *CompletionItem {
		return &CompletionItem{
			Label:      t.SimpleInfo(),
			Kind:       CompletionKindText,
			InsertText: t.SimpleInfo(),
		}
	})
}

// SimpleInfo renders the type as written, e.g. mapping(address => uint256).
func (t *DeclarationType) SimpleInfo() string {
	switch t.node.Kind {
	case parser.KindMapping:
		if t.key == nil || t.value == nil {
			return "mapping"
		}
		return "mapping(" + t.key.SimpleInfo() + " => " + t.value.SimpleInfo() + ")"
	case parser.KindArrayType:
		if t.value == nil {
			return "[" + t.size + "]"
		}
		return t.value.SimpleInfo() + "[" + t.size + "]"
	}
	return t.DisplayName()
}

func (t *DeclarationType) Info() string {
	if target := t.Resolve(); target != nil {
		return target.Info()
	}
	return "### Type: " + t.SimpleInfo() + "\n"
}
