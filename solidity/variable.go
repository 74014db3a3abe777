package solidity

import (
	"strings"

	"github.com/dhamidi/sol/solidity/parser"
)

// Typed is implemented by every node that declares a value of some type:
// struct fields, state variables, parameters and local variables.
type Typed interface {
	Code
	Type() *DeclarationType
}

func declaredType(node *parser.Node, document *Document, contract *Contract) *DeclarationType {
	if typ := node.TypeChild(); typ != nil {
		return newDeclarationType(typ, document, contract)
	}
	return nil
}

// variableTypeReference resolves the declared type of v when the offset lies
// anywhere inside v. A selection on a nested mapping key or value resolves
// that type instead.
func variableTypeReference(v Typed, offset int) TypeReference {
	if !v.IsSelected(offset) {
		return notSelected()
	}
	t := v.Type()
	if t == nil {
		return selectedNoReference()
	}
	if ref := t.SelectedTypeReference(offset); ref.Found() {
		return ref
	}
	return resolvedTo(t.Resolve())
}

func variableReferencesToSelected(v Typed, offset int, documents []*Document) []Location {
	if !v.IsSelected(offset) {
		return nil
	}
	if t := v.Type(); t != nil && t.IsSelected(offset) {
		return t.ReferencesToSelected(offset, documents)
	}
	return v.ReferencesToThis(documents)
}

func variableSignature(t *DeclarationType, words ...string) string {
	parts := []string{}
	if t != nil {
		parts = append(parts, t.SimpleInfo())
	}
	for _, w := range words {
		if w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}

// StateVariable is a contract storage variable or a file-level constant.
type StateVariable struct {
	code
	typ *DeclarationType
}

func newStateVariable(node *parser.Node, document *Document, contract *Contract) *StateVariable {
	v := &StateVariable{}
	v.init(node, []parser.NodeKind{parser.KindStateVariable}, document, contract)
	v.typ = declaredType(node, document, contract)
	return v
}

func (v *StateVariable) Kind() string { return "State Variable" }

func (v *StateVariable) Type() *DeclarationType { return v.typ }
func (v *StateVariable) Visibility() string     { return v.node.Visibility }

func (v *StateVariable) IsConstant() bool {
	return v.node.Mutability == "constant" || v.node.Mutability == "immutable"
}

func (v *StateVariable) SelectedItem(offset int) (Code, bool) {
	if !v.IsSelected(offset) {
		return nil, false
	}
	return v, true
}

func (v *StateVariable) SelectedTypeReference(offset int) TypeReference {
	return variableTypeReference(v, offset)
}

func (v *StateVariable) ReferencesToSelected(offset int, documents []*Document) []Location {
	return variableReferencesToSelected(v, offset, documents)
}

func (v *StateVariable) ReferencesToThis(documents []*Document) []Location {
	return referencesTo(v, documents)
}

func (v *StateVariable) Symbol() Symbol {
	kind := SymbolKindVariable
	if v.IsConstant() {
		kind = SymbolKindConstant
	}
	return Symbol{
		Name:           v.DisplayName(),
		Detail:         v.SimpleInfo(),
		Kind:           kind,
		Range:          v.Range(),
		SelectionRange: v.selectionRange(),
	}
}

func (v *StateVariable) CompletionItem() *CompletionItem {
	return v.completion.get(func() *CompletionItem {
		kind := CompletionKindVariable
		if v.IsConstant() {
			kind = CompletionKindConstant
		}
		return &CompletionItem{
			Label:         v.DisplayName(),
			Kind:          kind,
			Detail:        v.SimpleInfo(),
			InsertText:    v.name,
			Documentation: v.Info(),
		}
	})
}

func (v *StateVariable) SimpleInfo() string {
	return variableSignature(v.typ, v.node.Visibility, v.node.Mutability, v.DisplayName())
}

func (v *StateVariable) Info() string {
	return infoHeader(v.Kind(), v.DisplayName(), v.contractNameOrGlobal()) +
		"\t" + v.SimpleInfo() + "\n" +
		v.comment()
}

// Parameter is a function, return or event parameter. Parameters may be
// unnamed.
type Parameter struct {
	code
	typ   *DeclarationType
	owner Code
	// returned marks entries of a returns (...) list.
	returned bool
}

func newParameter(node *parser.Node, document *Document, contract *Contract, owner Code, returned bool) *Parameter {
	p := &Parameter{owner: owner, returned: returned}
	p.init(node, []parser.NodeKind{parser.KindParameter, parser.KindEventParameter}, document, contract)
	p.typ = declaredType(node, document, contract)
	return p
}

func (p *Parameter) Kind() string {
	switch {
	case p.returned:
		return "Return Parameter"
	case p.node.Kind == parser.KindEventParameter:
		return "Event Parameter"
	}
	return "Parameter"
}

func (p *Parameter) Type() *DeclarationType { return p.typ }

// Owner is the function or event declaring the parameter.
func (p *Parameter) Owner() Code { return p.owner }

func (p *Parameter) SelectedItem(offset int) (Code, bool) {
	if !p.IsSelected(offset) {
		return nil, false
	}
	return p, true
}

func (p *Parameter) SelectedTypeReference(offset int) TypeReference {
	return variableTypeReference(p, offset)
}

func (p *Parameter) ReferencesToSelected(offset int, documents []*Document) []Location {
	return variableReferencesToSelected(p, offset, documents)
}

func (p *Parameter) ReferencesToThis(documents []*Document) []Location {
	return referencesTo(p, documents)
}

func (p *Parameter) CompletionItem() *CompletionItem {
	return p.completion.get(func() *CompletionItem {
		return &CompletionItem{
			Label:         p.DisplayName(),
			Kind:          CompletionKindVariable,
			Detail:        p.SimpleInfo(),
			InsertText:    p.name,
			Documentation: p.Info(),
		}
	})
}

// SimpleInfo renders the parameter as declared, e.g. "address indexed from".
func (p *Parameter) SimpleInfo() string {
	indexed := ""
	if p.node.Indexed {
		indexed = "indexed"
	}
	return variableSignature(p.typ, indexed, p.node.StorageLocation, p.name)
}

func (p *Parameter) Info() string {
	return infoHeader(p.Kind(), p.DisplayName(), p.owner.Kind()+": "+p.owner.DisplayName()) +
		"\t" + p.SimpleInfo() + "\n"
}

// LocalVariable is a variable declared inside a function body.
type LocalVariable struct {
	code
	typ      *DeclarationType
	function *Function
}

func newLocalVariable(node *parser.Node, document *Document, contract *Contract, function *Function) *LocalVariable {
	v := &LocalVariable{function: function}
	v.init(node, []parser.NodeKind{parser.KindVariableDeclaration}, document, contract)
	v.typ = declaredType(node, document, contract)
	return v
}

func (v *LocalVariable) Kind() string { return "Local Variable" }

func (v *LocalVariable) Type() *DeclarationType { return v.typ }
func (v *LocalVariable) Function() *Function    { return v.function }

func (v *LocalVariable) SelectedItem(offset int) (Code, bool) {
	if !v.IsSelected(offset) {
		return nil, false
	}
	return v, true
}

func (v *LocalVariable) SelectedTypeReference(offset int) TypeReference {
	return variableTypeReference(v, offset)
}

func (v *LocalVariable) ReferencesToSelected(offset int, documents []*Document) []Location {
	return variableReferencesToSelected(v, offset, documents)
}

func (v *LocalVariable) ReferencesToThis(documents []*Document) []Location {
	return referencesTo(v, documents)
}

func (v *LocalVariable) CompletionItem() *CompletionItem {
	return v.completion.get(func() *CompletionItem {
		return &CompletionItem{
			Label:         v.DisplayName(),
			Kind:          CompletionKindVariable,
			Detail:        v.SimpleInfo(),
			InsertText:    v.name,
			Documentation: v.Info(),
		}
	})
}

func (v *LocalVariable) SimpleInfo() string {
	return variableSignature(v.typ, v.node.StorageLocation, v.DisplayName())
}

func (v *LocalVariable) Info() string {
	return infoHeader(v.Kind(), v.DisplayName(), "Function: "+v.function.DisplayName()) +
		"\t" + v.SimpleInfo() + "\n"
}
