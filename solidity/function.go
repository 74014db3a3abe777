package solidity

import (
	"strings"

	"github.com/dhamidi/sol/solidity/parser"
)

// Function covers every callable declaration: functions, constructors,
// modifiers and the fallback and receive handlers.
type Function struct {
	code
	params      []*Parameter
	returns     []*Parameter
	modifiers   []*Identifier
	locals      []*LocalVariable
	identifiers []*Identifier
}

func newFunction(node *parser.Node, document *Document, contract *Contract) *Function {
	f := &Function{}
	f.init(node, []parser.NodeKind{parser.KindFunction}, document, contract)
	if f.name == "" && node.FunctionKind != parser.FunctionKindFunction {
		f.name = string(node.FunctionKind)
	}
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindParameter:
			f.params = append(f.params, newParameter(child, document, contract, f, false))
		case parser.KindReturnParameters:
			for _, ret := range child.ChildrenOfKind(parser.KindParameter) {
				f.returns = append(f.returns, newParameter(ret, document, contract, f, true))
			}
		case parser.KindModifierInvocation:
			f.modifiers = append(f.modifiers, newIdentifier(child, document, contract, f))
		case parser.KindBody:
			f.addBody(child)
		}
	}
	return f
}

func (f *Function) addBody(body *parser.Node) {
	for _, entry := range body.Children {
		switch entry.Kind {
		case parser.KindVariableDeclaration:
			f.locals = append(f.locals, newLocalVariable(entry, f.document, f.contract, f))
		case parser.KindIdentifier, parser.KindMemberAccess, parser.KindIndexAccess:
			if id := newChain(entry, f.document, f.contract, f); id != nil {
				f.identifiers = append(f.identifiers, id)
			}
		}
	}
}

func (f *Function) Kind() string {
	switch f.node.FunctionKind {
	case parser.FunctionKindConstructor:
		return "Constructor"
	case parser.FunctionKindModifier:
		return "Modifier"
	case parser.FunctionKindFallback:
		return "Fallback"
	case parser.FunctionKindReceive:
		return "Receive"
	}
	return "Function"
}

func (f *Function) FunctionKind() parser.FunctionKind { return f.node.FunctionKind }

func (f *Function) Parameters() []*Parameter         { return f.params }
func (f *Function) ReturnParameters() []*Parameter   { return f.returns }
func (f *Function) Modifiers() []*Identifier         { return f.modifiers }
func (f *Function) LocalVariables() []*LocalVariable { return f.locals }
func (f *Function) Identifiers() []*Identifier       { return f.identifiers }

// findLocal returns the first parameter, return parameter or local variable
// called name.
func (f *Function) findLocal(name string) Code {
	for _, p := range f.params {
		if p.name == name {
			return p
		}
	}
	for _, p := range f.returns {
		if p.name == name {
			return p
		}
	}
	for _, v := range f.locals {
		if v.name == name {
			return v
		}
	}
	return nil
}

// parts lists every child in the order selection queries try them.
func (f *Function) parts() []Code {
	var result []Code
	result = append(result, codes(f.params)...)
	result = append(result, codes(f.returns)...)
	result = append(result, codes(f.modifiers)...)
	result = append(result, codes(f.locals)...)
	result = append(result, codes(f.identifiers)...)
	return result
}

func (f *Function) SelectedItem(offset int) (Code, bool) {
	if !f.IsSelected(offset) {
		return nil, false
	}
	if item, ok := selectFirst(offset, f.parts()); ok {
		return item, true
	}
	return f, true
}

func (f *Function) SelectedTypeReference(offset int) TypeReference {
	if !f.IsSelected(offset) {
		return notSelected()
	}
	if ref, ok := typeReferenceFirst(offset, f.parts()); ok {
		return ref
	}
	return selectedNoReference()
}

func (f *Function) ReferencesToSelected(offset int, documents []*Document) []Location {
	if !f.IsSelected(offset) {
		return nil
	}
	if locations, ok := referencesToSelectedFirst(offset, documents, f.parts()); ok {
		return locations
	}
	return f.ReferencesToThis(documents)
}

func (f *Function) ReferencesToThis(documents []*Document) []Location {
	return referencesTo(f, documents)
}

func (f *Function) symbolKind() SymbolKind {
	switch f.node.FunctionKind {
	case parser.FunctionKindConstructor:
		return SymbolKindConstructor
	case parser.FunctionKindModifier:
		return SymbolKindModifier
	}
	if f.contract != nil {
		return SymbolKindMethod
	}
	return SymbolKindFunction
}

func (f *Function) Symbol() Symbol {
	return Symbol{
		Name:           f.DisplayName(),
		Detail:         f.SimpleInfo(),
		Kind:           f.symbolKind(),
		Range:          f.Range(),
		SelectionRange: f.selectionRange(),
	}
}

func (f *Function) CompletionItem() *CompletionItem {
	return f.completion.get(func() *CompletionItem {
		kind := CompletionKindFunction
		switch f.symbolKind() {
		case SymbolKindConstructor:
			kind = CompletionKindConstructor
		case SymbolKindModifier:
			kind = CompletionKindModifier
		case SymbolKindMethod:
			kind = CompletionKindMethod
		}
		return &CompletionItem{
			Label:         f.DisplayName(),
			Kind:          kind,
			Detail:        f.SimpleInfo(),
			InsertText:    snippetCall(f.name, f.params),
			Documentation: f.Info(),
		}
	})
}

func (f *Function) InnerMembers() []Code {
	var result []Code
	result = append(result, codes(f.params)...)
	result = append(result, codes(f.returns)...)
	result = append(result, codes(f.locals)...)
	return result
}

func (f *Function) InnerCompletionItems() []*CompletionItem {
	return completionItemsOf(f.InnerMembers())
}

// SimpleInfo renders the function header, e.g.
// "function transfer(address to, uint256 amount) external returns (bool)".
func (f *Function) SimpleInfo() string {
	var b strings.Builder
	b.WriteString(string(f.node.FunctionKind))
	if f.node.FunctionKind == parser.FunctionKindFunction || f.node.FunctionKind == parser.FunctionKindModifier {
		b.WriteString(" " + f.DisplayName())
	}
	b.WriteString("(" + joinParameters(f.params) + ")")
	for _, word := range []string{f.node.Visibility, f.node.Mutability} {
		if word != "" {
			b.WriteString(" " + word)
		}
	}
	if len(f.returns) > 0 {
		b.WriteString(" returns (" + joinParameters(f.returns) + ")")
	}
	return b.String()
}

func (f *Function) Info() string {
	return infoHeader(f.Kind(), f.DisplayName(), f.contractNameOrGlobal()) +
		"\t" + f.SimpleInfo() + "\n" +
		f.comment()
}
