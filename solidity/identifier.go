package solidity

import (
	"github.com/dhamidi/sol/solidity/parser"
)

// Identifier is a name mentioned inside a function: a plain identifier, the
// member side of a member access or a modifier invocation. Identifiers are
// resolved on demand and never cache their target, so a document rebuilt
// from scratch sees fresh declarations.
type Identifier struct {
	code
	function *Function
	// receiver is the left side of a member access.
	receiver *Identifier
	// receiverIndexes counts index accesses applied to receiver, so that
	// "a[i].b" unwraps one level of a's mapping or array type.
	receiverIndexes int
	// detached marks a member access whose receiver is not a name, such as
	// the result of a call.
	detached bool
}

func newIdentifier(node *parser.Node, document *Document, contract *Contract, function *Function) *Identifier {
	id := &Identifier{function: function}
	id.init(node, []parser.NodeKind{parser.KindIdentifier, parser.KindMemberAccess, parser.KindModifierInvocation}, document, contract)
	document.addMention(id)
	return id
}

// newChain builds the identifiers of an access chain such as a.b[i].c and
// returns the outermost one. Every identifier in the chain is recorded as a
// mention.
func newChain(node *parser.Node, document *Document, contract *Contract, function *Function) *Identifier {
	for node.Kind == parser.KindIndexAccess {
		if len(node.Children) == 0 {
			return nil
		}
		node = node.Children[0]
	}
	switch node.Kind {
	case parser.KindIdentifier:
		return newIdentifier(node, document, contract, function)
	case parser.KindMemberAccess:
		var receiver *Identifier
		indexes := 0
		if len(node.Children) > 0 {
			inner := node.Children[0]
			for inner.Kind == parser.KindIndexAccess && len(inner.Children) > 0 {
				indexes++
				inner = inner.Children[0]
			}
			receiver = newChain(inner, document, contract, function)
		}
		id := newIdentifier(node, document, contract, function)
		id.receiver = receiver
		id.receiverIndexes = indexes
		id.detached = receiver == nil
		return id
	}
	return nil
}

func (id *Identifier) Kind() string {
	switch {
	case id.node.Kind == parser.KindModifierInvocation:
		return "Modifier Invocation"
	case id.node.Kind == parser.KindMemberAccess:
		return "Member Access"
	}
	return "Identifier"
}

// Receiver returns the left side of a member access, if any.
func (id *Identifier) Receiver() *Identifier { return id.receiver }

// Function returns the function the identifier is mentioned in.
func (id *Identifier) Function() *Function { return id.function }

// Resolve returns the declaration the identifier names, or nil.
func (id *Identifier) Resolve() Code {
	if id.detached {
		return nil
	}
	if id.receiver != nil {
		scope := memberScope(id.receiver.Resolve(), id.receiverIndexes)
		return findInScope(scope, id.name)
	}
	return id.resolveName()
}

func (id *Identifier) resolveName() Code {
	switch id.name {
	case "this", "super":
		if id.contract != nil {
			return id.contract
		}
		return nil
	}
	if id.function != nil {
		if local := id.function.findLocal(id.name); local != nil {
			return local
		}
	}
	if id.contract != nil {
		if member := id.contract.FindMember(id.name); member != nil {
			return member
		}
	}
	return id.document.FindGlobal(id.name)
}

// memberScope returns the struct, enum or contract whose members are
// reachable with "." from target. Typed targets contribute their declared
// type after unwrapping indexes mapping or array levels.
func memberScope(target Code, indexes int) Code {
	switch t := target.(type) {
	case nil:
		return nil
	case *Struct, *Enum, *Contract:
		if indexes > 0 {
			return nil
		}
		return t
	case Typed:
		typ := t.Type()
		for i := 0; i < indexes && typ != nil; i++ {
			if !typ.IsMapping() && !typ.IsArray() {
				return nil
			}
			typ = typ.Value()
		}
		if typ == nil || typ.IsMapping() || typ.IsArray() {
			return nil
		}
		return typ.Resolve()
	}
	return nil
}

// findInScope looks up a member of a scope returned by memberScope.
func findInScope(scope Code, name string) Code {
	switch s := scope.(type) {
	case *Struct:
		if p, ok := s.Property(name); ok {
			return p
		}
	case *Enum:
		if v, ok := s.Value(name); ok {
			return v
		}
	case *Contract:
		return s.FindMember(name)
	}
	return nil
}

// scopeCompletionItems lists the completions offered after "scope.".
func scopeCompletionItems(scope Code) []*CompletionItem {
	switch s := scope.(type) {
	case *Struct:
		return s.InnerCompletionItems()
	case *Enum:
		return s.InnerCompletionItems()
	case *Contract:
		return completionItemsOf(s.AllMembers())
	}
	return nil
}

func (id *Identifier) SelectedItem(offset int) (Code, bool) {
	if !id.IsSelected(offset) {
		return nil, false
	}
	if id.receiver != nil {
		if item, ok := id.receiver.SelectedItem(offset); ok {
			return item, true
		}
	}
	return id, true
}

func (id *Identifier) SelectedTypeReference(offset int) TypeReference {
	if !id.IsSelected(offset) {
		return notSelected()
	}
	if id.receiver != nil {
		if ref := id.receiver.SelectedTypeReference(offset); ref.Selected() {
			return ref
		}
	}
	return resolvedTo(id.Resolve())
}

func (id *Identifier) ReferencesToSelected(offset int, documents []*Document) []Location {
	if !id.IsSelected(offset) {
		return nil
	}
	if id.receiver != nil && id.receiver.IsSelected(offset) {
		return id.receiver.ReferencesToSelected(offset, documents)
	}
	return id.ReferencesToThis(documents)
}

// ReferencesToThis returns the references of the resolved declaration.
func (id *Identifier) ReferencesToThis(documents []*Document) []Location {
	target := id.Resolve()
	if target == nil {
		return nil
	}
	return target.ReferencesToThis(documents)
}

func (id *Identifier) CompletionItem() *CompletionItem {
	return id.completion.get(func() *CompletionItem {
		return &CompletionItem{
			Label:      id.DisplayName(),
			Kind:       CompletionKindText,
			InsertText: id.name,
		}
	})
}

func (id *Identifier) SimpleInfo() string {
	if id.receiver != nil {
		return id.receiver.SimpleInfo() + "." + id.DisplayName()
	}
	return id.DisplayName()
}

func (id *Identifier) Info() string {
	if target := id.Resolve(); target != nil {
		return target.Info()
	}
	return "### " + id.Kind() + ": " + id.SimpleInfo() + "\n"
}
