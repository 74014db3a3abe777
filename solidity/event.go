package solidity

import (
	"strings"

	"github.com/dhamidi/sol/solidity/parser"
)

type Event struct {
	code
	params []*Parameter
}

func newEvent(node *parser.Node, document *Document, contract *Contract) *Event {
	e := &Event{}
	e.init(node, []parser.NodeKind{parser.KindEvent}, document, contract)
	for _, child := range node.ChildrenOfKind(parser.KindEventParameter) {
		e.params = append(e.params, newParameter(child, document, contract, e, false))
	}
	return e
}

func (e *Event) Kind() string { return "Event" }

func (e *Event) Parameters() []*Parameter { return e.params }

func (e *Event) SelectedItem(offset int) (Code, bool) {
	if !e.IsSelected(offset) {
		return nil, false
	}
	if item, ok := selectFirst(offset, e.params); ok {
		return item, true
	}
	return e, true
}

func (e *Event) SelectedTypeReference(offset int) TypeReference {
	if !e.IsSelected(offset) {
		return notSelected()
	}
	if ref, ok := typeReferenceFirst(offset, e.params); ok {
		return ref
	}
	return selectedNoReference()
}

func (e *Event) ReferencesToSelected(offset int, documents []*Document) []Location {
	if !e.IsSelected(offset) {
		return nil
	}
	if locations, ok := referencesToSelectedFirst(offset, documents, e.params); ok {
		return locations
	}
	return e.ReferencesToThis(documents)
}

func (e *Event) ReferencesToThis(documents []*Document) []Location {
	return referencesTo(e, documents)
}

func (e *Event) Symbol() Symbol {
	return Symbol{
		Name:           e.DisplayName(),
		Detail:         e.SimpleInfo(),
		Kind:           SymbolKindEvent,
		Range:          e.Range(),
		SelectionRange: e.selectionRange(),
	}
}

func (e *Event) CompletionItem() *CompletionItem {
	return e.completion.get(func() *CompletionItem {
		return &CompletionItem{
			Label:         e.DisplayName(),
			Kind:          CompletionKindEvent,
			Detail:        e.SimpleInfo(),
			InsertText:    snippetCall(e.name, e.params),
			Documentation: e.Info(),
		}
	})
}

func (e *Event) InnerMembers() []Code { return codes(e.params) }

func (e *Event) InnerCompletionItems() []*CompletionItem {
	return completionItemsOf(e.params)
}

// SimpleInfo renders "event Transfer(address indexed from, ...)".
func (e *Event) SimpleInfo() string {
	return "event " + e.DisplayName() + "(" + joinParameters(e.params) + ")"
}

func (e *Event) Info() string {
	return infoHeader(e.Kind(), e.DisplayName(), e.contractNameOrGlobal()) +
		"\t" + e.SimpleInfo() + "\n" +
		e.comment()
}

func joinParameters(params []*Parameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.SimpleInfo())
	}
	return strings.Join(parts, ", ")
}
