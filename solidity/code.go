package solidity

import (
	"strings"

	"github.com/dhamidi/sol/solidity/parser"
)

// UnnamedPlaceholder is shown wherever a declaration carries no name.
const UnnamedPlaceholder = "Unnamed"

// Code is a position-aware wrapper over one declaration or mention in a
// parsed document. Every node kind answers the same queries, so a lookup
// can start at any node and narrow down through InnerMembers.
//
// Offsets are byte offsets into the document; a node is selected when the
// offset lies in [start, end) of its raw node span.
type Code interface {
	Name() string
	// DisplayName is Name, or UnnamedPlaceholder when the name is empty.
	DisplayName() string
	// Kind is a human-readable label such as "Struct".
	Kind() string
	Document() *Document
	// Contract is the enclosing contract, or nil for global declarations.
	Contract() *Contract
	Node() *parser.Node
	Range() Range
	// Location points at the node's name when it has one, at the whole node
	// otherwise.
	Location() Location

	IsSelected(offset int) bool
	// SelectedItem returns the deepest node containing offset.
	SelectedItem(offset int) (Code, bool)
	SelectedTypeReference(offset int) TypeReference
	ReferencesToSelected(offset int, documents []*Document) []Location
	ReferencesToThis(documents []*Document) []Location

	// CompletionItem returns the same pointer on every call.
	CompletionItem() *CompletionItem
	InnerMembers() []Code
	InnerCompletionItems() []*CompletionItem

	Info() string
	SimpleInfo() string
}

// Outliner is implemented by nodes that appear in a document outline.
type Outliner interface {
	Symbol() Symbol
}

// code carries the state shared by every node kind. The document and
// contract links are lookups only; nodes never own their scope.
type code struct {
	node       *parser.Node
	name       string
	document   *Document
	contract   *Contract
	completion completionCell
}

func (c *code) init(node *parser.Node, kinds []parser.NodeKind, document *Document, contract *Contract) {
	mustKind(node, kinds...)
	c.node = node
	c.name = node.Name
	c.document = document
	c.contract = contract
}

// mustKind panics when node is nil or of an unexpected kind. Building a
// node from the wrong raw node is a programming error.
func mustKind(node *parser.Node, kinds ...parser.NodeKind) {
	if node == nil {
		panic("solidity: nil parse node")
	}
	for _, kind := range kinds {
		if node.Kind == kind {
			return
		}
	}
	var names []string
	for _, kind := range kinds {
		names = append(names, kind.String())
	}
	panic("solidity: expected " + strings.Join(names, " or ") + " node, got " + node.Kind.String())
}

func (c *code) Name() string { return c.name }

func (c *code) DisplayName() string {
	if c.name == "" {
		return UnnamedPlaceholder
	}
	return c.name
}

func (c *code) Document() *Document { return c.document }
func (c *code) Contract() *Contract { return c.contract }
func (c *code) Node() *parser.Node  { return c.node }

func (c *code) Range() Range {
	return RangeOf(c.node.Span)
}

func (c *code) selectionRange() Range {
	if c.node.NameSpan.IsZero() {
		return c.Range()
	}
	return RangeOf(c.node.NameSpan)
}

func (c *code) Location() Location {
	return Location{Path: c.document.Path(), Range: c.selectionRange()}
}

func (c *code) IsSelected(offset int) bool {
	return c.node.Span.Contains(offset)
}

func (c *code) InnerMembers() []Code { return nil }

func (c *code) InnerCompletionItems() []*CompletionItem { return nil }

func (c *code) comment() string {
	return c.node.Doc
}

// contractNameOrGlobal renders the owning scope, e.g. "Contract: Token" or
// "Global".
func (c *code) contractNameOrGlobal() string {
	if c.contract == nil {
		return "Global"
	}
	return c.contract.TypeName() + ": " + c.contract.DisplayName()
}

// infoHeader renders the markdown heading shared by most Info methods.
func infoHeader(kind, name, scope string) string {
	return "### " + kind + ": " + name + "\n" + "#### " + scope + "\n"
}

// selectFirst returns the deepest selection among children, trying them in
// order.
func selectFirst[T Code](offset int, children []T) (Code, bool) {
	for _, child := range children {
		if item, ok := child.SelectedItem(offset); ok {
			return item, true
		}
	}
	return nil, false
}

// firstSelected returns the first child containing offset.
func firstSelected[T Code](offset int, children []T) (T, bool) {
	for _, child := range children {
		if child.IsSelected(offset) {
			return child, true
		}
	}
	var zero T
	return zero, false
}

// typeReferenceFirst asks children in order and returns the first answer
// that is not NotSelected.
func typeReferenceFirst[T Code](offset int, children []T) (TypeReference, bool) {
	for _, child := range children {
		if ref := child.SelectedTypeReference(offset); ref.Selected() {
			return ref, true
		}
	}
	return notSelected(), false
}

// referencesToSelectedFirst delegates to the first selected child.
func referencesToSelectedFirst[T Code](offset int, documents []*Document, children []T) ([]Location, bool) {
	if child, ok := firstSelected(offset, children); ok {
		return child.ReferencesToSelected(offset, documents), true
	}
	return nil, false
}

// referencesTo lists the declaration of target followed by every mention
// of it in documents, in document order.
func referencesTo(target Code, documents []*Document) []Location {
	locations := []Location{target.Location()}
	for _, doc := range documents {
		locations = append(locations, doc.ReferencesTo(target)...)
	}
	return locations
}

func completionItemsOf[T Code](children []T) []*CompletionItem {
	items := make([]*CompletionItem, 0, len(children))
	for _, child := range children {
		items = append(items, child.CompletionItem())
	}
	return items
}

func codes[T Code](children []T) []Code {
	result := make([]Code, 0, len(children))
	for _, child := range children {
		result = append(result, child)
	}
	return result
}

func symbolsOf[T Outliner](children []T) []Symbol {
	symbols := make([]Symbol, 0, len(children))
	for _, child := range children {
		symbols = append(symbols, child.Symbol())
	}
	return symbols
}
