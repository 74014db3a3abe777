package solidity

import (
	"github.com/dhamidi/sol/solidity/parser"
)

// Import is an import directive. Only the imported path is modelled; symbol
// aliases are not.
type Import struct {
	code
}

func newImport(node *parser.Node, document *Document) *Import {
	i := &Import{}
	i.init(node, []parser.NodeKind{parser.KindImport}, document, nil)
	i.name = node.Path
	return i
}

func (i *Import) Kind() string { return "Import" }

func (i *Import) Path() string { return i.node.Path }

// Target returns the imported document, if the workspace knows it.
func (i *Import) Target() (*Document, bool) {
	return i.document.resolveImport(i.node.Path)
}

func (i *Import) SelectedItem(offset int) (Code, bool) {
	if !i.IsSelected(offset) {
		return nil, false
	}
	return i, true
}

// SelectedTypeReference points at the start of the imported document.
func (i *Import) SelectedTypeReference(offset int) TypeReference {
	if !i.IsSelected(offset) {
		return notSelected()
	}
	target, ok := i.Target()
	if !ok {
		return selectedNoReference()
	}
	return resolvedToLocation(Location{Path: target.Path()})
}

func (i *Import) ReferencesToSelected(offset int, documents []*Document) []Location {
	if !i.IsSelected(offset) {
		return nil
	}
	return i.ReferencesToThis(documents)
}

func (i *Import) ReferencesToThis(documents []*Document) []Location {
	return []Location{i.Location()}
}

func (i *Import) CompletionItem() *CompletionItem {
	return i.completion.get(func() *CompletionItem {
		return &CompletionItem{
			Label:      i.DisplayName(),
			Kind:       CompletionKindText,
			InsertText: i.name,
		}
	})
}

func (i *Import) SimpleInfo() string {
	return "import \"" + i.DisplayName() + "\""
}

func (i *Import) Info() string {
	info := "### Import: " + i.DisplayName() + "\n"
	if target, ok := i.Target(); ok {
		info += "#### " + target.Path() + "\n"
	}
	return info
}
