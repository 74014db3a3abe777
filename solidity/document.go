package solidity

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/sol/solidity/parser"
)

var log = commonlog.GetLogger("sol.solidity")

// Workspace gives a document access to the other documents it imports.
// Documents only look others up; they never own them.
type Workspace interface {
	// ResolveImport returns the document importPath refers to when imported
	// from the document at path from.
	ResolveImport(from, importPath string) (*Document, bool)
}

// mention is a name occurrence that resolves to a declaration.
type mention interface {
	Code
	Resolve() Code
}

// Document is one parsed source file. All nodes are built once in
// NewDocument and are read-only afterwards; an edit produces a new
// Document.
type Document struct {
	path      string
	content   []byte
	root      *parser.Node
	workspace Workspace

	imports   []*Import
	contracts []*Contract
	members   []Declaration
	errors    []*parser.Node
	mentions  []mention
}

// NewDocument parses content and builds its node model. workspace may be
// nil, in which case imports do not resolve.
func NewDocument(path string, content []byte, workspace Workspace) *Document {
	root := parser.Parse(content, parser.WithFile(path))
	return newDocument(path, content, root, workspace)
}

func newDocument(path string, content []byte, root *parser.Node, workspace Workspace) *Document {
	d := &Document{path: path, content: content, root: root, workspace: workspace}
	if root == nil {
		return d
	}
	for _, child := range root.Children {
		switch child.Kind {
		case parser.KindImport:
			d.imports = append(d.imports, newImport(child, d))
		case parser.KindContract:
			c := newContract(child, d)
			d.contracts = append(d.contracts, c)
			d.members = append(d.members, c)
		case parser.KindStruct:
			d.members = append(d.members, newStruct(child, d, nil))
		case parser.KindEnum:
			d.members = append(d.members, newEnum(child, d, nil))
		case parser.KindEvent:
			d.members = append(d.members, newEvent(child, d, nil))
		case parser.KindFunction:
			d.members = append(d.members, newFunction(child, d, nil))
		case parser.KindStateVariable:
			d.members = append(d.members, newStateVariable(child, d, nil))
		}
	}
	collectErrors(root, &d.errors)
	sort.SliceStable(d.mentions, func(i, j int) bool {
		return d.mentions[i].Node().NameSpan.Start.Offset < d.mentions[j].Node().NameSpan.Start.Offset
	})
	log.Debugf("built %s: %d declarations, %d mentions, %d parse errors", path, len(d.members), len(d.mentions), len(d.errors))
	return d
}

func collectErrors(node *parser.Node, errors *[]*parser.Node) {
	if node.IsError() {
		*errors = append(*errors, node)
	}
	for _, child := range node.Children {
		collectErrors(child, errors)
	}
}

func (d *Document) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

func (d *Document) Content() []byte    { return d.content }
func (d *Document) Root() *parser.Node { return d.root }

func (d *Document) Imports() []*Import          { return d.imports }
func (d *Document) Contracts() []*Contract      { return d.contracts }
func (d *Document) Members() []Declaration      { return d.members }
func (d *Document) ParseErrors() []*parser.Node { return d.errors }

func (d *Document) addMention(m mention) {
	if d == nil {
		return
	}
	d.mentions = append(d.mentions, m)
}

// Contract returns the first contract called name.
func (d *Document) Contract(name string) (*Contract, bool) {
	for _, c := range d.contracts {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// FindGlobal returns the first file-level declaration called name, looking
// through imported documents after this one.
func (d *Document) FindGlobal(name string) Code {
	if d == nil {
		return nil
	}
	return d.findGlobal(name, map[*Document]bool{})
}

func (d *Document) findGlobal(name string, visited map[*Document]bool) Code {
	if visited[d] {
		return nil
	}
	visited[d] = true
	for _, m := range d.members {
		if m.Name() == name {
			return m
		}
	}
	for _, imp := range d.imports {
		target, ok := d.resolveImport(imp.Path())
		if !ok {
			continue
		}
		if m := target.findGlobal(name, visited); m != nil {
			return m
		}
	}
	return nil
}

func (d *Document) resolveImport(importPath string) (*Document, bool) {
	if d == nil || d.workspace == nil {
		return nil, false
	}
	return d.workspace.ResolveImport(d.path, importPath)
}

// ImportCandidates lists the paths an import may refer to, most specific
// first. Relative imports resolve against the importing file; other imports
// are tried below each of roots.
func ImportCandidates(from, importPath string, roots ...string) []string {
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		return []string{filepath.Clean(filepath.Join(filepath.Dir(from), importPath))}
	}
	candidates := make([]string, 0, len(roots)+1)
	for _, root := range roots {
		candidates = append(candidates, filepath.Clean(filepath.Join(root, importPath)))
	}
	return append(candidates, filepath.Clean(importPath))
}

// ReferencesTo lists the location of every mention in this document that
// resolves to target, in source order.
func (d *Document) ReferencesTo(target Code) []Location {
	if d == nil || target == nil {
		return nil
	}
	var locations []Location
	for _, m := range d.mentions {
		if m.Resolve() == target {
			locations = append(locations, m.Location())
		}
	}
	return locations
}

// SelectedItem returns the deepest node containing offset.
func (d *Document) SelectedItem(offset int) (Code, bool) {
	if item, ok := selectFirst(offset, d.imports); ok {
		return item, true
	}
	return selectFirst(offset, d.members)
}

// TypeReferenceAt resolves the declaration named at offset.
func (d *Document) TypeReferenceAt(offset int) TypeReference {
	if ref, ok := typeReferenceFirst(offset, d.imports); ok {
		return ref
	}
	if ref, ok := typeReferenceFirst(offset, d.members); ok {
		return ref
	}
	return notSelected()
}

// ReferencesAt lists every reference to the entity at offset across
// documents.
func (d *Document) ReferencesAt(offset int, documents []*Document) []Location {
	if locations, ok := referencesToSelectedFirst(offset, documents, d.imports); ok {
		return locations
	}
	if locations, ok := referencesToSelectedFirst(offset, documents, d.members); ok {
		return locations
	}
	return nil
}

// Symbols returns the document outline in declaration order.
func (d *Document) Symbols() []Symbol {
	return symbolsOf(d.members)
}

// CompletionItems returns the completion items of every file-level
// declaration.
func (d *Document) CompletionItems() []*CompletionItem {
	return completionItemsOf(d.members)
}

// HoverAt renders the documentation of the node at offset.
func (d *Document) HoverAt(offset int) (string, bool) {
	item, ok := d.SelectedItem(offset)
	if !ok {
		return "", false
	}
	return item.Info(), true
}

// CompletionsAt returns the completions offered at offset. After "x." it
// lists the members reachable from x; otherwise every name visible from the
// enclosing function, contract and document.
func (d *Document) CompletionsAt(offset int) []*CompletionItem {
	if offset > len(d.content) {
		offset = len(d.content)
	}
	start := offset
	for start > 0 && isNameByte(d.content[start-1]) {
		start--
	}
	if start > 0 && d.content[start-1] == '.' {
		return d.memberCompletions(start - 1)
	}
	return d.scopeCompletions(offset)
}

func isNameByte(ch byte) bool {
	return ch == '_' || ch == '$' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}

// memberCompletions completes after the '.' at dot.
func (d *Document) memberCompletions(dot int) []*CompletionItem {
	end := dot
	indexes := 0
	for end > 0 && d.content[end-1] == ']' {
		open := matchingBracket(d.content, end-1)
		if open < 0 {
			return nil
		}
		end = open
		indexes++
	}
	if end == 0 {
		return nil
	}
	item, ok := d.SelectedItem(end - 1)
	if !ok {
		return nil
	}
	var target Code
	switch item := item.(type) {
	case mention:
		target = item.Resolve()
	default:
		target = item
	}
	scope := memberScope(target, indexes)
	log.Debugf("member completion at %d: receiver %s, scope %v", dot, item.DisplayName(), scope != nil)
	return scopeCompletionItems(scope)
}

func matchingBracket(content []byte, close int) int {
	depth := 0
	for i := close; i >= 0; i-- {
		switch content[i] {
		case ']':
			depth++
		case '[':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (d *Document) scopeCompletions(offset int) []*CompletionItem {
	var items []*CompletionItem
	seen := map[*CompletionItem]bool{}
	add := func(more []*CompletionItem) {
		for _, item := range more {
			if !seen[item] {
				seen[item] = true
				items = append(items, item)
			}
		}
	}

	for _, c := range d.contracts {
		if !c.IsSelected(offset) {
			continue
		}
		for _, f := range c.functions {
			if f.IsSelected(offset) {
				add(f.InnerCompletionItems())
			}
		}
		add(completionItemsOf(c.AllMembers()))
	}
	for _, m := range d.members {
		if f, ok := m.(*Function); ok && f.IsSelected(offset) {
			add(f.InnerCompletionItems())
		}
	}
	add(d.CompletionItems())

	visited := map[*Document]bool{d: true}
	var walk func(*Document)
	walk = func(doc *Document) {
		for _, imp := range doc.imports {
			target, ok := doc.resolveImport(imp.Path())
			if !ok || visited[target] {
				continue
			}
			visited[target] = true
			add(target.CompletionItems())
			walk(target)
		}
	}
	walk(d)
	return items
}
