package solidity

import (
	"strings"

	"github.com/dhamidi/sol/solidity/parser"
)

// Declaration is a node that appears in a document outline.
type Declaration interface {
	Code
	Outliner
}

// Contract is a contract, abstract contract, interface or library. It owns
// its member declarations; its bases are type mentions resolved on demand.
type Contract struct {
	code
	bases     []*DeclarationType
	members   []Declaration
	structs   []*Struct
	enums     []*Enum
	events    []*Event
	functions []*Function
	variables []*StateVariable
}

func newContract(node *parser.Node, document *Document) *Contract {
	c := &Contract{}
	c.init(node, []parser.NodeKind{parser.KindContract}, document, nil)
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindInheritanceSpecifier:
			if typ := child.FirstChildOfKind(parser.KindUserDefinedType); typ != nil {
				base := newDeclarationType(typ, document, c)
				base.global = true
				c.bases = append(c.bases, base)
			}
		case parser.KindStruct:
			s := newStruct(child, document, c)
			c.structs = append(c.structs, s)
			c.members = append(c.members, s)
		case parser.KindEnum:
			e := newEnum(child, document, c)
			c.enums = append(c.enums, e)
			c.members = append(c.members, e)
		case parser.KindEvent:
			e := newEvent(child, document, c)
			c.events = append(c.events, e)
			c.members = append(c.members, e)
		case parser.KindFunction:
			f := newFunction(child, document, c)
			c.functions = append(c.functions, f)
			c.members = append(c.members, f)
		case parser.KindStateVariable:
			v := newStateVariable(child, document, c)
			c.variables = append(c.variables, v)
			c.members = append(c.members, v)
		}
	}
	return c
}

// TypeName is the label used in documentation, e.g. "Library".
func (c *Contract) TypeName() string {
	switch c.node.ContractKind {
	case parser.ContractKindInterface:
		return "Interface"
	case parser.ContractKindLibrary:
		return "Library"
	case parser.ContractKindAbstract:
		return "Abstract Contract"
	}
	return "Contract"
}

func (c *Contract) Kind() string { return c.TypeName() }

func (c *Contract) ContractKind() parser.ContractKind { return c.node.ContractKind }

func (c *Contract) Bases() []*DeclarationType   { return c.bases }
func (c *Contract) Members() []Declaration      { return c.members }
func (c *Contract) Structs() []*Struct          { return c.structs }
func (c *Contract) Enums() []*Enum              { return c.enums }
func (c *Contract) Events() []*Event            { return c.events }
func (c *Contract) Functions() []*Function      { return c.functions }
func (c *Contract) Variables() []*StateVariable { return c.variables }

// BaseContracts returns the bases that resolve to a contract, in
// inheritance-list order.
func (c *Contract) BaseContracts() []*Contract {
	var result []*Contract
	for _, base := range c.bases {
		if contract, ok := base.Resolve().(*Contract); ok {
			result = append(result, contract)
		}
	}
	return result
}

// FindMember returns the first member called name, searching this contract
// before its bases.
func (c *Contract) FindMember(name string) Code {
	return c.findMember(name, map[*Contract]bool{})
}

func (c *Contract) findMember(name string, visited map[*Contract]bool) Code {
	if visited[c] {
		return nil
	}
	visited[c] = true
	for _, m := range c.members {
		if m.Name() == name {
			return m
		}
	}
	for _, base := range c.BaseContracts() {
		if m := base.findMember(name, visited); m != nil {
			return m
		}
	}
	return nil
}

// AllMembers returns own members followed by inherited ones. Inherited
// members hidden by an earlier member of the same name are left out.
func (c *Contract) AllMembers() []Declaration {
	var result []Declaration
	seen := map[string]bool{}
	visited := map[*Contract]bool{}
	var walk func(*Contract)
	walk = func(contract *Contract) {
		if visited[contract] {
			return
		}
		visited[contract] = true
		for _, m := range contract.members {
			if m.Name() != "" && seen[m.Name()] {
				continue
			}
			seen[m.Name()] = true
			result = append(result, m)
		}
		for _, base := range contract.BaseContracts() {
			walk(base)
		}
	}
	walk(c)
	return result
}

func (c *Contract) SelectedItem(offset int) (Code, bool) {
	if !c.IsSelected(offset) {
		return nil, false
	}
	if item, ok := selectFirst(offset, c.bases); ok {
		return item, true
	}
	if item, ok := selectFirst(offset, c.members); ok {
		return item, true
	}
	return c, true
}

func (c *Contract) SelectedTypeReference(offset int) TypeReference {
	if !c.IsSelected(offset) {
		return notSelected()
	}
	if ref, ok := typeReferenceFirst(offset, c.bases); ok {
		return ref
	}
	if ref, ok := typeReferenceFirst(offset, c.members); ok {
		return ref
	}
	return selectedNoReference()
}

func (c *Contract) ReferencesToSelected(offset int, documents []*Document) []Location {
	if !c.IsSelected(offset) {
		return nil
	}
	if locations, ok := referencesToSelectedFirst(offset, documents, c.bases); ok {
		return locations
	}
	if locations, ok := referencesToSelectedFirst(offset, documents, c.members); ok {
		return locations
	}
	return c.ReferencesToThis(documents)
}

func (c *Contract) ReferencesToThis(documents []*Document) []Location {
	return referencesTo(c, documents)
}

func (c *Contract) Symbol() Symbol {
	kind := SymbolKindContract
	switch c.node.ContractKind {
	case parser.ContractKindInterface:
		kind = SymbolKindInterface
	case parser.ContractKindLibrary:
		kind = SymbolKindLibrary
	}
	return Symbol{
		Name:           c.DisplayName(),
		Detail:         c.SimpleInfo(),
		Kind:           kind,
		Range:          c.Range(),
		SelectionRange: c.selectionRange(),
		Children:       symbolsOf(c.members),
	}
}

func (c *Contract) CompletionItem() *CompletionItem {
	return c.completion.get(func() *CompletionItem {
		kind := CompletionKindContract
		switch c.node.ContractKind {
		case parser.ContractKindInterface:
			kind = CompletionKindInterface
		case parser.ContractKindLibrary:
			kind = CompletionKindLibrary
		}
		return &CompletionItem{
			Label:         c.DisplayName(),
			Kind:          kind,
			Detail:        c.SimpleInfo(),
			InsertText:    c.name,
			Documentation: c.Info(),
		}
	})
}

func (c *Contract) InnerMembers() []Code { return codes(c.members) }

func (c *Contract) InnerCompletionItems() []*CompletionItem {
	return completionItemsOf(c.members)
}

// SimpleInfo renders the contract header, e.g. "contract Token is ERC20".
func (c *Contract) SimpleInfo() string {
	info := string(c.node.ContractKind)
	if c.node.ContractKind == parser.ContractKindAbstract {
		info += " contract"
	}
	info += " " + c.DisplayName()
	if len(c.bases) > 0 {
		names := make([]string, 0, len(c.bases))
		for _, base := range c.bases {
			names = append(names, base.DisplayName())
		}
		info += " is " + strings.Join(names, ", ")
	}
	return info
}

func (c *Contract) Info() string {
	return infoHeader(c.TypeName(), c.DisplayName(), c.contractNameOrGlobal()) +
		"\t" + c.SimpleInfo() + "\n" +
		c.comment()
}
