package solidity

import (
	"strconv"
	"strings"
	"sync"
)

type SymbolKind int

const (
	SymbolKindContract SymbolKind = iota
	SymbolKindInterface
	SymbolKindLibrary
	SymbolKindStruct
	SymbolKindField
	SymbolKindEnum
	SymbolKindEnumMember
	SymbolKindEvent
	SymbolKindFunction
	SymbolKindMethod
	SymbolKindConstructor
	SymbolKindModifier
	SymbolKindVariable
	SymbolKindConstant
)

var symbolKindNames = map[SymbolKind]string{
	SymbolKindContract:    "contract",
	SymbolKindInterface:   "interface",
	SymbolKindLibrary:     "library",
	SymbolKindStruct:      "struct",
	SymbolKindField:       "field",
	SymbolKindEnum:        "enum",
	SymbolKindEnumMember:  "enum-member",
	SymbolKindEvent:       "event",
	SymbolKindFunction:    "function",
	SymbolKindMethod:      "method",
	SymbolKindConstructor: "constructor",
	SymbolKindModifier:    "modifier",
	SymbolKindVariable:    "variable",
	SymbolKindConstant:    "constant",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Symbol is one entry of a document outline.
type Symbol struct {
	Name           string
	Detail         string
	Kind           SymbolKind
	Range          Range
	SelectionRange Range
	Children       []Symbol
}

type CompletionKind int

const (
	CompletionKindText CompletionKind = iota
	CompletionKindContract
	CompletionKindInterface
	CompletionKindLibrary
	CompletionKindStruct
	CompletionKindField
	CompletionKindEnum
	CompletionKindEnumMember
	CompletionKindEvent
	CompletionKindFunction
	CompletionKindMethod
	CompletionKindConstructor
	CompletionKindModifier
	CompletionKindVariable
	CompletionKindConstant
)

// CompletionItem is the completion entry of one node. InsertText may
// contain snippet placeholders.
type CompletionItem struct {
	Label         string
	Kind          CompletionKind
	Detail        string
	InsertText    string
	Documentation string
}

// completionCell builds a node's completion item once and hands out the same
// pointer afterwards.
type completionCell struct {
	once sync.Once
	item *CompletionItem
}

func (c *completionCell) get(build func() *CompletionItem) *CompletionItem {
	c.once.Do(func() {
		c.item = build()
	})
	return c.item
}

// snippetCall renders name(${1:a}, ${2:b}) for use as snippet insert text.
func snippetCall(name string, params []*Parameter) string {
	if len(params) == 0 {
		return escapeSnippet(name) + "()"
	}
	var placeholders []string
	for i, p := range params {
		label := p.Name()
		if label == "" {
			label = p.Type().SimpleInfo()
		}
		placeholders = append(placeholders, "${"+strconv.Itoa(i+1)+":"+escapeSnippet(label)+"}")
	}
	return escapeSnippet(name) + "(" + strings.Join(placeholders, ", ") + ")"
}

func escapeSnippet(s string) string {
	return strings.NewReplacer(`\`, `\\`, `$`, `\$`, `}`, `\}`).Replace(s)
}
