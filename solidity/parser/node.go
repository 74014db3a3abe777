package parser

type NodeKind int

const (
	KindError NodeKind = iota

	// Source unit level
	KindSourceUnit
	KindPragma
	KindImport

	// Declarations
	KindContract
	KindInheritanceSpecifier
	KindStruct
	KindStructMember
	KindEnum
	KindEnumValue
	KindEvent
	KindEventParameter
	KindFunction
	KindParameter
	KindReturnParameters
	KindModifierInvocation
	KindStateVariable

	// Types
	KindElementaryType
	KindUserDefinedType
	KindMapping
	KindArrayType

	// Function bodies
	KindBody
	KindVariableDeclaration
	KindIdentifier
	KindMemberAccess
	KindIndexAccess
)

var nodeKindNames = map[NodeKind]string{
	KindError:                "Error",
	KindSourceUnit:           "SourceUnit",
	KindPragma:               "Pragma",
	KindImport:               "Import",
	KindContract:             "Contract",
	KindInheritanceSpecifier: "InheritanceSpecifier",
	KindStruct:               "Struct",
	KindStructMember:         "StructMember",
	KindEnum:                 "Enum",
	KindEnumValue:            "EnumValue",
	KindEvent:                "Event",
	KindEventParameter:       "EventParameter",
	KindFunction:             "Function",
	KindParameter:            "Parameter",
	KindReturnParameters:     "ReturnParameters",
	KindModifierInvocation:   "ModifierInvocation",
	KindStateVariable:        "StateVariable",
	KindElementaryType:       "ElementaryType",
	KindUserDefinedType:      "UserDefinedType",
	KindMapping:              "Mapping",
	KindArrayType:            "ArrayType",
	KindBody:                 "Body",
	KindVariableDeclaration:  "VariableDeclaration",
	KindIdentifier:           "Identifier",
	KindMemberAccess:         "MemberAccess",
	KindIndexAccess:          "IndexAccess",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsType reports whether nodes of this kind denote a type name.
func (k NodeKind) IsType() bool {
	switch k {
	case KindElementaryType, KindUserDefinedType, KindMapping, KindArrayType:
		return true
	}
	return false
}

type ContractKind string

const (
	ContractKindContract  ContractKind = "contract"
	ContractKindAbstract  ContractKind = "abstract"
	ContractKindInterface ContractKind = "interface"
	ContractKindLibrary   ContractKind = "library"
)

type FunctionKind string

const (
	FunctionKindFunction    FunctionKind = "function"
	FunctionKindConstructor FunctionKind = "constructor"
	FunctionKindModifier    FunctionKind = "modifier"
	FunctionKindFallback    FunctionKind = "fallback"
	FunctionKindReceive     FunctionKind = "receive"
)

type Error struct {
	Message string
	Got     *Token
}

// Node is one entry of the raw parse tree. Which fields are meaningful
// depends on Kind.
type Node struct {
	Kind     NodeKind
	Span     Span
	Name     string
	NameSpan Span
	Doc      string
	Children []*Node
	Error    *Error

	// Path is the import path of a KindImport node.
	Path string
	// ContractKind is set on KindContract nodes.
	ContractKind ContractKind
	// FunctionKind is set on KindFunction nodes.
	FunctionKind FunctionKind
	// Visibility is public, private, internal, external or empty.
	Visibility string
	// Mutability is pure, view, payable, constant, immutable or empty.
	Mutability string
	// StorageLocation is memory, storage, calldata or empty.
	StorageLocation string
	// Indexed marks indexed event parameters.
	Indexed bool
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// TypeChild returns the first child denoting a type name.
func (n *Node) TypeChild() *Node {
	for _, child := range n.Children {
		if child.Kind.IsType() {
			return child
		}
	}
	return nil
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}

	result := prefix + n.Kind.String()
	if showPositions {
		result += " [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]"
	}
	if n.Name != "" {
		result += " " + n.Name
	}
	if n.Path != "" {
		result += " " + n.Path
	}
	if n.Error != nil {
		result += " ERROR: " + n.Error.Message
	}
	result += "\n"

	for _, child := range n.Children {
		result += child.stringIndent(indent+1, showPositions)
	}
	return result
}
