package parser

import (
	"strings"
	"testing"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"contract A {}", []TokenKind{TokenKeyword, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}},
		{"uint256 x = 1;", []TokenKind{TokenIdent, TokenIdent, TokenAssign, TokenNumber, TokenSemicolon, TokenEOF}},
		{"mapping(address => uint)", []TokenKind{TokenKeyword, TokenLParen, TokenIdent, TokenArrow, TokenIdent, TokenRParen, TokenEOF}},
		{`"a" 'b'`, []TokenKind{TokenString, TokenString, TokenEOF}},
		{"a == b", []TokenKind{TokenIdent, TokenOperator, TokenIdent, TokenEOF}},
		{"x += 1", []TokenKind{TokenIdent, TokenOperator, TokenNumber, TokenEOF}},
		{"// c\n/* d */ a", []TokenKind{TokenIdent, TokenEOF}},
		{"0xff 1e18 .5", []TokenKind{TokenNumber, TokenNumber, TokenNumber, TokenEOF}},
		{"a[i].b", []TokenKind{TokenIdent, TokenLBracket, TokenIdent, TokenRBracket, TokenDot, TokenIdent, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.sol")
			var got []TokenKind
			for {
				tok := lexer.NextToken()
				if tok.Kind != TokenWhitespace && tok.Kind != TokenComment && tok.Kind != TokenLineComment {
					got = append(got, tok.Kind)
				}
				if tok.Kind == TokenEOF {
					break
				}
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("a\n  bc"), "test.sol")
	lexer.NextToken()
	lexer.NextToken()
	tok := lexer.NextToken()

	if tok.Literal != "bc" {
		t.Fatalf("Literal = %q, want %q", tok.Literal, "bc")
	}
	if tok.Span.Start.Line != 2 || tok.Span.Start.Column != 3 || tok.Span.Start.Offset != 4 {
		t.Errorf("Start = %+v, want line 2 column 3 offset 4", tok.Span.Start)
	}
	if tok.Span.End.Offset != 6 {
		t.Errorf("End.Offset = %d, want 6", tok.Span.End.Offset)
	}
}

func TestTokenizeNatSpec(t *testing.T) {
	tokens := Tokenize([]byte("/// hello\n/** a\n * b\n */\n// plain\ncontract"), "test.sol")
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if got, want := tokens[0].Doc, "hello\na\nb"; got != want {
		t.Errorf("Doc = %q, want %q", got, want)
	}
}

func TestIsElementaryTypeName(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"uint", true},
		{"uint256", true},
		{"int8", true},
		{"bytes32", true},
		{"address", true},
		{"bool", true},
		{"fixed128x18", true},
		{"uintx", false},
		{"Point", false},
		{"bytesX", false},
	}
	for _, tt := range tests {
		if got := IsElementaryTypeName(tt.word); got != tt.want {
			t.Errorf("IsElementaryTypeName(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestSpanContains(t *testing.T) {
	span := Span{Start: Position{Offset: 10, Line: 1}, End: Position{Offset: 40, Line: 1}}
	tests := []struct {
		offset int
		want   bool
	}{
		{9, false},
		{10, true},
		{25, true},
		{39, true},
		{40, false},
	}
	for _, tt := range tests {
		if got := span.Contains(tt.offset); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

const tokenSource = `pragma solidity ^0.8.0;
import "./Lib.sol";

/// A point.
struct Point {
    uint x;
    uint y;
}

contract Token is Ownable, ERC20("T", "T") {
    enum State { Active, Paused }
    event Transfer(address indexed from, address to, uint256 value);
    mapping(address => uint256) public balances;
    uint256[] values;

    constructor(uint256 supply) ERC20("T", "T") {}

    function transfer(address to, uint256 amount) external returns (bool ok) {
        uint256 fromBalance = balances[msg.sender];
        Point memory p;
        p.x = amount;
        emit Transfer(msg.sender, to, amount);
        return true;
    }
}
`

func kindsOf(nodes []*Node) []NodeKind {
	var kinds []NodeKind
	for _, n := range nodes {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func assertKinds(t *testing.T, what string, got []NodeKind, want ...NodeKind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", what, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: got %v, want %v", what, i, got[i], want[i])
		}
	}
}

func TestParseSourceUnit(t *testing.T) {
	root := Parse([]byte(tokenSource), WithFile("Token.sol"))
	if root == nil {
		t.Fatal("Parse returned nil")
	}
	assertKinds(t, "source unit", kindsOf(root.Children), KindPragma, KindImport, KindStruct, KindContract)

	imp := root.Children[1]
	if imp.Path != "./Lib.sol" {
		t.Errorf("import Path = %q, want %q", imp.Path, "./Lib.sol")
	}

	point := root.Children[2]
	if point.Name != "Point" || point.Doc != "A point." {
		t.Errorf("struct = %q doc %q, want Point doc %q", point.Name, point.Doc, "A point.")
	}
	assertKinds(t, "struct", kindsOf(point.Children), KindStructMember, KindStructMember)
	if ty := point.Children[0].TypeChild(); ty == nil || ty.Kind != KindElementaryType || ty.Name != "uint" {
		t.Errorf("member type = %v, want ElementaryType uint", ty)
	}

	contract := root.Children[3]
	if contract.Name != "Token" || contract.ContractKind != ContractKindContract {
		t.Errorf("contract = %q %q, want Token contract", contract.Name, contract.ContractKind)
	}
	assertKinds(t, "contract", kindsOf(contract.Children),
		KindInheritanceSpecifier, KindInheritanceSpecifier,
		KindEnum, KindEvent, KindStateVariable, KindStateVariable,
		KindFunction, KindFunction)
	if got := contract.Children[1].Name; got != "ERC20" {
		t.Errorf("second base = %q, want ERC20", got)
	}
	if got := contract.Children[0].Span.Start.File; got != "Token.sol" {
		t.Errorf("Span.Start.File = %q, want Token.sol", got)
	}
}

func TestParseContractMembers(t *testing.T) {
	root := Parse([]byte(tokenSource))
	contract := root.Children[3]

	enum := contract.Children[2]
	assertKinds(t, "enum", kindsOf(enum.Children), KindEnumValue, KindEnumValue)
	if enum.Children[1].Name != "Paused" {
		t.Errorf("enum value = %q, want Paused", enum.Children[1].Name)
	}

	event := contract.Children[3]
	assertKinds(t, "event", kindsOf(event.Children), KindEventParameter, KindEventParameter, KindEventParameter)
	if !event.Children[0].Indexed || event.Children[1].Indexed {
		t.Errorf("indexed flags = %v %v, want true false", event.Children[0].Indexed, event.Children[1].Indexed)
	}

	balances := contract.Children[4]
	if balances.Name != "balances" || balances.Visibility != "public" {
		t.Errorf("state variable = %q %q, want balances public", balances.Name, balances.Visibility)
	}
	mapping := balances.TypeChild()
	if mapping == nil || mapping.Kind != KindMapping {
		t.Fatalf("balances type = %v, want Mapping", mapping)
	}
	assertKinds(t, "mapping", kindsOf(mapping.Children), KindElementaryType, KindElementaryType)

	values := contract.Children[5].TypeChild()
	if values == nil || values.Kind != KindArrayType || values.Children[0].Name != "uint256" {
		t.Errorf("values type = %v, want ArrayType of uint256", values)
	}

	ctor := contract.Children[6]
	if ctor.FunctionKind != FunctionKindConstructor || ctor.Name != "" {
		t.Errorf("constructor = %q %q", ctor.FunctionKind, ctor.Name)
	}
	assertKinds(t, "constructor", kindsOf(ctor.Children), KindParameter, KindModifierInvocation, KindBody)
}

func TestParseFunctionBody(t *testing.T) {
	root := Parse([]byte(tokenSource))
	fn := root.Children[3].Children[7]

	if fn.Name != "transfer" || fn.Visibility != "external" {
		t.Errorf("function = %q %q, want transfer external", fn.Name, fn.Visibility)
	}
	assertKinds(t, "function", kindsOf(fn.Children), KindParameter, KindParameter, KindReturnParameters, KindBody)

	body := fn.FirstChildOfKind(KindBody)
	assertKinds(t, "body", kindsOf(body.Children),
		KindVariableDeclaration,
		KindMemberAccess,
		KindIndexAccess,
		KindVariableDeclaration,
		KindMemberAccess,
		KindIdentifier,
		KindIdentifier,
		KindMemberAccess,
		KindIdentifier,
		KindIdentifier,
	)

	p := body.Children[3]
	if p.Name != "p" || p.StorageLocation != "memory" {
		t.Errorf("local = %q %q, want p memory", p.Name, p.StorageLocation)
	}
	if ty := p.TypeChild(); ty == nil || ty.Kind != KindUserDefinedType || ty.Name != "Point" {
		t.Errorf("local type = %v, want UserDefinedType Point", ty)
	}

	access := body.Children[4]
	if access.Name != "x" || len(access.Children) != 1 || access.Children[0].Name != "p" {
		t.Errorf("member access = %q of %v, want x of p", access.Name, access.Children)
	}

	index := body.Children[2]
	if len(index.Children) != 1 || index.Children[0].Name != "balances" {
		t.Errorf("index access base = %v, want balances", index.Children)
	}
}

func TestParseRecovery(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []NodeKind
	}{
		{
			name:   "unsupported contract member",
			source: "contract A { using X for Y; uint a; }",
			want:   []NodeKind{KindError, KindStateVariable},
		},
		{
			name:   "malformed struct member",
			source: "struct S { uint a; 123; uint b; }",
			want:   []NodeKind{KindStructMember, KindError, KindStructMember},
		},
		{
			name:   "missing contract brace",
			source: "contract A is B",
			want:   []NodeKind{KindInheritanceSpecifier, KindError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := Parse([]byte(tt.source))
			if len(root.Children) != 1 {
				t.Fatalf("got %d top-level nodes, want 1:\n%s", len(root.Children), root)
			}
			assertKinds(t, tt.name, kindsOf(root.Children[0].Children), tt.want...)
		})
	}
}

func TestParseSpans(t *testing.T) {
	root := Parse([]byte("contract A {}"))
	contract := root.Children[0]

	if contract.Span.Start.Offset != 0 || contract.Span.End.Offset != 13 {
		t.Errorf("Span = [%d,%d), want [0,13)", contract.Span.Start.Offset, contract.Span.End.Offset)
	}
	if contract.NameSpan.Start.Offset != 9 || contract.NameSpan.End.Offset != 10 {
		t.Errorf("NameSpan = [%d,%d), want [9,10)", contract.NameSpan.Start.Offset, contract.NameSpan.End.Offset)
	}
}

func TestNodeString(t *testing.T) {
	root := Parse([]byte("struct S { uint a; }"))
	got := root.String()
	for _, want := range []string{"SourceUnit\n", "  Struct S\n", "    StructMember a\n", "      ElementaryType uint\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q:\n%s", want, got)
		}
	}
}
