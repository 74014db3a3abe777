package solidity

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/sol/solidity/parser"
)

func span(start, end int) parser.Span {
	return parser.Span{
		Start: parser.Position{Offset: start, Line: 1, Column: start + 1},
		End:   parser.Position{Offset: end, Line: 1, Column: end + 1},
	}
}

// structMember builds "typ name;" occupying [start, end) with the name
// right before the semicolon.
func structMember(name, typ string, start, end int) *parser.Node {
	return &parser.Node{
		Kind:     parser.KindStructMember,
		Span:     span(start, end),
		Name:     name,
		NameSpan: span(end-1-len(name), end-1),
		Children: []*parser.Node{{
			Kind:     parser.KindElementaryType,
			Span:     span(start, start+len(typ)),
			Name:     typ,
			NameSpan: span(start, start+len(typ)),
		}},
	}
}

func pointNode(name string) *parser.Node {
	node := &parser.Node{
		Kind: parser.KindStruct,
		Span: span(10, 40),
		Name: name,
		Children: []*parser.Node{
			structMember("x", "uint", 12, 18),
			structMember("y", "uint", 20, 26),
		},
	}
	if name != "" {
		node.NameSpan = span(17, 17+len(name))
	}
	return node
}

func testDocument() *Document {
	return &Document{path: "Point.sol"}
}

func TestStructSelectedItem(t *testing.T) {
	point := newStruct(pointNode("Point"), testDocument(), nil)

	tests := []struct {
		name   string
		offset int
		want   string
		found  bool
	}{
		{"inside field x", 15, "x", true},
		{"inside struct, outside fields", 35, "Point", true},
		{"before struct", 5, "", false},
		{"struct start", 10, "Point", true},
		{"struct end is exclusive", 40, "", false},
		{"field end is exclusive", 18, "Point", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := point.SelectedItem(tt.offset)
			if ok != tt.found {
				t.Fatalf("SelectedItem(%d) found = %v, want %v", tt.offset, ok, tt.found)
			}
			if !ok {
				if item != nil {
					t.Errorf("SelectedItem(%d) = %v, want nil", tt.offset, item)
				}
				return
			}
			if item.Name() != tt.want {
				t.Errorf("SelectedItem(%d) = %q, want %q", tt.offset, item.Name(), tt.want)
			}
		})
	}

	item, _ := point.SelectedItem(15)
	if item != point.Properties()[0] {
		t.Errorf("SelectedItem(15) is not the x property node")
	}
}

func TestStructIsSelected(t *testing.T) {
	point := newStruct(pointNode("Point"), testDocument(), nil)
	x := point.Properties()[0]

	if !x.IsCurrentElementSelected(12) || x.IsCurrentElementSelected(18) {
		t.Errorf("x selection bounds: 12 = %v, 18 = %v, want true, false",
			x.IsCurrentElementSelected(12), x.IsCurrentElementSelected(18))
	}
	if _, ok := point.VariableSelected(19); ok {
		t.Errorf("VariableSelected(19) found a property between fields")
	}
	if v, ok := point.VariableSelected(22); !ok || v.Name() != "y" {
		t.Errorf("VariableSelected(22) = %v, %v, want y", v, ok)
	}
}

func TestStructSymbol(t *testing.T) {
	point := newStruct(pointNode("Point"), testDocument(), nil)
	symbol := point.Symbol()

	if symbol.Name != "Point" || symbol.Kind != SymbolKindStruct {
		t.Errorf("Symbol = %q %v, want Point struct", symbol.Name, symbol.Kind)
	}
	var children []string
	for _, child := range symbol.Children {
		children = append(children, child.Name)
		if child.Kind != SymbolKindField {
			t.Errorf("child %q kind = %v, want field", child.Name, child.Kind)
		}
	}
	if diff := cmp.Diff([]string{"x", "y"}, children); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if symbol.Range != RangeOf(span(10, 40)) {
		t.Errorf("Range = %+v, want the struct span", symbol.Range)
	}
}

func TestStructUnnamed(t *testing.T) {
	point := newStruct(pointNode(""), testDocument(), nil)

	if got := point.Symbol().Name; got != UnnamedPlaceholder {
		t.Errorf("Symbol().Name = %q, want %q", got, UnnamedPlaceholder)
	}
	if got, want := point.SimpleInfo(), "Struct Unnamed { x: uint, y: uint }"; got != want {
		t.Errorf("SimpleInfo() = %q, want %q", got, want)
	}
	if got := point.Location().Range; got != RangeOf(span(10, 40)) {
		t.Errorf("Location().Range = %+v, want the struct span", got)
	}
	if got := point.CompletionItem().Label; got != UnnamedPlaceholder {
		t.Errorf("CompletionItem().Label = %q, want %q", got, UnnamedPlaceholder)
	}
}

func TestStructVariableUnnamed(t *testing.T) {
	node := pointNode("Point")
	node.Children[1] = structMember("", "uint", 20, 26)
	point := newStruct(node, testDocument(), nil)

	props := point.Properties()
	if len(props) != 2 {
		t.Fatalf("len(Properties()) = %d, want 2", len(props))
	}
	item := props[1].CompletionItem()
	if item.Label != UnnamedPlaceholder {
		t.Errorf("CompletionItem().Label = %q, want %q", item.Label, UnnamedPlaceholder)
	}
	if item.InsertText != "" {
		t.Errorf("CompletionItem().InsertText = %q, want empty", item.InsertText)
	}
	if got := props[1].Symbol().Name; got != UnnamedPlaceholder {
		t.Errorf("Symbol().Name = %q, want %q", got, UnnamedPlaceholder)
	}
}

func TestStructCompletionItemCached(t *testing.T) {
	first := newStruct(pointNode("Point"), testDocument(), nil)
	second := newStruct(pointNode("Point"), testDocument(), nil)

	a, b := first.CompletionItem(), first.CompletionItem()
	if a != b {
		t.Errorf("CompletionItem() returned different entries for the same struct")
	}
	if first.CompletionItem() == second.CompletionItem() {
		t.Errorf("CompletionItem() shared an entry between two structs")
	}
	if a.Label != "Point" || a.Kind != CompletionKindStruct {
		t.Errorf("CompletionItem() = %q %v, want Point struct", a.Label, a.Kind)
	}
	if got := first.InnerCompletionItems(); len(got) != 2 || got[0] != first.Properties()[0].CompletionItem() {
		t.Errorf("InnerCompletionItems() does not reuse the property entries")
	}
}

func TestStructIgnoresUnrecognizedEntries(t *testing.T) {
	node := &parser.Node{
		Kind: parser.KindStruct,
		Span: span(0, 40),
		Name: "S",
		Children: []*parser.Node{
			structMember("a", "uint", 10, 17),
			{Kind: parser.KindError, Span: span(18, 22), Error: &parser.Error{Message: "expected struct member"}},
		},
	}
	s := newStruct(node, testDocument(), nil)

	if len(s.Properties()) != 1 || s.Properties()[0].Name() != "a" {
		t.Fatalf("Properties() = %v, want only a", s.Properties())
	}
	if got := len(s.InnerMembers()); got != 1 {
		t.Errorf("InnerMembers() has %d entries, want 1", got)
	}
}

func TestStructDuplicateFields(t *testing.T) {
	node := &parser.Node{
		Kind: parser.KindStruct,
		Span: span(0, 40),
		Name: "D",
		Children: []*parser.Node{
			structMember("a", "uint", 10, 17),
			structMember("a", "bool", 20, 27),
		},
	}
	d := newStruct(node, testDocument(), nil)

	if len(d.Properties()) != 2 {
		t.Fatalf("Properties() has %d entries, want 2", len(d.Properties()))
	}
	first, ok := d.Property("a")
	if !ok || first != d.Properties()[0] {
		t.Errorf("Property(%q) did not return the first declaration", "a")
	}
	if got := first.Type().Name(); got != "uint" {
		t.Errorf("Property(%q).Type() = %q, want uint", "a", got)
	}
	if v, _ := d.SelectedProperty(22); v != d.Properties()[1] {
		t.Errorf("SelectedProperty(22) did not return the second declaration")
	}
}

func TestStructSelectedTypeReference(t *testing.T) {
	point := newStruct(pointNode("Point"), testDocument(), nil)

	tests := []struct {
		name   string
		offset int
		want   TypeReferenceStatus
	}{
		{"outside", 5, NotSelected},
		{"struct body", 35, SelectedNoReference},
		{"elementary field type", 13, SelectedNoReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := point.SelectedTypeReference(tt.offset).Status; got != tt.want {
				t.Errorf("SelectedTypeReference(%d) = %v, want %v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestStructVariableInfo(t *testing.T) {
	point := newStruct(pointNode("Point"), testDocument(), nil)
	x := point.Properties()[0]

	if got, want := x.SimpleInfo(), "x: uint"; got != want {
		t.Errorf("SimpleInfo() = %q, want %q", got, want)
	}
	want := "### Struct Property: x\n#### Struct: Point\n#### Global\n\tuint x\n"
	if got := x.Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
	if x.Struct() != point {
		t.Errorf("Struct() does not return the declaring struct")
	}
	if got := x.Location(); got.Path != "Point.sol" || got.Range != RangeOf(span(16, 17)) {
		t.Errorf("Location() = %+v, want the name of x in Point.sol", got)
	}
}

func TestNewStructWrongKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("newStruct accepted an enum node")
		}
	}()
	newStruct(&parser.Node{Kind: parser.KindEnum}, testDocument(), nil)
}
