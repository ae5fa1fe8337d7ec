package content

import (
	"encoding/json"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "single leaf",
			node: NewText("hello"),
			want: "hello",
		},
		{
			name: "paragraph joins leaves without separator",
			node: NewParagraph(NewText("Some "), &Text{Text: "bold", Bold: true}, NewText(" text.")),
			want: "Some bold text.",
		},
		{
			name: "nested structure",
			node: NewPage(
				NewElement(TypeHeadingOne, NewText("Title")),
				NewParagraph(NewText("body")),
			),
			want: "Titlebody",
		},
		{
			name: "void element yields empty text",
			node: NewVoid(TypeImage, "http://example.com/x.png"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.node); got != tt.want {
				t.Errorf("PlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlainTextAllJoinsWithNewlines(t *testing.T) {
	nodes := []Node{
		NewPage(NewParagraph(NewText("first"))),
		NewPage(NewParagraph(NewText("second"))),
	}
	if got := PlainTextAll(nodes); got != "first\nsecond" {
		t.Errorf("PlainTextAll() = %q, want %q", got, "first\nsecond")
	}
}

func TestPredicates(t *testing.T) {
	if !IsVoidType(TypeImage) || !IsVoidType(TypeVideo) {
		t.Error("image and video must be void types")
	}
	if IsVoidType(TypeParagraph) {
		t.Error("paragraph must not be a void type")
	}
	if !IsListType(TypeBulletedList) || !IsListType(TypeNumberedList) {
		t.Error("bulleted-list and numbered-list must be list types")
	}
	if IsListType(TypeListItem) {
		t.Error("list-item itself is not a list container")
	}
}

func TestDefaultPageShape(t *testing.T) {
	page := DefaultPage()
	if page.Type != TypePage {
		t.Fatalf("Type = %q, want page", page.Type)
	}
	if len(page.Children) != 1 {
		t.Fatalf("page must never be empty, got %d children", len(page.Children))
	}
	para, ok := page.Children[0].(*Element)
	if !ok || para.Type != TypeParagraph {
		t.Fatalf("default page child must be a paragraph, got %#v", page.Children[0])
	}
	leaf, ok := para.Children[0].(*Text)
	if !ok || leaf.Text != "" {
		t.Fatalf("default paragraph must hold one empty text leaf, got %#v", para.Children[0])
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := NewPage(NewParagraph(NewText("a")))
	copied := Clone(original).(*Element)

	copied.Children[0].(*Element).Children[0].(*Text).Text = "mutated"

	if got := PlainText(original); got != "a" {
		t.Errorf("mutating the clone changed the original: %q", got)
	}
}

func TestHeadingType(t *testing.T) {
	tests := []struct {
		level int
		want  ElementType
	}{
		{1, TypeHeadingOne},
		{3, TypeHeadingThree},
		{6, TypeHeadingSix},
		{0, TypeParagraph},
		{7, TypeParagraph},
	}
	for _, tt := range tests {
		if got := HeadingType(tt.level); got != tt.want {
			t.Errorf("HeadingType(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc := []Node{
		NewPage(
			NewElement(TypeHeadingOne, NewText("Title")),
			NewParagraph(NewText("Some "), &Text{Text: "bold", Bold: true}, NewText(" text.")),
			NewElement(TypeBulletedList,
				NewElement(TypeListItem, NewText("a")),
				NewElement(TypeListItem, NewText("b")),
			),
			NewVoid(TypeImage, "http://example.com/x.png"),
			NewElement(TypeTable,
				NewElement(TypeTableRow,
					NewElement(TypeTableCell, NewText("h1")),
					NewElement(TypeTableCell, NewText("h2")),
				),
			),
			NewParagraph(NewLink("http://example.com", "click"), NewText(" here")),
		),
	}

	data, err := MarshalNodes(doc)
	if err != nil {
		t.Fatalf("MarshalNodes: %v", err)
	}

	back, err := UnmarshalNodes(data)
	if err != nil {
		t.Fatalf("UnmarshalNodes: %v", err)
	}

	data2, err := MarshalNodes(back)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if string(data) != string(data2) {
		t.Errorf("round trip is not stable:\n%s\n%s", data, data2)
	}
	if PlainTextAll(back) != PlainTextAll(doc) {
		t.Errorf("round trip changed text content")
	}
}

func TestTextLeafWireFormat(t *testing.T) {
	leaf := &Text{Text: "x", Bold: true, Color: "#ff0000"}
	data, err := json.Marshal(leaf)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"text":"x","bold":true,"color":"#ff0000"}`
	if string(data) != want {
		t.Errorf("wire format = %s, want %s", data, want)
	}
}

func TestUnmarshalNodesRejectsMalformedJSON(t *testing.T) {
	if _, err := UnmarshalNodes([]byte(`{"not":"an array"`)); err == nil {
		t.Error("expected error for malformed input")
	}
	if _, err := UnmarshalNodes([]byte(`[{"type":123}]`)); err == nil {
		t.Error("expected error for non-string type tag")
	}
}

func TestUnmarshalDistinguishesLeafFromElement(t *testing.T) {
	data := []byte(`[{"type":"paragraph","children":[{"text":"hi","italic":true}]}]`)
	nodes, err := UnmarshalNodes(data)
	if err != nil {
		t.Fatalf("UnmarshalNodes: %v", err)
	}
	para, ok := nodes[0].(*Element)
	if !ok {
		t.Fatalf("expected element, got %#v", nodes[0])
	}
	leaf, ok := para.Children[0].(*Text)
	if !ok {
		t.Fatalf("expected text leaf, got %#v", para.Children[0])
	}
	if leaf.Text != "hi" || !leaf.Italic {
		t.Errorf("leaf = %#v", leaf)
	}
}
