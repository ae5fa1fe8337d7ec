package markdown

import (
	"strings"
	"testing"

	"collab-docs-be/pkg/content"
)

func element(t *testing.T, n content.Node) *content.Element {
	t.Helper()
	e, ok := n.(*content.Element)
	if !ok {
		t.Fatalf("expected element, got %#v", n)
	}
	return e
}

func textLeaf(t *testing.T, n content.Node) *content.Text {
	t.Helper()
	leaf, ok := n.(*content.Text)
	if !ok {
		t.Fatalf("expected text leaf, got %#v", n)
	}
	return leaf
}

func TestParseHeadingAndBoldParagraph(t *testing.T) {
	nodes := Parse("# Title\n\nSome **bold** text.")

	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}

	heading := element(t, nodes[0])
	if heading.Type != content.TypeHeadingOne {
		t.Errorf("first node type = %q, want heading-one", heading.Type)
	}
	if got := content.PlainText(heading); got != "Title" {
		t.Errorf("heading text = %q, want Title", got)
	}

	para := element(t, nodes[1])
	if para.Type != content.TypeParagraph {
		t.Errorf("second node type = %q, want paragraph", para.Type)
	}
	if len(para.Children) != 3 {
		t.Fatalf("paragraph children = %d, want 3", len(para.Children))
	}
	if leaf := textLeaf(t, para.Children[0]); leaf.Text != "Some " || leaf.Bold {
		t.Errorf("leaf 0 = %#v", leaf)
	}
	if leaf := textLeaf(t, para.Children[1]); leaf.Text != "bold" || !leaf.Bold {
		t.Errorf("leaf 1 = %#v", leaf)
	}
	if leaf := textLeaf(t, para.Children[2]); leaf.Text != " text." || leaf.Bold {
		t.Errorf("leaf 2 = %#v", leaf)
	}
}

func TestParseHeadingLevels(t *testing.T) {
	tests := []struct {
		input string
		want  content.ElementType
	}{
		{"# a", content.TypeHeadingOne},
		{"## a", content.TypeHeadingTwo},
		{"###### a", content.TypeHeadingSix},
	}
	for _, tt := range tests {
		nodes := Parse(tt.input)
		if got := element(t, nodes[0]).Type; got != tt.want {
			t.Errorf("Parse(%q) type = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseBulletedList(t *testing.T) {
	nodes := Parse("- a\n- b\n")

	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	list := element(t, nodes[0])
	if list.Type != content.TypeBulletedList {
		t.Fatalf("type = %q, want bulleted-list", list.Type)
	}
	if len(list.Children) != 2 {
		t.Fatalf("items = %d, want 2", len(list.Children))
	}
	for i, want := range []string{"a", "b"} {
		item := element(t, list.Children[i])
		if item.Type != content.TypeListItem {
			t.Errorf("item %d type = %q, want list-item", i, item.Type)
		}
		if got := content.PlainText(item); got != want {
			t.Errorf("item %d text = %q, want %q", i, got, want)
		}
	}
}

func TestParseNumberedListStopsAtNonMatching(t *testing.T) {
	nodes := Parse("1. one\n2. two\nplain")

	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	list := element(t, nodes[0])
	if list.Type != content.TypeNumberedList || len(list.Children) != 2 {
		t.Errorf("list = %#v", list)
	}
	if para := element(t, nodes[1]); para.Type != content.TypeParagraph {
		t.Errorf("trailing node type = %q, want paragraph", para.Type)
	}
}

func TestParseBlockQuoteSingleLine(t *testing.T) {
	nodes := Parse("> quoted\n> again")
	if len(nodes) != 2 {
		t.Fatalf("quote lines must not aggregate, got %d nodes", len(nodes))
	}
	for _, n := range nodes {
		if element(t, n).Type != content.TypeBlockQuote {
			t.Errorf("type = %q, want block-quote", element(t, n).Type)
		}
	}
}

func TestParseHorizontalRuleBecomesLiteralParagraph(t *testing.T) {
	for _, input := range []string{"---", "***", "___"} {
		nodes := Parse(input)
		para := element(t, nodes[0])
		if para.Type != content.TypeParagraph {
			t.Errorf("Parse(%q) type = %q, want paragraph", input, para.Type)
		}
		if got := content.PlainText(para); got != "---" {
			t.Errorf("Parse(%q) text = %q, want ---", input, got)
		}
	}
}

func TestParseCodeFence(t *testing.T) {
	nodes := Parse("```go\nfmt.Println(1)\n\nreturn\n```\nafter")

	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	para := element(t, nodes[0])
	leaf := textLeaf(t, para.Children[0])
	if !leaf.Code {
		t.Error("fence content must carry the code mark")
	}
	if leaf.Text != "fmt.Println(1)\n\nreturn\n" {
		t.Errorf("fence content = %q", leaf.Text)
	}
}

func TestParseUnterminatedCodeFenceConsumesToEnd(t *testing.T) {
	nodes := Parse("```\nline one\nline two")
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	leaf := textLeaf(t, element(t, nodes[0]).Children[0])
	if leaf.Text != "line one\nline two\n" || !leaf.Code {
		t.Errorf("leaf = %#v", leaf)
	}
}

func TestParseTable(t *testing.T) {
	input := "| Name | Age |\n|---|---|\n| Ada | 36 |\n| Bob | 41 |"
	nodes := Parse(input)

	table := element(t, nodes[0])
	if table.Type != content.TypeTable {
		t.Fatalf("type = %q, want table", table.Type)
	}
	if len(table.Children) != 3 {
		t.Fatalf("rows = %d, want 3 (header + 2 body)", len(table.Children))
	}
	header := element(t, table.Children[0])
	if header.Type != content.TypeTableRow || len(header.Children) != 2 {
		t.Fatalf("header = %#v", header)
	}
	cell := element(t, header.Children[0])
	if cell.Type != content.TypeTableCell || content.PlainText(cell) != "Name" {
		t.Errorf("cell = %#v", cell)
	}
	if got := content.PlainText(element(t, table.Children[2])); got != "Bob41" {
		t.Errorf("last row text = %q", got)
	}
}

func TestParseTableWithoutSeparator(t *testing.T) {
	nodes := Parse("| a | b |\n| c | d |")
	table := element(t, nodes[0])
	if len(table.Children) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Children))
	}
}

func TestParseTableCellsPassThroughInline(t *testing.T) {
	nodes := Parse("| **x** | y |")
	cell := element(t, element(t, element(t, nodes[0]).Children[0]).Children[0])
	leaf := textLeaf(t, cell.Children[0])
	if leaf.Text != "x" || !leaf.Bold {
		t.Errorf("leaf = %#v", leaf)
	}
}

func TestParseEmptyInputYieldsOneParagraph(t *testing.T) {
	for _, input := range []string{"", "\n\n\n", "   \n"} {
		nodes := Parse(input)
		if len(nodes) != 1 {
			t.Fatalf("Parse(%q) = %d nodes, want 1", input, len(nodes))
		}
		para := element(t, nodes[0])
		if para.Type != content.TypeParagraph || content.PlainText(para) != "" {
			t.Errorf("Parse(%q) = %#v", input, para)
		}
	}
}

// Re-serializing a parsed tree and stripping markup must preserve the
// non-whitespace text content of the input.
func TestRoundTripPreservesTextContent(t *testing.T) {
	inputs := []string{
		"# Title\n\nSome **bold** text.",
		"- a\n- b",
		"> quote me",
		"plain *italic* and `code` and ~~gone~~",
		"| h1 | h2 |\n|---|---|\n| a | b |",
	}
	strip := func(s string) string {
		for _, junk := range []string{" ", "\n", "#", "*", "`", "~", "|", "-", ">", "[", "]", "(", ")"} {
			s = strings.ReplaceAll(s, junk, "")
		}
		return s
	}
	for _, input := range inputs {
		parsed := Parse(input)
		rendered := Render(parsed)
		if strip(rendered) != strip(input) {
			t.Errorf("round trip lost content:\ninput    %q\nrendered %q", input, rendered)
		}
	}
}
