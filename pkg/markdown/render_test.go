package markdown

import (
	"testing"

	"collab-docs-be/pkg/content"
)

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name  string
		nodes []content.Node
		want  string
	}{
		{
			name:  "heading",
			nodes: []content.Node{content.NewElement(content.TypeHeadingTwo, content.NewText("Sub"))},
			want:  "## Sub\n",
		},
		{
			name: "paragraph with marks",
			nodes: []content.Node{content.NewParagraph(
				content.NewText("a "),
				&content.Text{Text: "b", Bold: true},
				&content.Text{Text: "c", Italic: true},
				&content.Text{Text: "d", Code: true},
				&content.Text{Text: "e", Strikethrough: true},
				&content.Text{Text: "f", Underline: true},
			)},
			want: "a **b***c*`d`~~e~~<u>f</u>\n",
		},
		{
			name:  "block quote",
			nodes: []content.Node{content.NewElement(content.TypeBlockQuote, content.NewText("q"))},
			want:  "> q\n",
		},
		{
			name: "numbered list",
			nodes: []content.Node{content.NewElement(content.TypeNumberedList,
				content.NewElement(content.TypeListItem, content.NewText("one")),
				content.NewElement(content.TypeListItem, content.NewText("two")),
			)},
			want: "1. one\n2. two\n",
		},
		{
			name:  "image",
			nodes: []content.Node{content.NewVoid(content.TypeImage, "http://x/y.png")},
			want:  "![](http://x/y.png)\n",
		},
		{
			name: "link inside paragraph",
			nodes: []content.Node{content.NewParagraph(
				content.NewText("see "),
				content.NewLink("http://x", "docs"),
			)},
			want: "see [docs](http://x)\n",
		},
		{
			name: "page container is transparent",
			nodes: []content.Node{content.NewPage(
				content.NewParagraph(content.NewText("inside")),
			)},
			want: "inside\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.nodes); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	table := content.NewElement(content.TypeTable,
		content.NewElement(content.TypeTableRow,
			content.NewElement(content.TypeTableCell, content.NewText("h1")),
			content.NewElement(content.TypeTableCell, content.NewText("h2")),
		),
		content.NewElement(content.TypeTableRow,
			content.NewElement(content.TypeTableCell, content.NewText("a")),
		),
	)
	want := "| h1 | h2 |\n|---|---|\n| a |  |\n"
	if got := Render([]content.Node{table}); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
