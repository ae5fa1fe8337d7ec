package markdown

import (
	"testing"

	"collab-docs-be/pkg/content"
)

func marks(t *testing.T, leaf *content.Text) string {
	t.Helper()
	out := ""
	if leaf.Code {
		out += "c"
	}
	if leaf.Bold {
		out += "b"
	}
	if leaf.Italic {
		out += "i"
	}
	if leaf.Strikethrough {
		out += "s"
	}
	return out
}

func TestParseInlineMarks(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTexts []string
		wantMarks []string
	}{
		{
			name:      "plain",
			input:     "just text",
			wantTexts: []string{"just text"},
			wantMarks: []string{""},
		},
		{
			name:      "bold",
			input:     "a **b** c",
			wantTexts: []string{"a ", "b", " c"},
			wantMarks: []string{"", "b", ""},
		},
		{
			name:      "italic",
			input:     "a *b* c",
			wantTexts: []string{"a ", "b", " c"},
			wantMarks: []string{"", "i", ""},
		},
		{
			name:      "code",
			input:     "run `go vet` first",
			wantTexts: []string{"run ", "go vet", " first"},
			wantMarks: []string{"", "c", ""},
		},
		{
			name:      "strikethrough",
			input:     "~~dead~~ alive",
			wantTexts: []string{"dead", " alive"},
			wantMarks: []string{"s", ""},
		},
		{
			name:      "code wins over bold inside backticks",
			input:     "`**x**`",
			wantTexts: []string{"**x**"},
			wantMarks: []string{"c"},
		},
		{
			// Nested emphasis is not composed: the bold pass cannot
			// match across the inner asterisks, so the italic pass
			// claims the odd star pairs instead. Pinned on purpose.
			name:      "nested emphasis does not compose",
			input:     "**bold *inner* bold**",
			wantTexts: []string{"*", "bold ", "inner", " bold", "*"},
			wantMarks: []string{"", "i", "", "i", ""},
		},
		{
			name:      "multiple marks in one line",
			input:     "**a** and *b* and ~~c~~",
			wantTexts: []string{"a", " and ", "b", " and ", "c"},
			wantMarks: []string{"b", "", "i", "", "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := parseInline(tt.input)
			if len(nodes) != len(tt.wantTexts) {
				t.Fatalf("got %d nodes, want %d: %#v", len(nodes), len(tt.wantTexts), nodes)
			}
			for i := range nodes {
				leaf := textLeaf(t, nodes[i])
				if leaf.Text != tt.wantTexts[i] {
					t.Errorf("node %d text = %q, want %q", i, leaf.Text, tt.wantTexts[i])
				}
				if got := marks(t, leaf); got != tt.wantMarks[i] {
					t.Errorf("node %d marks = %q, want %q", i, got, tt.wantMarks[i])
				}
			}
		})
	}
}

func TestParseInlineLinks(t *testing.T) {
	nodes := parseInline("see [docs](https://example.com/docs) here")
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3: %#v", len(nodes), nodes)
	}
	if leaf := textLeaf(t, nodes[0]); leaf.Text != "see " {
		t.Errorf("leading text = %q", leaf.Text)
	}
	link, ok := nodes[1].(*content.Element)
	if !ok || link.Type != content.TypeLink {
		t.Fatalf("expected link element, got %#v", nodes[1])
	}
	if link.URL != "https://example.com/docs" {
		t.Errorf("url = %q", link.URL)
	}
	if got := content.PlainText(link); got != "docs" {
		t.Errorf("link text = %q", got)
	}
	if leaf := textLeaf(t, nodes[2]); leaf.Text != " here" {
		t.Errorf("trailing text = %q", leaf.Text)
	}
}

func TestParseInlineLinkNotDetectedInsideMarkedText(t *testing.T) {
	// Link syntax inside a code span stays literal.
	nodes := parseInline("`[x](y)`")
	leaf := textLeaf(t, nodes[0])
	if leaf.Text != "[x](y)" || !leaf.Code {
		t.Errorf("leaf = %#v", leaf)
	}
}

func TestParseInlineEmptyLine(t *testing.T) {
	nodes := parseInline("")
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	if leaf := textLeaf(t, nodes[0]); leaf.Text != "" {
		t.Errorf("leaf = %#v", leaf)
	}
}
