package pagination

import (
	"sort"
	"testing"

	"collab-docs-be/pkg/content"
)

func para(text string) *content.Element {
	return content.NewParagraph(content.NewText(text))
}

func mustPage(t *testing.T, n content.Node) *content.Element {
	t.Helper()
	page, ok := n.(*content.Element)
	if !ok || page.Type != content.TypePage {
		t.Fatalf("expected page, got %#v", n)
	}
	return page
}

// leafMultiset flattens every text leaf (value plus marks) for the
// no-content-loss property.
func leafMultiset(nodes []content.Node) []string {
	var out []string
	var walk func(n content.Node)
	walk = func(n content.Node) {
		switch v := n.(type) {
		case *content.Text:
			key := v.Text
			if v.Bold {
				key += "|b"
			}
			if v.Italic {
				key += "|i"
			}
			if v.Code {
				key += "|c"
			}
			out = append(out, key)
		case *content.Element:
			for _, c := range v.Children {
				walk(c)
			}
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	sort.Strings(out)
	return out
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNormalizeEmptyRoot(t *testing.T) {
	out := Normalize(nil)
	if len(out) != 1 {
		t.Fatalf("got %d nodes, want 1 page", len(out))
	}
	page := mustPage(t, out[0])
	if len(page.Children) != 1 {
		t.Errorf("default page must hold the default paragraph")
	}
}

func TestNormalizeWrapsStrayBlocks(t *testing.T) {
	stray1 := para("a")
	stray2 := para("b")
	out := Normalize([]content.Node{stray1, stray2, content.NewPage(para("c"))})

	if len(out) != 2 {
		t.Fatalf("got %d top-level nodes, want 2 pages", len(out))
	}
	wrapped := mustPage(t, out[0])
	if len(wrapped.Children) != 2 || wrapped.Children[0] != stray1 || wrapped.Children[1] != stray2 {
		t.Errorf("contiguous strays must share one page: %#v", wrapped.Children)
	}
	mustPage(t, out[1])
}

func TestNormalizeFillsEmptyPage(t *testing.T) {
	empty := &content.Element{Type: content.TypePage}
	out := Normalize([]content.Node{empty})
	page := mustPage(t, out[0])
	if len(page.Children) != 1 {
		t.Fatalf("empty page must receive a default paragraph")
	}
	child := page.Children[0].(*content.Element)
	if child.Type != content.TypeParagraph || content.PlainText(child) != "" {
		t.Errorf("filler = %#v", child)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	input := []content.Node{
		para("stray"),
		&content.Element{Type: content.TypePage},
		content.NewPage(para("x")),
	}
	once := Normalize(input)
	twice := Normalize(once)

	a, _ := content.MarshalNodes(once)
	b, _ := content.MarshalNodes(twice)
	if string(a) != string(b) {
		t.Errorf("normalization is not idempotent:\n%s\n%s", a, b)
	}
}

func TestReflowLeavesFittingContentAlone(t *testing.T) {
	p1 := para("fits")
	doc := []content.Node{content.NewPage(p1)}

	m := NewMapMeasurer()
	m.Set(p1, 200)

	out, moved := NewEngine(m).Reflow(doc)
	if moved {
		t.Error("nothing should move when content fits")
	}
	if len(out) != 1 {
		t.Errorf("page count = %d, want 1", len(out))
	}
}

func TestReflowMovesOverflowToNewPage(t *testing.T) {
	a := para("a")
	b := para("b")
	c := para("c")
	doc := []content.Node{content.NewPage(a, b, c)}

	m := NewMapMeasurer()
	m.Set(a, 500)
	m.Set(b, 500) // bottom at 1000 > 931: b starts the overflow set
	m.Set(c, 100)

	out, moved := NewEngine(m).Reflow(doc)
	if !moved {
		t.Fatal("expected movement")
	}
	if len(out) != 2 {
		t.Fatalf("page count = %d, want 2", len(out))
	}
	first := mustPage(t, out[0])
	if len(first.Children) != 1 || first.Children[0] != a {
		t.Errorf("first page children = %#v", first.Children)
	}
	second := mustPage(t, out[1])
	if len(second.Children) != 2 || second.Children[0] != b || second.Children[1] != c {
		t.Errorf("overflow must keep order on the next page: %#v", second.Children)
	}
}

func TestReflowPrependsOverflowBeforeExistingContent(t *testing.T) {
	a := para("a")
	b := para("b")
	existing := para("existing")
	doc := []content.Node{
		content.NewPage(a, b),
		content.NewPage(existing),
	}

	m := NewMapMeasurer()
	m.Set(a, 900)
	m.Set(b, 100)
	m.Set(existing, 50)

	out, _ := NewEngine(m).Reflow(doc)
	second := mustPage(t, out[1])
	if len(second.Children) != 2 || second.Children[0] != b || second.Children[1] != existing {
		t.Errorf("overflow must precede existing content: %#v", second.Children)
	}
}

// Spec'd interaction: an oversized single child moves to a fresh page
// and the vacated page gets the default paragraph filler.
func TestReflowSingleOversizedChildCreatesPageAndFiller(t *testing.T) {
	big := para("huge")
	doc := []content.Node{content.NewPage(big)}

	m := NewMapMeasurer()
	m.Set(big, ContentHeight+50)

	out, moved := NewEngine(m).Reflow(doc)
	if !moved {
		t.Fatal("expected movement")
	}
	if len(out) < 2 {
		t.Fatalf("page count = %d, want at least 2", len(out))
	}

	first := mustPage(t, out[0])
	if len(first.Children) != 1 {
		t.Fatalf("vacated page children = %d, want 1 filler", len(first.Children))
	}
	filler := first.Children[0].(*content.Element)
	if filler.Type != content.TypeParagraph || content.PlainText(filler) != "" {
		t.Errorf("filler = %#v", filler)
	}

	last := mustPage(t, out[len(out)-1])
	found := false
	for _, child := range last.Children {
		if child == big {
			found = true
		}
	}
	if !found {
		t.Error("oversized child must end up on the trailing page")
	}
}

func TestReflowCascadesAcrossPages(t *testing.T) {
	a := para("a")
	b := para("b")
	c := para("c")
	d := para("d")
	doc := []content.Node{
		content.NewPage(a, b),
		content.NewPage(c, d),
	}

	m := NewMapMeasurer()
	m.Set(a, 800)
	m.Set(b, 800)
	m.Set(c, 800)
	m.Set(d, 800)

	out, _ := NewEngine(m).Reflow(doc)

	// Every page fits now, one 800-unit block per page.
	for i, n := range out {
		page := mustPage(t, n)
		if len(page.Children) != 1 {
			t.Errorf("page %d children = %d, want 1", i, len(page.Children))
		}
	}
	if len(out) != 4 {
		t.Errorf("page count = %d, want 4", len(out))
	}
}

func TestReflowEpsilonPreventsJitter(t *testing.T) {
	a := para("a")
	doc := []content.Node{content.NewPage(a)}

	m := NewMapMeasurer()
	m.Set(a, ContentHeight+0.3) // within epsilon

	_, moved := NewEngine(m).Reflow(doc)
	if moved {
		t.Error("sub-epsilon overflow must not trigger movement")
	}
}

func TestReflowSkipsUnmeasuredPages(t *testing.T) {
	a := para("a")
	b := para("b")
	doc := []content.Node{content.NewPage(a, b)}

	m := NewMapMeasurer()
	m.Set(a, 2000)
	// b intentionally unmeasured: layout has not settled.

	out, moved := NewEngine(m).Reflow(doc)
	if moved {
		t.Error("pages with unmeasured children must be skipped")
	}
	if len(out) != 1 {
		t.Errorf("page count = %d, want 1", len(out))
	}
}

func TestReflowNeverLosesContent(t *testing.T) {
	blocks := []*content.Element{
		para("one"), para("two"), para("three"), para("four"), para("five"),
	}
	nodes := make([]content.Node, 0, len(blocks))
	m := NewMapMeasurer()
	for i, b := range blocks {
		nodes = append(nodes, b)
		m.Set(b, 300+float64(i)*100)
	}
	doc := []content.Node{&content.Element{Type: content.TypePage, Children: nodes}}

	before := leafMultiset(doc)
	out, _ := NewEngine(m).Reflow(doc)
	after := leafMultiset(out)

	// The filler paragraph normalization may add contributes one empty
	// leaf at most; content leaves must all survive untouched.
	var afterNonEmpty []string
	for _, s := range after {
		if s != "" {
			afterNonEmpty = append(afterNonEmpty, s)
		}
	}
	var beforeNonEmpty []string
	for _, s := range before {
		if s != "" {
			beforeNonEmpty = append(beforeNonEmpty, s)
		}
	}
	if !sameMultiset(beforeNonEmpty, afterNonEmpty) {
		t.Errorf("content changed across reflow:\nbefore %v\nafter  %v", beforeNonEmpty, afterNonEmpty)
	}
}

func TestReflowConvergenceInvariant(t *testing.T) {
	var nodes []content.Node
	m := NewMapMeasurer()
	for _, h := range []float64{400, 400, 400, 400, 400, 400} {
		p := para("x")
		nodes = append(nodes, p)
		m.Set(p, h)
	}
	doc := []content.Node{&content.Element{Type: content.TypePage, Children: nodes}}

	engine := NewEngine(m)
	out, _ := engine.Reflow(doc)
	// Run again to let any remaining cascade settle.
	out, _ = engine.Reflow(out)

	for i, n := range out {
		page := mustPage(t, n)
		total := 0.0
		for _, child := range page.Children {
			h, ok := m.Height(child)
			if !ok {
				continue // filler paragraphs are unmeasured
			}
			total += h
		}
		if total > ContentHeight+heightEpsilon && len(page.Children) != 1 {
			t.Errorf("page %d overflows after convergence: height %.1f, %d children",
				i, total, len(page.Children))
		}
	}
}
