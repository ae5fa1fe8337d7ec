// Package pagination keeps a document's top level as a sequence of
// fixed-size page containers and relocates overflowing content onto
// following pages. Geometry comes from an injected Measurer: the
// engine itself never touches a rendering surface, so the reflow
// algorithm runs the same against real client-reported boxes and
// scripted test fixtures.
package pagination

import (
	"collab-docs-be/pkg/content"
)

// Nominal page geometry in layout units (an A4 sheet at 96 dpi) with a
// uniform margin on all sides.
const (
	PageWidth  = 794.0
	PageHeight = 1123.0
	PageMargin = 96.0

	// ContentHeight is the page content-box height available to blocks.
	ContentHeight = PageHeight - 2*PageMargin

	// heightEpsilon absorbs sub-pixel rounding so a page off by a
	// fraction of a unit is not reflowed forever.
	heightEpsilon = 0.5

	// maxPasses bounds one reflow run. Overflow cascades forward one
	// page per pass, so a small cap settles the common case and a
	// later run picks up whatever geometry changed since.
	maxPasses = 3
)

// Measurer reports the rendered height of a page's top-level child.
// The boolean is false while the node has not been laid out yet; a
// page with any unmeasured child is skipped for the pass, because
// reflowing on stale geometry would move the wrong nodes.
type Measurer interface {
	Height(n content.Node) (float64, bool)
}

// MapMeasurer is a Measurer over a fixed node-to-height table. It
// backs tests and the repaginate API, where clients send measured
// element boxes alongside the serialized tree.
type MapMeasurer struct {
	heights map[content.Node]float64
}

func NewMapMeasurer() *MapMeasurer {
	return &MapMeasurer{heights: make(map[content.Node]float64)}
}

func (m *MapMeasurer) Set(n content.Node, h float64) {
	m.heights[n] = h
}

func (m *MapMeasurer) Height(n content.Node) (float64, bool) {
	h, ok := m.heights[n]
	return h, ok
}

// Engine runs layout-based repagination against one measurement source.
type Engine struct {
	measure Measurer
}

func NewEngine(m Measurer) *Engine {
	return &Engine{measure: m}
}

// Normalize enforces the structural invariants: the root is a non-empty
// sequence of pages, stray top-level blocks are wrapped into pages, and
// no page is left without children. It is idempotent and never touches
// geometry.
func Normalize(nodes []content.Node) []content.Node {
	if len(nodes) == 0 {
		return []content.Node{content.DefaultPage()}
	}

	var out []content.Node
	var strays []content.Node

	flushStrays := func() {
		if len(strays) == 0 {
			return
		}
		out = append(out, &content.Element{Type: content.TypePage, Children: strays})
		strays = nil
	}

	for _, n := range nodes {
		if page, ok := n.(*content.Element); ok && page.Type == content.TypePage {
			flushStrays()
			if len(page.Children) == 0 {
				page.Children = []content.Node{content.DefaultParagraph()}
			}
			out = append(out, page)
			continue
		}
		// Contiguous non-page siblings collapse into one new page.
		strays = append(strays, n)
	}
	flushStrays()
	return out
}

// Reflow runs up to maxPasses of overflow relocation and returns the
// normalized tree plus whether any node moved. Nodes are only ever
// moved between pages, never altered or dropped; a block taller than a
// whole page ends up alone on a page and stays there, since blocks are
// never split.
func (e *Engine) Reflow(nodes []content.Node) ([]content.Node, bool) {
	nodes = Normalize(nodes)
	movedAny := false

	for pass := 0; pass < maxPasses; pass++ {
		moved := e.pass(&nodes)
		if !moved {
			break
		}
		movedAny = true
		nodes = Normalize(nodes)
	}
	return nodes, movedAny
}

// pass walks every page once, pushing each page's overflow set onto
// the front of the following page. Pages appended during the pass are
// left for the next pass, otherwise an unfittable child would grow the
// document without ever yielding.
func (e *Engine) pass(nodes *[]content.Node) bool {
	moved := false
	startLen := len(*nodes)

	for p := 0; p < startLen && p < len(*nodes); p++ {
		page, ok := (*nodes)[p].(*content.Element)
		if !ok || page.Type != content.TypePage {
			continue
		}

		heights, settled := e.childHeights(page)
		if !settled {
			continue
		}

		total := 0.0
		for _, h := range heights {
			total += h
		}
		if total <= ContentHeight+heightEpsilon {
			continue
		}

		overflowStart := e.findOverflowStart(heights)
		if overflowStart < 0 {
			// No single child crosses the boundary on its own: move
			// the last child wholesale. Blocks are never split.
			overflowStart = len(page.Children) - 1
		}

		overflow := page.Children[overflowStart:]
		page.Children = page.Children[:overflowStart]

		next := e.ensureNextPage(nodes, p)
		next.Children = append(append([]content.Node{}, overflow...), next.Children...)
		moved = true
	}
	return moved
}

// childHeights measures every top-level child of the page. The second
// return is false if any child is unmeasured (layout not settled).
func (e *Engine) childHeights(page *content.Element) ([]float64, bool) {
	heights := make([]float64, len(page.Children))
	for i, child := range page.Children {
		h, ok := e.measure.Height(child)
		if !ok {
			return nil, false
		}
		heights[i] = h
	}
	return heights, true
}

// findOverflowStart returns the index of the first child whose bottom
// edge crosses the content box, or -1 when none does individually.
// Block layout stacks children, so bottoms are prefix sums.
func (e *Engine) findOverflowStart(heights []float64) int {
	bottom := 0.0
	for i, h := range heights {
		bottom += h
		if bottom > ContentHeight+heightEpsilon {
			return i
		}
	}
	return -1
}

// ensureNextPage returns the page after index p, creating an empty one
// when p is the last page.
func (e *Engine) ensureNextPage(nodes *[]content.Node, p int) *content.Element {
	for q := p + 1; q < len(*nodes); q++ {
		if page, ok := (*nodes)[q].(*content.Element); ok && page.Type == content.TypePage {
			return page
		}
	}
	next := &content.Element{Type: content.TypePage}
	*nodes = append(*nodes, next)
	return next
}
