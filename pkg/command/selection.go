package command

import (
	"collab-docs-be/pkg/content"
)

// Point addresses a position in the document: an index path from the
// root node list down to a node, plus a character offset inside a text
// leaf. A path may stop at an element; the offset then applies to the
// whole subtree.
type Point struct {
	Path   []int
	Offset int
}

// Range is a selection between two points. Anchor and Focus may be in
// either document order.
type Range struct {
	Anchor Point
	Focus  Point
}

// Collapsed reports whether the range selects no content.
func (r Range) Collapsed() bool {
	if r.Anchor.Offset != r.Focus.Offset {
		return false
	}
	if len(r.Anchor.Path) != len(r.Focus.Path) {
		return false
	}
	for i := range r.Anchor.Path {
		if r.Anchor.Path[i] != r.Focus.Path[i] {
			return false
		}
	}
	return true
}

// start and end return the range's points in document order.
func (r Range) start() Point {
	if pointBefore(r.Focus, r.Anchor) {
		return r.Focus
	}
	return r.Anchor
}

func (r Range) end() Point {
	if pointBefore(r.Focus, r.Anchor) {
		return r.Anchor
	}
	return r.Focus
}

func pointBefore(a, b Point) bool {
	c := pathCompareFull(a.Path, b.Path)
	if c != 0 {
		return c < 0
	}
	return a.Offset < b.Offset
}

// pathCompareFull orders paths in document order; an ancestor sorts
// before its descendants.
func pathCompareFull(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// pathCompare treats a prefix relation as equal, which is what range
// containment needs: a bound addressing an element covers every leaf
// underneath it.
func pathCompare(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func samePath(a, b []int) bool {
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

// leafRef is one text leaf touched by a selection, with the covered
// character segment and enough parent context to split it in place.
type leafRef struct {
	leaf     *content.Text
	parent   *content.Element
	index    int // index within parent.Children
	path     []int
	segStart int
	segEnd   int
}

func (l leafRef) covered() bool {
	return l.segStart < l.segEnd || (l.segStart == l.segEnd && l.leaf.Text == "")
}

func (l leafRef) coversWholeLeaf() bool {
	return l.segStart == 0 && l.segEnd == len(l.leaf.Text)
}

// leavesInRange walks the tree and collects the text leaves the range
// touches, in document order. Leaves whose covered segment is empty
// (a boundary sitting exactly on their edge) are dropped, which is the
// unhung-selection adjustment.
func leavesInRange(root []content.Node, r Range) []leafRef {
	start, end := r.start(), r.end()
	var out []leafRef

	var walk func(nodes []content.Node, parent *content.Element, prefix []int)
	walk = func(nodes []content.Node, parent *content.Element, prefix []int) {
		for i, n := range nodes {
			path := append(append([]int{}, prefix...), i)
			if pathCompare(path, start.Path) < 0 || pathCompare(path, end.Path) > 0 {
				continue
			}
			switch v := n.(type) {
			case *content.Element:
				walk(v.Children, v, path)
			case *content.Text:
				segStart := 0
				segEnd := len(v.Text)
				if samePath(path, start.Path) {
					segStart = clamp(start.Offset, 0, len(v.Text))
				}
				if samePath(path, end.Path) {
					segEnd = clamp(end.Offset, 0, len(v.Text))
				}
				if segStart > segEnd {
					continue
				}
				ref := leafRef{leaf: v, parent: parent, index: i, path: path, segStart: segStart, segEnd: segEnd}
				if !ref.covered() {
					continue
				}
				out = append(out, ref)
			}
		}
	}
	walk(root, nil, nil)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// blockIndex identifies one block-level node: a direct child of a page.
type blockIndex struct {
	page  int
	block int
}

// blocksInRange returns the page children whose subtree intersects the
// range, in document order.
func blocksInRange(root []content.Node, r Range) []blockIndex {
	start, end := r.start(), r.end()
	var out []blockIndex
	for p, n := range root {
		page, ok := n.(*content.Element)
		if !ok || page.Type != content.TypePage {
			continue
		}
		for b := range page.Children {
			path := []int{p, b}
			if pathCompare(path, start.Path) < 0 || pathCompare(path, end.Path) > 0 {
				continue
			}
			out = append(out, blockIndex{page: p, block: b})
		}
	}
	return out
}
