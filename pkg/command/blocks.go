package command

import (
	"collab-docs-be/pkg/content"
)

// Property keys for IsBlockActive.
const (
	KeyType  = "type"
	KeyAlign = "align"
)

// IsBlockActive reports whether any element intersecting the selection
// has the given property value. key is KeyType or KeyAlign.
func IsBlockActive(root []content.Node, r Range, key, value string) bool {
	start, end := r.start(), r.end()
	found := false

	var walk func(nodes []content.Node, prefix []int)
	walk = func(nodes []content.Node, prefix []int) {
		for i, n := range nodes {
			if found {
				return
			}
			path := append(append([]int{}, prefix...), i)
			if pathCompare(path, start.Path) < 0 || pathCompare(path, end.Path) > 0 {
				continue
			}
			el, ok := n.(*content.Element)
			if !ok {
				continue
			}
			switch key {
			case KeyType:
				if string(el.Type) == value {
					found = true
					return
				}
			case KeyAlign:
				if el.Align == value {
					found = true
					return
				}
			}
			walk(el.Children, path)
		}
	}
	walk(root, nil)
	return found
}

// structural reports element types that never change type through
// block toggling (containers and voids keep their grammar).
func structural(t content.ElementType) bool {
	return t == content.TypePage || t == content.TypeTable || t == content.TypeTableRow ||
		t == content.TypeTableCell || content.IsVoidType(t)
}

// ToggleBlock switches the block type of the selected page children.
// Lists intersecting the selection are always unwrapped first, split
// so only the selected items leave their container. If format is a
// list type and was not active, the selected blocks become list items
// wrapped in a fresh container; if the format was already active the
// selection resets to paragraphs.
func ToggleBlock(root []content.Node, r Range, format content.ElementType) {
	active := IsBlockActive(root, r, KeyType, string(format))
	selected := unwrapLists(root, r)

	if content.IsListType(format) && !active {
		wrapSelectedInList(root, selected, format)
		return
	}

	target := format
	if active {
		target = content.TypeParagraph
	}
	for _, page := range pages(root) {
		for _, child := range page.Children {
			el, ok := child.(*content.Element)
			if !ok || !selected[child] || structural(el.Type) {
				continue
			}
			el.Type = target
		}
	}
}

// ToggleAlign sets the alignment on every block the selection overlaps,
// or clears it when that alignment is already active.
func ToggleAlign(root []content.Node, r Range, value string) {
	clear := IsBlockActive(root, r, KeyAlign, value)
	for _, idx := range blocksInRange(root, r) {
		page := root[idx.page].(*content.Element)
		el, ok := page.Children[idx.block].(*content.Element)
		if !ok {
			continue
		}
		if clear {
			el.Align = ""
		} else {
			el.Align = value
		}
	}
}

func pages(root []content.Node) []*content.Element {
	var out []*content.Element
	for _, n := range root {
		if page, ok := n.(*content.Element); ok && page.Type == content.TypePage {
			out = append(out, page)
		}
	}
	return out
}

// unwrapLists splits every list container the selection touches:
// untouched prefix/suffix items stay in containers of the original
// list type, selected items surface as page-level paragraphs. It
// returns the identity set of blocks the selection covers after the
// rewrite, which stays valid through further children rewrites.
func unwrapLists(root []content.Node, r Range) map[content.Node]bool {
	start, end := r.start(), r.end()
	selected := make(map[content.Node]bool)

	for p, n := range root {
		page, ok := n.(*content.Element)
		if !ok || page.Type != content.TypePage {
			continue
		}
		var out []content.Node
		for b, child := range page.Children {
			path := []int{p, b}
			inRange := pathCompare(path, start.Path) >= 0 && pathCompare(path, end.Path) <= 0

			el, isElement := child.(*content.Element)
			if !isElement || !content.IsListType(el.Type) || !inRange {
				out = append(out, child)
				if inRange {
					selected[child] = true
				}
				continue
			}

			var prefix, picked, suffix []content.Node
			for i, item := range el.Children {
				itemPath := []int{p, b, i}
				itemIn := pathCompare(itemPath, start.Path) >= 0 && pathCompare(itemPath, end.Path) <= 0
				itemEl, itemOk := item.(*content.Element)
				if itemIn && itemOk {
					para := &content.Element{Type: content.TypeParagraph, Children: itemEl.Children}
					picked = append(picked, para)
					selected[para] = true
					continue
				}
				if len(picked) == 0 {
					prefix = append(prefix, item)
				} else {
					suffix = append(suffix, item)
				}
			}
			if len(prefix) > 0 {
				out = append(out, &content.Element{Type: el.Type, Children: prefix})
			}
			out = append(out, picked...)
			if len(suffix) > 0 {
				out = append(out, &content.Element{Type: el.Type, Children: suffix})
			}
		}
		page.Children = out
	}
	return selected
}

// wrapSelectedInList turns each contiguous run of selected blocks into
// list items inside one new container of the given list type.
func wrapSelectedInList(root []content.Node, selected map[content.Node]bool, listType content.ElementType) {
	for _, page := range pages(root) {
		var out []content.Node
		var run []content.Node

		flush := func() {
			if len(run) == 0 {
				return
			}
			items := make([]content.Node, 0, len(run))
			for _, n := range run {
				el := n.(*content.Element)
				el.Type = content.TypeListItem
				items = append(items, el)
			}
			out = append(out, &content.Element{Type: listType, Children: items})
			run = nil
		}

		for _, child := range page.Children {
			el, ok := child.(*content.Element)
			if ok && selected[child] && !structural(el.Type) {
				run = append(run, child)
				continue
			}
			flush()
			out = append(out, child)
		}
		flush()
		page.Children = out
	}
}
