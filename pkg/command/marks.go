package command

import (
	"collab-docs-be/pkg/content"
)

// Mark names a toggleable boolean text attribute. Color and background
// color are value marks and use Apply* instead of toggling.
type Mark string

const (
	MarkBold          Mark = "bold"
	MarkItalic        Mark = "italic"
	MarkUnderline     Mark = "underline"
	MarkCode          Mark = "code"
	MarkStrikethrough Mark = "strikethrough"
)

func markSet(leaf *content.Text, m Mark) bool {
	switch m {
	case MarkBold:
		return leaf.Bold
	case MarkItalic:
		return leaf.Italic
	case MarkUnderline:
		return leaf.Underline
	case MarkCode:
		return leaf.Code
	case MarkStrikethrough:
		return leaf.Strikethrough
	}
	return false
}

func setMark(leaf *content.Text, m Mark, on bool) {
	switch m {
	case MarkBold:
		leaf.Bold = on
	case MarkItalic:
		leaf.Italic = on
	case MarkUnderline:
		leaf.Underline = on
	case MarkCode:
		leaf.Code = on
	case MarkStrikethrough:
		leaf.Strikethrough = on
	}
}

// IsMarkActive reports whether every text leaf the selection touches
// carries the mark. An empty selection set is never active.
func IsMarkActive(root []content.Node, r Range, m Mark) bool {
	refs := leavesInRange(root, r)
	if len(refs) == 0 {
		return false
	}
	for _, ref := range refs {
		if !markSet(ref.leaf, m) {
			return false
		}
	}
	return true
}

// ToggleMark sets the mark on the selected text if any touched leaf
// lacks it, otherwise removes it. Leaves partially covered by the
// selection are split so unselected text keeps its marks.
func ToggleMark(root []content.Node, r Range, m Mark) {
	on := !IsMarkActive(root, r, m)
	applyToSelection(root, r, func(leaf *content.Text) {
		setMark(leaf, m, on)
	})
}

// ApplyColor sets the text color on the selected text. An empty value
// clears it.
func ApplyColor(root []content.Node, r Range, color string) {
	applyToSelection(root, r, func(leaf *content.Text) {
		leaf.Color = color
	})
}

// ApplyBackgroundColor sets the highlight color on the selected text.
func ApplyBackgroundColor(root []content.Node, r Range, color string) {
	applyToSelection(root, r, func(leaf *content.Text) {
		leaf.BackgroundColor = color
	})
}

// applyToSelection runs fn over the covered segment of every touched
// leaf, splitting partially covered leaves first. Refs are processed
// in reverse document order so earlier indices stay valid while
// siblings are inserted.
func applyToSelection(root []content.Node, r Range, fn func(*content.Text)) {
	refs := leavesInRange(root, r)
	for i := len(refs) - 1; i >= 0; i-- {
		ref := refs[i]
		if ref.coversWholeLeaf() || ref.parent == nil {
			fn(ref.leaf)
			continue
		}
		splitAndApply(ref, fn)
	}
}

// splitAndApply cuts the leaf into up to three parts and applies fn to
// the middle (selected) one.
func splitAndApply(ref leafRef, fn func(*content.Text)) {
	orig := ref.leaf
	var parts []content.Node

	if ref.segStart > 0 {
		before := *orig
		before.Text = orig.Text[:ref.segStart]
		parts = append(parts, &before)
	}

	selected := *orig
	selected.Text = orig.Text[ref.segStart:ref.segEnd]
	fn(&selected)
	parts = append(parts, &selected)

	if ref.segEnd < len(orig.Text) {
		after := *orig
		after.Text = orig.Text[ref.segEnd:]
		parts = append(parts, &after)
	}

	children := ref.parent.Children
	replaced := make([]content.Node, 0, len(children)+len(parts)-1)
	replaced = append(replaced, children[:ref.index]...)
	replaced = append(replaced, parts...)
	replaced = append(replaced, children[ref.index+1:]...)
	ref.parent.Children = replaced
}
