package markdown

import (
	"fmt"
	"strings"

	"collab-docs-be/pkg/content"
)

// Render serializes a content tree back to Markdown. Page containers
// are transparent; their children render as top-level blocks.
func Render(nodes []content.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		renderNode(n, &sb, 0)
	}
	return sb.String()
}

func renderNode(n content.Node, sb *strings.Builder, depth int) {
	switch v := n.(type) {
	case *content.Text:
		renderText(v, sb)

	case *content.Element:
		switch v.Type {
		case content.TypePage:
			for _, child := range v.Children {
				renderNode(child, sb, depth)
			}

		case content.TypeHeadingOne, content.TypeHeadingTwo, content.TypeHeadingThree,
			content.TypeHeadingFour, content.TypeHeadingFive, content.TypeHeadingSix:
			sb.WriteString(strings.Repeat("#", headingLevel(v.Type)))
			sb.WriteString(" ")
			renderChildren(v, sb, depth)
			sb.WriteString("\n")

		case content.TypeParagraph:
			renderChildren(v, sb, depth)
			sb.WriteString("\n")

		case content.TypeBlockQuote:
			sb.WriteString("> ")
			renderChildren(v, sb, depth)
			sb.WriteString("\n")

		case content.TypeBulletedList, content.TypeNumberedList:
			renderList(v, sb, depth)

		case content.TypeListItem:
			// Loose list item outside a list container.
			renderChildren(v, sb, depth)

		case content.TypeLink:
			sb.WriteString("[")
			renderChildren(v, sb, depth)
			sb.WriteString(fmt.Sprintf("](%s)", v.URL))

		case content.TypeImage:
			sb.WriteString(fmt.Sprintf("![](%s)\n", v.URL))

		case content.TypeVideo:
			sb.WriteString(fmt.Sprintf("[video](%s)\n", v.URL))

		case content.TypeTable:
			renderTable(v, sb)

		default:
			renderChildren(v, sb, depth)
		}
	}
}

func renderChildren(e *content.Element, sb *strings.Builder, depth int) {
	for _, child := range e.Children {
		renderNode(child, sb, depth)
	}
}

func headingLevel(t content.ElementType) int {
	switch t {
	case content.TypeHeadingOne:
		return 1
	case content.TypeHeadingTwo:
		return 2
	case content.TypeHeadingThree:
		return 3
	case content.TypeHeadingFour:
		return 4
	case content.TypeHeadingFive:
		return 5
	case content.TypeHeadingSix:
		return 6
	}
	return 1
}

// renderText wraps the leaf in delimiters, code outermost. Underline
// has no native Markdown form, it falls back to the HTML tag.
func renderText(t *content.Text, sb *strings.Builder) {
	if t.Code {
		sb.WriteString("`")
	}
	if t.Bold {
		sb.WriteString("**")
	}
	if t.Italic {
		sb.WriteString("*")
	}
	if t.Underline {
		sb.WriteString("<u>")
	}
	if t.Strikethrough {
		sb.WriteString("~~")
	}

	sb.WriteString(t.Text)

	if t.Strikethrough {
		sb.WriteString("~~")
	}
	if t.Underline {
		sb.WriteString("</u>")
	}
	if t.Italic {
		sb.WriteString("*")
	}
	if t.Bold {
		sb.WriteString("**")
	}
	if t.Code {
		sb.WriteString("`")
	}
}

func renderList(list *content.Element, sb *strings.Builder, depth int) {
	index := 1
	for _, child := range list.Children {
		item, ok := child.(*content.Element)
		if !ok || item.Type != content.TypeListItem {
			continue
		}
		sb.WriteString(strings.Repeat("  ", depth))
		if list.Type == content.TypeNumberedList {
			sb.WriteString(fmt.Sprintf("%d. ", index))
			index++
		} else {
			sb.WriteString("- ")
		}
		for _, grand := range item.Children {
			if nested, ok := grand.(*content.Element); ok && content.IsListType(nested.Type) {
				sb.WriteString("\n")
				renderList(nested, sb, depth+1)
				continue
			}
			renderNode(grand, sb, depth)
		}
		sb.WriteString("\n")
	}
}

func renderTable(table *content.Element, sb *strings.Builder) {
	var rows [][]string
	maxCols := 0
	for _, child := range table.Children {
		row, ok := child.(*content.Element)
		if !ok || row.Type != content.TypeTableRow {
			continue
		}
		var cells []string
		for _, cellNode := range row.Children {
			var cellSb strings.Builder
			renderNode(cellNode, &cellSb, 0)
			// Newlines break Markdown tables.
			cells = append(cells, strings.ReplaceAll(strings.TrimSuffix(cellSb.String(), "\n"), "\n", " "))
		}
		rows = append(rows, cells)
		if len(cells) > maxCols {
			maxCols = len(cells)
		}
	}
	if len(rows) == 0 {
		return
	}

	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := 0; i < maxCols; i++ {
			if i < len(cells) {
				sb.WriteString(" " + cells[i] + " |")
			} else {
				sb.WriteString("  |")
			}
		}
		sb.WriteString("\n")
	}

	writeRow(rows[0])
	sb.WriteString("|")
	for i := 0; i < maxCols; i++ {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
}
