package markdown

import (
	"regexp"
	"strings"

	"collab-docs-be/pkg/content"
)

// Parse converts Markdown text into block-level content nodes. It is
// best-effort by design: malformed input degrades to paragraphs, it
// never fails. The result is block-level only; callers wrap the nodes
// into pages themselves.
func Parse(input string) []content.Node {
	lines := strings.Split(input, "\n")

	var nodes []content.Node
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++

		case headingRe.MatchString(line):
			m := headingRe.FindStringSubmatch(line)
			level := len(m[1])
			nodes = append(nodes, content.NewElement(content.HeadingType(level), parseInline(m[2])...))
			i++

		case strings.HasPrefix(line, "> "):
			nodes = append(nodes, content.NewElement(content.TypeBlockQuote, parseInline(line[2:])...))
			i++

		case trimmed == "---" || trimmed == "***" || trimmed == "___":
			// No horizontal-rule element exists in the tree grammar;
			// the marker is kept as literal paragraph text.
			nodes = append(nodes, content.NewParagraph(content.NewText("---")))
			i++

		case strings.HasPrefix(trimmed, "```"):
			node, next := parseCodeFence(lines, i)
			nodes = append(nodes, node)
			i = next

		case strings.HasPrefix(trimmed, "|"):
			node, next := parseTable(lines, i)
			nodes = append(nodes, node)
			i = next

		case bulletRe.MatchString(line):
			node, next := parseList(lines, i, bulletRe, content.TypeBulletedList)
			nodes = append(nodes, node)
			i = next

		case numberRe.MatchString(line):
			node, next := parseList(lines, i, numberRe, content.TypeNumberedList)
			nodes = append(nodes, node)
			i = next

		default:
			nodes = append(nodes, content.NewParagraph(parseInline(line)...))
			i++
		}
	}

	if len(nodes) == 0 {
		nodes = append(nodes, content.DefaultParagraph())
	}
	return nodes
}

var (
	headingRe = regexp.MustCompile(`^(#{1,6}) (.*)$`)
	bulletRe  = regexp.MustCompile(`^[-*]\s+(.*)$`)
	numberRe  = regexp.MustCompile(`^\d+\.\s+(.*)$`)
)

// parseCodeFence consumes lines until a closing fence or end of input.
// The whole block becomes one paragraph with a single code leaf; each
// interior line keeps its trailing newline.
func parseCodeFence(lines []string, start int) (content.Node, int) {
	var sb strings.Builder
	i := start + 1
	for i < len(lines) {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
			i++
			break
		}
		sb.WriteString(lines[i])
		sb.WriteString("\n")
		i++
	}
	leaf := content.NewText(sb.String())
	leaf.Code = true
	return content.NewParagraph(leaf), i
}

func splitTableCells(line string) []string {
	cells := strings.Split(line, "|")
	// A leading/trailing pipe produces empty edge fragments.
	if len(cells) > 0 && strings.TrimSpace(cells[0]) == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func tableRow(cells []string) *content.Element {
	row := content.NewElement(content.TypeTableRow)
	for _, cell := range cells {
		row.Children = append(row.Children, content.NewElement(content.TypeTableCell, parseInline(cell)...))
	}
	return row
}

// parseTable reads the header row, skips an optional separator line,
// then consumes pipe-prefixed body rows.
func parseTable(lines []string, start int) (content.Node, int) {
	table := content.NewElement(content.TypeTable)
	table.Children = append(table.Children, tableRow(splitTableCells(lines[start])))

	i := start + 1
	if i < len(lines) {
		next := strings.TrimSpace(lines[i])
		if strings.HasPrefix(next, "|") && strings.Contains(next, "-") {
			i++
		}
	}
	for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
		table.Children = append(table.Children, tableRow(splitTableCells(lines[i])))
		i++
	}
	return table, i
}

// parseList groups consecutive marker-matching lines into one list.
func parseList(lines []string, start int, marker *regexp.Regexp, listType content.ElementType) (content.Node, int) {
	list := content.NewElement(listType)
	i := start
	for i < len(lines) {
		m := marker.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		list.Children = append(list.Children, content.NewElement(content.TypeListItem, parseInline(m[1])...))
		i++
	}
	return list, i
}
