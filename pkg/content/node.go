package content

import "strings"

// ElementType identifies a block or inline element variant.
type ElementType string

const (
	TypePage         ElementType = "page"
	TypeParagraph    ElementType = "paragraph"
	TypeHeadingOne   ElementType = "heading-one"
	TypeHeadingTwo   ElementType = "heading-two"
	TypeHeadingThree ElementType = "heading-three"
	TypeHeadingFour  ElementType = "heading-four"
	TypeHeadingFive  ElementType = "heading-five"
	TypeHeadingSix   ElementType = "heading-six"
	TypeBlockQuote   ElementType = "block-quote"
	TypeBulletedList ElementType = "bulleted-list"
	TypeNumberedList ElementType = "numbered-list"
	TypeListItem     ElementType = "list-item"
	TypeImage        ElementType = "image"
	TypeVideo        ElementType = "video"
	TypeLink         ElementType = "link"
	TypeTable        ElementType = "table"
	TypeTableRow     ElementType = "table-row"
	TypeTableCell    ElementType = "table-cell"
)

// Node is the content tree sum type. The only implementations are
// *Element and *Text; Text is always a leaf.
type Node interface {
	node()
	writeText(sb *strings.Builder)
}

// Element is a non-leaf node carrying a type tag and children.
type Element struct {
	Type     ElementType
	Align    string // "", "left", "center", "right", "justify"
	URL      string // link / image / video
	Children []Node
}

// Text is a leaf node carrying a string and its marks.
type Text struct {
	Text            string
	Bold            bool
	Italic          bool
	Underline       bool
	Code            bool
	Strikethrough   bool
	Color           string
	BackgroundColor string
}

func (e *Element) node() {}
func (t *Text) node()    {}

func (e *Element) writeText(sb *strings.Builder) {
	for _, child := range e.Children {
		child.writeText(sb)
	}
}

func (t *Text) writeText(sb *strings.Builder) {
	sb.WriteString(t.Text)
}

// PlainText concatenates every text leaf under n, depth-first,
// without separators.
func PlainText(n Node) string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

// PlainTextAll joins the plain text of top-level nodes with newlines.
func PlainTextAll(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = PlainText(n)
	}
	return strings.Join(parts, "\n")
}

// IsVoidType reports whether the element type is structurally atomic.
// Void elements carry exactly one empty text leaf and are never editable.
func IsVoidType(t ElementType) bool {
	return t == TypeImage || t == TypeVideo
}

// IsListType reports whether the element type is a list container.
func IsListType(t ElementType) bool {
	return t == TypeBulletedList || t == TypeNumberedList
}

// NewText builds a plain text leaf.
func NewText(s string) *Text {
	return &Text{Text: s}
}

// NewElement builds an element with the given children.
func NewElement(t ElementType, children ...Node) *Element {
	return &Element{Type: t, Children: children}
}

// NewParagraph builds a paragraph around the given inline nodes.
// A paragraph with no children gets a single empty text leaf.
func NewParagraph(children ...Node) *Element {
	if len(children) == 0 {
		children = []Node{NewText("")}
	}
	return &Element{Type: TypeParagraph, Children: children}
}

// DefaultParagraph is the placeholder inserted wherever a container
// would otherwise be left empty.
func DefaultParagraph() *Element {
	return NewParagraph()
}

// NewPage builds a page container. A page never starts empty.
func NewPage(children ...Node) *Element {
	if len(children) == 0 {
		children = []Node{DefaultParagraph()}
	}
	return &Element{Type: TypePage, Children: children}
}

// DefaultPage is the tree of a brand new document: one page, one
// empty paragraph.
func DefaultPage() *Element {
	return NewPage()
}

// NewVoid builds an image or video element with its structural
// placeholder text child.
func NewVoid(t ElementType, url string) *Element {
	return &Element{Type: t, URL: url, Children: []Node{NewText("")}}
}

// NewLink wraps a single text child in a link element.
func NewLink(url, text string) *Element {
	return &Element{Type: TypeLink, URL: url, Children: []Node{NewText(text)}}
}

// Clone deep-copies a node.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Text:
		c := *v
		return &c
	case *Element:
		c := Element{Type: v.Type, Align: v.Align, URL: v.URL}
		if v.Children != nil {
			c.Children = CloneAll(v.Children)
		}
		return &c
	}
	return nil
}

// CloneAll deep-copies a node slice.
func CloneAll(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

// HeadingType returns the element type for a heading level 1-6,
// falling back to paragraph for out-of-range levels.
func HeadingType(level int) ElementType {
	switch level {
	case 1:
		return TypeHeadingOne
	case 2:
		return TypeHeadingTwo
	case 3:
		return TypeHeadingThree
	case 4:
		return TypeHeadingFour
	case 5:
		return TypeHeadingFive
	case 6:
		return TypeHeadingSix
	}
	return TypeParagraph
}
