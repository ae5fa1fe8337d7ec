package content

import (
	"encoding/json"
	"fmt"
)

// The wire format follows the persisted-content contract: a document is
// a JSON array of element trees whose first level is always "page"
// nodes. Text leaves serialize as {"text": ...} plus whichever marks
// are set; elements as {"type": ..., "children": [...]} plus set attrs.

type elementJSON struct {
	Type     ElementType       `json:"type"`
	Align    string            `json:"align,omitempty"`
	URL      string            `json:"url,omitempty"`
	Children []json.RawMessage `json:"children"`
}

type textJSON struct {
	Text            string `json:"text"`
	Bold            bool   `json:"bold,omitempty"`
	Italic          bool   `json:"italic,omitempty"`
	Underline       bool   `json:"underline,omitempty"`
	Code            bool   `json:"code,omitempty"`
	Strikethrough   bool   `json:"strikethrough,omitempty"`
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e *Element) MarshalJSON() ([]byte, error) {
	children := make([]json.RawMessage, len(e.Children))
	for i, c := range e.Children {
		raw, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		children[i] = raw
	}
	return json.Marshal(elementJSON{
		Type:     e.Type,
		Align:    e.Align,
		URL:      e.URL,
		Children: children,
	})
}

// MarshalJSON implements json.Marshaler.
func (t *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(textJSON{
		Text:            t.Text,
		Bold:            t.Bold,
		Italic:          t.Italic,
		Underline:       t.Underline,
		Code:            t.Code,
		Strikethrough:   t.Strikethrough,
		Color:           t.Color,
		BackgroundColor: t.BackgroundColor,
	})
}

// decodeNode distinguishes leaves from elements by the presence of the
// "type" tag: a text leaf never carries one.
func decodeNode(raw json.RawMessage) (Node, error) {
	var head struct {
		Type *ElementType `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}

	if head.Type == nil {
		var tj textJSON
		if err := json.Unmarshal(raw, &tj); err != nil {
			return nil, fmt.Errorf("decode text node: %w", err)
		}
		return &Text{
			Text:            tj.Text,
			Bold:            tj.Bold,
			Italic:          tj.Italic,
			Underline:       tj.Underline,
			Code:            tj.Code,
			Strikethrough:   tj.Strikethrough,
			Color:           tj.Color,
			BackgroundColor: tj.BackgroundColor,
		}, nil
	}

	var ej elementJSON
	if err := json.Unmarshal(raw, &ej); err != nil {
		return nil, fmt.Errorf("decode element node: %w", err)
	}
	children := make([]Node, 0, len(ej.Children))
	for _, rawChild := range ej.Children {
		child, err := decodeNode(rawChild)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &Element{
		Type:     ej.Type,
		Align:    ej.Align,
		URL:      ej.URL,
		Children: children,
	}, nil
}

// UnmarshalNodes parses a serialized document (JSON array of nodes).
func UnmarshalNodes(data []byte) ([]Node, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode node list: %w", err)
	}
	nodes := make([]Node, 0, len(raws))
	for _, raw := range raws {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// MarshalNodes serializes a document to its persisted form.
func MarshalNodes(nodes []Node) ([]byte, error) {
	if nodes == nil {
		nodes = []Node{}
	}
	return json.Marshal(nodes)
}
