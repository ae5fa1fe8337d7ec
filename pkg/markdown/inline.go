package markdown

import (
	"regexp"

	"collab-docs-be/pkg/content"
)

// Inline parsing splits a raw line into text leaves carrying marks.
// Each mark pass only ever splits still-unmarked fragments, so marks
// are mutually exclusive within one parse: **bold with *italic***
// stays a bold run, it does not compose. Links are detected last,
// inside unmarked fragments only.

type markKind int

const (
	markNone markKind = iota
	markCode
	markBold
	markItalic
	markStrikethrough
)

type inlineSpan struct {
	text string
	mark markKind
}

var (
	codeRe   = regexp.MustCompile("`([^`]+)`")
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
	strikeRe = regexp.MustCompile(`~~([^~]+)~~`)
	linkRe   = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)
)

var markPasses = []struct {
	re   *regexp.Regexp
	mark markKind
}{
	{codeRe, markCode},
	{boldRe, markBold},
	{italicRe, markItalic},
	{strikeRe, markStrikethrough},
}

// splitSpan cuts one unmarked span on the delimiter regex. The
// captured groups become marked spans, everything between stays
// unmarked.
func splitSpan(span inlineSpan, re *regexp.Regexp, mark markKind) []inlineSpan {
	matches := re.FindAllStringSubmatchIndex(span.text, -1)
	if len(matches) == 0 {
		return []inlineSpan{span}
	}

	var out []inlineSpan
	prev := 0
	for _, m := range matches {
		if m[0] > prev {
			out = append(out, inlineSpan{text: span.text[prev:m[0]], mark: markNone})
		}
		out = append(out, inlineSpan{text: span.text[m[2]:m[3]], mark: mark})
		prev = m[1]
	}
	if prev < len(span.text) {
		out = append(out, inlineSpan{text: span.text[prev:], mark: markNone})
	}
	return out
}

func applyMarkPass(spans []inlineSpan, re *regexp.Regexp, mark markKind) []inlineSpan {
	var out []inlineSpan
	for _, span := range spans {
		if span.mark != markNone {
			out = append(out, span)
			continue
		}
		out = append(out, splitSpan(span, re, mark)...)
	}
	return out
}

func leafFor(span inlineSpan) *content.Text {
	leaf := content.NewText(span.text)
	switch span.mark {
	case markCode:
		leaf.Code = true
	case markBold:
		leaf.Bold = true
	case markItalic:
		leaf.Italic = true
	case markStrikethrough:
		leaf.Strikethrough = true
	}
	return leaf
}

// linkNodes splits an unmarked fragment around [text](url) occurrences.
func linkNodes(text string) []content.Node {
	matches := linkRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []content.Node{content.NewText(text)}
	}

	var out []content.Node
	prev := 0
	for _, m := range matches {
		if m[0] > prev {
			out = append(out, content.NewText(text[prev:m[0]]))
		}
		label := text[m[2]:m[3]]
		url := text[m[4]:m[5]]
		out = append(out, content.NewLink(url, label))
		prev = m[1]
	}
	if prev < len(text) {
		out = append(out, content.NewText(text[prev:]))
	}
	return out
}

// parseInline converts one line's raw text into inline nodes.
func parseInline(text string) []content.Node {
	spans := []inlineSpan{{text: text, mark: markNone}}
	for _, pass := range markPasses {
		spans = applyMarkPass(spans, pass.re, pass.mark)
	}

	var out []content.Node
	for _, span := range spans {
		if span.text == "" {
			continue
		}
		if span.mark == markNone {
			out = append(out, linkNodes(span.text)...)
			continue
		}
		out = append(out, leafFor(span))
	}
	if len(out) == 0 {
		out = []content.Node{content.NewText("")}
	}
	return out
}
