// Package format turns raw bot message text into display blocks.
//
// The responder emits structured plain text: emoji-marked section headers,
// box-drawing rules, numbered and bulleted items, and **bold** spans. Format
// classifies each line into one block so the view can style them without ever
// parsing text itself. It is pure and total: no input fails.
package format

import (
	"fmt"
	"strings"
)

// Kind classifies a display block.
type Kind int

const (
	// Paragraph is any line with no more specific classification.
	Paragraph Kind = iota
	// Header is a line opening with one of the section marker glyphs.
	Header
	// ListItem is a numbered ("1.") or bulleted ("•") line.
	ListItem
	// Separator is a horizontal rule line; it carries no text.
	Separator
	// Spacer is a blank line rendered as fixed-height space.
	Spacer
)

// Span is a run of text within a block, optionally emphasized.
type Span struct {
	Text string
	Bold bool
}

// Block is one renderable unit derived from a single line of message text.
// Key is stable for a given message and exists only as a rendering-list
// identity hint.
type Block struct {
	Kind  Kind
	Spans []Span
	Key   string
}

// Text returns the block's text with emphasis markers already removed.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Section marker glyphs the responder uses to open headers.
var headerMarkers = []string{"🍽️", "📋", "📊", "📍", "🕐"}

// Format splits text into lines and classifies each one.
// Classification is first-match: separator, header, list item, blank,
// then paragraph. Format("") yields a single spacer.
func Format(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))

	for i, line := range lines {
		b := classify(line)
		b.Key = blockKey(i, line)
		blocks = append(blocks, b)
	}
	return blocks
}

func classify(line string) Block {
	if strings.Contains(line, "──") || strings.Contains(line, "━━") {
		return Block{Kind: Separator}
	}

	trimmed := strings.TrimSpace(line)
	for _, marker := range headerMarkers {
		if strings.HasPrefix(trimmed, marker) {
			// Header text is bold by block style; strip inline markup
			// so delimiters never show.
			return Block{Kind: Header, Spans: []Span{{Text: plain(trimmed)}}}
		}
	}

	if isListItem(trimmed) {
		return Block{Kind: ListItem, Spans: parseSpans(trimmed)}
	}

	if trimmed == "" {
		return Block{Kind: Spacer}
	}

	return Block{Kind: Paragraph, Spans: parseSpans(line)}
}

// isListItem reports whether a trimmed line starts with "<digits>." or a
// bullet glyph.
func isListItem(trimmed string) bool {
	if strings.HasPrefix(trimmed, "•") {
		return true
	}
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	return i > 0 && i < len(trimmed) && trimmed[i] == '.'
}

// parseSpans converts **bold** markup into emphasized spans. Matching is
// non-recursive and non-greedy: each opening ** pairs with the next one.
// Unpaired delimiters are left as literal characters.
func parseSpans(s string) []Span {
	var spans []Span
	for {
		open := strings.Index(s, "**")
		if open < 0 {
			break
		}
		end := strings.Index(s[open+2:], "**")
		if end < 0 {
			break
		}
		if open > 0 {
			spans = append(spans, Span{Text: s[:open]})
		}
		spans = append(spans, Span{Text: s[open+2 : open+2+end], Bold: true})
		s = s[open+2+end+2:]
	}
	if s != "" || len(spans) == 0 {
		spans = append(spans, Span{Text: s})
	}
	return spans
}

// plain returns s with paired emphasis delimiters removed.
func plain(s string) string {
	var sb strings.Builder
	for _, sp := range parseSpans(s) {
		sb.WriteString(sp.Text)
	}
	return sb.String()
}

// blockKey derives a stable identity from the line position and a short
// text prefix.
func blockKey(i int, line string) string {
	r := []rune(line)
	if len(r) > 8 {
		r = r[:8]
	}
	return fmt.Sprintf("%d:%s", i, string(r))
}
