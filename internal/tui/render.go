package tui

import (
	"strings"

	"github.com/speedybites/bitechat/internal/actions"
	"github.com/speedybites/bitechat/internal/format"
)

// renderCache memoizes formatted bot messages per width. Transcript
// messages are immutable, so entries never invalidate; a resize simply
// misses and refills.
type renderCache struct {
	entries map[cacheKey]string
}

type cacheKey struct {
	text  string
	width int
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[cacheKey]string)}
}

func (c *renderCache) render(text string, width int) string {
	key := cacheKey{text: text, width: width}
	if out, ok := c.entries[key]; ok {
		return out
	}
	out := renderBlocks(format.Format(text), width)
	c.entries[key] = out
	return out
}

// renderBlocks maps each display block onto its style. The separator is
// redrawn at the render width; the spacer is the block's fixed height.
func renderBlocks(blocks []format.Block, width int) string {
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case format.Separator:
			w := width
			if w < 1 {
				w = 1
			}
			lines = append(lines, blockSeparatorStyle.Render(strings.Repeat("─", w)))
		case format.Spacer:
			lines = append(lines, "")
		case format.Header:
			lines = append(lines, blockHeaderStyle.Render(b.Text()))
		case format.ListItem:
			lines = append(lines, blockListStyle.Render(renderSpans(b.Spans)))
		default:
			lines = append(lines, renderSpans(b.Spans))
		}
	}
	return strings.Join(lines, "\n")
}

func renderSpans(spans []format.Span) string {
	var sb strings.Builder
	for _, sp := range spans {
		if sp.Bold {
			sb.WriteString(blockBoldStyle.Render(sp.Text))
		} else {
			sb.WriteString(blockTextStyle.Render(sp.Text))
		}
	}
	return sb.String()
}

// symbolGlyph maps a quick action's symbol tag to its renderable glyph.
// The registry itself stays rendering-free.
func symbolGlyph(s actions.Symbol) string {
	switch s {
	case actions.SymbolMenu:
		return "🍽"
	case actions.SymbolClock:
		return "🕐"
	case actions.SymbolPin:
		return "📍"
	case actions.SymbolTruck:
		return "🛵"
	}
	return "•"
}
