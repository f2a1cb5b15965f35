// Package actions holds the static quick-action registry. A quick action is a
// predefined shortcut that submits fixed text as if the user had typed it, and
// is hidden once its session flag is set.
package actions

// Symbol is an enumerated tag the view maps to a renderable glyph. The
// registry stays free of any rendering capability.
type Symbol int

const (
	SymbolMenu Symbol = iota
	SymbolClock
	SymbolPin
	SymbolTruck
)

// QuickAction is a fixed label/action pair tied to the session flag that
// controls its visibility.
type QuickAction struct {
	Label      string
	ActionText string
	Flag       string
	Symbol     Symbol
}

// registry order is display order.
var registry = []QuickAction{
	{Label: "View Menu", ActionText: "Show me the menu", Flag: "shown_menu", Symbol: SymbolMenu},
	{Label: "Opening Hours", ActionText: "What are your hours", Flag: "shown_hours", Symbol: SymbolClock},
	{Label: "Our Branches", ActionText: "Where are your branches", Flag: "shown_branches", Symbol: SymbolPin},
	{Label: "Delivery Info", ActionText: "Do you offer delivery", Flag: "shown_delivery", Symbol: SymbolTruck},
}

// All returns the full registry in display order. Callers must not mutate
// the returned slice.
func All() []QuickAction {
	return registry
}

// FlagFor returns the session flag for an exact action-text match.
// Action texts are unique by construction, so first match wins.
func FlagFor(actionText string) (string, bool) {
	for _, a := range registry {
		if a.ActionText == actionText {
			return a.Flag, true
		}
	}
	return "", false
}

// Visible filters the registry to actions whose flag is absent or false,
// preserving registry order. Flags outside the registry are inert here.
func Visible(flags map[string]bool) []QuickAction {
	out := make([]QuickAction, 0, len(registry))
	for _, a := range registry {
		if flags[a.Flag] {
			continue
		}
		out = append(out, a)
	}
	return out
}
