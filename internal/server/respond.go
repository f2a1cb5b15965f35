package server

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var greetings = []string{
	"Hi! 👋 Welcome to Speedy Bites! How can I help you today?",
	"Hello! Welcome to Speedy Bites! 🍽️ What would you like?",
	"Hey there! 👋 Welcome to Speedy Bites! What can I do for you?",
}

var farewells = []string{
	"Bye! Have a great day!",
	"See you soon!",
	"Thanks for visiting Speedy Bites!",
}

const fallbackAnswer = "Sorry, I didn't understand that. I can help with menu, opening hours, branches, or FAQs. 😊"

// Responder generates bot replies from the loaded restaurant data.
type Responder struct {
	data *Data
	// pick selects from a canned pool; replaceable in tests.
	pick func([]string) string
}

// NewResponder wraps data into a responder.
func NewResponder(data *Data) *Responder {
	return &Responder{
		data: data,
		pick: func(pool []string) string { return pool[rand.IntN(len(pool))] },
	}
}

// Respond returns the bot reply for one user message.
func (r *Responder) Respond(userMsg string) string {
	switch detectIntent(userMsg) {
	case intentGreeting:
		return r.pick(greetings)
	case intentFarewell:
		return r.pick(farewells)
	case intentMenu:
		return r.menuAnswer(userMsg)
	case intentBranch:
		return r.branchAnswer()
	case intentHours:
		return r.hoursAnswer()
	case intentFAQ:
		return r.faqAnswer(userMsg)
	case intentAbout:
		return r.aboutAnswer()
	default:
		return fallbackAnswer
	}
}

var fullMenuCues = []string{
	"full menu", "all menu", "complete menu", "entire menu",
	"show all", "all dishes", "all items", "view menu",
}

func (r *Responder) menuAnswer(userMsg string) string {
	if len(r.data.Menu) == 0 {
		return "Sorry, the menu is currently unavailable."
	}

	userLower := strings.ToLower(strings.TrimSpace(userMsg))
	for _, cue := range fullMenuCues {
		if strings.Contains(userLower, cue) {
			return r.fullMenu()
		}
	}

	if item, ok := r.searchMenu(userMsg); ok {
		return r.dishCard(item)
	}

	return r.popularItems()
}

func (r *Responder) fullMenu() string {
	var sb strings.Builder
	sb.WriteString("🍽️ OUR FULL MENU\n\n")

	for _, cat := range r.data.Menu {
		fmt.Fprintf(&sb, "📋 %s (%d items)\n", strings.ToUpper(strings.ReplaceAll(cat.Name, "_", " ")), len(cat.Items))
		sb.WriteString(strings.Repeat("─", 30) + "\n")

		for i, item := range cat.Items {
			fmt.Fprintf(&sb, "%d. %s", i+1, item.Name)
			if price := r.priceRange(item); price != "" {
				sb.WriteString(" — " + price)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("💡 Ask me about any dish for details or order now!\n")
	return sb.String()
}

func (r *Responder) priceRange(item MenuItem) string {
	cur := r.data.Currency
	if len(item.Variants) > 0 {
		lo, hi := item.Variants[0].Price, item.Variants[0].Price
		for _, v := range item.Variants[1:] {
			if v.Price < lo {
				lo = v.Price
			}
			if v.Price > hi {
				hi = v.Price
			}
		}
		if lo == hi {
			return fmt.Sprintf("%.0f %s", lo, cur)
		}
		return fmt.Sprintf("%.0f-%.0f %s", lo, hi, cur)
	}
	if item.BasePrice > 0 {
		return fmt.Sprintf("%.0f %s", item.BasePrice, cur)
	}
	return ""
}

// searchMenu fuzzy-matches the message against every item name plus its
// size and flavour combinations.
func (r *Responder) searchMenu(userMsg string) (MenuItem, bool) {
	type candidate struct {
		label string
		item  MenuItem
	}
	var candidates []candidate
	for _, cat := range r.data.Menu {
		for _, item := range cat.Items {
			candidates = append(candidates, candidate{item.Name, item})
			for _, v := range item.Variants {
				candidates = append(candidates, candidate{v.Size + " " + item.Name, item})
			}
			for _, f := range item.Flavours {
				candidates = append(candidates, candidate{f + " " + item.Name, item})
			}
		}
	}
	if len(candidates) == 0 {
		return MenuItem{}, false
	}

	msg := strings.ToLower(userMsg)
	best, bestScore := MenuItem{}, 0
	for _, c := range candidates {
		score := partialRatio(strings.ToLower(c.label), msg)
		if score > bestScore {
			best, bestScore = c.item, score
		}
	}
	if bestScore >= 60 {
		return best, true
	}
	return MenuItem{}, false
}

func (r *Responder) dishCard(item MenuItem) string {
	cur := r.data.Currency
	var sb strings.Builder

	fmt.Fprintf(&sb, "🍽️ **%s**\n", item.Name)
	sb.WriteString(strings.Repeat("━", 30) + "\n\n")

	if item.Description != "" {
		fmt.Fprintf(&sb, "📝 %s\n\n", item.Description)
	}

	if len(item.Variants) > 0 {
		sb.WriteString("💰 **Prices:**\n")
		for _, v := range item.Variants {
			fmt.Fprintf(&sb, "  • %s: %.0f %s\n", v.Size, v.Price, cur)
		}
		sb.WriteString("\n")
	} else if item.BasePrice > 0 {
		fmt.Fprintf(&sb, "💰 **Price:** %.0f %s\n\n", item.BasePrice, cur)
	}

	if len(item.Flavours) > 0 {
		fmt.Fprintf(&sb, "🌶️ Flavors: %s\n\n", strings.Join(item.Flavours, ", "))
	}

	if len(item.Addons) > 0 {
		sb.WriteString("➕ Add-ons:\n")
		for _, a := range item.Addons {
			fmt.Fprintf(&sb, "  • %s — +%.0f %s\n", a.Name, a.Price, cur)
		}
	}

	return strings.TrimSpace(sb.String())
}

func (r *Responder) popularItems() string {
	var sb strings.Builder
	sb.WriteString("🍽️ **Popular Items:**\n\n")

	count := 0
	for _, cat := range r.data.Menu {
		for _, item := range cat.Items {
			sb.WriteString("• " + item.Name)
			if len(item.Variants) > 0 {
				lo := item.Variants[0].Price
				for _, v := range item.Variants[1:] {
					if v.Price < lo {
						lo = v.Price
					}
				}
				fmt.Fprintf(&sb, " — %.0f %s+", lo, r.data.Currency)
			} else if item.BasePrice > 0 {
				fmt.Fprintf(&sb, " — %.0f %s", item.BasePrice, r.data.Currency)
			}
			sb.WriteString("\n")
			count++
			if count >= 4 {
				break
			}
		}
		if count >= 4 {
			break
		}
	}

	sb.WriteString("\n💬 Say 'full menu' to see everything!\n")
	return sb.String()
}

func (r *Responder) branchAnswer() string {
	if len(r.data.Branches) == 0 {
		return "Sorry, branch information is not available."
	}

	var sb strings.Builder
	sb.WriteString("📍 OUR BRANCHES:\n\n")
	for _, b := range r.data.Branches {
		sb.WriteString(b.Name)
		if b.City != "" {
			fmt.Fprintf(&sb, " (%s)", b.City)
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "📍 %s\n", b.Address)
		fmt.Fprintf(&sb, "📞 %s\n\n", b.Phone)
	}
	return strings.TrimSpace(sb.String())
}

func (r *Responder) hoursAnswer() string {
	if len(r.data.Hours) == 0 {
		return "Sorry, opening hours are not available."
	}

	var sb strings.Builder
	sb.WriteString("🕐 OPENING HOURS:\n\n")
	for _, bh := range r.data.Hours {
		fmt.Fprintf(&sb, "**%s**\n", bh.BranchName)
		for _, dh := range bh.Regular {
			day := strings.ToUpper(dh.Day[:1]) + dh.Day[1:]
			fmt.Fprintf(&sb, "**%-12s**%s\n", day, dh.Hours)
		}
		if bh.SpecialNotes != "" {
			fmt.Fprintf(&sb, "\nℹ️ %s\n", bh.SpecialNotes)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func (r *Responder) faqAnswer(userMsg string) string {
	if len(r.data.FAQs) == 0 {
		return "Sorry, FAQ information is not available."
	}

	userLower := strings.ToLower(userMsg)
	for _, q := range r.data.FAQs {
		for _, word := range strings.Fields(strings.ToLower(q.Question)) {
			if len(word) > 3 && strings.Contains(userLower, word) {
				return q.Answer
			}
		}
	}

	return "Sorry, I don't have an answer for that. You can ask about delivery, vegetarian options, halal food, or our services."
}

func (r *Responder) aboutAnswer() string {
	if r.data.About.Name == "" {
		return "Sorry, restaurant information is not available."
	}

	var sb strings.Builder
	sb.WriteString(r.data.About.Name + "\n\n")
	if r.data.About.Description != "" {
		sb.WriteString(r.data.About.Description + "\n\n")
	}
	if r.data.About.Mission != "" {
		fmt.Fprintf(&sb, "🎯 Mission: %s\n\n", r.data.About.Mission)
	}
	return strings.TrimSpace(sb.String())
}
