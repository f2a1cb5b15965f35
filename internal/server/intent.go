package server

import (
	"regexp"
	"strings"
)

// intent is the coarse category a user message routes to.
type intent string

const (
	intentGreeting intent = "greeting"
	intentFarewell intent = "farewell"
	intentMenu     intent = "menu_query"
	intentHours    intent = "hours_query"
	intentBranch   intent = "branch_query"
	intentFAQ      intent = "faq_query"
	intentAbout    intent = "about"
	intentUnknown  intent = "unknown"
)

var intentKeywords = map[intent][]string{
	intentGreeting: {
		"hi", "hello", "hey", "salam", "assalam", "good morning", "good afternoon",
		"good evening", "greetings", "hi there", "hello there",
	},
	intentFarewell: {
		"bye", "goodbye", "see you", "farewell", "later", "take care", "see ya",
		"ciao", "adios",
	},
	intentHours: {
		"open", "opening", "opens", "close", "closing", "closes", "hours", "hour",
		"timing", "timings", "time", "schedule", "when", "what time", "available",
		"operational", "working hours", "business hours", "opening hours",
		"what are your hours", "days",
	},
	intentBranch: {
		"branch", "branches", "location", "locations", "address", "addresses",
		"phone", "contact", "where", "find", "locate", "outlet", "outlets",
		"store", "stores", "shop", "near me", "our branches",
		"where are your branches",
	},
	intentAbout: {
		"about", "information", "info", "tell me about", "who are you", "what is",
		"describe", "details", "background", "story", "history",
	},
	intentFAQ: {
		"delivery", "deliver", "veg", "vegetarian", "halal", "service", "services",
		"do you", "does", "can you", "can i", "is it", "are you", "do they",
		"question", "help", "support", "do you offer delivery",
	},
	intentMenu: {
		"menu", "dish", "dishes", "food", "item", "items", "order", "burger",
		"pizza", "pasta", "drink", "fries", "price", "prices", "cost", "how much",
		"variants", "flavours", "flavors", "show", "what", "list", "see", "available",
		"have", "serve", "what's", "what is", "what are", "tell me", "show me",
		"give me", "i want", "can i get", "what do you have", "what do you serve",
		"what can i order", "what options", "selection", "view", "view menu",
		"show me the menu",
	},
}

var contractions = [][2]string{
	{"what's", "what is"}, {"what're", "what are"}, {"who's", "who is"},
	{"where's", "where is"}, {"when's", "when is"}, {"how's", "how is"},
	{"it's", "it is"}, {"that's", "that is"}, {"there's", "there is"},
	{"i'm", "i am"}, {"you're", "you are"}, {"we're", "we are"},
	{"i've", "i have"}, {"you've", "you have"}, {"i'll", "i will"},
	{"don't", "do not"}, {"doesn't", "does not"}, {"didn't", "did not"},
	{"can't", "cannot"}, {"won't", "will not"}, {"isn't", "is not"},
	{"aren't", "are not"},
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

// normalize lowercases, expands contractions, strips punctuation, and
// collapses whitespace.
func normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, c := range contractions {
		text = strings.ReplaceAll(text, c[0], c[1])
	}
	text = nonWord.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// intentScore is the best match of the message words against one keyword set.
func intentScore(msg string, keywords []string) int {
	words := strings.Fields(msg)
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}

	best := 0
	for _, kw := range keywords {
		if wordSet[kw] {
			return 100
		}
		for _, w := range words {
			if len(w) > 2 && len(kw) > 2 {
				if r := ratio(w, kw); r > best {
					best = r
				}
			}
		}
		if strings.Contains(kw, " ") {
			if r := partialRatio(msg, kw); r > best {
				best = r
			}
		}
		if strings.Contains(msg, kw) && len(kw) > 2 {
			return 100
		}
	}
	return best
}

// detectIntent routes a raw user message. Quick-action texts and a few
// forcing keywords short-circuit before scoring.
func detectIntent(userMsg string) intent {
	msg := normalize(userMsg)

	// Quick-action button texts map directly.
	switch msg {
	case "show me the menu":
		return intentMenu
	case "what are your hours":
		return intentHours
	case "where are your branches":
		return intentBranch
	case "do you offer delivery":
		return intentFAQ
	}

	switch {
	case strings.Contains(msg, "menu"):
		return intentMenu
	case strings.Contains(msg, "delivery"), strings.Contains(msg, "deliver"):
		return intentFAQ
	case strings.Contains(msg, "hours"), strings.Contains(msg, "opening"),
		strings.Contains(msg, "time"), strings.Contains(msg, "days"):
		return intentHours
	case strings.Contains(msg, "branch"), strings.Contains(msg, "location"),
		strings.Contains(msg, "address"):
		return intentBranch
	case strings.Contains(msg, "about"), strings.Contains(msg, "mission"),
		strings.Contains(msg, "info"):
		return intentAbout
	}

	scores := make(map[intent]int, len(intentKeywords))
	for in, keywords := range intentKeywords {
		scores[in] = intentScore(msg, keywords)
	}

	// Priority ladder: social intents and FAQs beat the broad menu bucket.
	switch {
	case scores[intentGreeting] > 60:
		return intentGreeting
	case scores[intentFarewell] > 60:
		return intentFarewell
	case scores[intentFAQ] > 60:
		return intentFAQ
	case scores[intentAbout] > 60:
		return intentAbout
	case scores[intentHours] > 60:
		return intentHours
	case scores[intentBranch] > 60:
		return intentBranch
	case scores[intentMenu] > 40:
		return intentMenu
	}

	best, bestScore := intentUnknown, 0
	for in, sc := range scores {
		if sc > bestScore {
			best, bestScore = in, sc
		}
	}
	if bestScore > 40 {
		return best
	}

	// Short unclear messages are most likely about food.
	if len(strings.Fields(msg)) <= 4 {
		return intentMenu
	}
	return intentUnknown
}
