package models

// Canned widget texts. The greeting seeds every new transcript; the other
// two cover the degenerate exchange outcomes (see the store transitions).
const (
	GreetingText = "Hi! 👋 Welcome to Speedy Bites! How can I help you today?"

	// Shown when an exchange fails at the transport or protocol level.
	ErrorText = "Sorry, something went wrong. Please try again. 🙏"

	// Substituted when a successful response carries no reply text.
	NoResponseText = "Sorry, I didn't get a response. Please try again."
)
