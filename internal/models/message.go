// Package models defines the shared data types for the bitechat widget.
package models

// Sender identifies who produced a transcript message.
type Sender int

const (
	Bot Sender = iota
	User
)

// String returns the lowercase sender name.
func (s Sender) String() string {
	if s == User {
		return "user"
	}
	return "bot"
}

// Message is one entry in the transcript. Immutable once created;
// the transcript only ever appends.
type Message struct {
	Sender Sender
	Text   string
}

// Reply is the parsed result of one responder exchange.
// Flags is nil when the backend omitted the session flag map,
// in which case the store falls back to single-flag inference.
type Reply struct {
	Text  string
	Flags map[string]bool
}
