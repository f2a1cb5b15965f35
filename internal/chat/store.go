// Package chat owns the conversation state machine: the transcript, session
// flags, loading flag, and input buffer, mutated only through the transitions
// defined here.
package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/speedybites/bitechat/internal/actions"
	"github.com/speedybites/bitechat/internal/models"
)

// State is a snapshot of the conversation. Renderers receive copies; the
// store keeps the only mutable instance.
type State struct {
	Transcript []models.Message
	Flags      map[string]bool
	Loading    bool
	Input      string
}

// Exchanger performs the network half of a turn. *api.Client satisfies it.
type Exchanger interface {
	Exchange(ctx context.Context, text string) (*models.Reply, error)
}

// Store is the single owner of conversation state. Transitions are atomic
// from the caller's perspective; a registered change callback fires after
// each one, so no ambient re-render mechanism is needed.
//
// Loading doubles as the mutual-exclusion flag: while an exchange is in
// flight, SubmitUserText is a no-op, so at most one exchange exists at a
// time. Transcript length only ever grows.
type Store struct {
	mu       sync.Mutex
	state    State
	pending  string // text of the in-flight submission, for flag inference
	onChange func(State)
}

// NewStore creates a store seeded with the greeting message.
func NewStore() *Store {
	return &Store{
		state: State{
			Transcript: []models.Message{{Sender: models.Bot, Text: models.GreetingText}},
			Flags:      make(map[string]bool),
		},
	}
}

// OnChange registers the callback invoked after every transition.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	out := State{
		Transcript: make([]models.Message, len(s.state.Transcript)),
		Flags:      make(map[string]bool, len(s.state.Flags)),
		Loading:    s.state.Loading,
		Input:      s.state.Input,
	}
	copy(out.Transcript, s.state.Transcript)
	for k, v := range s.state.Flags {
		out.Flags[k] = v
	}
	return out
}

func (s *Store) notifyLocked() {
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
}

// SetInput updates the pending input buffer. Transcript, flags, and loading
// are untouched.
func (s *Store) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Input = text
	s.notifyLocked()
}

// SubmitUserText is the single entry point for both free-text submission and
// quick-action invocation (an action supplies its action text). Blank text
// and submission while loading are silently ignored. On acceptance the user
// message is appended, the input buffer cleared, and loading set; the caller
// must then settle exactly one exchange via ApplyReply or ApplyFailure.
func (s *Store) SubmitUserText(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Loading {
		return false
	}

	s.state.Transcript = append(s.state.Transcript, models.Message{Sender: models.User, Text: text})
	s.state.Input = ""
	s.state.Loading = true
	s.pending = text
	s.notifyLocked()
	return true
}

// ApplyReply settles the in-flight exchange with a successful reply. Empty
// reply text is substituted with the no-response fallback. A flag map from
// the backend replaces the session flags wholesale; without one, a submitted
// quick-action text marks its own flag locally.
func (s *Store) ApplyReply(reply *models.Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := models.NoResponseText
	if reply != nil && reply.Text != "" {
		text = reply.Text
	}
	s.state.Transcript = append(s.state.Transcript, models.Message{Sender: models.Bot, Text: text})

	switch {
	case reply != nil && reply.Flags != nil:
		flags := make(map[string]bool, len(reply.Flags))
		for k, v := range reply.Flags {
			flags[k] = v
		}
		s.state.Flags = flags
	default:
		if flag, ok := actions.FlagFor(s.pending); ok {
			s.state.Flags[flag] = true
		}
	}

	s.pending = ""
	s.state.Loading = false
	s.notifyLocked()
}

// ApplyFailure settles the in-flight exchange with the fixed error message.
// Session flags are unchanged.
func (s *Store) ApplyFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Transcript = append(s.state.Transcript, models.Message{Sender: models.Bot, Text: models.ErrorText})
	s.pending = ""
	s.state.Loading = false
	s.notifyLocked()
}

// VisibleActions returns the quick actions not yet used this session,
// in registry order.
func (s *Store) VisibleActions() []actions.QuickAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return actions.Visible(s.state.Flags)
}

// Turn runs one full submit/exchange/settle cycle synchronously and reports
// whether the submission was accepted. It exists for tests and embeddings
// that want store semantics without an event loop; the TUI drives the same
// transitions split across its loop, and the one-shot CLI query talks to the
// gateway directly because it needs the raw error for its hints.
func Turn(ctx context.Context, s *Store, gw Exchanger, text string) bool {
	if !s.SubmitUserText(text) {
		return false
	}

	reply, err := gw.Exchange(ctx, text)
	if err != nil {
		s.ApplyFailure()
		return true
	}
	s.ApplyReply(reply)
	return true
}
