package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/speedybites/bitechat/internal/models"
)

// fakeGateway settles every exchange with a fixed outcome.
type fakeGateway struct {
	reply *models.Reply
	err   error
	calls int
}

func (f *fakeGateway) Exchange(ctx context.Context, text string) (*models.Reply, error) {
	f.calls++
	return f.reply, f.err
}

func TestNewStoreSeedsGreeting(t *testing.T) {
	st := NewStore().Snapshot()
	if len(st.Transcript) != 1 {
		t.Fatalf("transcript length = %d, want 1", len(st.Transcript))
	}
	if st.Transcript[0].Sender != models.Bot || st.Transcript[0].Text != models.GreetingText {
		t.Errorf("seed message = %+v, want bot greeting", st.Transcript[0])
	}
	if st.Loading {
		t.Error("new store must not be loading")
	}
}

func TestSubmitUserTextAppendsAndLocks(t *testing.T) {
	s := NewStore()
	if !s.SubmitUserText("Hello") {
		t.Fatal("submission rejected")
	}

	st := s.Snapshot()
	if len(st.Transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(st.Transcript))
	}
	last := st.Transcript[len(st.Transcript)-1]
	if last.Sender != models.User || last.Text != "Hello" {
		t.Errorf("last message = %+v, want user %q", last, "Hello")
	}
	if !st.Loading {
		t.Error("loading must be true after accepted submission")
	}
	if st.Input != "" {
		t.Errorf("input buffer = %q, want empty", st.Input)
	}
}

func TestSubmitUserTextBlankIsNoOp(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		s := NewStore()
		s.SetInput("draft")
		before := s.Snapshot()

		if s.SubmitUserText(text) {
			t.Errorf("SubmitUserText(%q) accepted, want rejected", text)
		}

		after := s.Snapshot()
		if len(after.Transcript) != len(before.Transcript) {
			t.Errorf("SubmitUserText(%q) mutated transcript", text)
		}
		if after.Loading {
			t.Errorf("SubmitUserText(%q) set loading", text)
		}
		if len(after.Flags) != 0 {
			t.Errorf("SubmitUserText(%q) mutated flags", text)
		}
	}
}

func TestSubmitWhileLoadingIsNoOp(t *testing.T) {
	s := NewStore()
	s.SubmitUserText("first")

	if s.SubmitUserText("second") {
		t.Error("submission accepted while loading")
	}
	if got := len(s.Snapshot().Transcript); got != 2 {
		t.Errorf("transcript length = %d, want 2", got)
	}
}

func TestApplyReplyWholesaleFlags(t *testing.T) {
	s := NewStore()
	s.SubmitUserText("Show me the menu")
	s.ApplyReply(&models.Reply{
		Text:  "Here is our menu",
		Flags: map[string]bool{"shown_menu": true, "promo_seen": true},
	})

	st := s.Snapshot()
	last := st.Transcript[len(st.Transcript)-1]
	if last.Sender != models.Bot || last.Text != "Here is our menu" {
		t.Errorf("last message = %+v", last)
	}
	if st.Loading {
		t.Error("loading must clear after reply")
	}
	if !st.Flags["shown_menu"] {
		t.Error("shown_menu not set from backend flags")
	}
	// Unknown keys are stored even though rendering ignores them.
	if !st.Flags["promo_seen"] {
		t.Error("unknown backend flag dropped, want stored")
	}
}

func TestApplyReplyLocalFlagInference(t *testing.T) {
	s := NewStore()
	s.SubmitUserText("What are your hours")
	s.ApplyReply(&models.Reply{Text: "9-5 daily"})

	st := s.Snapshot()
	if !st.Flags["shown_hours"] {
		t.Error("shown_hours not inferred from submitted action text")
	}

	visible := s.VisibleActions()
	for _, a := range visible {
		if a.Label == "Opening Hours" {
			t.Error("Opening Hours still visible after local inference")
		}
	}
	if len(visible) != 3 {
		t.Errorf("visible actions = %d, want 3", len(visible))
	}
}

func TestApplyReplyNoInferenceForFreeText(t *testing.T) {
	s := NewStore()
	s.SubmitUserText("Hello there")
	s.ApplyReply(&models.Reply{Text: "Hi!"})

	if got := len(s.Snapshot().Flags); got != 0 {
		t.Errorf("flags = %d entries, want 0 for free text", got)
	}
}

func TestApplyReplyEmptyTextFallback(t *testing.T) {
	s := NewStore()
	s.SubmitUserText("Hello")
	s.ApplyReply(&models.Reply{})

	st := s.Snapshot()
	last := st.Transcript[len(st.Transcript)-1]
	if last.Text != models.NoResponseText {
		t.Errorf("last message text = %q, want fallback", last.Text)
	}
}

func TestApplyFailure(t *testing.T) {
	s := NewStore()
	s.SubmitUserText("Show me the menu")
	s.ApplyFailure()

	st := s.Snapshot()
	last := st.Transcript[len(st.Transcript)-1]
	if last.Sender != models.Bot || last.Text != models.ErrorText {
		t.Errorf("last message = %+v, want fixed error text", last)
	}
	if st.Loading {
		t.Error("loading must clear after failure")
	}
	if len(st.Flags) != 0 {
		t.Error("flags must be unchanged on failure")
	}
}

func TestTurnSettlesExactlyOnce(t *testing.T) {
	tests := []struct {
		name     string
		gw       *fakeGateway
		wantLast string
	}{
		{"success", &fakeGateway{reply: &models.Reply{Text: "ok"}}, "ok"},
		{"failure", &fakeGateway{err: errors.New("boom")}, models.ErrorText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			if !Turn(context.Background(), s, tt.gw, "hi") {
				t.Fatal("turn rejected")
			}

			st := s.Snapshot()
			if len(st.Transcript) != 3 {
				t.Fatalf("transcript length = %d, want 3 (greeting + user + bot)", len(st.Transcript))
			}
			if got := st.Transcript[2].Text; got != tt.wantLast {
				t.Errorf("last message = %q, want %q", got, tt.wantLast)
			}
			if st.Loading {
				t.Error("loading must be false once the turn settles")
			}
			if tt.gw.calls != 1 {
				t.Errorf("gateway called %d times, want 1", tt.gw.calls)
			}
		})
	}
}

func TestTurnRejectedIssuesNoExchange(t *testing.T) {
	s := NewStore()
	gw := &fakeGateway{reply: &models.Reply{Text: "ok"}}

	if Turn(context.Background(), s, gw, "   ") {
		t.Error("blank turn accepted")
	}
	if gw.calls != 0 {
		t.Errorf("gateway called %d times for rejected turn, want 0", gw.calls)
	}
}

func TestOnChangeFiresPerTransition(t *testing.T) {
	s := NewStore()
	var events []State
	s.OnChange(func(st State) { events = append(events, st) })

	s.SetInput("h")
	s.SubmitUserText("h")
	s.ApplyReply(&models.Reply{Text: "hi"})

	if len(events) != 3 {
		t.Fatalf("got %d change events, want 3", len(events))
	}
	if !events[1].Loading {
		t.Error("submit event snapshot must show loading")
	}
	if events[2].Loading {
		t.Error("reply event snapshot must show loading cleared")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	st := s.Snapshot()
	st.Transcript[0] = models.Message{Sender: models.User, Text: "tampered"}
	st.Flags["x"] = true

	fresh := s.Snapshot()
	if fresh.Transcript[0].Text != models.GreetingText {
		t.Error("snapshot shares transcript backing array with store")
	}
	if len(fresh.Flags) != 0 {
		t.Error("snapshot shares flag map with store")
	}
}
