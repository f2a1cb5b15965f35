package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/speedybites/bitechat/internal/chat"
	"github.com/speedybites/bitechat/internal/models"
)

type fakeGateway struct {
	reply *models.Reply
	err   error
	calls int
}

func (f *fakeGateway) Exchange(_ context.Context, _ string) (*models.Reply, error) {
	f.calls++
	return f.reply, f.err
}

func newTestModel(gw chat.Exchanger) (Model, *chat.Store) {
	store := chat.NewStore()
	m := NewModel(store, gw)
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return resized.(Model), store
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelStartsWithGreeting(t *testing.T) {
	m, _ := newTestModel(&fakeGateway{})

	if !m.ready {
		t.Fatal("model not ready after resize")
	}
	if len(m.state.Transcript) != 1 {
		t.Fatalf("transcript length = %d, want 1", len(m.state.Transcript))
	}
	if m.state.Transcript[0].Sender != models.Bot {
		t.Error("greeting sender is not the bot")
	}
	if !strings.Contains(m.View(), "Speedy Bites") {
		t.Error("view missing header title")
	}
}

func TestModelViewBeforeResize(t *testing.T) {
	m := NewModel(chat.NewStore(), &fakeGateway{})
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("unsized view should show the initializing line")
	}
}

func TestModelSubmitLocksInput(t *testing.T) {
	gw := &fakeGateway{reply: &models.Reply{Text: "hi there"}}
	m, store := newTestModel(gw)

	updated, _ := m.Update(keyMsg("hello"))
	m = updated.(Model)
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("accepted submit returned no command")
	}
	st := store.Snapshot()
	if !st.Loading {
		t.Error("store not loading after submit")
	}
	if len(st.Transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(st.Transcript))
	}
	if st.Transcript[1].Text != "hello" {
		t.Errorf("user message = %q", st.Transcript[1].Text)
	}
	if m.textarea.Value() != "" {
		t.Errorf("textarea not cleared, value = %q", m.textarea.Value())
	}
	if !strings.Contains(m.View(), "typing") {
		t.Error("loading view missing typing indicator")
	}
}

func TestModelSubmitWhileLoadingIgnored(t *testing.T) {
	gw := &fakeGateway{reply: &models.Reply{Text: "hi"}}
	m, store := newTestModel(gw)

	updated, _ := m.Update(keyMsg("first"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("enter"))
	m = updated.(Model)

	// A second enter while the exchange is pending must not add a turn.
	updated, _ = m.Update(keyMsg("enter"))
	m = updated.(Model)

	if got := len(store.Snapshot().Transcript); got != 2 {
		t.Errorf("transcript length = %d, want 2", got)
	}
}

func TestModelReplySettlesTurn(t *testing.T) {
	gw := &fakeGateway{reply: &models.Reply{Text: "our hours are..."}}
	m, store := newTestModel(gw)

	updated, _ := m.Update(keyMsg("hours?"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("enter"))
	m = updated.(Model)

	updated, _ = m.Update(replyMsg{reply: &models.Reply{Text: "our hours are..."}})
	m = updated.(Model)

	st := store.Snapshot()
	if st.Loading {
		t.Error("still loading after reply")
	}
	if len(st.Transcript) != 3 {
		t.Fatalf("transcript length = %d, want 3", len(st.Transcript))
	}
	if st.Transcript[2].Text != "our hours are..." {
		t.Errorf("bot message = %q", st.Transcript[2].Text)
	}
	if m.lastErr != nil {
		t.Errorf("lastErr = %v after success", m.lastErr)
	}
}

func TestModelFailureSettlesTurn(t *testing.T) {
	m, store := newTestModel(&fakeGateway{})

	updated, _ := m.Update(keyMsg("hello"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("enter"))
	m = updated.(Model)

	updated, _ = m.Update(failMsg{err: errors.New("connection refused")})
	m = updated.(Model)

	st := store.Snapshot()
	if st.Loading {
		t.Error("still loading after failure")
	}
	if got := st.Transcript[len(st.Transcript)-1].Text; got != models.ErrorText {
		t.Errorf("last message = %q, want error text", got)
	}
	if m.lastErr == nil {
		t.Error("lastErr not recorded")
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Error("view missing error detail")
	}
}

func TestModelActionCursor(t *testing.T) {
	m, _ := newTestModel(&fakeGateway{})

	updated, _ := m.Update(keyMsg("tab"))
	m = updated.(Model)
	if m.actionCursor != 0 {
		t.Fatalf("cursor after tab = %d, want 0", m.actionCursor)
	}

	updated, _ = m.Update(keyMsg("right"))
	m = updated.(Model)
	if m.actionCursor != 1 {
		t.Errorf("cursor after right = %d, want 1", m.actionCursor)
	}

	updated, _ = m.Update(keyMsg("left"))
	m = updated.(Model)
	if m.actionCursor != 0 {
		t.Errorf("cursor after left = %d, want 0", m.actionCursor)
	}

	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(Model)
	if m.actionCursor != -1 {
		t.Errorf("cursor after esc = %d, want -1", m.actionCursor)
	}
}

func TestModelActionSubmit(t *testing.T) {
	gw := &fakeGateway{reply: &models.Reply{Text: "menu", Flags: map[string]bool{"shown_menu": true}}}
	m, store := newTestModel(gw)

	updated, _ := m.Update(keyMsg("tab"))
	m = updated.(Model)
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("action submit returned no command")
	}
	st := store.Snapshot()
	if st.Transcript[1].Text != "Show me the menu" {
		t.Errorf("submitted text = %q, want quick action text", st.Transcript[1].Text)
	}
	if m.actionCursor != -1 {
		t.Errorf("cursor = %d after action submit, want -1", m.actionCursor)
	}

	updated, _ = m.Update(replyMsg{reply: gw.reply})
	m = updated.(Model)
	if len(m.visibleActions()) != 3 {
		t.Errorf("visible actions = %d after shown_menu, want 3", len(m.visibleActions()))
	}
}

func TestRenderCacheReuse(t *testing.T) {
	c := newRenderCache()
	a := c.render("**bold** line", 40)
	b := c.render("**bold** line", 40)
	if a != b {
		t.Error("cache returned different output for same key")
	}
	if len(c.entries) != 1 {
		t.Errorf("cache entries = %d, want 1", len(c.entries))
	}
	c.render("**bold** line", 20)
	if len(c.entries) != 2 {
		t.Errorf("cache entries = %d after width change, want 2", len(c.entries))
	}
}

// Drives the production program wiring end to end. Every keystroke fires a
// store change notification from inside Update; if that notification were
// delivered with a blocking Send, the event loop would never drain and the
// quit below would hang.
func TestWidgetProgramSurvivesKeystrokes(t *testing.T) {
	store := chat.NewStore()
	gw := &fakeGateway{reply: &models.Reply{Text: "hello back"}}

	p := newWidgetProgram(store, gw, tea.WithoutRenderer(), tea.WithInput(nil))

	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()

	p.Send(tea.WindowSizeMsg{Width: 80, Height: 24})
	p.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	p.Send(tea.KeyMsg{Type: tea.KeyEnter})
	p.Quit()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("program did not exit; a store notification blocked the event loop")
	}

	st := store.Snapshot()
	if len(st.Transcript) < 2 {
		t.Errorf("transcript length = %d, want the typed message appended", len(st.Transcript))
	}
	if st.Transcript[1].Sender != models.User || st.Transcript[1].Text != "hi" {
		t.Errorf("user message = %+v", st.Transcript[1])
	}
}
