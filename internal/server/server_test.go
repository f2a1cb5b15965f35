package server

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/speedybites/bitechat/internal/api"
	"github.com/speedybites/bitechat/internal/chat"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	data, err := LoadData("")
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	flags, err := OpenFlagStore(filepath.Join(t.TempDir(), "flags.db"))
	if err != nil {
		t.Fatalf("OpenFlagStore: %v", err)
	}
	t.Cleanup(func() { flags.Close() })

	srv := httptest.NewServer(New(data, flags).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleChat(t *testing.T) {
	srv := testServer(t)

	resp, err := srv.Client().Post(srv.URL+"/chat", "application/json",
		bytes.NewBufferString(`{"message":"Show me the menu"}`))
	if err != nil {
		t.Fatalf("POST /chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	body := buf.Bytes()

	if gjson.GetBytes(body, "response").String() == "" {
		t.Error("response field empty")
	}
	if !gjson.GetBytes(body, "sessionFlags.shown_menu").Bool() {
		t.Errorf("shown_menu not set in %s", body)
	}
}

func TestHandleChatBadBody(t *testing.T) {
	srv := testServer(t)

	resp, err := srv.Client().Post(srv.URL+"/chat", "application/json",
		bytes.NewBufferString("not json"))
	if err != nil {
		t.Fatalf("POST /chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestFlagStoreAccumulates(t *testing.T) {
	flags, err := OpenFlagStore(filepath.Join(t.TempDir(), "flags.db"))
	if err != nil {
		t.Fatalf("OpenFlagStore: %v", err)
	}
	defer flags.Close()

	if err := flags.SetFlag("s1", "shown_menu"); err != nil {
		t.Fatalf("SetFlag: %v", err)
	}
	if err := flags.SetFlag("s1", "shown_hours"); err != nil {
		t.Fatalf("SetFlag: %v", err)
	}

	got, err := flags.Flags("s1")
	if err != nil {
		t.Fatalf("Flags: %v", err)
	}
	if !got["shown_menu"] || !got["shown_hours"] {
		t.Errorf("flags = %v, want both set", got)
	}

	other, err := flags.Flags("s2")
	if err != nil {
		t.Fatalf("Flags: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("unknown session flags = %v, want empty", other)
	}
}

// Full stack: widget store + gateway against the real server.
func TestWidgetAgainstServer(t *testing.T) {
	srv := testServer(t)

	client, err := api.NewClient(srv.URL + "/chat")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	store := chat.NewStore()

	if !chat.Turn(context.Background(), store, client, "Show me the menu") {
		t.Fatal("turn rejected")
	}

	st := store.Snapshot()
	if st.Loading {
		t.Error("loading after settled turn")
	}
	if len(st.Transcript) != 3 {
		t.Fatalf("transcript length = %d, want 3", len(st.Transcript))
	}
	if !st.Flags["shown_menu"] {
		t.Error("shown_menu flag not carried back to the widget")
	}

	visible := store.VisibleActions()
	if len(visible) != 3 {
		t.Errorf("visible actions = %d, want 3", len(visible))
	}
	for _, a := range visible {
		if a.Label == "View Menu" {
			t.Error("View Menu still visible after use")
		}
	}
}
