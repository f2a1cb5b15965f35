package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/speedybites/bitechat/internal/actions"
)

// Server answers the widget's /chat exchanges.
type Server struct {
	responder *Responder
	flags     *FlagStore
	// defaultSession serves clients that send no X-Session-ID, such as
	// the bundled widget. One id per server process.
	defaultSession string
}

// New builds a server over loaded data and an open flag store.
func New(data *Data, flags *FlagStore) *Server {
	return &Server{
		responder:      NewResponder(data),
		flags:          flags,
		defaultSession: uuid.NewString(),
	}
}

// Handler returns the chi router for the service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/chat", s.handleChat)

	return r
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response     string          `json:"response"`
	SessionFlags map[string]bool `json:"sessionFlags,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		sessionID = s.defaultSession
	}

	reply := s.responder.Respond(req.Message)

	// A turn that matches a quick-action text uses up that action.
	if flag, ok := actions.FlagFor(req.Message); ok {
		if err := s.flags.SetFlag(sessionID, flag); err != nil {
			log.Printf("chat: marking flag %s: %v", flag, err)
		}
	}

	flags, err := s.flags.Flags(sessionID)
	if err != nil {
		log.Printf("chat: loading flags: %v", err)
		flags = nil // reply still goes out; the widget infers locally
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(chatResponse{Response: reply, SessionFlags: flags}); err != nil {
		log.Printf("chat: encoding response: %v", err)
	}
}
