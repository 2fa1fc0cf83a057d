package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// chatRequest is the JSON body accepted by POST /chat.
type chatRequest struct {
	Prompt string `json:"prompt"`
}

// Server handles the chat and health endpoints. The prompt history lives for
// the process lifetime and is shared across requests, guarded by mu.
type Server struct {
	completer Completer
	logger    *log.Logger

	mu      sync.Mutex
	history []Turn
}

// New creates a Server seeded with the configured system prompt.
func New(cfg Config, completer Completer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		completer: completer,
		logger:    logger,
		history:   []Turn{{Role: "system", Content: cfg.SystemPrompt}},
	}
}

// Handler returns the full HTTP handler chain: router, access logging, CORS.
func (s *Server) Handler(cfg Config, accessLog io.Writer) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)

	return handlers.CombinedLoggingHandler(accessLog, cors(r))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("OK"))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "prompt cannot be empty", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.history = append(s.history, Turn{Role: "user", Content: req.Prompt})
	history := make([]Turn, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()

	ch, err := s.completer.Complete(r.Context(), history)
	if err != nil {
		s.logger.Printf("completion failed: %v", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	flusher, _ := w.(http.Flusher)

	var reply strings.Builder
	for delta := range ch {
		if _, err := io.WriteString(w, delta); err != nil {
			s.logger.Printf("client went away mid-stream: %v", err)
			return
		}
		reply.WriteString(delta)
		if flusher != nil {
			flusher.Flush()
		}
	}

	if reply.Len() > 0 {
		s.mu.Lock()
		s.history = append(s.history, Turn{Role: "assistant", Content: reply.String()})
		s.mu.Unlock()
	}
}

// HistoryLen reports the current number of turns, including the system
// prompt. Exposed for tests.
func (s *Server) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
