// Package httpapi serves one session as a small JSON API. Every request
// first advances the run by the wall-clock time since the previous request.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/engine"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/session"
)

// Server serialises access to a session.
type Server struct {
	mu     sync.Mutex
	sess   *session.Session
	logger *log.Logger
	now    func() time.Time
	last   time.Time
}

type Option func(*Server)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func New(sess *session.Session, opts ...Option) *Server {
	s := &Server{sess: sess, logger: log.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.last = s.now()
	return s
}

// Router returns the API routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/state", s.handleState).Methods("GET")
	r.HandleFunc("/command", s.handleCommand).Methods("POST")
	r.HandleFunc("/tick", s.handleTick).Methods("POST")
	r.HandleFunc("/intents", s.handleIntents).Methods("GET")
	return r
}

// CommandRequest is the body of POST /command.
type CommandRequest struct {
	Line string `json:"line"`
}

// CommandResponse answers POST /command. Error is set for grammar errors and
// refused commands; the state is returned either way.
type CommandResponse struct {
	Error string      `json:"error,omitempty"`
	Usage []string    `json:"usage,omitempty"`
	State engine.View `json:"state"`
}

// TickRequest is the body of POST /tick. A zero DT only applies the
// wall-clock advance.
type TickRequest struct {
	DT float64 `json:"dt"`
}

// IntentJSON tags an intent with its kind.
type IntentJSON struct {
	Type string        `json:"type"`
	Data engine.Intent `json:"data"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	writeJSON(w, http.StatusOK, s.sess.Engine().View())
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	usage, err := s.sess.Execute(req.Line)
	resp := CommandResponse{Usage: usage, State: s.sess.Engine().View()}
	status := http.StatusOK
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		resp.Error = err.Error()
		status = http.StatusConflict
	case err != nil:
		resp.Error = err.Error()
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req TickRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
			return
		}
	}
	if req.DT < 0 {
		http.Error(w, "dt must not be negative", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	if req.DT > 0 {
		if err := s.sess.Tick(req.DT); err != nil {
			s.logger.Printf("warn: tick: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, s.sess.Engine().View())
}

func (s *Server) handleIntents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	out := []IntentJSON{}
	for _, it := range s.sess.Intents() {
		out = append(out, IntentJSON{Type: intentType(it), Data: it})
	}
	writeJSON(w, http.StatusOK, out)
}

// advance feeds the time elapsed since the last request to the session.
func (s *Server) advance() {
	now := s.now()
	dt := now.Sub(s.last).Seconds()
	s.last = now
	if dt <= 0 {
		return
	}
	if err := s.sess.Tick(dt); err != nil {
		s.logger.Printf("warn: tick: %v", err)
	}
}

func intentType(it engine.Intent) string {
	name := fmt.Sprintf("%T", it)
	return name[strings.LastIndex(name, ".")+1:]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("warn: encode response: %v", err)
	}
}
