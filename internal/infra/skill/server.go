package skill

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"smart-home-alexaskill/internal/application"
)

// maxDirectiveBytes bounds inbound request bodies; directives are small.
const maxDirectiveBytes = 64 * 1024

// Dispatcher routes a decoded directive to the backend and builds the
// response envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, directive application.Directive) application.Response
	Reject() application.Response
}

// Server exposes the directive endpoint the voice platform posts to.
type Server struct {
	addr        string
	authToken   string
	dispatcher  Dispatcher
	logger      *slog.Logger
	mux         *http.ServeMux
	server      *http.Server
	rateLimiter *RateLimiter
	mu          sync.Mutex
	running     bool
}

// NewServer wires the directive and health endpoints. An empty authToken
// disables request authentication.
func NewServer(addr string, authToken string, dispatcher Dispatcher, logger *slog.Logger) *Server {
	s := &Server{
		addr:        addr,
		authToken:   authToken,
		dispatcher:  dispatcher,
		logger:      logger,
		mux:         http.NewServeMux(),
		rateLimiter: NewRateLimiter(10, time.Second),
	}
	s.mux.HandleFunc("POST /directive", s.rateLimiter.Middleware(s.handleDirective))
	// No rate limiting on health check
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("directive server starting", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("directive server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := s.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	s.running = false
	return nil
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleDirective(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.logger.Warn("unauthorized directive request", "remote_addr", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDirectiveBytes))
	if err != nil {
		s.logger.Error("reading directive body", "error", err)
		s.writeResponse(w, http.StatusBadRequest, s.dispatcher.Reject())
		return
	}
	defer r.Body.Close()

	if err := application.ValidateDirective(body); err != nil {
		s.logger.Warn("directive failed validation", "error", err)
		s.writeResponse(w, http.StatusBadRequest, s.dispatcher.Reject())
		return
	}

	directive, err := application.DecodeDirective(body)
	if err != nil {
		s.logger.Warn("directive failed decoding", "error", err)
		s.writeResponse(w, http.StatusBadRequest, s.dispatcher.Reject())
		return
	}

	s.writeResponse(w, http.StatusOK, s.dispatcher.Dispatch(r.Context(), directive))
}

func (s *Server) writeResponse(w http.ResponseWriter, status int, resp application.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) authorized(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}

	// Check header first, then query parameter
	token := r.Header.Get("X-Auth-Token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	return token == s.authToken
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	status := "ok"
	statusCode := http.StatusOK

	if !running {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"status":"%s","running":%t}`, status, running)
}
