package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teemow/slotbooker/internal/agent"
	"github.com/teemow/slotbooker/internal/instrumentation"
	"github.com/teemow/slotbooker/internal/logging"
	"github.com/teemow/slotbooker/internal/session"
)

// maxRequestBytes caps the /chat request body.
const maxRequestBytes = 64 << 10

// DefaultTurnTimeout bounds one conversation turn including oracle and calendar calls.
const DefaultTurnTimeout = 60 * time.Second

// RootMessage is returned by GET /.
const RootMessage = "Calendar Booking Agent is running!"

// TurnHandler runs one conversation turn. *agent.Agent implements it.
type TurnHandler interface {
	HandleTurn(ctx context.Context, state agent.ConversationState, message string) (agent.ConversationState, string)
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the reply to POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ChatConfig configures a ChatServer.
type ChatConfig struct {
	Agent TurnHandler
	Store session.Store
	// Locks serializes turns per session. A new KeyedMutex is used when nil.
	Locks       *session.KeyedMutex
	TurnTimeout time.Duration

	// RateLimiter guards /chat when set.
	RateLimiter *RateLimiter
	Health      *HealthChecker
	// MCPHandler is mounted at /mcp when set.
	MCPHandler http.Handler

	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

// ChatServer exposes the booking conversation over HTTP.
type ChatServer struct {
	router      chi.Router
	agent       TurnHandler
	store       session.Store
	locks       *session.KeyedMutex
	turnTimeout time.Duration
	metrics     *instrumentation.Metrics
	logger      *slog.Logger
}

// NewChatServer builds the router.
func NewChatServer(cfg ChatConfig) (*ChatServer, error) {
	if cfg.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Locks == nil {
		cfg.Locks = session.NewKeyedMutex()
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = DefaultTurnTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &ChatServer{
		router:      chi.NewRouter(),
		agent:       cfg.Agent,
		store:       cfg.Store,
		locks:       cfg.Locks,
		turnTimeout: cfg.TurnTimeout,
		metrics:     cfg.Metrics,
		logger:      logging.WithComponent(cfg.Logger, "http"),
	}
	s.routes(cfg)
	return s, nil
}

func (s *ChatServer) routes(cfg ChatConfig) {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument(s.metrics, s.logger))

	r.Get("/", s.handleRoot)
	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Middleware)
		}
		r.Post("/chat", s.handleChat)
	})

	if cfg.Health != nil {
		cfg.Health.RegisterHealthEndpoints(r)
	}
	if cfg.MCPHandler != nil {
		r.Handle("/mcp", cfg.MCPHandler)
	}
}

// Handler returns the HTTP handler.
func (s *ChatServer) Handler() http.Handler {
	return s.router
}

func (s *ChatServer) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": RootMessage})
}

func (s *ChatServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session_id is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	reply, err := s.Turn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.logger.Error("chat turn failed", logging.Session(req.SessionID), logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not process the message, please try again"})
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
}

// Turn runs one turn for sessionID: load the state, handle the message and
// store the result. Turns of one session never overlap. Only session store
// failures are returned as errors.
func (s *ChatServer) Turn(ctx context.Context, sessionID, message string) (string, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	state, err := session.LoadOrNew(ctx, s.store, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	turnCtx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	next, reply := s.agent.HandleTurn(turnCtx, state, message)
	cancel()

	if reply == "" {
		reply = agent.FallbackReply
	}

	// The state is saved even if the client went away mid-turn.
	if err := s.store.Save(context.WithoutCancel(ctx), sessionID, next); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Debug("turn complete",
		logging.Session(sessionID),
		slog.Int("offered", len(next.OfferedSlots)),
		slog.String("reply", logging.Truncate(reply, 80)))

	return reply, nil
}
