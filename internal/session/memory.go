package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/slotbooker/internal/agent"
	"github.com/teemow/slotbooker/internal/instrumentation"
	"github.com/teemow/slotbooker/internal/logging"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// DefaultCleanupInterval is how often expired sessions are swept.
const DefaultCleanupInterval = 10 * time.Minute

type entry struct {
	state      agent.ConversationState
	lastAccess time.Time
}

// MemoryStore keeps sessions in process memory and drops them after an idle TTL.
type MemoryStore struct {
	sessions      map[string]*entry
	mu            sync.RWMutex
	cleanupTicker *time.Ticker
	cleanupDone   chan struct{}
	stopOnce      sync.Once
	ttl           time.Duration
	now           func() time.Time
	metrics       *instrumentation.Metrics
	logger        *slog.Logger
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMetrics reports the active session count.
func WithMetrics(m *instrumentation.Metrics) MemoryOption {
	return func(s *MemoryStore) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) MemoryOption {
	return func(s *MemoryStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now. Used in tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore creates a MemoryStore and starts its cleanup goroutine.
// A non-positive ttl selects DefaultTTL. Call Stop to release the goroutine.
func NewMemoryStore(ttl, cleanupInterval time.Duration, opts ...MemoryOption) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	s := &MemoryStore{
		sessions:      make(map[string]*entry),
		cleanupTicker: time.NewTicker(cleanupInterval),
		cleanupDone:   make(chan struct{}),
		ttl:           ttl,
		now:           time.Now,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.WithComponent(s.logger, "session")

	go s.cleanupLoop()

	return s
}

// Load returns a copy of the stored state.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (agent.ConversationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok || s.expired(e) {
		return agent.ConversationState{}, ErrNotFound
	}
	e.lastAccess = s.now()
	return e.state.Clone(), nil
}

// Save stores a copy of state.
func (s *MemoryStore) Save(ctx context.Context, sessionID string, state agent.ConversationState) error {
	s.mu.Lock()
	_, existed := s.sessions[sessionID]
	s.sessions[sessionID] = &entry{state: state.Clone(), lastAccess: s.now()}
	s.mu.Unlock()

	if !existed {
		s.metrics.IncrementActiveSessions(ctx)
	}
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	_, existed := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if existed {
		s.metrics.DecrementActiveSessions(ctx)
	}
	return nil
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() {
		s.cleanupTicker.Stop()
		close(s.cleanupDone)
	})
}

func (s *MemoryStore) expired(e *entry) bool {
	return s.now().Sub(e.lastAccess) > s.ttl
}

// sweep removes expired sessions and returns how many were dropped.
func (s *MemoryStore) sweep() int {
	s.mu.Lock()
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.mu.Unlock()

	for i := 0; i < removed; i++ {
		s.metrics.DecrementActiveSessions(context.Background())
	}
	return removed
}

func (s *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-s.cleanupTicker.C:
			if n := s.sweep(); n > 0 {
				s.logger.Info("cleaned up expired sessions", "count", n)
			}
		case <-s.cleanupDone:
			return
		}
	}
}
