package session

import (
	"context"
	"errors"

	"github.com/teemow/slotbooker/internal/agent"
)

// ErrNotFound is returned by Load when a session has no stored state.
var ErrNotFound = errors.New("session not found")

// Store persists conversation state keyed by session ID.
type Store interface {
	Load(ctx context.Context, sessionID string) (agent.ConversationState, error)
	Save(ctx context.Context, sessionID string, state agent.ConversationState) error
	Delete(ctx context.Context, sessionID string) error
}

// LoadOrNew returns the stored state for sessionID, or a fresh state when
// none exists.
func LoadOrNew(ctx context.Context, store Store, sessionID string) (agent.ConversationState, error) {
	state, err := store.Load(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return agent.ConversationState{}, nil
	}
	return state, err
}
