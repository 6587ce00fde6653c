package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/slotbooker/internal/agent"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T, ttl time.Duration) (*MemoryStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(ttl, time.Hour, WithClock(clock.Now))
	t.Cleanup(s.Stop)
	return s, clock
}

func TestMemoryStore_SaveLoad(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	_, err := s.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	state := agent.ConversationState{OfferedSlots: []string{"2025-06-03T09:00:00"}, TargetDate: "2025-06-03"}
	require.NoError(t, s.Save(ctx, "a", state))

	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, state, got)

	// Returned state is a copy.
	got.OfferedSlots[0] = "mutated"
	again, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03T09:00:00", again.OfferedSlots[0])

	_, err = s.Load(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", agent.ConversationState{}))
	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "unknown"))

	_, err := s.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_Expiry(t *testing.T) {
	s, clock := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "old", agent.ConversationState{TargetDate: "2025-06-03"}))
	clock.Advance(30 * time.Minute)
	require.NoError(t, s.Save(ctx, "new", agent.ConversationState{}))

	// Loading refreshes last access.
	clock.Advance(45 * time.Minute)
	_, err := s.Load(ctx, "new")
	require.NoError(t, err)

	_, err = s.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, s.sweep())
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_StopTwice(t *testing.T) {
	s := NewMemoryStore(0, 0)
	assert.Equal(t, DefaultTTL, s.ttl)
	s.Stop()
	s.Stop()
}

func TestLoadOrNew(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	state, err := LoadOrNew(ctx, s, "fresh")
	require.NoError(t, err)
	assert.Equal(t, agent.ConversationState{}, state)

	require.NoError(t, s.Save(ctx, "fresh", agent.ConversationState{TargetDate: "2025-06-03"}))
	state, err = LoadOrNew(ctx, s, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03", state.TargetDate)
}
