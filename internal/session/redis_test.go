package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/slotbooker/internal/agent"
)

func TestNewRedisStoreWithClient_Defaults(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	s := NewRedisStoreWithClient(client, "", 0)
	assert.Equal(t, DefaultTTL, s.ttl)
	assert.Equal(t, DefaultKeyPrefix+"abc", s.key("abc"))
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

// TestRedisStore_RoundTrip needs a live server at REDIS_ADDR.
func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, KeyPrefix: "slotbooker-test:", TTL: time.Minute})
	require.NoError(t, err)
	defer s.Close()

	id := uuid.NewString()
	_, err = s.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	state := agent.ConversationState{LastUserMessage: "tomorrow", OfferedSlots: []string{"2025-06-03T09:00:00"}, TargetDate: "2025-06-03"}
	require.NoError(t, s.Save(ctx, id, state))

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, state, got)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
