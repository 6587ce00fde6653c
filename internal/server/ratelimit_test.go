package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 3, false, nil)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("192.168.1.1"), "request %d should be within burst", i+1)
	}
	assert.False(t, rl.Allow("192.168.1.1"))

	// Second client has its own bucket.
	assert.True(t, rl.Allow("192.168.1.2"))
}

func TestRateLimiter_Replenish(t *testing.T) {
	rl := NewRateLimiter(100, 1, false, nil)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1, false, nil)
	rl.idleTimeout = 10 * time.Millisecond

	rl.Allow("10.0.0.1")
	time.Sleep(20 * time.Millisecond)
	rl.Allow("10.0.0.2")

	assert.Equal(t, 1, rl.Cleanup())
	assert.Len(t, rl.limiters, 1)
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	rl := NewRateLimiter(1, 1, false, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.168.1.1:1234", want: "192.168.1.1"},
		{name: "ipv6", remoteAddr: "[::1]:1234", want: "::1"},
		{name: "no port", remoteAddr: "192.168.1.1", want: "192.168.1.1"},
		{name: "xff ignored", remoteAddr: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.5"}, want: "10.0.0.1"},
		{name: "xff trusted", remoteAddr: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, trustProxy: true, want: "203.0.113.5"},
		{name: "real ip trusted", remoteAddr: "10.0.0.1:1", headers: map[string]string{"X-Real-IP": "203.0.113.9"}, trustProxy: true, want: "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req, tt.trustProxy))
		})
	}
}
