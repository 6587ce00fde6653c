// Package server exposes the booking agent over HTTP.
//
// # Key Components
//
// ChatServer routes requests with chi:
//   - GET / reports that the service is running
//   - POST /chat runs one conversation turn for a session
//   - /healthz, /readyz and /healthz/detailed serve Kubernetes probes
//   - /mcp optionally mounts the streamable MCP endpoint
//
// Turns of one session are serialized with a per-session lock and the
// conversation state is loaded from and saved to a session.Store around
// each turn. RateLimiter applies a per-client token bucket to /chat.
//
// MetricsServer serves Prometheus metrics on a dedicated port.
package server
