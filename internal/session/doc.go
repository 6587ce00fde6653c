// Package session stores ConversationState per session ID.
//
// MemoryStore is the default and expires idle sessions after a TTL.
// RedisStore shares sessions between replicas. KeyedMutex keeps turns of
// one session from interleaving.
package session
