package agent

import (
	"context"
	"time"
)

// Oracle turns a prompt into a short text reply. Replies are untrusted and
// may wrap the requested JSON in prose or code fences.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Calendar is the booking backend.
type Calendar interface {
	// ListFreeSlots returns the free one-hour slot starts on date's calendar day.
	ListFreeSlots(ctx context.Context, date time.Time) ([]time.Time, error)
	// Book creates a one-hour event at start and returns a link to it.
	Book(ctx context.Context, start time.Time, summary string) (string, error)
}
