package oracle

import "context"

type limited struct {
	inner Completer
	sem   chan struct{}
}

// NewLimited caps concurrent Complete calls on inner at maxConcurrent.
// Waiting callers give up when their context ends. maxConcurrent <= 0
// returns inner unchanged.
func NewLimited(inner Completer, maxConcurrent int) Completer {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limited{inner: inner, sem: make(chan struct{}, maxConcurrent)}
}

func (l *limited) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Complete(ctx, prompt)
}
