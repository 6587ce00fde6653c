package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemow/slotbooker/internal/instrumentation"
)

// ErrEmptyReply is returned when a provider answers without any text.
var ErrEmptyReply = errors.New("oracle returned an empty reply")

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Completer turns a single prompt into a short text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	// Provider is "gemini" or "openai". Empty selects by model name prefix,
	// falling back to gemini.
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the provider endpoint. Used for proxies and tests.
	BaseURL string
	// MaxConcurrency caps in-flight requests; zero or less disables the cap.
	MaxConcurrency int
}

// ResolveProvider returns the provider New would use for cfg.
func (c Config) ResolveProvider() string {
	if p := strings.ToLower(strings.TrimSpace(c.Provider)); p != "" {
		return p
	}
	model := strings.ToLower(c.Model)
	switch {
	case strings.HasPrefix(model, "gpt"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"), strings.HasPrefix(model, "o4"):
		return ProviderOpenAI
	default:
		return ProviderGemini
	}
}

// New builds the configured provider, wrapped with instrumentation and the
// optional concurrency cap.
func New(ctx context.Context, cfg Config, metrics *instrumentation.Metrics, logger *slog.Logger) (Completer, error) {
	provider := cfg.ResolveProvider()

	var (
		base  Completer
		model string
		err   error
	)
	switch provider {
	case ProviderGemini:
		model = modelOrDefault(cfg.Model, DefaultGeminiModel)
		base, err = NewGemini(ctx, cfg.APIKey, cfg.BaseURL, model)
	case ProviderOpenAI:
		model = modelOrDefault(cfg.Model, DefaultOpenAIModel)
		base, err = NewOpenAI(cfg.APIKey, cfg.BaseURL, model)
	default:
		return nil, fmt.Errorf("unsupported oracle provider %q", provider)
	}
	if err != nil {
		return nil, err
	}

	return NewLimited(NewInstrumented(base, provider, model, metrics, logger), cfg.MaxConcurrency), nil
}

func modelOrDefault(model, def string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return def
}
