package oracle

import (
	"context"
	"log/slog"
	"time"

	"github.com/teemow/slotbooker/internal/instrumentation"
	"github.com/teemow/slotbooker/internal/logging"
)

type instrumented struct {
	inner    Completer
	provider string
	model    string
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
}

// NewInstrumented records a span, a metric and a debug log line per call.
func NewInstrumented(inner Completer, provider, model string, metrics *instrumentation.Metrics, logger *slog.Logger) Completer {
	if logger == nil {
		logger = slog.Default()
	}
	return &instrumented{
		inner:    inner,
		provider: provider,
		model:    model,
		metrics:  metrics,
		logger:   logging.WithComponent(logger, "oracle").With(logging.Provider(provider)),
	}
}

func (i *instrumented) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := instrumentation.StartOracleSpan(ctx, i.provider, i.model)
	defer span.End()

	start := time.Now()
	reply, err := i.inner.Complete(ctx, prompt)
	elapsed := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		i.logger.Warn("completion failed", "duration", elapsed, logging.Err(err))
	} else {
		instrumentation.SetSpanSuccess(span)
		i.logger.Debug("completion",
			"duration", elapsed,
			"prompt", logging.Truncate(prompt, 120),
			"reply", logging.Truncate(reply, 120))
	}
	i.metrics.RecordOracleRequest(ctx, i.provider, status, elapsed)

	return reply, err
}
