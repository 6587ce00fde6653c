package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer name used for all application spans.
const TracerName = "github.com/teemow/slotbooker"

// Span attribute keys.
const (
	SpanAttrTool      = "mcp.tool"
	SpanAttrService   = "google.service"
	SpanAttrOperation = "google.operation"
	SpanAttrSession   = "chat.session"
	SpanAttrRoute     = "chat.route"
	SpanAttrOutcome   = "chat.outcome"
	SpanAttrProvider  = "oracle.provider"
	SpanAttrModel     = "oracle.model"
	SpanAttrSlot      = "calendar.slot"
	SpanAttrSlotCount = "calendar.slot_count"
)

// SpanAttributeBuilder helps construct span attributes with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{attrs: make([]attribute.KeyValue, 0, 8)}
}

// WithSession adds the hashed session id. Empty values are skipped.
func (b *SpanAttributeBuilder) WithSession(sessionHash string) *SpanAttributeBuilder {
	if sessionHash != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrSession, sessionHash))
	}
	return b
}

// WithRoute adds the router decision.
func (b *SpanAttributeBuilder) WithRoute(route string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrRoute, route))
	return b
}

// WithOutcome adds the turn outcome.
func (b *SpanAttributeBuilder) WithOutcome(outcome string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrOutcome, outcome))
	return b
}

// WithSlot adds a slot start in its serialized form. Empty values are skipped.
func (b *SpanAttributeBuilder) WithSlot(slot string) *SpanAttributeBuilder {
	if slot != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrSlot, slot))
	}
	return b
}

// WithSlotCount adds the number of slots involved in an operation.
func (b *SpanAttributeBuilder) WithSlotCount(n int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int(SpanAttrSlotCount, n))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts a new internal span. The caller ends it with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartTurnSpan starts the server span for one conversation turn.
func StartTurnSpan(ctx context.Context, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "chat.turn",
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartToolSpan starts a span for an MCP tool invocation.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...)
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "tool."+toolName,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartGoogleAPISpan starts a client span named google.<service>.<operation>.
func StartGoogleAPISpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{
		attribute.String(SpanAttrService, service),
		attribute.String(SpanAttrOperation, operation),
	}, attrs...)
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "google."+service+"."+operation,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// StartOracleSpan starts a client span for a text-completion request.
func StartOracleSpan(ctx context.Context, provider, model string) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "oracle.complete",
		trace.WithAttributes(
			attribute.String(SpanAttrProvider, provider),
			attribute.String(SpanAttrModel, model),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records err on the span and marks it failed. A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID of the span in ctx, or "" without a valid span.
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID of the span in ctx, or "" without a valid span.
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}
