// Package instrumentation provides OpenTelemetry metrics, tracing and the
// booking audit trail for slotbooker.
//
// # Metrics
//
// HTTP:
//   - http_requests_total: requests by method, route pattern and status
//   - http_request_duration_seconds: request latency
//   - active_sessions: conversation sessions held in the session store
//
// Google Calendar:
//   - google_api_operations_total: calls by service, operation and status
//   - google_api_operation_duration_seconds: call latency
//
// Conversation:
//   - oracle_requests_total / oracle_request_duration_seconds: text-completion calls by provider
//   - conversation_turns_total: turns by route and outcome
//   - bookings_total: booking attempts by status
//
// MCP:
//   - mcp_tool_invocations_total / mcp_tool_duration_seconds
//
// # Tracing
//
// Spans are created for conversation turns (chat.turn), oracle calls
// (oracle.complete), Google API calls (google.<service>.<operation>) and MCP
// tool invocations (tool.<name>).
//
// # Configuration
//
// DefaultConfig reads:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: slotbooker)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_LINKS
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordTurn(ctx, "query_date", instrumentation.OutcomeOffered)
package instrumentation
