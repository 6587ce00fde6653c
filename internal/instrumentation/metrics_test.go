package instrumentation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func gatherNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestMetrics_RecordAll(t *testing.T) {
	provider := newTestProvider(t, ExporterPrometheus, ExporterNone)
	ctx := context.Background()
	m := provider.Metrics()

	m.RecordHTTPRequest(ctx, "POST", "/chat", 200, 120*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceCalendar, OperationList, StatusSuccess, 200*time.Millisecond)
	m.RecordOracleRequest(ctx, "gemini", StatusSuccess, time.Second)
	m.RecordTurn(ctx, "query_date", OutcomeOffered)
	m.RecordBooking(ctx, StatusSuccess)
	m.RecordToolInvocation(ctx, "booking_chat", StatusSuccess, 10*time.Millisecond)
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)

	names := gatherNames(t)
	for _, want := range []string{
		"http_requests_total",
		"google_api_operations_total",
		"oracle_requests_total",
		"conversation_turns_total",
		"bookings_total",
		"mcp_tool_invocations_total",
	} {
		found := false
		for name := range names {
			if strings.HasPrefix(name, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("metric %s not exported", want)
		}
	}
}

func TestMetrics_ZeroValueIsNoop(t *testing.T) {
	ctx := context.Background()
	var m Metrics

	// Should not panic
	m.RecordHTTPRequest(ctx, "GET", "/", 200, time.Millisecond)
	m.RecordOracleRequest(ctx, "openai", StatusError, time.Millisecond)
	m.RecordTurn(ctx, "confirm_selection", OutcomeClarify)
	m.RecordBooking(ctx, StatusError)
	m.IncrementActiveSessions(ctx)

	var nilMetrics *Metrics
	nilMetrics.RecordBooking(ctx, StatusSuccess)
}
