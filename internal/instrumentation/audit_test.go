package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestBookingRecord_Complete(t *testing.T) {
	r := NewBookingRecord("primary", "2025-06-03T10:00:00", "Meeting").
		WithEvent("evt1", "https://calendar.google.com/event?eid=1").
		Complete(nil)

	if !r.Success || r.Status() != StatusSuccess {
		t.Errorf("expected success, got %v/%s", r.Success, r.Status())
	}
	if r.Duration < 0 {
		t.Error("duration should not be negative")
	}

	failed := NewBookingRecord("primary", "2025-06-03T11:00:00", "").Complete(errors.New("forbidden"))
	if failed.Success || failed.Status() != StatusError || failed.Error != "forbidden" {
		t.Errorf("unexpected failed record %+v", failed)
	}
}

func TestBookingRecord_LogAttrs(t *testing.T) {
	r := NewBookingRecord("primary", "2025-06-03T10:00:00", "Meeting").
		WithEvent("evt1", "https://link").
		Complete(nil)

	keys := func(includeLink bool) map[string]bool {
		out := map[string]bool{}
		for _, a := range r.LogAttrs(includeLink) {
			out[a.Key] = true
		}
		return out
	}

	if keys(false)["event_link"] {
		t.Error("event link should be omitted by default")
	}
	if !keys(true)["event_link"] {
		t.Error("event link should be included when requested")
	}
	if !keys(false)["event_id"] || !keys(false)["slot"] {
		t.Error("expected event_id and slot attributes")
	}
}

func TestAuditLogger_LogBooking(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLogger(logger)
	al.LogBooking(NewBookingRecord("primary", "2025-06-03T10:00:00", "").Complete(nil))
	al.LogBooking(NewBookingRecord("primary", "2025-06-03T11:00:00", "").Complete(errors.New("boom")))

	out := buf.String()
	if !strings.Contains(out, "msg=booking_created") {
		t.Errorf("missing success entry: %s", out)
	}
	if !strings.Contains(out, "level=WARN msg=booking_failed") {
		t.Errorf("missing failure entry: %s", out)
	}
	if !strings.Contains(out, "component=audit") {
		t.Errorf("missing component attribute: %s", out)
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(slog.New(slog.NewTextHandler(&buf, nil)), AuditLoggingConfig{Enabled: false})
	al.LogBooking(NewBookingRecord("primary", "x", "").Complete(nil))

	var nilLogger *AuditLogger
	nilLogger.LogBooking(NewBookingRecord("primary", "x", "").Complete(nil))

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %s", buf.String())
	}
}
