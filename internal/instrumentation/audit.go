package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

// BookingRecord captures one calendar booking attempt for the audit trail.
type BookingRecord struct {
	CalendarID string
	SlotStart  string
	Summary    string
	EventID    string
	EventLink  string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewBookingRecord starts timing a booking of slotStart on calendarID.
// Call Complete when the calendar call returns.
func NewBookingRecord(calendarID, slotStart, summary string) *BookingRecord {
	return &BookingRecord{
		CalendarID: calendarID,
		SlotStart:  slotStart,
		Summary:    summary,
		StartTime:  time.Now(),
	}
}

// WithSpanContext copies trace and span ids from ctx.
func (r *BookingRecord) WithSpanContext(ctx context.Context) *BookingRecord {
	r.TraceID = GetTraceID(ctx)
	r.SpanID = GetSpanID(ctx)
	return r
}

// WithEvent sets the created event's id and link.
func (r *BookingRecord) WithEvent(id, link string) *BookingRecord {
	r.EventID = id
	r.EventLink = link
	return r
}

// Complete stops the timer and records the result.
func (r *BookingRecord) Complete(err error) *BookingRecord {
	r.Duration = time.Since(r.StartTime)
	r.Success = err == nil
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Status returns "success" or "error".
func (r *BookingRecord) Status() string {
	if r.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns the slog attributes for the record. The event link is
// only included when includeLink is set.
func (r *BookingRecord) LogAttrs(includeLink bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("calendar", r.CalendarID),
		slog.String("slot", r.SlotStart),
		slog.Duration("duration", r.Duration),
		slog.Bool("success", r.Success),
	}
	if r.Summary != "" {
		attrs = append(attrs, slog.String("summary", r.Summary))
	}
	if r.EventID != "" {
		attrs = append(attrs, slog.String("event_id", r.EventID))
	}
	if includeLink && r.EventLink != "" {
		attrs = append(attrs, slog.String("event_link", r.EventLink))
	}
	if r.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", r.TraceID), slog.String("span_id", r.SpanID))
	}
	if r.Error != "" {
		attrs = append(attrs, slog.String("error", r.Error))
	}
	return attrs
}

// AuditLogger writes booking audit records.
type AuditLogger struct {
	logger       *slog.Logger
	enabled      bool
	includeLinks bool
}

// NewAuditLogger creates an enabled AuditLogger without event links.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates an AuditLogger from config. A nil logger uses slog.Default().
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:       logger.With(slog.String("component", "audit")),
		enabled:      config.Enabled,
		includeLinks: config.IncludeLinks,
	}
}

// LogBooking writes r at Info on success and Warn on failure.
func (al *AuditLogger) LogBooking(r *BookingRecord) {
	if al == nil || !al.enabled || r == nil {
		return
	}

	attrs := r.LogAttrs(al.includeLinks)
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if r.Success {
		al.logger.Info("booking_created", args...)
	} else {
		al.logger.Warn("booking_failed", args...)
	}
}
