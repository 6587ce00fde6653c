package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/slotbooker/internal/instrumentation"
	"github.com/teemow/slotbooker/internal/logging"
)

// EventStore is the part of the Calendar API the booking service uses.
// *Client implements it.
type EventStore interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]EventSummary, error)
	CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error)
}

// ServiceConfig configures a booking Service.
type ServiceConfig struct {
	// CalendarID defaults to "primary".
	CalendarID string
	// Location is the fixed zone slots are computed and booked in. Defaults to UTC.
	Location *time.Location
	// Window defaults to DefaultWindow.
	Window WorkingWindow

	Metrics *instrumentation.Metrics
	Audit   *instrumentation.AuditLogger
	Logger  *slog.Logger
}

// Service lists free slots and books them on a single calendar.
type Service struct {
	store      EventStore
	calendarID string
	loc        *time.Location
	window     WorkingWindow
	metrics    *instrumentation.Metrics
	audit      *instrumentation.AuditLogger
	logger     *slog.Logger
}

// NewService creates a booking Service over store.
func NewService(store EventStore, cfg ServiceConfig) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("event store cannot be nil")
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Window == (WorkingWindow{}) {
		cfg.Window = DefaultWindow
	}
	if err := cfg.Window.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Service{
		store:      store,
		calendarID: cfg.CalendarID,
		loc:        cfg.Location,
		window:     cfg.Window,
		metrics:    cfg.Metrics,
		audit:      cfg.Audit,
		logger:     logging.WithComponent(cfg.Logger, "calendar"),
	}, nil
}

// CalendarID returns the calendar bookings are made on.
func (s *Service) CalendarID() string {
	return s.calendarID
}

// Location returns the zone slots are expressed in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// ListFreeSlots returns the free slot starts on date's calendar day. Only
// date's year, month and day are used; the day is interpreted in the
// service location.
func (s *Service) ListFreeSlots(ctx context.Context, date time.Time) ([]time.Time, error) {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	windowStart, windowEnd := s.window.Bounds(day)

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationList)
	defer span.End()

	start := time.Now()
	events, err := s.store.ListEvents(ctx, s.calendarID, windowStart, windowEnd)
	s.recordAPI(ctx, instrumentation.OperationList, err, time.Since(start))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.logger.Warn("listing events failed", logging.Operation("calendar.list"), logging.Err(err))
		return nil, err
	}

	busy := make([]time.Time, 0, len(events))
	for _, ev := range events {
		if ev.AllDay || ev.Start.IsZero() {
			continue
		}
		busy = append(busy, ev.Start)
	}

	free := FreeSlots(day, s.window, busy)
	span.SetAttributes(instrumentation.NewSpanAttributeBuilder().WithSlotCount(len(free)).Build()...)
	instrumentation.SetSpanSuccess(span)

	s.logger.Debug("free slots computed",
		logging.Operation("calendar.list"),
		"date", day.Format(DateLayout),
		"events", len(events),
		"free", len(free))

	return free, nil
}

// Book creates a one-hour event starting at start and returns the event's
// HTML link. start is converted to the service location first.
func (s *Service) Book(ctx context.Context, start time.Time, summary string) (string, error) {
	start = start.In(s.loc)
	slot := start.Format(SlotLayout)

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationCreate,
		instrumentation.NewSpanAttributeBuilder().WithSlot(slot).Build()...)
	defer span.End()

	record := instrumentation.NewBookingRecord(s.calendarID, slot, summary).WithSpanContext(ctx)

	began := time.Now()
	created, err := s.store.CreateEvent(ctx, s.calendarID, EventInput{
		Summary:  summary,
		Start:    start,
		End:      start.Add(s.window.SlotLength),
		TimeZone: s.loc.String(),
	})
	s.recordAPI(ctx, instrumentation.OperationCreate, err, time.Since(began))

	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.metrics.RecordBooking(ctx, instrumentation.StatusError)
		s.audit.LogBooking(record.Complete(err))
		return "", err
	}

	instrumentation.SetSpanSuccess(span)
	s.metrics.RecordBooking(ctx, instrumentation.StatusSuccess)
	s.audit.LogBooking(record.WithEvent(created.ID, created.HTMLLink).Complete(nil))

	return created.HTMLLink, nil
}

func (s *Service) recordAPI(ctx context.Context, operation string, err error, d time.Duration) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	s.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operation, status, d)
}
