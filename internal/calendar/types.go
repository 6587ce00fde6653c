package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// DateLayout is the ISO calendar date format used for all-day events and date arguments.
const DateLayout = "2006-01-02"

// SlotLayout is the wall-clock format slots are serialized with in the
// configured time zone.
const SlotLayout = "2006-01-02T15:04:05"

// EventInput describes an event to create.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	// TimeZone is the IANA zone label sent with the start and end wall-clock times.
	TimeZone string
}

// EventSummary is the subset of a calendar event the booking flow needs.
type EventSummary struct {
	ID       string
	Summary  string
	Start    time.Time
	End      time.Time
	AllDay   bool
	Status   string
	HTMLLink string
}

func toEventSummary(event *calendar.Event) EventSummary {
	if event == nil {
		return EventSummary{}
	}

	summary := EventSummary{
		ID:       event.Id,
		Summary:  event.Summary,
		Status:   event.Status,
		HTMLLink: event.HtmlLink,
	}

	if start, allDay, ok := parseEventTime(event.Start); ok {
		summary.Start = start
		summary.AllDay = allDay
	}
	if end, _, ok := parseEventTime(event.End); ok {
		summary.End = end
	}

	return summary
}

// parseEventTime reads either the timed or the all-day form of an event boundary.
func parseEventTime(edt *calendar.EventDateTime) (t time.Time, allDay bool, ok bool) {
	if edt == nil {
		return time.Time{}, false, false
	}
	if edt.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, edt.DateTime)
		return parsed, false, err == nil
	}
	if edt.Date != "" {
		parsed, err := time.Parse(DateLayout, edt.Date)
		return parsed, true, err == nil
	}
	return time.Time{}, false, false
}
