package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	calendar "google.golang.org/api/calendar/v3"
)

func TestToEventSummary(t *testing.T) {
	assert.Equal(t, EventSummary{}, toEventSummary(nil))

	timed := toEventSummary(&calendar.Event{
		Id:       "evt1",
		Summary:  "Standup",
		Status:   "confirmed",
		HtmlLink: "https://www.google.com/calendar/event?eid=abc",
		Start:    &calendar.EventDateTime{DateTime: "2025-06-03T10:00:00-07:00"},
		End:      &calendar.EventDateTime{DateTime: "2025-06-03T11:00:00-07:00"},
	})
	assert.Equal(t, "evt1", timed.ID)
	assert.False(t, timed.AllDay)
	assert.True(t, timed.Start.Equal(time.Date(2025, 6, 3, 17, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Hour, timed.End.Sub(timed.Start))
	assert.Equal(t, "https://www.google.com/calendar/event?eid=abc", timed.HTMLLink)

	allDay := toEventSummary(&calendar.Event{
		Start: &calendar.EventDateTime{Date: "2025-06-03"},
		End:   &calendar.EventDateTime{Date: "2025-06-04"},
	})
	assert.True(t, allDay.AllDay)
	assert.Equal(t, 3, allDay.Start.Day())

	broken := toEventSummary(&calendar.Event{Start: &calendar.EventDateTime{DateTime: "not a time"}})
	assert.True(t, broken.Start.IsZero())
}

func TestEventDateTime(t *testing.T) {
	start := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)

	labelled := eventDateTime(start, "America/Los_Angeles")
	assert.Equal(t, "2025-06-03T10:00:00", labelled.DateTime)
	assert.Equal(t, "America/Los_Angeles", labelled.TimeZone)

	instant := eventDateTime(start, "")
	assert.Equal(t, "2025-06-03T10:00:00Z", instant.DateTime)
	assert.Empty(t, instant.TimeZone)
}
