package google

import (
	calendar "google.golang.org/api/calendar/v3"
)

// CalendarScopes are the OAuth scopes needed to read events and book slots.
var CalendarScopes = []string{
	calendar.CalendarScope,
}
