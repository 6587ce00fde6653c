package calendar

import (
	"fmt"
	"time"
)

// WorkingWindow is the daily bookable range. Slots start every SlotLength
// from StartHour and must end by EndHour.
type WorkingWindow struct {
	StartHour  int
	EndHour    int
	SlotLength time.Duration
}

// DefaultWindow is 09:00 to 17:00 in one-hour slots.
var DefaultWindow = WorkingWindow{StartHour: 9, EndHour: 17, SlotLength: time.Hour}

// Validate checks the window bounds.
func (w WorkingWindow) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("invalid working window %02d:00-%02d:00", w.StartHour, w.EndHour)
	}
	if w.SlotLength <= 0 {
		return fmt.Errorf("slot length must be positive, got %s", w.SlotLength)
	}
	return nil
}

// Bounds returns the window start and end on the calendar date of day, in day's location.
func (w WorkingWindow) Bounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	return time.Date(y, m, d, w.StartHour, 0, 0, 0, loc), time.Date(y, m, d, w.EndHour, 0, 0, 0, loc)
}

// Candidates returns every slot start in the window on day's date.
func (w WorkingWindow) Candidates(day time.Time) []time.Time {
	start, end := w.Bounds(day)
	var slots []time.Time
	for t := start; !t.Add(w.SlotLength).After(end); t = t.Add(w.SlotLength) {
		slots = append(slots, t)
	}
	return slots
}

// FreeSlots returns the window's slot starts on day's date that do not
// coincide exactly with any busy start. Only identical instants exclude a
// slot: a busy period beginning at 11:30 leaves the 11:00 slot free.
func FreeSlots(day time.Time, window WorkingWindow, busyStarts []time.Time) []time.Time {
	free := make([]time.Time, 0, window.EndHour-window.StartHour)
	for _, slot := range window.Candidates(day) {
		taken := false
		for _, busy := range busyStarts {
			if slot.Equal(busy) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, slot)
		}
	}
	return free
}
