package agent

import "errors"

var (
	// ErrOracleParse marks an oracle reply without a usable structured field.
	ErrOracleParse = errors.New("oracle reply could not be parsed")

	// ErrCalendarUnavailable wraps failures of the calendar collaborator.
	ErrCalendarUnavailable = errors.New("calendar unavailable")

	// ErrNoSelection is returned when the oracle could not tell which slot was meant.
	ErrNoSelection = errors.New("no slot selected")

	// ErrSelectionOutOfRange is returned for slot numbers outside the offered list.
	ErrSelectionOutOfRange = errors.New("slot number out of range")
)
