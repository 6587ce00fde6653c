package agent

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const datePrompt = `Analyze the user prompt to determine the desired date for an appointment.
Today's date is %s (%s).
User prompt: %q
Return a JSON object with a single key "date" and the value as the extracted date in "YYYY-MM-DD" format.
If no specific date is found, return an empty JSON object.`

// ExtractDate asks oracle for the date message refers to, relative to
// reference. It returns the ISO date and true, or "" and false when the
// oracle fails, answers without a date, or answers with something that is
// not a calendar date. A time component in the answer, after "T" or a
// space, is dropped.
func ExtractDate(ctx context.Context, oracle Oracle, message string, reference time.Time) (string, bool) {
	date, err := extractDate(ctx, oracle, message, reference)
	return date, err == nil
}

func extractDate(ctx context.Context, oracle Oracle, message string, reference time.Time) (string, error) {
	prompt := fmt.Sprintf(datePrompt, reference.Format(DateLayout), reference.Weekday(), message)

	reply, err := oracle.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	obj, err := extractObject(reply)
	if err != nil {
		return "", err
	}

	raw, ok := stringField(obj, "date")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: no date field", ErrOracleParse)
	}

	date := strings.TrimSpace(raw)
	if i := strings.IndexAny(date, "T "); i >= 0 {
		date = date[:i]
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: %q is not a date", ErrOracleParse, raw)
	}
	return date, nil
}
