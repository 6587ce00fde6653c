package agent

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is how slot times are shown to users and the oracle.
const DisplayLayout = "03:04 PM"

const selectionPrompt = `A user is choosing from a list of available appointment times.

Here are the available slots for %s:
%s

The user's response was: %q

Based on their response, which slot number did they pick?
You MUST return a JSON object with a single key "slot_number" and the value as the integer number they chose.

For example:
- If the user says "I'll take the second one", you return {"slot_number": 2}
- If the user says "9 AM please", and that is option 1, you return {"slot_number": 1}
- If the user says "The 4pm slot works", and that is option 8, you return {"slot_number": 8}

If you cannot determine which number they chose, return {"slot_number": null}.`

// ResolveSelection maps message to a 0-based index into offered. It returns
// false when the oracle fails, cannot tell, or names a number outside
// 1..len(offered).
func ResolveSelection(ctx context.Context, oracle Oracle, message, date string, offered []time.Time) (int, bool) {
	idx, err := resolveSelection(ctx, oracle, message, date, offered)
	return idx, err == nil
}

func resolveSelection(ctx context.Context, oracle Oracle, message, date string, offered []time.Time) (int, error) {
	if len(offered) == 0 {
		return 0, ErrNoSelection
	}

	reply, err := oracle.Complete(ctx, fmt.Sprintf(selectionPrompt, date, numberedSlots(offered), message))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOracleParse, err)
	}

	obj, err := extractObject(reply)
	if err != nil {
		return 0, err
	}

	n, present, ok := intField(obj, "slot_number")
	switch {
	case !present:
		return 0, fmt.Errorf("%w: no slot_number field", ErrOracleParse)
	case !ok:
		return 0, ErrNoSelection
	case n < 1 || n > len(offered):
		return 0, fmt.Errorf("%w: %d not in 1..%d", ErrSelectionOutOfRange, n, len(offered))
	}
	return n - 1, nil
}

func numberedSlots(slots []time.Time) string {
	lines := make([]string, len(slots))
	for i, s := range slots {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s.Format(DisplayLayout))
	}
	return strings.Join(lines, "\n")
}

func joinSlots(slots []time.Time) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = s.Format(DisplayLayout)
	}
	return strings.Join(parts, ", ")
}
