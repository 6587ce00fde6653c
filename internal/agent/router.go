package agent

import (
	"context"
	"fmt"
	"strings"
)

// Action is the router's decision for a turn.
type Action string

const (
	// ActionQueryDate treats the message as a request for availability on a date.
	ActionQueryDate Action = "query_date"
	// ActionConfirmSelection treats the message as a pick among the offered slots.
	ActionConfirmSelection Action = "confirm_selection"
)

const routerPrompt = `You are an AI assistant helping a user book an appointment.
The user was just shown a list of available time slots:
%s
The user's latest message is: %q

Based on this message, are they trying to select a time or are they asking a new question?
Choose one: "confirm_booking" or "check_availability"
Return a single JSON object with the key "action" and your choice as the value.`

// Route decides how to treat message. Without an offer it returns
// ActionQueryDate without consulting the oracle. Otherwise the oracle
// classifies the message; any failure or unknown label falls back to
// ActionQueryDate so the user is asked again rather than booked wrongly.
func Route(ctx context.Context, oracle Oracle, state ConversationState, message string) Action {
	if !state.HasOffer() {
		return ActionQueryDate
	}

	reply, err := oracle.Complete(ctx, fmt.Sprintf(routerPrompt, strings.Join(state.OfferedSlots, "\n"), message))
	if err != nil {
		return ActionQueryDate
	}
	obj, err := extractObject(reply)
	if err != nil {
		return ActionQueryDate
	}
	label, _ := stringField(obj, "action")

	switch strings.ToLower(strings.TrimSpace(label)) {
	case "confirm_booking", string(ActionConfirmSelection):
		return ActionConfirmSelection
	default:
		return ActionQueryDate
	}
}
