package agent

import (
	"fmt"
	"slices"
	"time"
)

// SlotLayout is the wall-clock format offered slots are stored with.
const SlotLayout = "2006-01-02T15:04:05"

// DateLayout is the ISO date format of TargetDate.
const DateLayout = "2006-01-02"

// ConversationState is the per-session memory carried between turns.
type ConversationState struct {
	LastUserMessage string `json:"last_user_message"`
	// OfferedSlots holds the slot starts last offered to the user, in
	// SlotLayout. Empty means no offer is pending.
	OfferedSlots        []string `json:"offered_slots"`
	TargetDate          string   `json:"target_date"`
	BookingConfirmation string   `json:"booking_confirmation,omitempty"`
}

// HasOffer reports whether slots are currently offered.
func (s ConversationState) HasOffer() bool {
	return len(s.OfferedSlots) > 0
}

// Clone returns a deep copy.
func (s ConversationState) Clone() ConversationState {
	s.OfferedSlots = slices.Clone(s.OfferedSlots)
	return s
}

// reset clears any pending offer.
func (s ConversationState) reset() ConversationState {
	s.OfferedSlots = nil
	s.TargetDate = ""
	return s
}

// BookingResult is returned for a successful booking.
type BookingResult struct {
	ConfirmationLink string
}

// EncodeSlots serializes slot starts in loc.
func EncodeSlots(slots []time.Time, loc *time.Location) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.In(loc).Format(SlotLayout)
	}
	return out
}

// DecodeSlots parses stored slot strings as wall-clock times in loc.
func DecodeSlots(slots []string, loc *time.Location) ([]time.Time, error) {
	out := make([]time.Time, len(slots))
	for i, s := range slots {
		t, err := time.ParseInLocation(SlotLayout, s, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid offered slot %q: %w", s, err)
		}
		out[i] = t
	}
	return out, nil
}
