package agent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationState_Clone(t *testing.T) {
	s := offeredState()
	c := s.Clone()
	c.OfferedSlots[0] = "changed"

	assert.Equal(t, "2025-06-03T09:00:00", s.OfferedSlots[0])
	assert.True(t, c.HasOffer())
	assert.False(t, ConversationState{}.HasOffer())
}

func TestConversationState_JSON(t *testing.T) {
	data, err := json.Marshal(ConversationState{LastUserMessage: "hi"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "booking_confirmation")
	assert.Contains(t, string(data), `"last_user_message":"hi"`)
}

func TestEncodeDecodeSlots(t *testing.T) {
	slots := []time.Time{time.Date(2025, 6, 3, 16, 0, 0, 0, time.UTC)}

	encoded := EncodeSlots(slots, testLoc)
	assert.Equal(t, []string{"2025-06-03T09:00:00"}, encoded)

	decoded, err := DecodeSlots(encoded, testLoc)
	require.NoError(t, err)
	assert.True(t, decoded[0].Equal(slots[0]))

	_, err = DecodeSlots([]string{"2025-06-03 09:00"}, testLoc)
	assert.Error(t, err)
}
