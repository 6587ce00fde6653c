package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveSelection(t *testing.T) {
	day := time.Date(2025, 6, 3, 0, 0, 0, 0, testLoc)
	offered := hourSlots(day, 9, 10, 11)

	tests := []struct {
		name    string
		reply   string
		want    int
		wantOK  bool
		wantErr error
	}{
		{name: "first", reply: `{"slot_number": 1}`, want: 0, wantOK: true},
		{name: "last", reply: `{"slot_number": 3}`, want: 2, wantOK: true},
		{name: "zero", reply: `{"slot_number": 0}`, wantErr: ErrSelectionOutOfRange},
		{name: "one past end", reply: `{"slot_number": 4}`, wantErr: ErrSelectionOutOfRange},
		{name: "null", reply: `{"slot_number": null}`, wantErr: ErrNoSelection},
		{name: "missing", reply: `{}`, wantErr: ErrOracleParse},
		{name: "prose", reply: "The second one, I think.", wantErr: ErrOracleParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveSelection(context.Background(), newScriptedOracle(tt.reply), "pick", "2025-06-03", offered)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}

			_, err := resolveSelection(context.Background(), newScriptedOracle(tt.reply), "pick", "2025-06-03", offered)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveSelection_OracleError(t *testing.T) {
	offered := hourSlots(time.Date(2025, 6, 3, 0, 0, 0, 0, testLoc), 9)

	_, err := resolveSelection(context.Background(), newScriptedOracle().fail(errors.New("down")), "9", "2025-06-03", offered)
	assert.ErrorIs(t, err, ErrOracleParse)
}

func TestResolveSelection_NothingOffered(t *testing.T) {
	o := newScriptedOracle(`{"slot_number": 1}`)
	_, ok := ResolveSelection(context.Background(), o, "first", "2025-06-03", nil)
	assert.False(t, ok)
	assert.Equal(t, 0, o.calls())
}

func TestNumberedSlots(t *testing.T) {
	slots := hourSlots(time.Date(2025, 6, 3, 0, 0, 0, 0, testLoc), 9, 13)
	assert.Equal(t, "1. 09:00 AM\n2. 01:00 PM", numberedSlots(slots))
	assert.Equal(t, "09:00 AM, 01:00 PM", joinSlots(slots))
}
