package booking_tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeTurner struct {
	sessionID string
	message   string
	reply     string
	err       error
}

func (f *fakeTurner) Turn(_ context.Context, sessionID, message string) (string, error) {
	f.sessionID = sessionID
	f.message = message
	return f.reply, f.err
}

type mockCalendar struct {
	mock.Mock
}

func (m *mockCalendar) ListFreeSlots(ctx context.Context, date time.Time) ([]time.Time, error) {
	args := m.Called(ctx, date)
	slots, _ := args.Get(0).([]time.Time)
	return slots, args.Error(1)
}

func (m *mockCalendar) Book(ctx context.Context, start time.Time, summary string) (string, error) {
	args := m.Called(ctx, start, summary)
	return args.String(0), args.Error(1)
}

var testLoc = time.FixedZone("PDT", -7*3600)

func newDeps(turner Turner, cal *mockCalendar) Deps {
	d := Deps{Turns: turner, Calendar: cal, Location: testLoc}
	_ = d.validate()
	return d
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestRegisterBookingTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))

	err := RegisterBookingTools(s, Deps{})
	assert.Error(t, err)

	err = RegisterBookingTools(s, Deps{Turns: &fakeTurner{}, Calendar: &mockCalendar{}})
	assert.NoError(t, err)
}

func TestHandleChat(t *testing.T) {
	turner := &fakeTurner{reply: "I have the following slots available: 09:00 AM. Which one would you like to book?"}
	deps := newDeps(turner, &mockCalendar{})

	result, err := handleChat(context.Background(), callRequest("booking_chat", map[string]interface{}{
		"message":    "tomorrow?",
		"session_id": "s-1",
	}), deps)
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.Equal(t, turner.reply, resultText(t, result))
	assert.Equal(t, "s-1", turner.sessionID)
	assert.Equal(t, "tomorrow?", turner.message)
}

func TestHandleChat_DefaultSession(t *testing.T) {
	turner := &fakeTurner{reply: "ok"}
	deps := newDeps(turner, &mockCalendar{})

	_, err := handleChat(context.Background(), callRequest("booking_chat", map[string]interface{}{"message": "hi"}), deps)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionID, turner.sessionID)
}

func TestHandleChat_Errors(t *testing.T) {
	deps := newDeps(&fakeTurner{err: errors.New("store down")}, &mockCalendar{})

	result, err := handleChat(context.Background(), callRequest("booking_chat", map[string]interface{}{}), deps)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "message is required")

	result, err = handleChat(context.Background(), callRequest("booking_chat", map[string]interface{}{"message": "hi"}), deps)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "store down")
}

func TestHandleListFreeSlots(t *testing.T) {
	day := time.Date(2025, 6, 3, 0, 0, 0, 0, testLoc)
	cal := &mockCalendar{}
	cal.On("ListFreeSlots", mock.Anything, day).Return([]time.Time{
		time.Date(2025, 6, 3, 9, 0, 0, 0, testLoc),
		time.Date(2025, 6, 3, 13, 0, 0, 0, testLoc),
	}, nil)
	deps := newDeps(&fakeTurner{}, cal)

	result, err := handleListFreeSlots(context.Background(), callRequest("calendar_list_free_slots", map[string]interface{}{"date": "2025-06-03"}), deps)
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "1. 09:00 AM (start: 2025-06-03T09:00:00)")
	assert.Contains(t, text, "2. 01:00 PM (start: 2025-06-03T13:00:00)")
	cal.AssertExpectations(t)
}

func TestHandleListFreeSlots_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		setup   func(*mockCalendar)
		wantMsg string
		isError bool
	}{
		{name: "missing date", args: map[string]interface{}{}, wantMsg: "date is required", isError: true},
		{name: "bad date", args: map[string]interface{}{"date": "June 3"}, wantMsg: "Invalid date format", isError: true},
		{
			name:    "calendar error",
			args:    map[string]interface{}{"date": "2025-06-03"},
			setup:   func(c *mockCalendar) { c.On("ListFreeSlots", mock.Anything, mock.Anything).Return(nil, errors.New("quota")) },
			wantMsg: "Failed to list free slots: quota",
			isError: true,
		},
		{
			name:    "no slots",
			args:    map[string]interface{}{"date": "2025-06-03"},
			setup:   func(c *mockCalendar) { c.On("ListFreeSlots", mock.Anything, mock.Anything).Return([]time.Time{}, nil) },
			wantMsg: "No free slots on 2025-06-03.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := &mockCalendar{}
			if tt.setup != nil {
				tt.setup(cal)
			}
			result, err := handleListFreeSlots(context.Background(), callRequest("calendar_list_free_slots", tt.args), newDeps(&fakeTurner{}, cal))
			require.NoError(t, err)
			assert.Equal(t, tt.isError, result.IsError)
			assert.Contains(t, resultText(t, result), tt.wantMsg)
		})
	}
}

func TestHandleBookSlot(t *testing.T) {
	start := time.Date(2025, 6, 3, 10, 0, 0, 0, testLoc)
	cal := &mockCalendar{}
	cal.On("Book", mock.Anything, start, "Team sync").Return("https://calendar.example/e/1", nil)
	deps := newDeps(&fakeTurner{}, cal)

	result, err := handleBookSlot(context.Background(), callRequest("calendar_book_slot", map[string]interface{}{
		"start":   "2025-06-03T10:00:00",
		"summary": "Team sync",
	}), deps)
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "https://calendar.example/e/1")
	cal.AssertExpectations(t)
}

func TestHandleBookSlot_DefaultSummaryAndErrors(t *testing.T) {
	cal := &mockCalendar{}
	cal.On("Book", mock.Anything, mock.Anything, "Meeting booked via AI Assistant").Return("", errors.New("forbidden"))
	deps := newDeps(&fakeTurner{}, cal)

	result, err := handleBookSlot(context.Background(), callRequest("calendar_book_slot", map[string]interface{}{"start": "2025-06-03T10:00:00"}), deps)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to book slot: forbidden")

	result, err = handleBookSlot(context.Background(), callRequest("calendar_book_slot", map[string]interface{}{"start": "10am"}), deps)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Invalid start format")
}
