package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	WithComponent(WithOperation(base, "chat.turn"), "agent").Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "chat.turn", entry[KeyOperation])
	assert.Equal(t, "agent", entry[KeyComponent])
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{"operation", Operation("calendar.book"), KeyOperation, "calendar.book"},
		{"route", Route("confirm_selection"), KeyRoute, "confirm_selection"},
		{"provider", Provider("gemini"), KeyProvider, "gemini"},
		{"tool", Tool("booking_chat"), KeyTool, "booking_chat"},
		{"status", Status(StatusSuccess), KeyStatus, "success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKey, tt.attr.Key)
			assert.Equal(t, tt.wantVal, tt.attr.Value.String())
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("calendar down"))
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, "calendar down", attr.Value.String())

	// nil yields an empty group that slog omits
	assert.Equal(t, "", Err(nil).Key)
}

func TestHashSession(t *testing.T) {
	assert.Empty(t, HashSession(""))

	h1 := HashSession("browser-tab-42")
	h2 := HashSession("browser-tab-42")
	h3 := HashSession("browser-tab-43")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.True(t, strings.HasPrefix(h1, "session:"))
	assert.Len(t, h1, len("session:")+16)
	assert.NotContains(t, h1, "browser")

	attr := Session("browser-tab-42")
	assert.Equal(t, KeySession, attr.Key)
	assert.Equal(t, h1, attr.Value.String())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is longer than ten", 10, "this is lo..."},
		{"line one\nline two", 100, "line one line two"},
		{"no limit", 0, "no limit"},
		{"héllo wörld", 5, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}

func TestStatusConstants(t *testing.T) {
	assert.Equal(t, "success", StatusSuccess)
	assert.Equal(t, "error", StatusError)
}
