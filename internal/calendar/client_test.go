package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClientWithOptions(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func TestNewClient_NilProvider(t *testing.T) {
	_, err := NewClient(context.Background(), nil)
	assert.Error(t, err)
}

func TestClient_ListEvents(t *testing.T) {
	var query map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		query = r.URL.Query()

		page := &calendar.Events{Items: []*calendar.Event{
			{Id: "a", Start: &calendar.EventDateTime{DateTime: "2025-06-03T09:00:00Z"}},
		}}
		if r.URL.Query().Get("pageToken") == "" {
			page.NextPageToken = "next"
		} else {
			page.Items[0].Id = "b"
		}
		_ = json.NewEncoder(w).Encode(page)
	}))

	from := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	events, err := client.ListEvents(context.Background(), "primary", from, from.Add(8*time.Hour))
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "b", events[1].ID)
	assert.Equal(t, "true", query["singleEvents"][0])
	assert.Equal(t, "startTime", query["orderBy"][0])
	assert.Equal(t, "2025-06-03T09:00:00Z", query["timeMin"][0])
	assert.Equal(t, "2025-06-03T17:00:00Z", query["timeMax"][0])
}

func TestClient_ListEvents_Error(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
	}))

	_, err := client.ListEvents(context.Background(), "primary", time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list events")
}

func TestClient_CreateEvent(t *testing.T) {
	var got calendar.Event
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(&calendar.Event{
			Id:       "created",
			HtmlLink: "https://www.google.com/calendar/event?eid=created",
			Start:    got.Start,
			End:      got.End,
		})
	}))

	start := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	created, err := client.CreateEvent(context.Background(), "primary", EventInput{
		Summary:  "Meeting booked via AI Assistant",
		Start:    start,
		End:      start.Add(time.Hour),
		TimeZone: "America/Los_Angeles",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://www.google.com/calendar/event?eid=created", created.HTMLLink)
	assert.Equal(t, "Meeting booked via AI Assistant", got.Summary)
	assert.Equal(t, "2025-06-03T10:00:00", got.Start.DateTime)
	assert.Equal(t, "2025-06-03T11:00:00", got.End.DateTime)
	assert.Equal(t, "America/Los_Angeles", got.Start.TimeZone)
}
