package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/slotbooker/internal/google"
)

// Client wraps the Google Calendar service.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client authenticated through tokenProvider.
// Extra options are appended after the authenticated HTTP client.
func NewClient(ctx context.Context, tokenProvider google.TokenProvider, opts ...option.ClientOption) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	httpClient, err := google.HTTPClient(ctx, tokenProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token: %w", err)
	}

	return NewClientWithOptions(ctx, append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)...)
}

// NewClientWithOptions creates a Calendar client from raw client options.
func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListEvents lists single (expanded) events in calendarID overlapping [timeMin, timeMax),
// ordered by start time. All result pages are read.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]EventSummary, error) {
	call := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	var summaries []EventSummary
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, event := range page.Items {
			summaries = append(summaries, toEventSummary(event))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return summaries, nil
}

// CreateEvent inserts a timed event. Start and End are sent as wall-clock
// times labelled with input.TimeZone, or as RFC 3339 instants when no zone is set.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start:       eventDateTime(input.Start, input.TimeZone),
		End:         eventDateTime(input.End, input.TimeZone),
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

func eventDateTime(t time.Time, zone string) *calendar.EventDateTime {
	if zone == "" {
		return &calendar.EventDateTime{DateTime: t.Format(time.RFC3339)}
	}
	return &calendar.EventDateTime{DateTime: t.Format(SlotLayout), TimeZone: zone}
}
