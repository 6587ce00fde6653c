// Package calendar reads and books one-hour slots on a Google Calendar.
//
// Client is a thin wrapper over the Calendar v3 API. Service builds on any
// EventStore to compute free slots inside a daily working window and to book
// a chosen slot, recording metrics, spans and an audit entry per booking.
//
// Free-slot computation excludes a candidate only when an event starts at
// exactly the same instant; partial overlaps are not considered.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, tokenProvider)
//	if err != nil {
//	    return err
//	}
//	svc, err := calendar.NewService(client, calendar.ServiceConfig{Location: loc})
//	if err != nil {
//	    return err
//	}
//	slots, err := svc.ListFreeSlots(ctx, day)
package calendar
