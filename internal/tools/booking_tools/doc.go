// Package booking_tools provides MCP tools for the booking assistant.
//
// Available tools:
//   - booking_chat: Run one conversation turn, keyed by session
//   - calendar_list_free_slots: List free one-hour slots on a date
//   - calendar_book_slot: Book a one-hour slot directly
package booking_tools
