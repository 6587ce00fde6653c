package agent

import "fmt"

// Fixed replies. ClarifyReply answers an unclear or out-of-range pick.
const (
	NoDateReply     = "I'm not sure what date you'd like to book. Please specify a date like 'tomorrow' or 'this Friday'."
	ClarifyReply    = "I didn't quite understand which time you'd like. Please pick one from the list I provided."
	ParseErrorReply = "I'm having trouble understanding. Could you please specify one of the times I suggested?"
	FallbackReply   = "I'm sorry, I seem to have lost my train of thought. Could you please tell me what you'd like to do again?"
)

func offerReply(slots string) string {
	return fmt.Sprintf("I have the following slots available: %s. Which one would you like to book?", slots)
}

func noSlotsReply(date string) string {
	return fmt.Sprintf("I'm sorry, I don't have any available slots on %s. Would you like to try another date?", date)
}

func calendarErrorReply(err error) string {
	return fmt.Sprintf("I encountered an error while checking my calendar: %v. Please try again.", err)
}

func bookingErrorReply(err error) string {
	return fmt.Sprintf("I encountered an error while booking your appointment: %v. Please try again.", err)
}

func successReply(label, link string) string {
	return fmt.Sprintf("Success! The appointment has been booked on your Google Calendar (%s).\n\nYou can view the new event here: %s", label, link)
}
