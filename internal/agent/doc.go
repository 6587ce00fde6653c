// Package agent implements the booking conversation.
//
// Each turn is a function of the stored ConversationState and one user
// message. The Router decides whether the message asks about a date or picks
// one of the offered slots; the date extractor and slot resolver ask an Oracle
// for a small JSON answer and treat anything unusable as "no signal". All
// calendar access goes through the Calendar interface.
package agent
