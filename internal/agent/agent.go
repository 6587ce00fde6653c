package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/slotbooker/internal/instrumentation"
	"github.com/teemow/slotbooker/internal/logging"
)

// DefaultSummary is the title of booked events.
const DefaultSummary = "Meeting booked via AI Assistant"

// Config configures an Agent.
type Config struct {
	// Summary is the booked event title. Defaults to DefaultSummary.
	Summary string
	// CalendarLabel is shown in the success message, usually the calendar ID.
	CalendarLabel string
	// Location is the zone dates are resolved and slots are stored in.
	// Defaults to UTC.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time

	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

// Agent runs conversation turns. It holds no per-session data and is safe
// for concurrent use; callers own the ConversationState.
type Agent struct {
	oracle   Oracle
	calendar Calendar
	summary  string
	label    string
	loc      *time.Location
	now      func() time.Time
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
}

// New creates an Agent.
func New(oracle Oracle, cal Calendar, cfg Config) (*Agent, error) {
	if oracle == nil {
		return nil, fmt.Errorf("oracle cannot be nil")
	}
	if cal == nil {
		return nil, fmt.Errorf("calendar cannot be nil")
	}
	if cfg.Summary == "" {
		cfg.Summary = DefaultSummary
	}
	if cfg.CalendarLabel == "" {
		cfg.CalendarLabel = "primary"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Agent{
		oracle:   oracle,
		calendar: cal,
		summary:  cfg.Summary,
		label:    cfg.CalendarLabel,
		loc:      cfg.Location,
		now:      cfg.Now,
		metrics:  cfg.Metrics,
		logger:   logging.WithComponent(cfg.Logger, "agent"),
	}, nil
}

// HandleTurn processes one user message against state and returns the next
// state with the reply. The input state is not modified. Failures never
// escape as errors; each degrades to a reply asking the user to try again.
func (a *Agent) HandleTurn(ctx context.Context, state ConversationState, message string) (ConversationState, string) {
	next := state.Clone()
	next.LastUserMessage = message
	next.BookingConfirmation = ""

	ctx, span := instrumentation.StartTurnSpan(ctx)
	defer span.End()

	action := Route(ctx, a.oracle, next, message)

	var (
		reply, outcome string
		turnErr        error
	)
	switch action {
	case ActionConfirmSelection:
		next, reply, outcome, turnErr = a.confirmSelection(ctx, next, message)
	default:
		next, reply, outcome, turnErr = a.queryDate(ctx, next, message)
	}

	span.SetAttributes(instrumentation.NewSpanAttributeBuilder().
		WithRoute(string(action)).
		WithOutcome(outcome).
		WithSlotCount(len(next.OfferedSlots)).
		Build()...)
	if turnErr != nil {
		instrumentation.SetSpanError(span, turnErr)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	a.metrics.RecordTurn(ctx, string(action), outcome)

	a.logger.Debug("turn handled",
		logging.Route(string(action)),
		slog.String("outcome", outcome),
		slog.Int("offered", len(next.OfferedSlots)))

	return next, reply
}

// queryDate and confirmSelection return the next state, the reply and the
// turn outcome. The error is non-nil only for calendar failures and wraps
// ErrCalendarUnavailable.
func (a *Agent) queryDate(ctx context.Context, state ConversationState, message string) (ConversationState, string, string, error) {
	date, err := extractDate(ctx, a.oracle, message, a.now().In(a.loc))
	if err != nil {
		a.logger.Debug("no date extracted", logging.Err(err))
		return state.reset(), NoDateReply, instrumentation.OutcomeNoDate, nil
	}

	day, err := time.ParseInLocation(DateLayout, date, a.loc)
	if err != nil {
		return state.reset(), NoDateReply, instrumentation.OutcomeNoDate, nil
	}

	slots, err := a.calendar.ListFreeSlots(ctx, day)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
		a.logger.Warn("calendar read failed", slog.String("date", date), logging.Err(wrapped))
		return state.reset(), calendarErrorReply(err), instrumentation.OutcomeCalendarErr, wrapped
	}
	if len(slots) == 0 {
		return state.reset(), noSlotsReply(date), instrumentation.OutcomeNoSlots, nil
	}

	state.OfferedSlots = EncodeSlots(slots, a.loc)
	state.TargetDate = date
	return state, offerReply(joinSlots(slots)), instrumentation.OutcomeOffered, nil
}

func (a *Agent) confirmSelection(ctx context.Context, state ConversationState, message string) (ConversationState, string, string, error) {
	offered, err := DecodeSlots(state.OfferedSlots, a.loc)
	if err != nil {
		a.logger.Warn("discarding unreadable offer", logging.Err(err))
		return state.reset(), FallbackReply, instrumentation.OutcomeClarify, nil
	}

	idx, err := resolveSelection(ctx, a.oracle, message, state.TargetDate, offered)
	if err != nil {
		a.logger.Debug("selection unresolved", logging.Err(err))
		if errors.Is(err, ErrNoSelection) || errors.Is(err, ErrSelectionOutOfRange) {
			return state, ClarifyReply, instrumentation.OutcomeClarify, nil
		}
		return state, ParseErrorReply, instrumentation.OutcomeClarify, nil
	}

	result, err := a.book(ctx, offered[idx])
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
		a.logger.Warn("booking failed", slog.String("slot", state.OfferedSlots[idx]), logging.Err(wrapped))
		return state.reset(), bookingErrorReply(err), instrumentation.OutcomeCalendarErr, wrapped
	}

	state = state.reset()
	state.BookingConfirmation = result.ConfirmationLink
	return state, successReply(a.label, result.ConfirmationLink), instrumentation.OutcomeBooked, nil
}

func (a *Agent) book(ctx context.Context, start time.Time) (BookingResult, error) {
	link, err := a.calendar.Book(ctx, start, a.summary)
	if err != nil {
		return BookingResult{}, err
	}
	return BookingResult{ConfirmationLink: link}, nil
}
