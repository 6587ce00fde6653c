package booking_tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/slotbooker/internal/agent"
	"github.com/teemow/slotbooker/internal/instrumentation"
)

// DefaultSessionID is used for booking_chat calls that carry neither a
// session_id argument nor an MCP client session.
const DefaultSessionID = "default"

// Turner runs one conversation turn for a session. *server.ChatServer implements it.
type Turner interface {
	Turn(ctx context.Context, sessionID, message string) (string, error)
}

// Deps are the collaborators the booking tools need.
type Deps struct {
	Turns    Turner
	Calendar agent.Calendar
	// Location is the zone slot times are read and shown in.
	Location *time.Location
	// Summary is the default event title for calendar_book_slot.
	Summary string

	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

func (d *Deps) validate() error {
	if d.Turns == nil {
		return fmt.Errorf("turn runner is required")
	}
	if d.Calendar == nil {
		return fmt.Errorf("calendar is required")
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Summary == "" {
		d.Summary = agent.DefaultSummary
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return nil
}

// RegisterBookingTools registers all booking tools with the MCP server.
func RegisterBookingTools(s *mcpserver.MCPServer, deps Deps) error {
	if err := deps.validate(); err != nil {
		return err
	}

	if err := RegisterChatTools(s, deps); err != nil {
		return fmt.Errorf("failed to register chat tools: %w", err)
	}

	if err := RegisterCalendarTools(s, deps); err != nil {
		return fmt.Errorf("failed to register calendar tools: %w", err)
	}

	return nil
}
