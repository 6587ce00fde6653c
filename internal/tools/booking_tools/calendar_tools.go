package booking_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/slotbooker/internal/agent"
	"github.com/teemow/slotbooker/internal/tools/common"
)

// RegisterCalendarTools registers the direct slot listing and booking tools.
func RegisterCalendarTools(s *mcpserver.MCPServer, deps Deps) error {
	listTool := mcp.NewTool("calendar_list_free_slots",
		mcp.WithDescription("List free one-hour slots between 09:00 and 17:00 on a date"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date in YYYY-MM-DD format"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandler("calendar_list_free_slots", deps.Metrics, deps.Logger,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFreeSlots(ctx, request, deps)
		}))

	bookTool := mcp.NewTool("calendar_book_slot",
		mcp.WithDescription("Book a one-hour slot starting at the given local time"),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Slot start as local wall-clock time, YYYY-MM-DDTHH:MM:SS (e.g. '2025-06-03T10:00:00')"),
		),
		mcp.WithString("summary",
			mcp.Description("Event title (default: '"+agent.DefaultSummary+"')"),
		),
	)

	s.AddTool(bookTool, common.InstrumentedToolHandler("calendar_book_slot", deps.Metrics, deps.Logger,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBookSlot(ctx, request, deps)
		}))

	return nil
}

func handleListFreeSlots(ctx context.Context, request mcp.CallToolRequest, deps Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	dateStr, err := common.RequiredStringArg(args, "date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date, err := time.ParseInLocation(agent.DateLayout, dateStr, deps.Location)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid date format: %v", err)), nil
	}

	slots, err := deps.Calendar.ListFreeSlots(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list free slots: %v", err)), nil
	}

	if len(slots) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No free slots on %s.", dateStr)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Free slots on %s (%s):\n\n", dateStr, deps.Location)
	for i, slot := range slots {
		local := slot.In(deps.Location)
		fmt.Fprintf(&b, "%d. %s (start: %s)\n", i+1, local.Format(agent.DisplayLayout), local.Format(agent.SlotLayout))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func handleBookSlot(ctx context.Context, request mcp.CallToolRequest, deps Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	startStr, err := common.RequiredStringArg(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := time.ParseInLocation(agent.SlotLayout, startStr, deps.Location)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid start format: %v", err)), nil
	}

	summary := common.StringArg(args, "summary")
	if summary == "" {
		summary = deps.Summary
	}

	link, err := deps.Calendar.Book(ctx, start, summary)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to book slot: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Booked %q at %s (%s).\nEvent link: %s",
		summary, start.Format(agent.DisplayLayout), startStr, link)), nil
}
