package booking_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/slotbooker/internal/tools/common"
)

// RegisterChatTools registers the conversational booking tool.
func RegisterChatTools(s *mcpserver.MCPServer, deps Deps) error {
	chatTool := mcp.NewTool("booking_chat",
		mcp.WithDescription("Send one message to the booking assistant. It finds free one-hour slots for a date, offers them, and books the one the user picks."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The user's message, e.g. 'Do you have anything free tomorrow?' or 'the second one'"),
		),
		mcp.WithString("session_id",
			mcp.Description("Conversation ID. Messages with the same ID share offered slots. Defaults to the MCP session."),
		),
	)

	s.AddTool(chatTool, common.InstrumentedToolHandler("booking_chat", deps.Metrics, deps.Logger,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleChat(ctx, request, deps)
		}))

	return nil
}

func handleChat(ctx context.Context, request mcp.CallToolRequest, deps Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	message, err := common.RequiredStringArg(args, "message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reply, err := deps.Turns.Turn(ctx, sessionIDFor(ctx, args), message)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to process message: %v", err)), nil
	}
	return mcp.NewToolResultText(reply), nil
}

// sessionIDFor prefers the explicit argument, then the MCP client session.
func sessionIDFor(ctx context.Context, args map[string]interface{}) string {
	if id := common.StringArg(args, "session_id"); id != "" {
		return id
	}
	if cs := mcpserver.ClientSessionFromContext(ctx); cs != nil && cs.SessionID() != "" {
		return cs.SessionID()
	}
	return DefaultSessionID
}
