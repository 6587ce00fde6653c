package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/slotbooker/internal/config"
	"github.com/teemow/slotbooker/internal/server"
	"github.com/teemow/slotbooker/internal/tools/booking_tools"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the booking tools over MCP stdio",
		Long: `Serve the booking tools over the Model Context Protocol on standard
input/output, for AI assistants that launch slotbooker as a subprocess.

Tools:
  booking_chat               Talk to the booking assistant
  calendar_list_free_slots   List free slots for a date
  calendar_book_slot         Book a slot directly

Logs go to stderr so they never corrupt the protocol stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runMCP(cmd.Context(), cfg)
		},
	}
}

func runMCP(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(os.Stderr)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.shutdown(context.Background()); err != nil {
			logger.Error("Error during instrumentation shutdown", "error", err)
		}
	}()

	ag, err := a.newAgent(ctx)
	if err != nil {
		return err
	}

	store, _, closeStore, err := openSessionStore(ctx, cfg.Session, a.metrics, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	turns, err := server.NewChatServer(server.ChatConfig{
		Agent:       ag,
		Store:       store,
		TurnTimeout: cfg.Server.TurnTimeout,
		Metrics:     a.metrics,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	mcpSrv := newMCPServer()
	if err := registerTools(mcpSrv, a, turns); err != nil {
		return err
	}

	return runStdioServer(mcpSrv)
}

func newMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("slotbooker", version,
		mcpserver.WithToolCapabilities(true),
	)
}

func registerTools(mcpSrv *mcpserver.MCPServer, a *app, turns booking_tools.Turner) error {
	err := booking_tools.RegisterBookingTools(mcpSrv, booking_tools.Deps{
		Turns:    turns,
		Calendar: a.calendar,
		Location: a.loc,
		Summary:  a.cfg.Calendar.Summary,
		Metrics:  a.metrics,
		Logger:   a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to register booking tools: %w", err)
	}
	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
