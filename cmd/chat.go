package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teemow/slotbooker/internal/config"
	"github.com/teemow/slotbooker/internal/server"
	"github.com/teemow/slotbooker/internal/tools/booking_tools"
)

func newChatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Hold a booking conversation in the terminal",
		Long: `Start an interactive booking conversation. Each line you type is one
turn; type "exit" or press Ctrl-D to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), cfg, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Resume a conversation by ID (default: a new random ID)")

	return cmd
}

func runChat(ctx context.Context, cfg config.Config, sessionID string, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(os.Stderr)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.shutdown(context.Background()) }()

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

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return chatLoop(ctx, turns, sessionID, in, out)
}

// chatLoop feeds each input line to turns until EOF or "exit".
func chatLoop(ctx context.Context, turns booking_tools.Turner, sessionID string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Session %s. Ask for a date to see free slots; type \"exit\" to quit.\n", sessionID)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "exit"), strings.EqualFold(line, "quit"):
			return nil
		}

		reply, err := turns.Turn(ctx, sessionID, line)
		if err != nil {
			return fmt.Errorf("turn failed: %w", err)
		}
		fmt.Fprintln(out, reply)
	}
}
