package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/slotbooker/internal/agent"
	"github.com/teemow/slotbooker/internal/config"
)

func newSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots <YYYY-MM-DD>",
		Short: "Print the free slots for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runSlots(cmd.Context(), cfg, args[0], cmd.OutOrStdout())
		},
	}
}

func runSlots(ctx context.Context, cfg config.Config, date string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(os.Stderr)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.shutdown(context.Background()) }()

	day, err := time.ParseInLocation(agent.DateLayout, date, a.loc)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	slots, err := a.calendar.ListFreeSlots(ctx, day)
	if err != nil {
		return err
	}
	printSlots(out, date, slots, a.loc)
	return nil
}

func printSlots(out io.Writer, date string, slots []time.Time, loc *time.Location) {
	if len(slots) == 0 {
		fmt.Fprintf(out, "No free slots on %s.\n", date)
		return
	}
	fmt.Fprintf(out, "Free slots on %s (%s):\n", date, loc)
	for i, s := range slots {
		fmt.Fprintf(out, "  %d. %s\n", i+1, s.In(loc).Format(agent.DisplayLayout))
	}
}
