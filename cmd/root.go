package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the slotbooker application
var rootCmd = &cobra.Command{
	Use:   "slotbooker",
	Short: "Conversational assistant that books free calendar slots",
	Long: `slotbooker is a chat assistant that finds free one-hour slots in a
Google Calendar and books the one the user picks.

It can run as:
  - An HTTP chat service (serve)
  - An MCP (Model Context Protocol) server for AI assistants (mcp)
  - An interactive terminal conversation (chat)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

var (
	configPath string
	debugMode  bool
	logFormat  string
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "slotbooker version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file. Can also use SLOTBOOKER_CONFIG env var.")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json. Can also use LOG_FORMAT env var.")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newSlotsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
