// Package cmd implements the command-line interface for slotbooker.
//
// This package provides the following commands:
//   - serve: Start the HTTP chat service, optionally with the MCP endpoint
//   - mcp: Serve the booking tools over MCP stdio
//   - chat: Hold a booking conversation in the terminal
//   - slots: Print the free slots for a date
//   - version: Display version information
//
// Configuration is read from an optional YAML file (--config) and then the
// environment. Command flags override both.
package cmd
