// Package common provides helpers shared by the MCP tool packages:
// argument extraction and the instrumentation wrapper for tool handlers.
package common
