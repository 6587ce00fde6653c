// Package logging provides structured logging utilities for the slotbooker application.
//
// Logging is done with the standard library's slog package. This package keeps
// attribute names consistent across components and sanitizes values that
// should not reach log output.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "chat.turn")
//	logger.Info("turn handled",
//	    logging.Route("query_date"),
//	    logging.Status(logging.StatusSuccess))
//
// Session ids are hashed before logging:
//
//	logger.Info("session loaded", logging.Session(sessionID))
//
// Prompt and reply previews are truncated and flattened:
//
//	logger.Debug("oracle reply", "preview", logging.Truncate(reply, 80))
package logging
