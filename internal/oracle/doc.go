// Package oracle wraps text-completion providers behind a single
// Complete(ctx, prompt) call.
//
// Gemini (google.golang.org/genai) and OpenAI (openai-go) are supported.
// New picks a provider from Config, adds tracing and metrics, and optionally
// caps concurrent requests. Replies are returned verbatim; callers parse them.
package oracle
