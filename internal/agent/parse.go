package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractObject finds the first balanced JSON object in reply that decodes,
// ignoring code fences and any prose around it. Candidates that do not
// decode, such as braces in prose, are skipped.
func extractObject(reply string) (map[string]json.RawMessage, error) {
	s := strings.ReplaceAll(reply, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	var lastErr error
	for offset := 0; offset < len(s); {
		i := strings.IndexByte(s[offset:], '{')
		if i < 0 {
			break
		}
		start := offset + i
		offset = start + 1

		end := matchingBrace(s, start)
		if end < 0 {
			lastErr = fmt.Errorf("%w: unterminated JSON object", ErrOracleParse)
			continue
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(s[start:end+1]), &obj); err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrOracleParse, err)
			continue
		}
		return obj, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no JSON object", ErrOracleParse)
	}
	return nil, lastErr
}

// matchingBrace returns the index of the brace closing the one at start,
// or -1. Braces inside JSON strings are ignored.
func matchingBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stringField returns obj[key] as a string. Missing, null and non-string
// values yield ok=false.
func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok || strings.TrimSpace(string(raw)) == "null" {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

// intField returns obj[key] as an integer. A JSON integer or a string of
// digits is accepted; null yields present=true, ok=false.
func intField(obj map[string]json.RawMessage, key string) (n int, present bool, ok bool) {
	raw, present := obj[key]
	if !present {
		return 0, false, false
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return 0, true, false
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		trimmed = strings.TrimSpace(s)
	}

	v, err := json.Number(trimmed).Int64()
	if err != nil {
		return 0, true, false
	}
	return int(v), true, true
}
