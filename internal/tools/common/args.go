package common

import (
	"fmt"
	"strings"
)

// StringArg returns args[key] trimmed, or "" when missing or not a string.
func StringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// RequiredStringArg is StringArg that fails on an empty value.
func RequiredStringArg(args map[string]interface{}, key string) (string, error) {
	v := StringArg(args, key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}
