package instrumentation

import "strings"

// Label values for request paths that did not match a known route.
const (
	PathUnmatched = "unmatched"
	PathRoot      = "/"
)

// NormalizePath bounds the cardinality of the HTTP path label. Callers
// should pass the router's matched pattern; raw request paths with query
// strings or trailing slashes are folded to the bare path, and an empty
// value becomes PathUnmatched.
//
// Example:
//
//	NormalizePath("/chat")       // "/chat"
//	NormalizePath("/chat/?x=1")  // "/chat"
//	NormalizePath("")            // "unmatched"
func NormalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return PathUnmatched
	}
	if path != PathRoot {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return PathRoot
		}
	}
	return path
}

// Operation types for Google API metrics.
const (
	OperationList   = "list"
	OperationCreate = "create"
)
