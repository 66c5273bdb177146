package middleware

import (
	"log/slog"
	"strings"
)

// OriginAllowed checks a request origin against a customer's allowed origin
// list. An empty list allows everything. Entries ending in ":*" match any
// port; a missing or "null" origin is treated as a local file:// caller.
func OriginAllowed(origin string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}

	if origin == "" || origin == "null" {
		origin = "file://"
	}

	for _, entry := range allowed {
		if matchOrigin(origin, entry) {
			return true
		}
	}

	slog.Info("origin rejected", "origin", origin)
	return false
}

func matchOrigin(origin, pattern string) bool {
	if base, ok := strings.CutSuffix(pattern, ":*"); ok {
		rest, found := strings.CutPrefix(origin, base+":")
		if !found || rest == "" {
			return false
		}
		for _, r := range rest {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return origin == pattern
}
