package env

import (
	"os"
	"strconv"
	"strings"
)

// Get returns the first non-empty variable among keys, or fallback.
func Get(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return fallback
}

// Bool parses the first set variable among keys. Unparseable values yield fallback.
func Bool(fallback bool, keys ...string) bool {
	raw := Get("", keys...)
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return val
}
