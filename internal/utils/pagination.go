// Package utils provides small, layer-independent helpers shared across the
// application. Nothing in here knows about tasks, users, or HTTP.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 integer, returning def when s is empty
// or not a valid integer. Handy for query-string parameters where a missing
// or malformed value should fall back to a sane default rather than error.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
