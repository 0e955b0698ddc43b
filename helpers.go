package main

import (
	"sort"
	"time"
)

// utcISO returns a UTC timestamp in ISO-8601 format for archive entries.
func utcISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// headerNames returns sorted header names so archive output is deterministic.
func headerNames(h map[string][]string) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
