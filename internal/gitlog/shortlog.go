package gitlog

import (
	"strconv"
	"strings"
)

// ShortLogEntry is one line of the condensed per-author commit summary.
type ShortLogEntry struct {
	Commits int
	Author  string
}

// ParseShortLog decodes "count\tauthor" summary lines. Malformed lines are
// dropped; the output keeps git's ordering (most commits first).
func ParseShortLog(out []byte) []ShortLogEntry {
	var entries []ShortLogEntry
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		count, author, found := strings.Cut(line, "\t")
		if !found {
			continue
		}
		commits, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			continue
		}
		entries = append(entries, ShortLogEntry{Commits: commits, Author: strings.TrimSpace(author)})
	}
	return entries
}
