package gitlog

import "strings"

// CommitGraph is the parent-edge adjacency of a set of commits, plus the
// author key of each commit. Edges point from commit to parent.
type CommitGraph struct {
	Parents map[string][]string // commit id -> parent ids
	Authors map[string]string   // commit id -> "Name <email>"
}

// NewCommitGraph returns an empty graph.
func NewCommitGraph() *CommitGraph {
	return &CommitGraph{
		Parents: make(map[string][]string),
		Authors: make(map[string]string),
	}
}

// ParseCommitGraph decodes rev-list --parents --format output: each commit
// contributes a "commit <id> <parents...>" line followed by one author
// identity line. Lines that fit neither shape are skipped.
func ParseCommitGraph(out []byte) *CommitGraph {
	graph := NewCommitGraph()

	var lastCommit string
	for line := range strings.Lines(string(out)) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "commit "); ok {
			ids := strings.Fields(rest)
			if len(ids) == 0 {
				lastCommit = ""
				continue
			}
			lastCommit = ids[0]
			graph.Parents[lastCommit] = ids[1:]
			continue
		}

		if lastCommit != "" {
			graph.Authors[lastCommit] = line
			lastCommit = ""
		}
	}

	return graph
}
