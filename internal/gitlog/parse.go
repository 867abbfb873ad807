package gitlog

import (
	"strconv"
	"strings"
	"time"

	"github.com/statscope/statscope/schema"
)

// ProgressFunc receives best-effort (processed, total) notifications while
// a stream is parsed. Implementations must not block.
type ProgressFunc func(processed, total int)

// progressInterval is how many records pass between progress notifications.
const progressInterval = 500

// parseState tracks the two-state machine over the multiplexed stream.
type parseState int

const (
	awaitingHeader parseState = iota
	accumulatingChanges
)

// CountRecords pre-scans already-buffered log output for header markers so
// progress totals do not need a second process call.
func CountRecords(out []byte) int {
	return strings.Count(string(out), RecordSep)
}

// ParseHistory decodes a combined metadata+numstat log stream into ordered
// commits. Malformed headers and change lines are dropped silently; the
// in-progress record is flushed at stream end.
func ParseHistory(out []byte, progress ProgressFunc) []schema.Commit {
	total := CountRecords(out)
	commits := make([]schema.Commit, 0, total)

	var current *schema.Commit
	state := awaitingHeader

	flush := func() {
		if current != nil {
			commits = append(commits, *current)
			current = nil
			if progress != nil && len(commits)%progressInterval == 0 {
				progress(len(commits), total)
			}
		}
	}

	for line := range strings.Lines(string(out)) {
		line = strings.TrimRight(line, "\r\n")

		switch {
		case strings.Contains(line, RecordSep):
			flush()
			if rec, ok := parseHeader(line); ok {
				current = &schema.Commit{Record: rec}
			}
			state = accumulatingChanges

		case line == "":
			state = awaitingHeader

		case state == accumulatingChanges && strings.Contains(line, "\t"):
			if current == nil {
				continue // Change lines after a skipped header have no home
			}
			if change, ok := parseChangeLine(line); ok {
				current.FileChanges = append(current.FileChanges, change)
			}
		}
	}
	flush()

	if progress != nil {
		progress(len(commits), total)
	}
	return commits
}

// parseHeader decodes one framed header line. Records with fewer than the
// minimum required fields, or an unreadable id or author date, are skipped.
func parseHeader(line string) (schema.CommitRecord, bool) {
	header, _, _ := strings.Cut(line, RecordSep)
	fields := strings.SplitN(header, FieldSep, minHeaderFields+1)
	if len(fields) < minHeaderFields {
		return schema.CommitRecord{}, false
	}

	rec := schema.CommitRecord{
		Hash:           fields[0],
		Parents:        splitParents(fields[1]),
		AuthorName:     fields[2],
		AuthorEmail:    fields[3],
		CommitterName:  fields[5],
		CommitterEmail: fields[6],
		TreeHash:       fields[8],
	}
	if len(fields) > minHeaderFields {
		rec.Subject = fields[9]
	}
	if rec.Hash == "" {
		return schema.CommitRecord{}, false
	}

	authorDate, err := time.Parse(time.RFC3339, fields[4])
	if err != nil {
		return schema.CommitRecord{}, false
	}
	rec.AuthorDate = authorDate
	rec.TimezoneOffset = ParseOffsetMinutes(fields[4])

	// A bad committer date degrades to zero rather than dropping the record.
	if committerDate, err := time.Parse(time.RFC3339, fields[7]); err == nil {
		rec.CommitterDate = committerDate
	}

	return rec, true
}

func splitParents(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

// parseChangeLine decodes one "added\tremoved\tpath" numstat line. Lines
// without exactly three fields are skipped, as are lines whose counts are
// neither numeric nor the binary-file sentinel.
func parseChangeLine(line string) (schema.FileChange, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) != 3 {
		return schema.FileChange{}, false
	}

	added, ok := parseChangeCount(parts[0])
	if !ok {
		return schema.FileChange{}, false
	}
	removed, ok := parseChangeCount(parts[1])
	if !ok {
		return schema.FileChange{}, false
	}

	return schema.FileChange{
		Path:         parts[2],
		LinesAdded:   added,
		LinesRemoved: removed,
	}, true
}

// parseChangeCount converts a numstat count, mapping the binary-file
// sentinel "-" to zero.
func parseChangeCount(s string) (int, bool) {
	if s == "-" {
		return 0, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// ParseOffsetMinutes extracts the signed UTC offset in minutes from an
// ISO-8601 timestamp suffix. "Z" means zero; an unrecognized suffix means
// nil, which downstream treats as UTC.
func ParseOffsetMinutes(isoDate string) *int {
	if strings.HasSuffix(isoDate, "Z") {
		zero := 0
		return &zero
	}
	if len(isoDate) < 6 {
		return nil
	}

	suffix := isoDate[len(isoDate)-6:]
	if (suffix[0] != '+' && suffix[0] != '-') || suffix[3] != ':' {
		return nil
	}
	hours, err := strconv.Atoi(suffix[1:3])
	if err != nil {
		return nil
	}
	mins, err := strconv.Atoi(suffix[4:6])
	if err != nil {
		return nil
	}

	offset := hours*60 + mins
	if suffix[0] == '-' {
		offset = -offset
	}
	return &offset
}

// ParseNumstatTotals sums the added/removed counts of a bare numstat
// stream, such as diff --numstat output. Malformed lines are skipped.
func ParseNumstatTotals(out []byte) (added, removed int) {
	for line := range strings.Lines(string(out)) {
		line = strings.TrimRight(line, "\r\n")
		if change, ok := parseChangeLine(line); ok {
			added += change.LinesAdded
			removed += change.LinesRemoved
		}
	}
	return added, removed
}

// ParseTimezoneHistogram buckets one ISO author date per line by UTC
// offset minutes. Unparseable offsets land in the UTC bucket.
func ParseTimezoneHistogram(out []byte) map[int]int {
	histogram := make(map[int]int)
	for line := range strings.Lines(string(out)) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		offset := 0
		if parsed := ParseOffsetMinutes(line); parsed != nil {
			offset = *parsed
		}
		histogram[offset]++
	}
	return histogram
}
