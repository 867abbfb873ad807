package gitlog

import (
	"testing"
)

// FuzzParseHistory fuzzes the stream parser with arbitrary byte input. The
// parser must never panic and every commit it yields must carry a usable
// record.
func FuzzParseHistory(f *testing.F) {
	seeds := []string{
		"",
		"abc" + FieldSep + "" + FieldSep + "Ada" + FieldSep + "ada@x.com" + FieldSep +
			"2024-01-01T10:00:00Z" + FieldSep + "Ada" + FieldSep + "ada@x.com" + FieldSep +
			"2024-01-01T10:00:00Z" + FieldSep + "tree1" + FieldSep + "subject" + RecordSep + "\n" +
			"10\t2\tmain.go\n\n",
		"garbage without separators\n",
		RecordSep + "\n",
		"1\t2\tstray change line\n",
		"-\t-\tbinary.bin\n",
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		commits := ParseHistory(data, nil)
		for i := range commits {
			rec := &commits[i].Record
			if rec.Hash == "" {
				t.Errorf("commit %d has an empty hash", i)
			}
			if rec.AuthorDate.IsZero() {
				t.Errorf("commit %d has a zero author date", i)
			}
			for _, change := range commits[i].FileChanges {
				if change.LinesAdded < 0 || change.LinesRemoved < 0 {
					t.Errorf("commit %d has negative line counts", i)
				}
			}
		}
	})
}

// FuzzParseOffsetMinutes fuzzes the timezone suffix extraction.
func FuzzParseOffsetMinutes(f *testing.F) {
	seeds := []string{
		"2024-01-01T10:00:00Z",
		"2024-01-01T10:00:00+05:30",
		"2024-01-01T10:00:00-08:00",
		"not a date",
		"",
		"+05:30",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, isoDate string) {
		_ = ParseOffsetMinutes(isoDate)
	})
}
