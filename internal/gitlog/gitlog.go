// Package gitlog decodes the delimiter-framed text streams produced by the
// git binary: the combined per-commit metadata + numstat history log, the
// parent-edge commit graph, and numstat diffs.
package gitlog

// Private delimiters used to frame commit headers in the log stream. The
// unit separator joins the positionally-fixed header fields; the record
// separator closes the header so it can be told apart from numstat lines
// with no schema guarantee from the stream itself.
const (
	FieldSep  = "\x1f"
	RecordSep = "\x1e"
)

// HeaderFormat is the git pretty-format producing one framed header per
// commit: id, parent ids, author identity and date, committer identity and
// date, tree id and subject.
const HeaderFormat = "%H" + FieldSep + "%P" + FieldSep + "%an" + FieldSep + "%ae" + FieldSep + "%aI" + FieldSep +
	"%cn" + FieldSep + "%ce" + FieldSep + "%cI" + FieldSep + "%T" + FieldSep + "%s" + RecordSep

// minHeaderFields is the minimum field count for a header to be usable.
// The subject is allowed to be absent; everything through the tree id is
// required. Records below the minimum are skipped, not fatal.
const minHeaderFields = 9
