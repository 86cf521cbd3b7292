package utils

import "time"

// timestampLayout renders times the way the reports expect them:
// ISO-8601 in UTC with second precision and a literal Z suffix.
const timestampLayout = "2006-01-02T15:04:05Z"

// FormatTimestamp formats a time as an ISO-8601 UTC string with second
// precision, e.g. 2025-08-25T17:30:05Z.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// FormatTimestampPtr formats an optional time, returning the empty string
// for nil so CSV columns stay blank rather than carrying a zero time.
func FormatTimestampPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTimestamp(*t)
}
