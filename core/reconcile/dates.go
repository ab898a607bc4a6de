package reconcile

import (
	"database/sql"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// fractionalSeconds matches a seconds field followed by a fraction, which would
// otherwise be mangled when periods are removed.
var fractionalSeconds = regexp.MustCompile(`(\d:\d{2}:\d{2})\.\d+`)

// digitsOnly matches bare numbers, which dateparse would read as epoch seconds.
var digitsOnly = regexp.MustCompile(`^\d+$`)

// dayFirstLayouts are tried in order against cleaned text. Slashes are rewritten
// to dashes before matching, so only dash layouts are listed.
var dayFirstLayouts = []string{
	"2-1-2006 3:04:05 pm",
	"2-1-2006 3:04:05pm",
	"2-1-2006 3:04 pm",
	"2-1-2006 3:04pm",
	"2-1-2006 3 pm",
	"2-1-2006 3pm",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2-1-06 3:04:05 pm",
	"2-1-06 3:04 pm",
	"2-1-06 15:04:05",
	"2-1-06 15:04",
	"2-1-06",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04:05-07:00",
	"2006-1-2 15:04:05 -07:00",
	"2006-1-2 15:04:05-0700",
	"2006-1-2t15:04:05",
	"2006-1-2 3:04:05 pm",
	"2006-1-2 15:04",
	"2006-1-2t15:04",
	"2006-1-2",
	"Jan 2 2006 3:04:05 pm",
	"Jan 2 2006 3:04 pm",
	"Jan 2 2006 15:04:05",
	"Jan 2 2006 15:04",
	"Jan 2 2006",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	"2 January 2006 15:04:05",
	"2 January 2006 15:04",
	"2 January 2006",
}

// ParseDate parses free-form, day-first timestamps such as
// "16-12-2025, 12:00:00 a. m.", "01/03/25 08:00" or "1 March 2025 08:00". The
// second return value is false for empty or unparseable text.
//
// Known layouts are tried first; anything else goes through dateparse with the
// day before the month. Results carry the wall clock of the source in UTC; zone
// offsets are dropped.
func ParseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return wallClock(t), true
	}

	cleaned := cleanDateText(trimmed)
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return wallClock(t), true
		}
	}

	if digitsOnly.MatchString(trimmed) {
		return time.Time{}, false
	}
	for _, s := range []string{trimmed, cleaned} {
		if t, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false)); err == nil {
			return wallClock(t), true
		}
	}
	return time.Time{}, false
}

// cleanDateText lowercases s, drops commas and periods and folds the Spanish
// meridiem markers into "am"/"pm".
func cleanDateText(s string) string {
	s = strings.ToLower(s)
	s = fractionalSeconds.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "a m", "am")
	s = strings.ReplaceAll(s, "p m", "pm")
	s = strings.ReplaceAll(s, "/", "-")
	return strings.Join(strings.Fields(s), " ")
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func parseNullTime(raw string) sql.NullTime {
	t, ok := ParseDate(raw)
	return sql.NullTime{Time: t, Valid: ok}
}
