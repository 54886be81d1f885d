package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// absoluteLayouts are the explicit date/time literal formats accepted when a
// fragment is already absolute. The canonical layout comes first so canonical
// input round-trips to itself.
var absoluteLayouts = []string{
	TimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

var (
	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dmyDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	hoursAgoRe = regexp.MustCompile(`\bhá\s+(\d{1,3})\s+horas?\b|\b(\d{1,3})\s+hours?\s+ago\b`)
	daysAgoRe  = regexp.MustCompile(`\bhá\s+(\d{1,3})\s+dias?\b|\b(\d{1,3})\s+days?\s+ago\b`)

	// Clock notations, most specific first. The 24-hour "14h"/"14h30" form
	// wins over a 12-hour am/pm marker when both appear.
	hourHRe = regexp.MustCompile(`\b(\d{1,2})h(\d{2})?\b`)
	colonRe = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	amPmRe  = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	// \b is ASCII-only in RE2, so the accented "às" needs an explicit
	// start-or-space anchor instead.
	atRe = regexp.MustCompile(`(?:^|\s)às\s+(\d{1,2})\b`)
)

// dayWords maps relative day expressions to offsets from the reference
// instant. Ordered so "anteontem" is seen before its substring "ontem".
var dayWords = []struct {
	word   string
	offset int
}{
	{"anteontem", -2},
	{"day before yesterday", -2},
	{"ontem", -1},
	{"yesterday", -1},
	{"hoje", 0},
	{"today", 0},
	{"tonight", 0},
}

// periodWords maps day-period expressions to a default hour.
var periodWords = []struct {
	word string
	hour int
}{
	{"manhã", 8},
	{"morning", 8},
	{"tarde", 15},
	{"afternoon", 15},
	{"noite", 20},
	{"night", 20},
	{"evening", 20},
	{"tonight", 20},
}

// ResolveTime resolves a date/time expression against a reference instant
// into the canonical TimeLayout string. It accepts already-absolute literals
// as well as relative phrasing embedded in free text ("ontem às 14h",
// "2 hours ago"). A fragment with a time but no date inherits the reference
// date; a date with no time resolves to 00:00. Unparseable input returns
// ErrUnresolved, never an invented timestamp.
func ResolveTime(fragment string, ref time.Time) (string, error) {
	text := strings.TrimSpace(fragment)
	if text == "" {
		return "", ErrUnresolved
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format(TimeLayout), nil
		}
	}

	lower := strings.ToLower(text)

	// "há N horas" / "N hours ago" fixes date and time in one step.
	if m := hoursAgoRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(firstGroup(m))
		return ref.Add(-time.Duration(n) * time.Hour).Format(TimeLayout), nil
	}

	day, hasDay := resolveDay(lower, ref)
	hour, minute, hasClock := resolveClock(lower)

	if !hasDay && !hasClock {
		return "", ErrUnresolved
	}
	if !hasDay {
		day = ref
	}
	if !hasClock {
		hour, minute = 0, 0
	}

	resolved := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, ref.Location())
	return resolved.Format(TimeLayout), nil
}

// resolveDay finds the date component: an explicit date literal, an
// "N days ago" offset, or a relative day word.
func resolveDay(lower string, ref time.Time) (time.Time, bool) {
	if m := isoDateRe.FindStringSubmatch(lower); m != nil {
		if d, ok := makeDate(m[1], m[2], m[3], ref); ok {
			return d, true
		}
	}
	if m := dmyDateRe.FindStringSubmatch(lower); m != nil {
		if d, ok := makeDate(m[3], m[2], m[1], ref); ok {
			return d, true
		}
	}
	if m := daysAgoRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(firstGroup(m))
		return ref.AddDate(0, 0, -n), true
	}
	for _, w := range dayWords {
		if strings.Contains(lower, w.word) {
			return ref.AddDate(0, 0, w.offset), true
		}
	}
	return time.Time{}, false
}

// resolveClock finds the time-of-day component, trying notations in order of
// specificity: 24-hour "14h30", "14:00", 12-hour am/pm, "às 14", then
// day-period words.
func resolveClock(lower string) (int, int, bool) {
	for _, m := range hourHRe.FindAllStringSubmatch(lower, -1) {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if validClock(hour, minute) {
			return hour, minute, true
		}
	}
	for _, m := range colonRe.FindAllStringSubmatch(lower, -1) {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if validClock(hour, minute) {
			return hour, minute, true
		}
	}
	for _, m := range amPmRe.FindAllStringSubmatch(lower, -1) {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			continue
		}
		if m[3] == "pm" && hour != 12 {
			hour += 12
		}
		if m[3] == "am" && hour == 12 {
			hour = 0
		}
		return hour, minute, true
	}
	for _, m := range atRe.FindAllStringSubmatch(lower, -1) {
		hour, _ := strconv.Atoi(m[1])
		if validClock(hour, 0) {
			return hour, 0, true
		}
	}
	for _, p := range periodWords {
		if strings.Contains(lower, p.word) {
			return p.hour, 0, true
		}
	}
	return 0, 0, false
}

func validClock(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

// makeDate builds a date from string components, rejecting out-of-range
// values instead of letting time.Date roll them over.
func makeDate(year, month, day string, ref time.Time) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, ref.Location()), true
}

// firstGroup returns the first non-empty capture group of a match with
// alternated groups.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
