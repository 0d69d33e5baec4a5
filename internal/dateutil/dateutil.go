// Package dateutil provides the calendar-day and ISO-week math the
// progression engine keys its windows on. Days and week starts are
// represented as "2006-01-02" strings in the local timezone, so they
// compare with plain equality.
package dateutil

import "time"

const DayLayout = "2006-01-02"

// DayKey returns the calendar-day key for t in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a day key in the local timezone. The zero time and
// false are returned for anything that is not a valid key.
func ParseDay(key string) (time.Time, bool) {
	t, err := time.ParseInLocation(DayLayout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Yesterday returns the day key immediately before key. Invalid keys
// yield an empty string.
func Yesterday(key string) string {
	t, ok := ParseDay(key)
	if !ok {
		return ""
	}
	return DayKey(t.AddDate(0, 0, -1))
}

// WeekStart returns the Monday beginning the ISO week containing t,
// truncated to midnight in t's location.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7 // Sunday belongs to the week started the previous Monday
	}
	return day.AddDate(0, 0, -(wd - 1))
}

// WeekStartKey is WeekStart as a day key.
func WeekStartKey(t time.Time) string {
	return DayKey(WeekStart(t))
}

// WeekStartOfDay returns the week-start key for a day key. Invalid
// keys yield an empty string, which never equals a real week key.
func WeekStartOfDay(key string) string {
	t, ok := ParseDay(key)
	if !ok {
		return ""
	}
	return WeekStartKey(t)
}

// WeekEnd returns the Sunday closing the ISO week containing t.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// WeekEndKey is WeekEnd as a day key.
func WeekEndKey(t time.Time) string {
	return DayKey(WeekEnd(t))
}

// NextMidnight returns the first instant of the day after t. The
// midnight scheduler sleeps until this point rather than polling.
func NextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
