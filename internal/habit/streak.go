package habit

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the format of every date in a habit's history.
const DateLayout = "2006-01-02"

// Day returns the calendar date of t in t's location.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDay parses a strict YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// PrevDay returns the date before day, or "" if day is not a valid date.
func PrevDay(day string) string {
	t, err := ParseDay(day)
	if err != nil {
		return ""
	}
	return Day(t.AddDate(0, 0, -1))
}

// CompletedOn reports whether day is recorded in h's history.
func CompletedOn(h Habit, day string) bool {
	return slices.Contains(h.History, day)
}

// NextStreak returns the streak h would have after being completed on today:
// one more than the current streak when the newest history entry is the day
// before today, otherwise 1.
func NextStreak(h Habit, today string) int {
	if len(h.History) > 0 && h.History[0] == PrevDay(today) {
		return h.Streak + 1
	}
	return 1
}

// Complete records a completion for today and advances the streak.
func Complete(h Habit, today string) (Habit, error) {
	if CompletedOn(h, today) {
		return h, ErrAlreadyCompleted
	}
	h = h.Clone()
	h.Streak = NextStreak(h, today)
	h.History = append([]string{today}, h.History...)
	h.CompletedToday = true
	return h, nil
}

// AddCompletion prepends a back-filled date to the history. The streak is
// left untouched.
func AddCompletion(h Habit, date string) (Habit, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return h, ErrBlankDate
	}
	if _, err := ParseDay(date); err != nil {
		return h, err
	}
	if CompletedOn(h, date) {
		return h, ErrDuplicateDate
	}
	h = h.Clone()
	h.History = append([]string{date}, h.History...)
	return h, nil
}

// RemoveCompletion drops date from the history. The streak is left untouched.
func RemoveCompletion(h Habit, date string) (Habit, error) {
	date = strings.TrimSpace(date)
	i := slices.Index(h.History, date)
	if i < 0 {
		return h, ErrDateNotFound
	}
	h = h.Clone()
	h.History = slices.Delete(h.History, i, i+1)
	return h, nil
}

// ComputeStreak returns the length of the run of consecutive days ending at
// the most recent valid date in history. Invalid entries are ignored.
func ComputeStreak(history []string) int {
	days := make(map[string]bool, len(history))
	latest := ""
	for _, d := range history {
		if _, err := ParseDay(d); err != nil {
			continue
		}
		days[d] = true
		if d > latest {
			latest = d
		}
	}
	if latest == "" {
		return 0
	}

	n := 0
	for d := latest; days[d]; d = PrevDay(d) {
		n++
	}
	return n
}
