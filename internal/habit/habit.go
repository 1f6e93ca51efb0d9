// Package habit defines the habit record and the pure functions that derive
// completion state, streaks and list views from it.
package habit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultCategory is used whenever a habit has no category.
const DefaultCategory = "General"

// Categories are the preset category labels offered by pickers.
var Categories = []string{DefaultCategory, "Health", "Work", "Education", "Finance"}

// TimesOfDay are the preset time-of-day labels offered by pickers.
var TimesOfDay = []string{"Anytime", "Morning", "Afternoon", "Evening"}

var (
	ErrBlankTitle       = errors.New("title is required")
	ErrAlreadyCompleted = errors.New("already completed today")
	ErrBlankDate        = errors.New("date is required")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
	ErrDuplicateDate    = errors.New("date already in history")
	ErrDateNotFound     = errors.New("date not in history")
)

// Habit is a recurring task tracked for daily completion.
// History holds YYYY-MM-DD dates, most recent first.
type Habit struct {
	Key            string    `json:"key"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	Time           string    `json:"time,omitempty"`
	CompletedToday bool      `json:"completedToday"` // derived from History on read
	Streak         int       `json:"streak"`
	History        []string  `json:"history"`
	Info           string    `json:"info,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// New creates a habit with an empty history. It returns ErrBlankTitle when
// title is blank after trimming.
func New(key, title, category, timeLabel string, now time.Time) (Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Habit{}, ErrBlankTitle
	}
	return Habit{
		Key:       key,
		Title:     title,
		Category:  NormalizeCategory(category),
		Time:      strings.TrimSpace(timeLabel),
		History:   []string{},
		CreatedAt: now,
	}, nil
}

// Clone returns a copy that shares no backing arrays with h.
func (h Habit) Clone() Habit {
	c := h
	c.History = make([]string, len(h.History))
	copy(c.History, h.History)
	return c
}

// NormalizeCategory trims c and substitutes DefaultCategory for blanks.
func NormalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return DefaultCategory
	}
	return c
}

// Normalize applies the defaults that records written by older versions
// may lack: category, non-nil history without duplicates, and a creation
// time recovered from millisecond-timestamp keys.
func Normalize(h Habit) Habit {
	h = h.Clone()
	h.Category = NormalizeCategory(h.Category)
	if h.Streak < 0 {
		h.Streak = 0
	}

	seen := make(map[string]bool, len(h.History))
	history := h.History[:0]
	for _, d := range h.History {
		if seen[d] {
			continue
		}
		seen[d] = true
		history = append(history, d)
	}
	h.History = history

	if h.CreatedAt.IsZero() {
		if ms, err := strconv.ParseInt(h.Key, 10, 64); err == nil && ms > 1e12 {
			h.CreatedAt = time.UnixMilli(ms)
		}
	}
	return h
}

// UnmarshalJSON accepts createdAt either as an RFC 3339 string or as epoch
// milliseconds.
func (h *Habit) UnmarshalJSON(data []byte) error {
	type plain Habit
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(h)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t, err := parseCreatedAt(aux.CreatedAt)
	if err != nil {
		return fmt.Errorf("habit %q: %w", h.Key, err)
	}
	h.CreatedAt = t
	return nil
}

func parseCreatedAt(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, err
		}
		if s == "" {
			return time.Time{}, nil
		}
		return time.Parse(time.RFC3339Nano, s)
	}

	ms, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("createdAt: %w", err)
	}
	return time.UnixMilli(int64(ms)), nil
}
