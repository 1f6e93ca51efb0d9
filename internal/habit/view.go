package habit

import (
	"fmt"
	"slices"
	"strings"
)

// SortMode selects the order of a habit list.
type SortMode string

const (
	SortByCreatedAt SortMode = "created"
	SortByStreak    SortMode = "streak"
)

// ParseSortMode parses a sort mode name; blank means SortByCreatedAt.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByCreatedAt:
		return SortByCreatedAt, nil
	case SortByStreak:
		return SortByStreak, nil
	}
	return "", fmt.Errorf("invalid sort mode %q (want created or streak)", s)
}

// Toggle returns the other sort mode.
func (m SortMode) Toggle() SortMode {
	if m == SortByStreak {
		return SortByCreatedAt
	}
	return SortByStreak
}

// CreatedOrder is the direction used by SortByCreatedAt.
type CreatedOrder string

const (
	NewestFirst CreatedOrder = "newest"
	OldestFirst CreatedOrder = "oldest"
)

// ParseCreatedOrder parses an order name; blank means NewestFirst.
func ParseCreatedOrder(s string) (CreatedOrder, error) {
	switch CreatedOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", NewestFirst:
		return NewestFirst, nil
	case OldestFirst:
		return OldestFirst, nil
	}
	return "", fmt.Errorf("invalid created order %q (want newest or oldest)", s)
}

// MatchCategory reports whether h belongs to filter. Matching ignores case;
// an empty filter matches everything.
func MatchCategory(h Habit, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}
	return strings.EqualFold(NormalizeCategory(h.Category), filter)
}

// Filter returns the habits matching filter, preserving order.
func Filter(habits []Habit, filter string) []Habit {
	out := make([]Habit, 0, len(habits))
	for _, h := range habits {
		if MatchCategory(h, filter) {
			out = append(out, h)
		}
	}
	return out
}

// Sort orders habits in place. Ties keep their relative order.
func Sort(habits []Habit, mode SortMode, order CreatedOrder) {
	switch mode {
	case SortByStreak:
		slices.SortStableFunc(habits, func(a, b Habit) int {
			return b.Streak - a.Streak
		})
	default:
		slices.SortStableFunc(habits, func(a, b Habit) int {
			if order == OldestFirst {
				return a.CreatedAt.Compare(b.CreatedAt)
			}
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}

// FilterAndSort returns a filtered, sorted copy of habits.
func FilterAndSort(habits []Habit, filter string, mode SortMode, order CreatedOrder) []Habit {
	out := Filter(habits, filter)
	Sort(out, mode, order)
	return out
}

// UniqueCategories returns the distinct categories in discovery order.
// Labels differing only in case are kept apart.
func UniqueCategories(habits []Habit) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range habits {
		c := NormalizeCategory(h.Category)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
